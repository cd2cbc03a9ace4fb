package base

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/relex/gotils/logger"
)

// MetricFactory manages Prometheus metrics
type MetricFactory struct {
	namePrefix        string
	parentLabelNames  []string
	parentLabelValues []string
	registerer        prometheus.Registerer
	registryLock      *sync.Mutex
	registry          map[string]prometheus.Collector
}

// NewMetricFactory creates a factory with prefix for metrics names and fixed labels for all metrics created from this new factory
//
// Metrics are registered into the given registerer, or not registered anywhere if it's nil
func NewMetricFactory(prefix string, labelNames []string, labelValues []string, registerer prometheus.Registerer) *MetricFactory {
	if len(labelNames) != len(labelValues) {
		logger.Panicf("different len of labelNames (%s) and labelValues (%s)",
			strings.Join(labelNames, ","), strings.Join(labelValues, ","))
	}
	return &MetricFactory{
		namePrefix:        prefix,
		parentLabelNames:  labelNames,
		parentLabelValues: labelValues,
		registerer:        registerer,
		registryLock:      &sync.Mutex{},
		registry:          make(map[string]prometheus.Collector, 10),
	}
}

// NewSubFactory creates a sub-factory which inherits the parent's prefix and fixed labels,
// with more prefix and fixed labels added to all metrics created from this new sub-factory
func (factory *MetricFactory) NewSubFactory(prefix string, labelNames []string, labelValues []string) *MetricFactory {
	fullPrefix, allLabelNames, allLabelValues := factory.concatNameAndLabels(prefix, labelNames, labelValues)
	return &MetricFactory{
		namePrefix:        fullPrefix,
		parentLabelNames:  allLabelNames,
		parentLabelValues: allLabelValues,
		registerer:        factory.registerer,
		registryLock:      factory.registryLock,
		registry:          factory.registry,
	}
}

// AddOrGetCounter adds or gets a counter
func (factory *MetricFactory) AddOrGetCounter(name string, help string, labelNames []string, labelValues []string) prometheus.Counter {
	if len(labelNames) != len(labelValues) {
		logger.Panicf("different lengths of labelNames (%s) and labelValues (%s)",
			strings.Join(labelNames, ","), strings.Join(labelValues, ","))
	}
	return factory.AddOrGetCounterVec(name, help, labelNames, labelValues).WithLabelValues()
}

// AddOrGetCounterVec adds or gets a counter-vec with leftmost label values
func (factory *MetricFactory) AddOrGetCounterVec(name string, help string, labelNames []string, leftmostLabelValues []string) *prometheus.CounterVec {
	fullName, allLabelNames, allLeftmostLabelValues := factory.concatNameAndLabels(name, labelNames, leftmostLabelValues)

	factory.registryLock.Lock()
	var counterVec *prometheus.CounterVec
	if metricVec, ok := factory.registry[fullName]; ok {
		counterVec = metricVec.(*prometheus.CounterVec)
	} else {
		counterOpts := prometheus.CounterOpts{}
		counterOpts.Name = fullName
		counterOpts.Help = help
		counterVec = prometheus.NewCounterVec(counterOpts, allLabelNames)
		factory.registry[fullName] = counterVec
		factory.register(fullName, counterVec)
	}
	factory.registryLock.Unlock()

	curryLabels := buildLabels(allLabelNames, allLeftmostLabelValues)
	curriedCounterVec, cerr := counterVec.CurryWith(curryLabels)
	if cerr != nil {
		logger.Panicf("failed to curry counter-vec '%s' with %s: %s", fullName, curryLabels, cerr.Error())
	}
	return curriedCounterVec
}

// AddOrGetGaugeVec adds or gets a gauge-vec with leftmost label values
func (factory *MetricFactory) AddOrGetGaugeVec(name string, help string, labelNames []string, leftmostLabelValues []string) *prometheus.GaugeVec {
	fullName, allLabelNames, allLeftmostLabelValues := factory.concatNameAndLabels(name, labelNames, leftmostLabelValues)

	factory.registryLock.Lock()
	var gaugeVec *prometheus.GaugeVec
	if metricVec, ok := factory.registry[fullName]; ok {
		gaugeVec = metricVec.(*prometheus.GaugeVec)
	} else {
		gaugeOpts := prometheus.GaugeOpts{}
		gaugeOpts.Name = fullName
		gaugeOpts.Help = help
		gaugeVec = prometheus.NewGaugeVec(gaugeOpts, allLabelNames)
		factory.registry[fullName] = gaugeVec
		factory.register(fullName, gaugeVec)
	}
	factory.registryLock.Unlock()

	curryLabels := buildLabels(allLabelNames, allLeftmostLabelValues)
	curriedGaugeVec, cerr := gaugeVec.CurryWith(curryLabels)
	if cerr != nil {
		logger.Panicf("failed to curry gauge-vec '%s' with %s: %s", fullName, curryLabels, cerr.Error())
	}
	return curriedGaugeVec
}

// DumpMetrics dumps all metrics created in this factory and derived sub-factories into the .prom text format without comments
func (factory *MetricFactory) DumpMetrics(includeZeroValues bool) (string, error) {
	gatherer, err := func() (*prometheus.Registry, error) {
		g := prometheus.NewPedanticRegistry()
		factory.registryLock.Lock()
		defer factory.registryLock.Unlock()
		for name, vec := range factory.registry {
			if !strings.HasPrefix(name, factory.namePrefix) {
				continue
			}
			if err := g.Register(vec); err != nil {
				return nil, fmt.Errorf("failed to add metric '%s' to gatherer: %w", name, err)
			}
		}
		return g, nil
	}()
	if err != nil {
		return "", err
	}
	metricFamilies, err := gatherer.Gather()
	if err != nil {
		return "", fmt.Errorf("failed to gather metrics: %w", err)
	}
	writer := &bytes.Buffer{}
	for _, mf := range metricFamilies {
		if _, err := expfmt.MetricFamilyToText(writer, mf); err != nil {
			return "", fmt.Errorf("failed to export '%s': %w", mf.GetName(), err)
		}
	}
	lines := strings.Split(writer.String(), "\n")
	linesFiltered := make([]string, 0, len(lines)/2)
	for _, ln := range lines {
		if strings.HasPrefix(ln, "#") {
			continue
		}
		if !includeZeroValues && strings.HasSuffix(ln, " 0") {
			continue
		}
		linesFiltered = append(linesFiltered, ln)
	}
	return strings.Join(linesFiltered, "\n"), nil
}

func (factory *MetricFactory) register(fullName string, collector prometheus.Collector) {
	if factory.registerer == nil {
		return
	}
	if err := factory.registerer.Register(collector); err != nil {
		logger.Panicf("failed to register metric '%s': %s", fullName, err.Error())
	}
}

func (factory *MetricFactory) concatNameAndLabels(name string, labelNames []string, leftmostLabelValues []string) (string, []string, []string) {
	if len(labelNames) < len(leftmostLabelValues) {
		logger.Panicf("length of labelNames (%s) should be equal or greater than length of leftmostLabelValues (%s)",
			strings.Join(labelNames, ","), strings.Join(leftmostLabelValues, ","))
	}
	fullName := factory.namePrefix + name
	allLabelNames := append(append([]string(nil), factory.parentLabelNames...), labelNames...)
	allLeftmostLabelValues := append(append([]string(nil), factory.parentLabelValues...), leftmostLabelValues...)
	return fullName, allLabelNames, allLeftmostLabelValues
}

func buildLabels(labelNames []string, leftmostLabelValues []string) prometheus.Labels {
	labelMap := make(prometheus.Labels, len(leftmostLabelValues))
	for i, value := range leftmostLabelValues {
		labelMap[labelNames[i]] = value
	}
	return labelMap
}
