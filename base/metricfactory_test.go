package base

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricFactory(t *testing.T) {
	mfactory := NewMetricFactory("testmetricfactory_", []string{"test"}, []string{"TestMetricFactory"}, prometheus.NewRegistry())
	mfactory.AddOrGetCounter("mycounter", "Help mycounter", []string{"name"}, []string{"foo"}).Add(3)
	mfactory.AddOrGetCounter("mycounter", "Help mycounter", []string{"name"}, []string{"foo"}).Add(4)
	mfactory.AddOrGetCounterVec("mycountervec", "Help mycountervec", []string{"category"}, nil).WithLabelValues("book").Add(5)
	subfactory := mfactory.NewSubFactory("child1_", []string{"type"}, []string{"file"})
	subfactory.AddOrGetGaugeVec("childgaugevec", "Help childgaugevec", []string{"class"}, nil).WithLabelValues("X").Add(14)
	subfactory.AddOrGetGaugeVec("childgaugevec", "Help childgaugevec", []string{"class"}, nil).WithLabelValues("X").Add(1)
	subfactory.AddOrGetGaugeVec("childgaugevec", "Help childgaugevec", []string{"class"}, nil).WithLabelValues("Y").Add(16)
	metrics, merr := mfactory.DumpMetrics(true)
	assert.Nil(t, merr)
	assert.Equal(t, `testmetricfactory_child1_childgaugevec{class="X",test="TestMetricFactory",type="file"} 15
testmetricfactory_child1_childgaugevec{class="Y",test="TestMetricFactory",type="file"} 16
testmetricfactory_mycounter{name="foo",test="TestMetricFactory"} 7
testmetricfactory_mycountervec{category="book",test="TestMetricFactory"} 5
`, metrics)
}

func TestMetricFactoryZeroValues(t *testing.T) {
	mfactory := NewMetricFactory("testzero_", nil, nil, nil)
	mfactory.AddOrGetCounter("idle_total", "Help idle", nil, nil)
	mfactory.AddOrGetCounter("busy_total", "Help busy", nil, nil).Inc()

	withZero, err := mfactory.DumpMetrics(true)
	assert.Nil(t, err)
	assert.Equal(t, "testzero_busy_total 1\ntestzero_idle_total 0\n", withZero)

	withoutZero, err := mfactory.DumpMetrics(false)
	assert.Nil(t, err)
	assert.Equal(t, "testzero_busy_total 1\n", withoutZero)
}
