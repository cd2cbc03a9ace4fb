package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/relex/gotils/logger"
	"github.com/relex/textualize/base"
	"github.com/relex/textualize/cmd"
	"github.com/relex/textualize/defs"
)

var version string

func main() {
	logger.Debugf("version: %s", version)

	registerInfoMetric()

	cmd.Execute()
}

func registerInfoMetric() {
	factory := base.NewMetricFactory(defs.MetricPrefix, nil, nil, prometheus.DefaultRegisterer)
	factory.AddOrGetGaugeVec("info", "textualize application information", []string{"version"}, []string{version}).WithLabelValues().Set(1)
}
