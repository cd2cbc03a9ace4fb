package run

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/relex/textualize/base"
	"github.com/relex/textualize/convert"
)

// Operation labels
const (
	opConvert = "convert"
	opRestore = "restore"
)

// opMetrics counts the files of one operation, labeled by "op"
type opMetrics struct {
	filesOK     prometheus.Counter
	filesFailed prometheus.Counter
	bytesTotal  prometheus.Counter // body bytes excluding header
	linesTotal  prometheus.Counter
}

func newOpMetrics(factory *base.MetricFactory, op string) opMetrics {
	opFactory := factory.NewSubFactory("", []string{"op"}, []string{op})
	return opMetrics{
		filesOK:     opFactory.AddOrGetCounter("files_total", "Numbers of processed files", []string{"status"}, []string{"ok"}),
		filesFailed: opFactory.AddOrGetCounter("files_total", "Numbers of processed files", []string{"status"}, []string{"failed"}),
		bytesTotal:  opFactory.AddOrGetCounter("bytes_total", "Body bytes of processed files, excluding headers", nil, nil),
		linesTotal:  opFactory.AddOrGetCounter("lines_total", "Lines of binary text written or parsed", nil, nil),
	}
}

func (m opMetrics) record(result convert.Result, err error) {
	if err != nil {
		m.filesFailed.Inc()
		return
	}
	m.filesOK.Inc()
	m.bytesTotal.Add(float64(result.BodyBytes))
	m.linesTotal.Add(float64(result.Lines))
}
