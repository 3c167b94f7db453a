package metricmgr

import (
	"errors"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type MetricMgr interface {
	// Increment metric
	IncrementMetric(metric Metric, value int32) error
	// Retreive Metric
	GetMetric(metric Metric) (float64, bool)
	// current value of every metric
	Snapshot() map[Metric]float64
	// registry the counters are registered on
	Registry() *prometheus.Registry
	// set metric
	setMetric(metric Metric, counter prometheus.Counter) error
}

type _MetricMgr struct {
	registry *prometheus.Registry
	metrics  map[Metric]prometheus.Counter
}

func Init() MetricMgr {
	metricMgr := NewMetricMgr()
	// initialize all metrics to 0 and register them
	for _, metric := range allMetrics {
		counter := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      string(metric),
			Help:      metricHelp[metric],
		})
		if err := metricMgr.setMetric(metric, counter); err != nil {
			log.Printf("failed to set metric [%s] : %v\n", metric, err)
		}
	}
	return metricMgr
}

func NewMetricMgr() MetricMgr {
	return &_MetricMgr{
		registry: prometheus.NewRegistry(),
		metrics:  make(map[Metric]prometheus.Counter),
	}
}

func (m *_MetricMgr) IncrementMetric(metric Metric, value int32) error {
	counter, ok := m.metrics[metric]
	if !ok {
		return errors.New("metric " + string(metric) + " not found")
	}
	if value < 0 {
		return errors.New("metric " + string(metric) + " cannot be decremented")
	}
	counter.Add(float64(value))
	return nil
}

func (m *_MetricMgr) GetMetric(metric Metric) (float64, bool) {
	counter, ok := m.metrics[metric]
	if !ok {
		log.Printf("Metric %s not found\n", metric)
		return 0, false
	}
	var out dto.Metric
	if err := counter.Write(&out); err != nil {
		log.Printf("failed to read metric [%s] : %v\n", metric, err)
		return 0, false
	}
	return out.GetCounter().GetValue(), true
}

func (m *_MetricMgr) Snapshot() map[Metric]float64 {
	snapshot := make(map[Metric]float64, len(m.metrics))
	for metric := range m.metrics {
		value, _ := m.GetMetric(metric)
		snapshot[metric] = value
	}
	return snapshot
}

func (m *_MetricMgr) Registry() *prometheus.Registry {
	return m.registry
}

func (m *_MetricMgr) setMetric(metric Metric, counter prometheus.Counter) error {
	if _, ok := m.metrics[metric]; ok {
		return errors.New("metric " + string(metric) + " already exists")
	}
	if err := m.registry.Register(counter); err != nil {
		return err
	}
	m.metrics[metric] = counter
	return nil
}
