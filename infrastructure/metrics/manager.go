package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager interface {
	SetGauge(name string, value float64)
	IncCounter(name string)
	AddCounter(name string, delta float64)
}

type prometheusManager struct {
	namespace string

	mu       sync.Mutex
	gauges   map[string]prometheus.Gauge
	counters map[string]prometheus.Counter
}

func NewManager(namespace string) Manager {
	return &prometheusManager{
		namespace: namespace,
		gauges:    make(map[string]prometheus.Gauge),
		counters:  make(map[string]prometheus.Counter),
	}
}

func (m *prometheusManager) SetGauge(name string, value float64) {
	m.gauge(name).Set(value)
}

func (m *prometheusManager) IncCounter(name string) {
	m.counter(name).Inc()
}

func (m *prometheusManager) AddCounter(name string, delta float64) {
	if delta <= 0 {
		return
	}
	m.counter(name).Add(delta)
}

func (m *prometheusManager) gauge(name string) prometheus.Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.gauges[name]
	if !ok {
		g = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      name,
		})
		m.gauges[name] = g
	}
	return g
}

func (m *prometheusManager) counter(name string) prometheus.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[name]
	if !ok {
		c = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      name,
		})
		m.counters[name] = c
	}
	return c
}
