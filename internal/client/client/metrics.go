package client

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "usuarios_client"

// Metrics holds the API client's Prometheus collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// already present in reg are reused.
//
// Labels:
//   - op: logical call name (login, register, get_user, update_user, delete_user)
//   - code: HTTP status code, or "error" when no response was received
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of usuarios API calls, by operation and status code.",
		}, []string{"op", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Latency of usuarios API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	if err := reg.Register(m.requests); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.requests = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return m, nil
}

func (m *Metrics) observe(op string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status != 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(op, code).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// CallCounts reads the request counter back from g as op -> code -> count.
func CallCounts(g prometheus.Gatherer) (map[string]map[string]float64, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, err
	}

	out := map[string]map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != namespace+"_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var op, code string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "op":
					op = lp.GetValue()
				case "code":
					code = lp.GetValue()
				}
			}
			if out[op] == nil {
				out[op] = map[string]float64{}
			}
			out[op][code] = m.GetCounter().GetValue()
		}
	}
	return out, nil
}
