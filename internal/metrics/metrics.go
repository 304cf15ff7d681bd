package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/junbin-yang/go-vendkit/pkg/dispenser"
)

// Collector 以 Prometheus 指标记录售货机操作结果，实现 dispenser.Observer
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	dispensed  prometheus.Counter
	inventory  prometheus.Gauge
	state      *prometheus.GaugeVec
}

// New 创建指标收集器并注册到独立 registry
func New(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Operations applied to the dispenser by operation and outcome.",
			},
			[]string{"operation", "result", "reason"},
		),
		dispensed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispensed_units_total",
			Help:      "Units released from inventory.",
		}),
		inventory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_units",
			Help:      "Units currently held in inventory.",
		}),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "state",
				Help:      "1 for the current machine state, 0 otherwise.",
			},
			[]string{"state"},
		),
	}
	c.registry.MustRegister(c.operations, c.dispensed, c.inventory, c.state)
	return c
}

// Init 以初始快照设置仪表值
func (c *Collector) Init(s dispenser.Snapshot) {
	c.inventory.Set(float64(s.Inventory))
	c.setState(s.State)
}

// OnResult 实现 dispenser.Observer
func (c *Collector) OnResult(from dispenser.State, r dispenser.Result) {
	result := "accepted"
	if !r.Accepted {
		result = "rejected"
	}
	c.operations.WithLabelValues(r.Operation.String(), result, r.Reason.String()).Inc()

	if r.Accepted && r.Operation == dispenser.Dispense {
		c.dispensed.Inc()
	}
	c.inventory.Set(float64(r.Inventory))
	c.setState(r.State)
}

func (c *Collector) setState(current dispenser.State) {
	for _, s := range dispenser.States() {
		v := 0.0
		if s == current {
			v = 1
		}
		c.state.WithLabelValues(s.String()).Set(v)
	}
}

// Registry 返回指标 registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler 返回 /metrics 处理器
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
