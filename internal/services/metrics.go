package services

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"casino-minigames/internal/models"
)

// Metrics counts rounds and money moved per game. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	roundsStarted   *prometheus.CounterVec
	roundsSettled   *prometheus.CounterVec
	roundsCancelled *prometheus.CounterVec
	wagered         *prometheus.CounterVec
	paidOut         *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		roundsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_rounds_started_total",
			Help: "Rounds started, by game.",
		}, []string{"game"}),
		roundsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_rounds_settled_total",
			Help: "Rounds settled, by game and result.",
		}, []string{"game", "result"}),
		roundsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_rounds_cancelled_total",
			Help: "Rounds cancelled with the bet refunded, by game.",
		}, []string{"game"}),
		wagered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_wagered_total",
			Help: "Sum of settled bets, by game.",
		}, []string{"game"}),
		paidOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_paid_out_total",
			Help: "Sum of payouts, by game.",
		}, []string{"game"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "casino_active_sessions",
			Help: "Open play sessions.",
		}),
	}

	m.registry.MustRegister(
		m.roundsStarted,
		m.roundsSettled,
		m.roundsCancelled,
		m.wagered,
		m.paidOut,
		m.activeSessions,
	)
	return m
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) roundStarted(game models.GameType) {
	if m == nil {
		return
	}
	m.roundsStarted.WithLabelValues(string(game)).Inc()
}

func (m *Metrics) roundSettled(res *models.SettlementResult) {
	if m == nil {
		return
	}
	result := "loss"
	if res.Win {
		result = "win"
	}
	game := string(res.GameType)
	m.roundsSettled.WithLabelValues(game, result).Inc()
	m.wagered.WithLabelValues(game).Add(toFloat(res.BetAmount))
	m.paidOut.WithLabelValues(game).Add(toFloat(res.Payout))
}

func (m *Metrics) roundCancelled(game models.GameType) {
	if m == nil {
		return
	}
	m.roundsCancelled.WithLabelValues(string(game)).Inc()
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
