package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ChatTurns                *prometheus.CounterVec
	GuestLimitHits           prometheus.Counter
	LLMFailures              prometheus.Counter
	CollaborationTransitions *prometheus.CounterVec
	EventsDelivered          *prometheus.CounterVec
}

var (
	once   sync.Once
	global *Metrics
)

func Global() *Metrics {
	once.Do(func() {
		global = &Metrics{
			ChatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "chatshare",
				Name:      "chat_turns_total",
				Help:      "Total answered chat turns by actor (user or guest)",
			}, []string{"actor"}),
			GuestLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "chatshare",
				Name:      "guest_limit_hits_total",
				Help:      "Total guest requests refused by the usage limit",
			}),
			LLMFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "chatshare",
				Name:      "llm_failures_total",
				Help:      "Total chat turns that failed at the LLM provider",
			}),
			CollaborationTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "chatshare",
				Name:      "collaboration_transitions_total",
				Help:      "Total collaboration state transitions",
			}, []string{"transition"}),
			EventsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "chatshare",
				Name:      "events_delivered_total",
				Help:      "Total domain events handled by the notification consumer",
			}, []string{"channel", "result"}),
		}
		prometheus.MustRegister(
			global.ChatTurns,
			global.GuestLimitHits,
			global.LLMFailures,
			global.CollaborationTransitions,
			global.EventsDelivered,
		)
	})
	return global
}
