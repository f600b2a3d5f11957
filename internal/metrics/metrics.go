package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crmsync"

// Outcome labels
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomePartial = "partial"
	OutcomeNoop    = "noop"
)

var (
	TokenExchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_exchanges_total",
		Help:      "Grant exchanges against the authorization server.",
	}, []string{"grant_type", "outcome"})

	CRMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "crm_requests_total",
		Help:      "Outbound CRM API requests.",
	}, []string{"method", "outcome"})

	Reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciliations_total",
		Help:      "Contact to event association reconciliations.",
	}, []string{"outcome"})

	AssociationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "associations_created_total",
		Help:      "Contact to event associations created.",
	})

	Webhooks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhooks_total",
		Help:      "Inbound webhook deliveries by kind and outcome.",
	}, []string{"kind", "outcome"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
