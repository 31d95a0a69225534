package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	InterestRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockfundz_interest_runs_total",
		Help: "Number of interest accrual batch runs.",
	})

	InterestSubscriptionsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockfundz_interest_subscriptions_processed_total",
		Help: "Number of subscriptions credited by the accrual job.",
	})

	InterestCreditedUSD = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockfundz_interest_credited_usd_total",
		Help: "Total USD credited as investment interest.",
	})

	PriceSourceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blockfundz_price_source_failures_total",
		Help: "Number of failed external price source calls.",
	})

	PriceTierServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockfundz_price_tier_served_total",
		Help: "Price lookups served, partitioned by cache tier.",
	}, []string{"tier"})
)

// Handler exposes the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
