package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DenormalizationFailures counts secondary writes that failed and were
	// not propagated to the caller.
	DenormalizationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mateswap_denormalization_failures_total",
		Help: "Secondary writes that failed after the primary write succeeded",
	}, []string{"op"})

	// ContactSellerOutcomes counts contact-seller calls by result:
	// created, existing, repaired, rejected, failed.
	ContactSellerOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mateswap_contact_seller_total",
		Help: "Contact seller calls by outcome",
	}, []string{"outcome"})

	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mateswap_messages_sent_total",
		Help: "Chat messages written by kind",
	}, []string{"kind"})

	WalletSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mateswap_wallet_submissions_total",
		Help: "Wallet address submissions by result",
	}, []string{"result"})

	LogoCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mateswap_channel_logo_cache_total",
		Help: "Channel logo cache lookups by result: hit, miss, negative_hit, error",
	}, []string{"result"})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mateswap_websocket_connections",
		Help: "Open websocket connections",
	})
)

// DenormalizationFailed records a swallowed secondary write failure.
func DenormalizationFailed(op string) {
	DenormalizationFailures.WithLabelValues(op).Inc()
}
