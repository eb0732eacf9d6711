// internal/metrics/metrics.go
//
// Prometheus metrics for the game engine and HTTP layer, registered on
// the default registry and served from /metrics.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GuessesTotal counts every guess recorded by the engine.
	GuessesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftword_guesses_total",
		Help: "Total number of guesses submitted",
	})

	// WinsTotal counts sessions ending in a correct guess.
	WinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftword_wins_total",
		Help: "Total number of sessions won",
	})

	// LossesTotal counts sessions ending with attempts exhausted.
	LossesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftword_losses_total",
		Help: "Total number of sessions lost",
	})

	// HintFallbacksTotal counts hint selections where the strict pass
	// found nothing and the distance floors were dropped.
	HintFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftword_hint_fallbacks_total",
		Help: "Hint selections that fell back past the distance constraints",
	})

	// HintExhaustedTotal counts hint selections that returned the
	// "unknown" sentinel — the vocabulary was exhausted by exclusions.
	HintExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftword_hint_exhausted_total",
		Help: "Hint selections that exhausted the vocabulary",
	})

	// VocabularySize reports the usable word count of the active table.
	VocabularySize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "driftword_vocabulary_size",
		Help: "Number of usable words in the active embedding table",
	})
)
