package verify

import (
	"github.com/yourusername/sharp-props/internal/models"
)

// BucketAccuracy is the hit rate for one slice of verified results.
type BucketAccuracy struct {
	Total       int     `json:"total"`
	Correct     int     `json:"correct"`
	AccuracyPct float64 `json:"accuracy_pct"`
}

// AccuracySummary aggregates verified results into an accuracy feed.
// Pushes are excluded from both the correct and incorrect tallies and from
// every denominator; the Pushes count is reported separately so downstream
// consumers can surface the exclusion.
type AccuracySummary struct {
	Total        int                                       `json:"total_predictions"`
	Correct      int                                       `json:"correct"`
	Incorrect    int                                       `json:"incorrect"`
	Pushes       int                                       `json:"pushes"`
	AccuracyPct  float64                                   `json:"accuracy_pct"`
	ByConfidence map[models.ConfidenceLabel]BucketAccuracy `json:"by_confidence"`
	ByStat       map[models.StatKey]BucketAccuracy         `json:"by_stat"`
}

// Summarize rolls verified results up into an accuracy summary, split by
// confidence label and by statistic.
func Summarize(results []*models.VerificationResult) AccuracySummary {
	summary := AccuracySummary{
		ByConfidence: make(map[models.ConfidenceLabel]BucketAccuracy),
		ByStat:       make(map[models.StatKey]BucketAccuracy),
	}

	for _, result := range results {
		if result.Correct == nil {
			summary.Pushes++
			continue
		}
		summary.Total++
		if *result.Correct {
			summary.Correct++
		} else {
			summary.Incorrect++
		}

		summary.ByConfidence[result.ConfidenceLabel] = tally(summary.ByConfidence[result.ConfidenceLabel], *result.Correct)
		summary.ByStat[result.Stat] = tally(summary.ByStat[result.Stat], *result.Correct)
	}

	if summary.Total > 0 {
		summary.AccuracyPct = float64(summary.Correct) / float64(summary.Total) * 100
	}

	return summary
}

func tally(bucket BucketAccuracy, correct bool) BucketAccuracy {
	bucket.Total++
	if correct {
		bucket.Correct++
	}
	bucket.AccuracyPct = float64(bucket.Correct) / float64(bucket.Total) * 100
	return bucket
}
