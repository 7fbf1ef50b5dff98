package pipeline

import (
	"github.com/google/uuid"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

// Summarize computes the aggregate statistics for a finished run: label
// counts overall and per platform, the dominant label, and the agreement
// rate among records both scorers saw.
func Summarize(dataset *models.UnifiedDataset, query string, degraded bool, platformErrs map[models.Platform]string) models.Summary {
	summary := models.Summary{
		RunID:         uuid.NewString(),
		Query:         query,
		TotalRecords:  dataset.Len(),
		LabelCounts:   make(map[models.Label]int),
		PlatformStats: make(map[models.Platform]map[models.Label]int),
		Degraded:      degraded,
	}
	if len(platformErrs) > 0 {
		summary.PlatformErrs = platformErrs
	}

	agreed := 0
	for _, row := range dataset.Rows() {
		result := row.Result
		summary.LabelCounts[result.FinalLabel]++

		if summary.PlatformStats[result.Platform] == nil {
			summary.PlatformStats[result.Platform] = make(map[models.Label]int)
		}
		summary.PlatformStats[result.Platform][result.FinalLabel]++

		if result.Transformer != nil {
			summary.ScoredByBoth++
			if result.Agreement {
				agreed++
			}
		}
	}

	if summary.ScoredByBoth > 0 {
		summary.AgreementRate = float64(agreed) / float64(summary.ScoredByBoth)
	}

	summary.DominantLabel = dominantLabel(summary.LabelCounts)
	return summary
}

// dominantLabel is the mode of the final labels. Any tie for the mode
// resolves to Neutral, the lowest-confidence consensus.
func dominantLabel(counts map[models.Label]int) models.Label {
	best := models.LabelNeutral
	bestCount := -1
	tied := false

	for _, label := range models.Labels {
		n := counts[label]
		switch {
		case n > bestCount:
			best = label
			bestCount = n
			tied = false
		case n == bestCount:
			tied = true
		}
	}

	if tied {
		return models.LabelNeutral
	}
	return best
}
