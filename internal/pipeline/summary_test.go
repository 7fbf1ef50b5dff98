package pipeline

import (
	"testing"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

func datasetWithLabels(labels ...models.Label) *models.UnifiedDataset {
	dataset := models.NewUnifiedDataset()
	for i, label := range labels {
		record := models.RawRecord{ID: string(rune('a' + i)), Platform: models.PlatformReddit, Text: "x"}
		dataset.Append(record, models.ReconciledResult{
			RecordID:   record.ID,
			Platform:   record.Platform,
			FinalLabel: label,
		})
	}
	return dataset
}

func TestSummarize_DominantLabel(t *testing.T) {
	summary := Summarize(datasetWithLabels(
		models.LabelPositive, models.LabelPositive, models.LabelNegative,
	), "q", false, nil)

	if summary.DominantLabel != models.LabelPositive {
		t.Fatalf("expected positive dominant, got %s", summary.DominantLabel)
	}
	if summary.LabelCounts[models.LabelPositive] != 2 {
		t.Fatalf("unexpected counts: %+v", summary.LabelCounts)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run id")
	}
}

func TestSummarize_TieBreaksToNeutral(t *testing.T) {
	summary := Summarize(datasetWithLabels(
		models.LabelPositive, models.LabelNegative,
	), "q", false, nil)

	if summary.DominantLabel != models.LabelNeutral {
		t.Fatalf("expected neutral on a tie, got %s", summary.DominantLabel)
	}
}

func TestSummarize_AgreementRateCountsOnlyDualScored(t *testing.T) {
	dataset := models.NewUnifiedDataset()
	tr := &models.TransformerScore{Label: models.LabelPositive, Confidence: 0.8}

	dataset.Append(models.RawRecord{ID: "1", Platform: models.PlatformReddit, Text: "x"},
		models.ReconciledResult{RecordID: "1", Platform: models.PlatformReddit, FinalLabel: models.LabelPositive, Transformer: tr, Agreement: true})
	dataset.Append(models.RawRecord{ID: "2", Platform: models.PlatformReddit, Text: "x"},
		models.ReconciledResult{RecordID: "2", Platform: models.PlatformReddit, FinalLabel: models.LabelPositive, Transformer: tr})
	dataset.Append(models.RawRecord{ID: "3", Platform: models.PlatformSocialX, Text: "x"},
		models.ReconciledResult{RecordID: "3", Platform: models.PlatformSocialX, FinalLabel: models.LabelNeutral})

	summary := Summarize(dataset, "q", false, nil)

	if summary.ScoredByBoth != 2 {
		t.Fatalf("expected 2 dual-scored records, got %d", summary.ScoredByBoth)
	}
	if summary.AgreementRate != 0.5 {
		t.Fatalf("expected rate 0.5, got %f", summary.AgreementRate)
	}
	if summary.PlatformStats[models.PlatformSocialX][models.LabelNeutral] != 1 {
		t.Fatalf("unexpected per-platform stats: %+v", summary.PlatformStats)
	}
}

func TestSummarize_EmptyDataset(t *testing.T) {
	summary := Summarize(models.NewUnifiedDataset(), "q", true, map[models.Platform]string{
		models.PlatformMarketplace: "blocked",
	})

	if summary.TotalRecords != 0 {
		t.Fatalf("expected zero records, got %d", summary.TotalRecords)
	}
	if summary.DominantLabel != models.LabelNeutral {
		t.Fatalf("expected neutral for an empty run, got %s", summary.DominantLabel)
	}
	if !summary.Degraded {
		t.Fatal("expected degradation carried into the summary")
	}
	if summary.PlatformErrs[models.PlatformMarketplace] != "blocked" {
		t.Fatalf("expected platform errors retained, got %+v", summary.PlatformErrs)
	}
}

func TestSummaryStats_Flattening(t *testing.T) {
	summary := Summarize(datasetWithLabels(models.LabelPositive), "phones", false, nil)
	stats := summary.Stats()

	if stats["query"] != "phones" {
		t.Fatalf("expected query in stats, got %v", stats["query"])
	}
	if stats["dominant_label"] != "positive" {
		t.Fatalf("expected dominant label, got %v", stats["dominant_label"])
	}
	if stats["count_positive"] != 1 {
		t.Fatalf("expected positive count, got %v", stats["count_positive"])
	}
	if stats["count_reddit_positive"] != 1 {
		t.Fatalf("expected per-platform count, got %v", stats["count_reddit_positive"])
	}
}
