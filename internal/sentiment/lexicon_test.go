package sentiment

import (
	"math"
	"testing"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const proportionTolerance = 1e-6

func TestLexiconScore_PositiveText(t *testing.T) {
	ls := NewLexiconScorer()
	score := ls.Score(models.CleanText{Normalized: "i love this phone, it is excellent and wonderful"})

	if score.Label != models.LabelPositive {
		t.Fatalf("expected positive label, got %s (compound %f)", score.Label, score.Compound)
	}
	if score.Compound < models.PositiveThreshold {
		t.Fatalf("expected compound >= %f, got %f", models.PositiveThreshold, score.Compound)
	}
}

func TestLexiconScore_NegativeText(t *testing.T) {
	ls := NewLexiconScorer()
	score := ls.Score(models.CleanText{Normalized: "i hate this, it is terrible and awful"})

	if score.Label != models.LabelNegative {
		t.Fatalf("expected negative label, got %s (compound %f)", score.Label, score.Compound)
	}
	if score.Compound > models.NegativeThreshold {
		t.Fatalf("expected compound <= %f, got %f", models.NegativeThreshold, score.Compound)
	}
}

func TestLexiconScore_ProportionsSumToOne(t *testing.T) {
	ls := NewLexiconScorer()
	texts := []string{
		"i love this phone, it is excellent and wonderful",
		"i hate this, it is terrible and awful",
		"the package arrived on tuesday",
	}

	for _, text := range texts {
		score := ls.Score(models.CleanText{Normalized: text})
		sum := score.Pos + score.Neu + score.Neg
		if math.Abs(sum-1) > proportionTolerance {
			t.Errorf("Score(%q): proportions sum to %f, expected 1", text, sum)
		}
	}
}

func TestLexiconScore_LabelMatchesThresholds(t *testing.T) {
	ls := NewLexiconScorer()
	texts := []string{
		"absolutely fantastic experience",
		"worst purchase i have ever made",
		"it exists and it is a product",
	}

	for _, text := range texts {
		score := ls.Score(models.CleanText{Normalized: text})
		if want := models.LabelForCompound(score.Compound); score.Label != want {
			t.Errorf("Score(%q): label %s inconsistent with compound %f (want %s)", text, score.Label, score.Compound, want)
		}
	}
}

func TestLexiconScore_Deterministic(t *testing.T) {
	ls := NewLexiconScorer()
	clean := models.CleanText{Normalized: "not bad at all, really quite good"}

	first := ls.Score(clean)
	second := ls.Score(clean)
	if first != second {
		t.Fatalf("expected identical scores, got %+v and %+v", first, second)
	}
}

func TestLexiconScore_EmptyInputIsNeutral(t *testing.T) {
	ls := NewLexiconScorer()
	score := ls.Score(models.CleanText{Normalized: ""})

	if score.Label != models.LabelNeutral {
		t.Fatalf("expected neutral label for empty input, got %s", score.Label)
	}
	if score.Compound != 0 {
		t.Fatalf("expected zero compound for empty input, got %f", score.Compound)
	}
	if score.Neu != 1 || score.Pos != 0 || score.Neg != 0 {
		t.Fatalf("expected all proportion mass on neu, got %+v", score)
	}
}

func TestLabelForCompound_Thresholds(t *testing.T) {
	cases := []struct {
		compound float64
		want     models.Label
	}{
		{0.05, models.LabelPositive},
		{0.9, models.LabelPositive},
		{0.049, models.LabelNeutral},
		{0, models.LabelNeutral},
		{-0.049, models.LabelNeutral},
		{-0.05, models.LabelNegative},
		{-0.9, models.LabelNegative},
	}

	for _, c := range cases {
		if got := models.LabelForCompound(c.compound); got != c.want {
			t.Errorf("LabelForCompound(%f) = %s, want %s", c.compound, got, c.want)
		}
	}
}
