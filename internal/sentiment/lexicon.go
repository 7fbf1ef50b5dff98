package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

// LexiconScorer is the rule-based scorer: a fixed VADER lexicon with
// negation and intensifier handling. Scoring is deterministic, does no I/O,
// and is safe for concurrent use since the analyzer is read-only after
// construction.
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score rates the normalized text. Empty input is Neutral with zero
// compound and all proportion mass on neu, per the degenerate-input
// convention.
func (ls *LexiconScorer) Score(clean models.CleanText) models.LexiconScore {
	if clean.Normalized == "" {
		return models.LexiconScore{Neu: 1, Label: models.LabelNeutral}
	}

	scores := ls.analyzer.PolarityScores(clean.Normalized)

	return models.LexiconScore{
		Compound: scores.Compound,
		Pos:      scores.Positive,
		Neu:      scores.Neutral,
		Neg:      scores.Negative,
		Label:    models.LabelForCompound(scores.Compound),
	}
}
