package sentiment

import (
	"math"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

// DisagreementDiscount scales the transformer's confidence when the two
// scorers disagree. Tunable; the reconciliation invariants are the binding
// contract, not this value.
const DisagreementDiscount = 0.75

// Reconcile merges the two scorer outputs into the final per-record verdict.
//
// With both scores present: matching labels win with the average of the
// transformer confidence and |compound|; on disagreement the transformer
// label wins with discounted confidence, and the disagreement stays on the
// record so aggregation can compute an agreement rate. With the transformer
// absent the lexicon label stands alone and agreement is false by
// convention.
func Reconcile(record models.RawRecord, lexicon models.LexiconScore, transformer *models.TransformerScore) models.ReconciledResult {
	result := models.ReconciledResult{
		RecordID:    record.ID,
		Platform:    record.Platform,
		Lexicon:     lexicon,
		Transformer: transformer,
	}

	if transformer == nil {
		result.FinalLabel = lexicon.Label
		result.FinalConfidence = math.Abs(lexicon.Compound)
		return result
	}

	if lexicon.Label == transformer.Label {
		result.FinalLabel = lexicon.Label
		result.FinalConfidence = (transformer.Confidence + math.Abs(lexicon.Compound)) / 2
		result.Agreement = true
		return result
	}

	result.FinalLabel = transformer.Label
	result.FinalConfidence = transformer.Confidence * DisagreementDiscount
	return result
}
