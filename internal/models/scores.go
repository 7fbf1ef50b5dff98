package models

// Label is the three-way sentiment class shared by both scorers.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Labels in a fixed order, used wherever a stable iteration order matters.
var Labels = []Label{LabelNegative, LabelNeutral, LabelPositive}

// Compound thresholds for deriving a label from a VADER compound score.
// These are fixed constants and must not vary by platform.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// LexiconScore is the output of the rule-based scorer. Pos, Neu and Neg are
// proportions summing to 1; Compound is the normalized polarity in [-1, 1].
type LexiconScore struct {
	Compound float64 `json:"compound"`
	Pos      float64 `json:"pos"`
	Neu      float64 `json:"neu"`
	Neg      float64 `json:"neg"`
	Label    Label   `json:"label"`
}

// LabelForCompound applies the fixed thresholds.
func LabelForCompound(compound float64) Label {
	switch {
	case compound >= PositiveThreshold:
		return LabelPositive
	case compound <= NegativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// TransformerScore is the output of the model-based classifier. Confidence
// is the probability mass of the winning class; Distribution maps every
// label to its probability and sums to 1 within floating tolerance.
type TransformerScore struct {
	Label        Label             `json:"label"`
	Confidence   float64           `json:"confidence"`
	Distribution map[Label]float64 `json:"distribution"`
}

// ReconciledResult is the unified per-record verdict, immutable once
// produced. Transformer is nil when the model scorer was disabled or
// unavailable for the run; in that case Agreement is false by convention.
type ReconciledResult struct {
	RecordID        string            `json:"record_id"`
	Platform        Platform          `json:"platform"`
	Lexicon         LexiconScore      `json:"lexicon"`
	Transformer     *TransformerScore `json:"transformer,omitempty"`
	FinalLabel      Label             `json:"final_label"`
	FinalConfidence float64           `json:"final_confidence"`
	Agreement       bool              `json:"agreement"`
}
