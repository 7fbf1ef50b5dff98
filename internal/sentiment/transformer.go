package sentiment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const (
	// DefaultModelRepo is a RoBERTa sentiment classifier fine-tuned on
	// social-media text.
	DefaultModelRepo = "cardiffnlp/twitter-roberta-base-sentiment-latest"

	DefaultModelDir = "./models"

	// maxModelTokens is the model's input window in encoded tokens.
	maxModelTokens = 512

	// maxInputWords caps inputs before encoding. The subword tokenizer
	// emits roughly 1.3-2 tokens per word on social-media text and the
	// runtime applies no truncation of its own, so the word cap must keep
	// the encoded length inside the window even at the high end.
	maxInputWords = 200

	// TransformerBatchSize bounds one model invocation. A batch is atomic:
	// cancellation takes effect only between batches.
	TransformerBatchSize = 32
)

// BatchScorer is what the pipeline depends on, so runs can swap in a fake
// or degrade to lexicon-only scoring when the model is unavailable.
type BatchScorer interface {
	ScoreBatch(texts []string) ([]models.TransformerScore, error)
}

// TransformerScorer runs a pretrained ONNX sequence classifier through
// hugot. The model is loaded once, never mutated afterwards, and reused for
// every scoring call in the process.
type TransformerScorer struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

// NewTransformerScorer downloads the model on first use and initializes the
// runtime session. Any failure here means the scorer is unavailable for the
// run; callers degrade to lexicon-only scoring instead of fabricating
// scores.
func NewTransformerScorer(modelDir string) (*TransformerScorer, error) {
	if modelDir == "" {
		modelDir = DefaultModelDir
	}

	modelPath, err := ensureModel(modelDir)
	if err != nil {
		return nil, fmt.Errorf("[TransformerScorer] model unavailable: %w", err)
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[TransformerScorer] failed to initialize runtime session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentimentClassificationPipeline",
	}
	config.Options = append(config.Options,
		pipelines.WithMultiLabel(),
		pipelines.WithSoftmax(),
	)

	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("[TransformerScorer] failed to initialize pipeline: %w", err)
	}

	slog.Info("[TransformerScorer] Model loaded", slog.String("path", modelPath))

	return &TransformerScorer{session: session, pipeline: pipeline}, nil
}

// ScoreBatch classifies the given texts in one model invocation. Results
// are positional: out[i] scores texts[i]. Empty texts skip inference and
// score Neutral with zero confidence.
func (ts *TransformerScorer) ScoreBatch(texts []string) ([]models.TransformerScore, error) {
	out := make([]models.TransformerScore, len(texts))

	inputs := make([]string, 0, len(texts))
	positions := make([]int, 0, len(texts))
	for i, text := range texts {
		if text == "" {
			out[i] = neutralZeroScore()
			continue
		}
		inputs = append(inputs, truncateWords(text, maxInputWords))
		positions = append(positions, i)
	}

	if len(inputs) == 0 {
		return out, nil
	}

	result, err := ts.pipeline.RunPipeline(inputs)
	if err != nil {
		return nil, fmt.Errorf("[TransformerScorer] inference failed: %w", err)
	}

	classOutputs := result.ClassificationOutputs
	if len(classOutputs) != len(inputs) {
		return nil, fmt.Errorf("[TransformerScorer] expected %d outputs, got %d", len(inputs), len(classOutputs))
	}

	for j, classes := range classOutputs {
		score, err := scoreFromClasses(classes)
		if err != nil {
			return nil, err
		}
		out[positions[j]] = score
	}

	return out, nil
}

func (ts *TransformerScorer) Close() {
	if ts.session != nil {
		ts.session.Destroy()
	}
}

func ensureModel(modelDir string) (string, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", err
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(DefaultModelRepo, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[TransformerScorer] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	}

	slog.Info("[TransformerScorer] Model not found, downloading...",
		slog.String("repo", DefaultModelRepo))
	downloaded, err := hugot.DownloadModel(DefaultModelRepo, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model: %w", err)
	}
	return downloaded, nil
}

// scoreFromClasses rescales the per-class scores into a proper probability
// distribution and picks the argmax.
func scoreFromClasses(classes []pipelines.ClassificationOutput) (models.TransformerScore, error) {
	distribution := make(map[models.Label]float64, len(models.Labels))
	for _, class := range classes {
		label, ok := labelFromModel(class.Label)
		if !ok {
			return models.TransformerScore{}, fmt.Errorf("[TransformerScorer] unknown class label %q", class.Label)
		}
		distribution[label] += float64(class.Score)
	}

	return ScoreFromDistribution(distribution), nil
}

// ScoreFromDistribution normalizes a raw per-label mass map into a
// TransformerScore. Exposed for the upload path and tests.
func ScoreFromDistribution(raw map[models.Label]float64) models.TransformerScore {
	var total float64
	for _, mass := range raw {
		total += mass
	}

	distribution := make(map[models.Label]float64, len(models.Labels))
	if total <= 0 {
		return neutralZeroScore()
	}
	for _, label := range models.Labels {
		distribution[label] = raw[label] / total
	}

	best := models.LabelNeutral
	for _, label := range models.Labels {
		if distribution[label] > distribution[best] {
			best = label
		}
	}

	return models.TransformerScore{
		Label:        best,
		Confidence:   distribution[best],
		Distribution: distribution,
	}
}

// labelFromModel maps the model's class names onto our labels. Handles both
// readable names and the LABEL_n fallback used by unconfigured checkpoints.
func labelFromModel(raw string) (models.Label, bool) {
	switch strings.ToLower(raw) {
	case "negative", "label_0":
		return models.LabelNegative, true
	case "neutral", "label_1":
		return models.LabelNeutral, true
	case "positive", "label_2":
		return models.LabelPositive, true
	}
	return "", false
}

// truncateWords drops whitespace-separated words beyond the cap. Overflow is
// dropped, never an error.
func truncateWords(text string, maxWords int) string {
	fields := strings.Fields(text)
	if len(fields) <= maxWords {
		return text
	}
	return strings.Join(fields[:maxWords], " ")
}

func neutralZeroScore() models.TransformerScore {
	return models.TransformerScore{
		Label:      models.LabelNeutral,
		Confidence: 0,
		Distribution: map[models.Label]float64{
			models.LabelNegative: 0,
			models.LabelNeutral:  1,
			models.LabelPositive: 0,
		},
	}
}
