package preprocess

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/russross/blackfriday/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

// Patterns compiled once. Order of application matters for determinism; see
// Clean.
var (
	htmlEntityPattern   = regexp.MustCompile(`&#?\w+;`)
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\(https?://[^\s)]+\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
	mentionPattern      = regexp.MustCompile(`@\w+`)
	hashtagPattern      = regexp.MustCompile(`#(\w+)`)
	repostPrefixPattern = regexp.MustCompile(`(?i)^RT\s+`)
	verifiedPattern     = regexp.MustCompile(`(?i)Verified Purchase`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// Preprocessor turns raw platform text into the normalized forms both
// scorers consume. Clean is a pure function of its inputs: the same text and
// platform always yield the same CleanText.
type Preprocessor struct{}

func New() *Preprocessor {
	return &Preprocessor{}
}

// Clean normalizes text for scoring. The case-folded Normalized form feeds
// the lexicon scorer; ForTransformer keeps the original casing and applies
// the token replacements the transformer model card expects. Degenerate
// inputs (all punctuation or whitespace) yield an empty Normalized string,
// which scorers treat as Neutral with zero confidence.
func (p *Preprocessor) Clean(text string, platform models.Platform) models.CleanText {
	cleaned := norm.NFC.String(text)
	cleaned = htmlEntityPattern.ReplaceAllString(cleaned, " ")
	cleaned = markdownLinkPattern.ReplaceAllString(cleaned, "$1")
	cleaned = urlPattern.ReplaceAllString(cleaned, "")

	switch platform {
	case models.PlatformSocialX:
		cleaned = repostPrefixPattern.ReplaceAllString(cleaned, "")
		cleaned = hashtagPattern.ReplaceAllString(cleaned, "$1")
	case models.PlatformReddit:
		cleaned = stripMarkdown(cleaned)
	case models.PlatformMarketplace:
		cleaned = verifiedPattern.ReplaceAllString(cleaned, "")
	}

	forTransformer := collapseWhitespace(replaceTransformerTokens(cleaned))

	cleaned = mentionPattern.ReplaceAllString(cleaned, " ")
	cleaned = collapseWhitespace(cleaned)
	normalized := strings.ToLower(cleaned)

	// Degenerate inputs (all punctuation or whitespace once stripped)
	// normalize to the empty string, which scorers map to Neutral with
	// zero confidence.
	if !containsAlphanumeric(normalized) {
		normalized = ""
		forTransformer = ""
	}

	return models.CleanText{
		Original:       text,
		Normalized:     normalized,
		ForTransformer: forTransformer,
		Length:         len(strings.Fields(normalized)),
	}
}

// stripMarkdown expands Reddit markdown to HTML and drops the markup.
func stripMarkdown(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	stripped := htmlTagPattern.ReplaceAllString(string(rendered), " ")
	// blackfriday re-escapes ampersands and quotes on its way out.
	return htmlEntityPattern.ReplaceAllString(stripped, " ")
}

// replaceTransformerTokens applies the per-token substitutions the
// transformer model was trained with: any mention becomes "@user" and any
// bare URL remnant becomes "http".
func replaceTransformerTokens(text string) string {
	tokens := strings.Fields(text)
	for i, token := range tokens {
		switch {
		case strings.HasPrefix(token, "@") && len(token) > 1:
			tokens[i] = "@user"
		case strings.HasPrefix(token, "http"):
			tokens[i] = "http"
		}
	}
	return strings.Join(tokens, " ")
}

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

func containsAlphanumeric(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
