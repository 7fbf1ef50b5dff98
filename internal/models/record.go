package models

import "time"

// Platform identifies where a record was collected from.
type Platform string

const (
	PlatformReddit      Platform = "reddit"
	PlatformSocialX     Platform = "socialx"
	PlatformMarketplace Platform = "marketplace"
	PlatformUploaded    Platform = "uploaded"
)

// AllPlatforms lists the platforms a collection run can select from.
// Uploaded records enter through the upload path, never through a collector.
var AllPlatforms = []Platform{PlatformReddit, PlatformSocialX, PlatformMarketplace}

// ParsePlatform maps a user-supplied name to a Platform.
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(s) {
	case PlatformReddit, PlatformSocialX, PlatformMarketplace, PlatformUploaded:
		return Platform(s), true
	}
	return "", false
}

// RawRecord is the platform-agnostic unit of input. Collectors produce it,
// the preprocessor consumes it, and it is never mutated after creation.
type RawRecord struct {
	ID         string    `json:"id"`
	Platform   Platform  `json:"platform"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
	Author     string    `json:"author,omitempty"`
	Engagement float64   `json:"engagement,omitempty"`
}

// CleanText is the normalized form of one RawRecord's text. Normalized is
// the case-folded form the lexicon scorer consumes; ForTransformer keeps the
// original casing since transformer tokenizers are case-sensitive.
type CleanText struct {
	Original       string `json:"original"`
	Normalized     string `json:"normalized"`
	ForTransformer string `json:"for_transformer"`
	Length         int    `json:"length"`
}
