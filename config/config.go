package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

const (
	DefaultLimitPerPlatform = 100
	MaxLimitPerPlatform     = 1000
)

// RunConfig is the configuration surface for one analysis run.
type RunConfig struct {
	Platforms        []models.Platform
	Query            string
	LimitPerPlatform int
	UseTransformer   bool
	SocialXToken     string
}

// FromEnv builds a RunConfig from the process environment. Flags set by the
// CLI take precedence and are applied by the caller afterwards.
func FromEnv() RunConfig {
	cfg := RunConfig{
		Query:            os.Getenv("ANALYZER_QUERY"),
		LimitPerPlatform: DefaultLimitPerPlatform,
		UseTransformer:   os.Getenv("ANALYZER_USE_TRANSFORMER") != "false",
		SocialXToken:     os.Getenv("SOCIALX_BEARER_TOKEN"),
	}

	if raw := os.Getenv("ANALYZER_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.LimitPerPlatform = n
		}
	}

	if raw := os.Getenv("ANALYZER_PLATFORMS"); raw != "" {
		cfg.Platforms = parsePlatformList(raw)
	} else {
		cfg.Platforms = append(cfg.Platforms, models.AllPlatforms...)
	}

	return cfg
}

// Validate reports configuration problems that make a run impossible.
// Platform-level problems (a missing SocialX credential) are not run-fatal
// and are handled per platform by the pipeline instead.
func (c RunConfig) Validate() error {
	if strings.TrimSpace(c.Query) == "" {
		return fmt.Errorf("config: query must not be empty")
	}
	if c.LimitPerPlatform <= 0 {
		return fmt.Errorf("config: limit per platform must be positive, got %d", c.LimitPerPlatform)
	}
	if c.LimitPerPlatform > MaxLimitPerPlatform {
		return fmt.Errorf("config: limit per platform must not exceed %d, got %d", MaxLimitPerPlatform, c.LimitPerPlatform)
	}
	if len(c.Platforms) == 0 {
		return fmt.Errorf("config: at least one platform must be selected")
	}
	return nil
}

func parsePlatformList(raw string) []models.Platform {
	var platforms []models.Platform
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if p, ok := models.ParsePlatform(name); ok {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// ParsePlatforms exposes the platform-list parsing to the CLI flag path.
func ParsePlatforms(raw string) []models.Platform {
	return parsePlatformList(raw)
}
