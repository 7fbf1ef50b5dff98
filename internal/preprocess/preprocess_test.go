package preprocess

import (
	"testing"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

func TestClean_Deterministic(t *testing.T) {
	p := New()
	text := "Check out https://example.com — this phone is AMAZING @someone #review"

	first := p.Clean(text, models.PlatformSocialX)
	second := p.Clean(text, models.PlatformSocialX)

	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestClean_IdempotentOnNormalizedOutput(t *testing.T) {
	p := New()
	inputs := []struct {
		text     string
		platform models.Platform
	}{
		{"This product is great!! Highly recommend https://shop.example/item", models.PlatformMarketplace},
		{"RT @friend: the new update is terrible #fail www.example.com", models.PlatformSocialX},
		{"**Bold claim**: this is [fine](https://example.com/ok) I guess", models.PlatformReddit},
	}

	for _, in := range inputs {
		first := p.Clean(in.text, in.platform)
		second := p.Clean(first.Normalized, in.platform)
		if second.Normalized != first.Normalized {
			t.Errorf("Clean(%q) not idempotent: %q then %q", in.text, first.Normalized, second.Normalized)
		}
	}
}

func TestClean_StripsURLsAndMentions(t *testing.T) {
	p := New()
	clean := p.Clean("I love it https://t.example/abc thanks @vendor", models.PlatformSocialX)

	want := "i love it thanks"
	if clean.Normalized != want {
		t.Fatalf("expected %q, got %q", want, clean.Normalized)
	}
}

func TestClean_SocialXSpecifics(t *testing.T) {
	p := New()
	clean := p.Clean("RT @bot #Great product from @brand", models.PlatformSocialX)

	if clean.Normalized != "great product from" {
		t.Fatalf("expected hashtag word kept and mentions dropped, got %q", clean.Normalized)
	}
	if clean.ForTransformer != "@user Great product from @user" {
		t.Fatalf("expected case-preserving mention placeholders, got %q", clean.ForTransformer)
	}
}

func TestClean_RedditMarkdownStripped(t *testing.T) {
	p := New()
	clean := p.Clean("**Terrible** experience with [support](https://example.com/help)", models.PlatformReddit)

	want := "terrible experience with support"
	if clean.Normalized != want {
		t.Fatalf("expected %q, got %q", want, clean.Normalized)
	}
}

func TestClean_MarketplaceBoilerplateRemoved(t *testing.T) {
	p := New()
	clean := p.Clean("Verified Purchase Works as described", models.PlatformMarketplace)

	want := "works as described"
	if clean.Normalized != want {
		t.Fatalf("expected %q, got %q", want, clean.Normalized)
	}
}

func TestClean_TransformerPathKeepsCase(t *testing.T) {
	p := New()
	clean := p.Clean("This Phone Is GREAT trust me", models.PlatformUploaded)

	if clean.ForTransformer != "This Phone Is GREAT trust me" {
		t.Fatalf("unexpected transformer text %q", clean.ForTransformer)
	}
	if clean.Normalized != "this phone is great trust me" {
		t.Fatalf("unexpected normalized text %q", clean.Normalized)
	}
}

func TestClean_DegenerateInputsYieldEmpty(t *testing.T) {
	p := New()
	for _, text := range []string{"!!! ???", "   ", "https://only-a-link.example", "@just @mentions"} {
		clean := p.Clean(text, models.PlatformSocialX)
		if clean.Normalized != "" {
			t.Errorf("Clean(%q): expected empty normalized text, got %q", text, clean.Normalized)
		}
		if clean.Length != 0 {
			t.Errorf("Clean(%q): expected zero length, got %d", text, clean.Length)
		}
	}
}

func TestClean_PreservesOriginal(t *testing.T) {
	p := New()
	original := "Mixed FEELINGS about this https://example.com"
	clean := p.Clean(original, models.PlatformReddit)

	if clean.Original != original {
		t.Fatalf("expected original retained verbatim, got %q", clean.Original)
	}
}

func TestClean_LengthCountsTokens(t *testing.T) {
	p := New()
	clean := p.Clean("one two three", models.PlatformUploaded)
	if clean.Length != 3 {
		t.Fatalf("expected length 3, got %d", clean.Length)
	}
}
