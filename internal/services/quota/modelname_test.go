package quota

import (
	"strings"
	"testing"
)

func TestNormalizeModelName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"claude-sonnet-4-5-20250929", "Sonnet 4.5"},
		{"claude-haiku-4-5", "Haiku 4.5"},
		{"claude-opus-4-1-20250805", "Opus 4.1"},
		{"claude-3-5-sonnet-20241022", "3.5 Sonnet"},
		{"Sonnet 4.5 · Best for everyday tasks", "Sonnet 4.5"},
		{"default · Opus 4.5 for up to 50% of usage limits", "Default"},
		{"opus", "Opus"},
		{"Sonnet 4.5", "Sonnet 4.5"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeModelName(tt.raw); got != tt.want {
				t.Errorf("NormalizeModelName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeModelName_Idempotent(t *testing.T) {
	inputs := []string{
		"claude-sonnet-4-5-20250929",
		"claude-3-5-haiku-20241022",
		"claude-opus-4-1",
		"gpt-4-1-mini",
		"Opus 4.5 · Most capable",
		"set-model-1-2-3",
		"ümlaut-model-7-0",
	}

	for _, in := range inputs {
		once := NormalizeModelName(in)
		if twice := NormalizeModelName(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeModelName_VersionedFamilies(t *testing.T) {
	names := []string{"sonnet", "opus", "haiku", "instant"}
	suffixes := []string{"", "-20250929", "-20991231"}

	for _, name := range names {
		for major := range 10 {
			for minor := range 10 {
				for _, suffix := range suffixes {
					raw := "claude-" + name + "-" + string(rune('0'+major)) + "-" + string(rune('0'+minor)) + suffix
					want := strings.ToUpper(name[:1]) + name[1:] + " " +
						string(rune('0'+major)) + "." + string(rune('0'+minor))

					got := NormalizeModelName(raw)
					if got != want {
						t.Fatalf("NormalizeModelName(%q) = %q, want %q", raw, got, want)
					}
					if versionSpaceRe.MatchString(got) {
						t.Fatalf("NormalizeModelName(%q) = %q still has digit-space-digit", raw, got)
					}
				}
			}
		}
	}
}
