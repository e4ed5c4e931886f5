package richtext_test

import (
	"testing"

	"crm-activity-bot/pkg/richtext"
)

func TestCreateAnchors(t *testing.T) {
	got := richtext.CreateAnchors("see https://example.com/x for details")
	want := `see <a href="https://example.com/x" target="_blank" rel="noopener">https://example.com/x</a> for details`
	if got != want {
		t.Errorf("CreateAnchors = %q, want %q", got, want)
	}

	plain := "no links here"
	if richtext.CreateAnchors(plain) != plain {
		t.Error("text without URLs should pass through unchanged")
	}
}

func TestSplitSections(t *testing.T) {
	text := "first\n---\n\n   \n---\nsecond part\nwith two lines"
	got := richtext.SplitSections(text)
	if len(got) != 2 {
		t.Fatalf("SplitSections returned %d parts, want 2", len(got))
	}
	if got[0] != "first" {
		t.Errorf("first part = %q", got[0])
	}
	if got[1] != "second part\nwith two lines" {
		t.Errorf("second part = %q", got[1])
	}

	if parts := richtext.SplitSections("   "); parts != nil {
		t.Errorf("blank text should yield no parts, got %v", parts)
	}
}
