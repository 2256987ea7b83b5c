package diff

import (
	"strings"
	"testing"
)

func TestHighlightLineGo(t *testing.T) {
	tokens := HighlightLine("main.go", `secret := os.Getenv("API_KEY")`)

	if len(tokens) < 2 {
		t.Fatalf("expected multiple tokens for Go source, got %d", len(tokens))
	}

	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	if b.String() != `secret := os.Getenv("API_KEY")` {
		t.Errorf("tokens do not reassemble input: %q", b.String())
	}
}

func TestHighlightLineUnknownExtension(t *testing.T) {
	tokens := HighlightLine("data.xyzzy", "some plain text")
	if len(tokens) != 1 || tokens[0].Text != "some plain text" {
		t.Errorf("expected passthrough token, got %#v", tokens)
	}
}
