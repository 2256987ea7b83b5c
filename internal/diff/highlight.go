package diff

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // ANSI color string, empty for default
}

// HighlightLine tokenizes a single source line for display. Falls back to
// one uncolored token when no lexer matches the filename.
func HighlightLine(filename, line string) []Token {
	lexer := lexerForFile(filename)
	if lexer == nil {
		return []Token{{Text: line}}
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return []Token{{Text: line}}
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	var out []Token
	for _, token := range iterator.Tokens() {
		text := strings.ReplaceAll(token.Value, "\n", "")
		if text == "" {
			continue
		}
		out = append(out, Token{Text: text, Color: tokenColor(style, token.Type)})
	}
	if len(out) == 0 {
		return []Token{{Text: line}}
	}
	return out
}

func lexerForFile(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
