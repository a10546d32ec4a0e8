// Package textnorm prepares retrieved text before it is placed in a prompt.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/akolanti/ragchat/pkg/logger_i"
)

var (
	subscriptRun   = regexp.MustCompile(`([a-zA-Z])([₀₁₂₃₄₅₆₇₈₉]+)`)
	superscriptRun = regexp.MustCompile(`([a-zA-Z])([⁰¹²³⁴⁵⁶⁷⁸⁹]+)`)

	digitReplacer = strings.NewReplacer(
		"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
		"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
		"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
		"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
	)
	braceReplacer = strings.NewReplacer("{", "(", "}", ")")

	swapBraces = braceReplacer.Replace
)

// Normalize strips control characters, flattens sub/superscript digits,
// swaps braces for parentheses and collapses whitespace. It is best-effort:
// on any internal failure the input is returned untouched.
func Normalize(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logger_i.NewLogger("textnorm").Error("normalization failed", "panic", r)
			out = text
		}
	}()
	return normalize(text)
}

func normalize(text string) string {
	text = strings.Map(func(r rune) rune {
		if isControl(r) && !isLayoutSpace(r) {
			return -1
		}
		return r
	}, text)

	text = subscriptRun.ReplaceAllStringFunc(text, func(m string) string {
		return m[:1] + "_" + digitReplacer.Replace(m[1:])
	})
	text = superscriptRun.ReplaceAllStringFunc(text, func(m string) string {
		return m[:1] + "^" + digitReplacer.Replace(m[1:])
	})

	text = swapBraces(text)

	// Fields splits on unicode.IsSpace, which also catches the layout
	// control characters kept above.
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}

// isControl reports C0 (U+0000-U+001F), DEL and C1 (U+0080-U+009F).
func isControl(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}

func isLayoutSpace(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r'
}
