package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"control characters removed", "a\x00b\x07c\x7fd\u0085e\u009f", "abcde"},
		{"whitespace collapsed and trimmed", "  hello \t\n\r  world \v ", "hello world"},
		{"subscript digits", "H₂O and CO₂₀", "H_2O and CO_20"},
		{"superscript digits", "x² + y¹⁰", "x^2 + y^10"},
		{"script digit without letter untouched", "₂x", "₂x"},
		{"braces replaced", "f{x} = {a}", "f(x) = (a)"},
		{"unicode text preserved", "ギャル  語　です", "ギャル 語 です"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_NoControlCharactersInOutput(t *testing.T) {
	var all []rune
	for r := rune(0); r <= 0xff; r++ {
		all = append(all, r, 'a')
	}

	for _, r := range Normalize(string(all)) {
		if isControl(r) {
			t.Fatalf("control character %U survived normalization", r)
		}
	}
}

func TestNormalize_InvalidUTF8DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Normalize(string([]byte{0xff, 0xfe, 'a', '{'}))
	})
}

func TestNormalize_PanicReturnsInput(t *testing.T) {
	saved := swapBraces
	t.Cleanup(func() { swapBraces = saved })
	swapBraces = func(string) string { panic("replacer broke") }

	in := "H\u2082O\x00  {x}\n"
	assert.Equal(t, in, Normalize(in))
}
