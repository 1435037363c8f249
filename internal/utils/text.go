package utils

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.BrazilianPortuguese)

// cadenas NFD -> sin marcas -> NFC, reutilizadas entre llamadas
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// Normalize lowercases, trims and collapses inner whitespace, keeping accents.
// Status tags go through this before being matched against the stage vocabulary.
func Normalize(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(lower.String(s)), " ")
}

// Fold is Normalize plus accent stripping, for comparing free-form tags
// ("Não abordado" == "nao abordado").
func Fold(s string) string {
	s = Normalize(s)
	if s == "" {
		return s
	}
	tr := foldPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		return s
	}
	return out
}
