package server

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatResult renders v the way a human reading locale would expect it
// written (thousands separators, locale decimal point), for the text/plain
// rendering of an evaluation result. An empty or malformed locale tag
// falls back to English.
func FormatResult(v float64, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%.6f", v)
}
