package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Korean plate number formats: "12가3456", "123가4567", "서울12가3456".
var platePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{2,3}[가-힣]\d{4}$`),
	regexp.MustCompile(`^[가-힣]{2}\d{2}[가-힣]\d{4}$`),
}

var plateReplacer = strings.NewReplacer(
	// common OCR mistakes
	"O", "0",
	"o", "0",
	"I", "1",
	"l", "1",
)

// NormalizePlateNumber strips whitespace and fixes characters OCR commonly
// misreads before validation.
func NormalizePlateNumber(s string) string {
	var b strings.Builder
	for _, r := range plateReplacer.Replace(s) {
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func IsValidPlateNumber(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 6 || n > 9 {
		return false
	}
	for _, pattern := range platePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}
