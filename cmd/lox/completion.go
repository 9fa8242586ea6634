package main

import (
	"slices"
	"strings"
	"unicode"
)

var loxKeywords = []string{
	"and",
	"break",
	"class",
	"else",
	"false",
	"for",
	"fun",
	"if",
	"nil",
	"or",
	"print",
	"return",
	"super",
	"this",
	"true",
	"var",
	"while",
}

// completeWord returns the keywords and names starting with prefix, sorted
// and without duplicates.
func completeWord(prefix string, names []string) []string {
	if prefix == "" {
		return nil
	}
	var out []string
	for _, candidate := range slices.Concat(loxKeywords, names) {
		if strings.HasPrefix(candidate, prefix) {
			out = append(out, candidate)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func isKeyword(word string) bool {
	return slices.Contains(loxKeywords, word)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
