package common

import (
	"regexp"
	"strings"
	"unicode"
)

// ptPattern restores the "PT" legal-entity abbreviation that title-casing
// turns into "Pt" or "Pt.".
var ptPattern = regexp.MustCompile(`\bPt\.?\b`)

// CleanCompanyName normalizes the casing of a company or holder name.
// Disclosure documents frequently arrive in ALL-CAPS or inconsistent case;
// the cleaned name is shown to end users. Re-casing is applied when any of
// three heuristics trigger:
//
//  1. more uppercase than lowercase letters,
//  2. not every word starts with an uppercase letter,
//  3. the last letter of the last word is uppercase.
func CleanCompanyName(name string) string {
	if name == "" {
		return name
	}

	needsCleaning := false

	upperCount := 0
	lowerCount := 0
	for _, r := range name {
		if unicode.IsUpper(r) {
			upperCount++
		} else if unicode.IsLower(r) {
			lowerCount++
		}
	}
	if upperCount > lowerCount {
		needsCleaning = true
	}

	words := strings.Fields(name)
	if !needsCleaning {
		for _, word := range words {
			if r := []rune(word)[0]; unicode.IsLetter(r) && !unicode.IsUpper(r) {
				needsCleaning = true
				break
			}
		}
	}

	if !needsCleaning && len(words) > 0 {
		lastWord := []rune(words[len(words)-1])
		last := lastWord[len(lastWord)-1]
		if unicode.IsLetter(last) && unicode.IsUpper(last) {
			needsCleaning = true
		}
	}

	if !needsCleaning {
		return name
	}

	cleaned := titleCase(name)
	cleaned = ptPattern.ReplaceAllString(cleaned, "PT")
	return strings.TrimSpace(cleaned)
}

// titleCase capitalizes the first letter of every word and lower-cases the
// rest, preserving the original whitespace.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
