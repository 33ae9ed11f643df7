package ats

import (
	"regexp"
	"strings"
)

// canonicalPhrases — фиксированный словарь известных multi-word навыков.
// Matching is case-insensitive; the list is immutable at runtime.
var canonicalPhrases = []string{
	"Strategic Planning",
	"Finance Acumen",
	"Data Management & Analysis",
	"Project Management",
	"Business Development",
	"Customer Relationship Management",
	"Supply Chain Management",
	"Risk Management",
	"Market Research",
	"Public Speaking",
	"Team Leadership",
	"Operations Management",
	"Machine Learning",
	"Data Science",
	"Quality Assurance",
	"Process Improvement",
	"Vendor Management",
	"Conflict Resolution",
	"Time Management",
	"Change Management",
}

// Comma delimiters first, otherwise the whitespace alternative would eat
// the space before a comma and leave the comma glued to the next token.
var reSkillDelim = regexp.MustCompile(`\s*,\s*|\*?\s+`)

// splitSkillFragments splits a Skills-section line on bullet and comma
// delimiters, dropping empty fragments and the bare "&" token.
func splitSkillFragments(line string) []string {
	var out []string
	for _, f := range reSkillDelim.Split(line, -1) {
		if f == "" || f == "&" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// AssemblePhrases greedily re-joins skill fragments left to right into
// canonical phrases. An accumulator grows while it remains a strict
// case-insensitive prefix of some canonical phrase; an exact match or a
// dead end flushes it. Unrecognized fragments therefore stand on their
// own instead of silently merging with the next one.
//
// Known approximation, accepted as-is: a fragment run that is itself a
// complete canonical phrase AND a true prefix of a longer one flushes
// early — there is no lookahead or backtracking.
func AssemblePhrases(fragments []string) []string {
	var phrases []string
	acc := ""
	for _, frag := range fragments {
		if acc == "" {
			acc = frag
		} else {
			acc += " " + frag
		}
		switch {
		case isCanonical(acc):
			phrases = append(phrases, acc)
			acc = ""
		case !isCanonicalPrefix(acc):
			phrases = append(phrases, acc)
			acc = ""
		}
	}
	// A sequence ending mid-phrase (abbreviation, truncated line) still
	// yields its partial accumulator as a final phrase.
	if acc != "" {
		phrases = append(phrases, acc)
	}
	return phrases
}

func isCanonical(s string) bool {
	for _, p := range canonicalPhrases {
		if strings.EqualFold(s, p) {
			return true
		}
	}
	return false
}

// isCanonicalPrefix reports whether s + " " starts some canonical phrase.
func isCanonicalPrefix(s string) bool {
	prefix := strings.ToLower(s) + " "
	for _, p := range canonicalPhrases {
		if strings.HasPrefix(strings.ToLower(p), prefix) {
			return true
		}
	}
	return false
}
