package ats

import (
	"log"
	"regexp"
	"strings"
)

// sectionMode определяет режим обработки строк внутри текущей секции резюме.
// Exactly one mode is active at any line; a new section marker resets it.
type sectionMode int

const (
	modeNeutral sectionMode = iota // no bullet processing
	modeList                       // bulleted freeform section (Experience, Certifications)
	modeSkills                     // comma/bullet-delimited skill tokens
)

var (
	// Every bullet-like glyph becomes a single "*" before line processing.
	// ASCII hyphen and en/em dashes are excluded on purpose: date ranges
	// like "May 2019 – Present" must survive the substitution.
	reBulletGlyph = regexp.MustCompile("[•●○◦▪▫■□‣⁃∙·➢➤►✦❖*]")

	reYearSuffix = regexp.MustCompile(`\d{4}$`)
	// Leading run of asterisks/whitespace collapsed into exactly "* ".
	reBulletRun = regexp.MustCompile(`^\s*\*+[ \t]*(.*)$`)
	// Single leading bullet stripped outside list/skills sections.
	reSingleLead = regexp.MustCompile(`^\*\s*(.*)$`)
)

// markerRule classifies a trimmed line as a section marker. Rules are
// checked in declaration order: category headings first, then the
// terminator patterns (Education-class headings, year suffix, "Present").
// A marker match always wins over the current section mode.
type markerRule struct {
	match      func(line string) bool
	mode       sectionMode
	blankAfter bool
}

func exact(heading string) func(string) bool {
	return func(line string) bool { return line == heading }
}

var markerRules = []markerRule{
	{match: exact("Skills"), mode: modeSkills, blankAfter: true},
	{match: exact("Experience"), mode: modeList, blankAfter: true},
	{match: exact("Licenses & Certifications"), mode: modeList, blankAfter: true},
	{match: exact("Education"), mode: modeNeutral},
	{match: exact("Honors & Awards"), mode: modeNeutral},
	{match: reYearSuffix.MatchString, mode: modeNeutral},
	{match: func(line string) bool { return strings.Contains(line, "Present") }, mode: modeNeutral},
}

func matchMarker(trimmed string) (markerRule, bool) {
	if trimmed == "" {
		return markerRule{}, false
	}
	for _, r := range markerRules {
		if r.match(trimmed) {
			return r, true
		}
	}
	return markerRule{}, false
}

// Report carries informational counters collected during one
// normalization pass. Diagnostics never change the output text.
type Report struct {
	SectionMarkers   int `json:"sectionMarkers"`
	BulletLines      int `json:"bulletLines"`
	SkillPhrases     int `json:"skillPhrases"`
	UnmatchedBullets int `json:"unmatchedBullets"`
}

// Normalizer переписывает извлечённый из резюме текст в ATS-дружелюбный
// плоский вид: единый маркер "* " для буллетов и склейка фрагментов
// навыков в известные фразы.
//
// All working state lives on the stack, so a single instance is safe to
// share across goroutines.
type Normalizer struct {
	logf func(format string, v ...any)
}

// New returns a Normalizer that logs diagnostics via the std logger.
func New() *Normalizer { return &Normalizer{logf: log.Printf} }

// NewWithLogger overrides the diagnostic sink (used by tests).
func NewWithLogger(logf func(format string, v ...any)) *Normalizer {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Normalizer{logf: logf}
}

// Normalize converts raw extracted resume text into plain text with a
// single canonical "* " bullet marker. It is total over its input:
// any string in, a string out, never an error. Malformed input degrades
// to best-effort pass-through.
func Normalize(raw string) string { return New().Normalize(raw) }

func (n *Normalizer) Normalize(raw string) string {
	out, _ := n.NormalizeWithReport(raw)
	return out
}

// NormalizeWithReport is Normalize plus the informational counters.
func (n *Normalizer) NormalizeWithReport(raw string) (string, Report) {
	var rep Report

	// Global substitution happens once, before line splitting, so that
	// mid-line glyphs are canonicalized too.
	text := reBulletGlyph.ReplaceAllString(raw, "*")
	lines := strings.Split(text, "\n")

	out := make([]string, 0, len(lines)+4)
	mode := modeNeutral
	swallowBlank := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// A heading gets exactly one blank line after it: when the input
		// already carries one (typically our own previous output), it is
		// swallowed instead of piling up on every pass.
		if swallowBlank {
			swallowBlank = false
			if trimmed == "" {
				continue
			}
		}

		if rule, ok := matchMarker(trimmed); ok {
			mode = rule.mode
			rep.SectionMarkers++
			if rule.blankAfter {
				out = append(out, trimmed, "")
				swallowBlank = true
			} else {
				out = append(out, line)
			}
			continue
		}

		switch mode {
		case modeSkills:
			fragments := splitSkillFragments(trimmed)
			if len(fragments) > 1 {
				for _, phrase := range AssemblePhrases(fragments) {
					out = append(out, "* "+phrase)
					rep.SkillPhrases++
				}
				continue
			}
			// Zero or one fragment: same handling as outside sections.
			out = append(out, stripLeadingBullet(trimmed, line))
		case modeList:
			if m := reBulletRun.FindStringSubmatch(trimmed); m != nil {
				out = append(out, "* "+m[1])
				rep.BulletLines++
				continue
			}
			// Continuation of a multi-line item, or a line the collapse
			// pattern cannot explain. Logged, emitted as-is.
			if trimmed != "" {
				rep.UnmatchedBullets++
				n.logf("ats: unmatched bullet line: %q", trimmed)
			}
			out = append(out, line)
		default:
			out = append(out, stripLeadingBullet(trimmed, line))
		}
	}
	return strings.Join(out, "\n"), rep
}

// stripLeadingBullet removes a single leading "*" with trailing spaces.
// Lines without a bullet are emitted unchanged (original spacing kept).
func stripLeadingBullet(trimmed, original string) string {
	if m := reSingleLead.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return original
}
