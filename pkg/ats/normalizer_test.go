package ats

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmptyInput(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
}

func TestNormalizeBulletCanonicalization(t *testing.T) {
	in := "Experience\n• Item one\n● Item two"
	want := "Experience\n\n* Item one\n* Item two"
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeSectionModeSwitching(t *testing.T) {
	in := "Skills\nStrategic Planning, Finance Acumen\nEducation\nBS Computer Science 2020"
	want := strings.Join([]string{
		"Skills",
		"",
		"* Strategic Planning",
		"* Finance Acumen",
		"Education",
		"BS Computer Science 2020",
	}, "\n")
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeNeutralStripsSingleBullet(t *testing.T) {
	// Before any section marker no bullet processing applies, only the
	// single leading marker strip.
	assert.Equal(t, "Objective statement", Normalize("* Objective statement"))
	assert.Equal(t, "plain line", Normalize("plain line"))
}

func TestNormalizeListModeCollapsesBulletRuns(t *testing.T) {
	in := "Licenses & Certifications\n  ▪▪  AWS Certified\n‣ PMP"
	want := "Licenses & Certifications\n\n* AWS Certified\n* PMP"
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeUnmatchedBulletDiagnostic(t *testing.T) {
	var logged []string
	n := NewWithLogger(func(format string, v ...any) {
		logged = append(logged, fmt.Sprintf(format, v...))
	})

	in := "Experience\n* Led the team\nwhich shipped the product"
	out, rep := n.NormalizeWithReport(in)

	// Diagnostic is informational: the continuation line passes through
	// unchanged and in order.
	want := "Experience\n\n* Led the team\nwhich shipped the product"
	assert.Equal(t, want, out)
	assert.Equal(t, 1, rep.UnmatchedBullets)
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "which shipped the product")
}

func TestNormalizeTerminatorsResetMode(t *testing.T) {
	in := "Experience\n* Senior Engineer\nMay 2019 - Present\n* stray bullet"
	want := strings.Join([]string{
		"Experience",
		"",
		"* Senior Engineer",
		"May 2019 - Present",
		// Neutral mode after the date line: single bullet stripped.
		"stray bullet",
	}, "\n")
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizeMarkerBeatsCurrentMode(t *testing.T) {
	in := "Skills\nGo, Docker\nExperience\n• Built things"
	want := strings.Join([]string{
		"Skills",
		"",
		"* Go",
		"* Docker",
		"Experience",
		"",
		"* Built things",
	}, "\n")
	assert.Equal(t, want, Normalize(in))
}

func TestNormalizePreservesBlankLines(t *testing.T) {
	in := "Summary\n\nHands-on engineer"
	assert.Equal(t, in, Normalize(in))
}

func TestNormalizeSkillsSingleFragmentFallsThrough(t *testing.T) {
	// One fragment is not enough for phrase assembly; the line gets the
	// generic single-bullet strip instead.
	in := "Skills\n* Java"
	assert.Equal(t, "Skills\n\nJava", Normalize(in))
}

func TestNormalizeKeepsSingleBlankAfterHeading(t *testing.T) {
	// Already-normalized text must come back unchanged: the blank line a
	// heading gets on the first pass is not duplicated on the next one.
	in := "Experience\n\n* Item one\nSkills\n\n* Strategic Planning"
	assert.Equal(t, in, Normalize(in))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Experience\n• Item one\n● Item two\nSkills\nStrategic Planning, Finance Acumen",
		"Experience\n\n* Item one\nSkills\n\n* Strategic Planning",
		"* Objective\nplain",
		"Honors & Awards\nDean's List 2018",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeReportCounters(t *testing.T) {
	n := NewWithLogger(func(string, ...any) {})
	in := "Skills\nGo, Docker\nExperience\n• Shipped\nloose tail"
	_, rep := n.NormalizeWithReport(in)
	assert.Equal(t, 2, rep.SectionMarkers)
	assert.Equal(t, 2, rep.SkillPhrases)
	assert.Equal(t, 1, rep.BulletLines)
	assert.Equal(t, 1, rep.UnmatchedBullets)
}
