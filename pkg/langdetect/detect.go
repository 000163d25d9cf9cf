// Package langdetect decides whether a file or a fenced code block holds
// Mathematica source. It uses go-enry to tell Mathematica packages apart
// from the other languages that share the ".m" extension.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names as reported by Detect.
const (
	LangMathematica = "mathematica"
	LangObjectiveC  = "objective-c"
	LangMATLAB      = "matlab"
	LangText        = "text"
)

// enry language names.
const (
	enryMathematica = "Mathematica"
	enryObjectiveC  = "Objective-C"
	enryMATLAB      = "MATLAB"
)

// ambiguousExtension is shared by Mathematica, Objective-C, MATLAB and a
// few others.
const ambiguousExtension = ".m"

// wolframExtensions belong to Mathematica only.
//
//nolint:gochecknoglobals // Read-only lookup table.
var wolframExtensions = []string{".wl", ".wls", ".wlt", ".mt", ".nb"}

// classifierCandidates bounds the classifier to the ".m" languages.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{enryMathematica, enryObjectiveC, enryMATLAB}

// IsMathematica reports whether the file at path with the given content is
// Mathematica source. Unambiguous extensions decide immediately; ".m"
// files are classified by content.
func IsMathematica(path string, content []byte) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(wolframExtensions, ext):
		return true
	case ext == ambiguousExtension:
		return Detect(content) == LangMathematica
	default:
		return false
	}
}

// Detect returns the language of ".m" content: LangMathematica,
// LangObjectiveC, LangMATLAB, or LangText when nothing is confident.
// Empty content counts as Mathematica so that new files are formatted.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LangMathematica
	}

	// Strategy 1: shebang.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Strategy 2: patterns that are highly indicative.
	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	// Strategy 3: classifier over the ".m" languages.
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

// detectByPattern checks markers in order of specificity.
func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)

	if lang := detectMathematica(trimmed); lang != "" {
		return lang
	}
	if lang := detectObjectiveC(content); lang != "" {
		return lang
	}
	return detectMATLAB(content)
}

// detectMathematica recognises package headers and the bracketed call
// syntax with delayed definitions.
func detectMathematica(trimmed []byte) string {
	if bytes.HasPrefix(trimmed, []byte("(* ::Package:: *)")) ||
		bytes.HasPrefix(trimmed, []byte("(* Mathematica ")) ||
		bytes.Contains(trimmed, []byte("BeginPackage[")) {
		return LangMathematica
	}
	if bytes.Contains(trimmed, []byte(":=")) && bytes.Contains(trimmed, []byte("_]")) {
		return LangMathematica
	}
	return ""
}

// detectObjectiveC checks for preprocessor imports and class sections.
func detectObjectiveC(content []byte) string {
	for _, marker := range [][]byte{[]byte("#import "), []byte("@interface "), []byte("@implementation ")} {
		if bytes.HasPrefix(content, marker) || bytes.Contains(content, append([]byte("\n"), marker...)) {
			return LangObjectiveC
		}
	}
	return ""
}

// detectMATLAB checks for function files and percent comments.
func detectMATLAB(content []byte) string {
	lines := bytes.Split(content, []byte("\n"))
	comments := 0
	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if bytes.HasPrefix(line, []byte("function ")) && bytes.Contains(line, []byte("=")) {
			return LangMATLAB
		}
		if bytes.HasPrefix(line, []byte("%")) {
			comments++
		}
	}
	if comments >= 2 {
		return LangMATLAB
	}
	return ""
}

// normalize converts go-enry language names to the names used here.
func normalize(lang string) string {
	switch lang {
	case enryMathematica:
		return LangMathematica
	case enryObjectiveC:
		return LangObjectiveC
	case enryMATLAB:
		return LangMATLAB
	default:
		return strings.ToLower(lang)
	}
}

// IsMathematicaFence reports whether a fenced code block info string names
// one of languages. Only the first word counts, matched case-insensitively;
// a "{.lang}" attribute form is accepted too.
func IsMathematicaFence(info string, languages []string) bool {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return false
	}
	lang := strings.ToLower(strings.Trim(fields[0], "{}"))
	lang = strings.TrimPrefix(lang, ".")
	return slices.ContainsFunc(languages, func(l string) bool {
		return strings.EqualFold(l, lang)
	})
}
