// detect.go — heuristic dialect detection.
//
// The detector scores raw source text against indicator vocabularies for
// each dialect and returns a confidence vector rather than a single enum,
// so callers can see ambiguity. The result is advisory only: the parser's
// dialect gates do the real disambiguation at every production. The LSP
// layer uses the mode for reporting and completion flavoring.
package wscript

import (
	"regexp"
	"strings"
)

// LanguageMode is the coarse classification derived from a Confidence.
type LanguageMode int

const (
	MixedMode LanguageMode = iota
	CMode
	CPPMode
	TSMode
)

func (m LanguageMode) String() string {
	switch m {
	case CMode:
		return "c"
	case CPPMode:
		return "cpp"
	case TSMode:
		return "typescript"
	default:
		return "mixed"
	}
}

// Confidence is the per-dialect score vector. Scores are raw indicator
// hit counts; compare relatively, not absolutely.
type Confidence struct {
	C   int
	CPP int
	TS  int
}

// Mode reduces the vector to a single mode: highest score wins, ties (and
// an all-zero vector) fall back to MixedMode.
func (c Confidence) Mode() LanguageMode {
	switch {
	case c.C > c.CPP && c.C > c.TS:
		return CMode
	case c.CPP > c.C && c.CPP > c.TS:
		return CPPMode
	case c.TS > c.C && c.TS > c.CPP:
		return TSMode
	default:
		return MixedMode
	}
}

var (
	cIndicators = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*#\s*include\b`),
		regexp.MustCompile(`\bprintf\s*\(`),
		regexp.MustCompile(`\bmalloc\s*\(`),
		regexp.MustCompile(`\bfree\s*\(`),
		regexp.MustCompile(`\btypedef\b`),
		regexp.MustCompile(`\bstruct\s+\w+`),
		regexp.MustCompile(`\bvoid\s*\*`),
		regexp.MustCompile(`\bsizeof\s*\(`),
	}
	cppIndicators = []*regexp.Regexp{
		regexp.MustCompile(`\bclass\s+\w+`),
		regexp.MustCompile(`\btemplate\s*<`),
		regexp.MustCompile(`\bnamespace\s+\w+`),
		regexp.MustCompile(`\bstd::`),
		regexp.MustCompile(`\bvirtual\b`),
		regexp.MustCompile(`\boverride\b`),
		regexp.MustCompile(`\b(public|private|protected)\s*:`),
		regexp.MustCompile(`\bnew\s+\w+`),
		regexp.MustCompile(`\bnullptr\b`),
	}
	tsIndicators = []*regexp.Regexp{
		regexp.MustCompile(`\binterface\s+\w+`),
		regexp.MustCompile(`\bexport\b`),
		regexp.MustCompile(`\bimport\b.*\bfrom\b`),
		regexp.MustCompile(`\b(let|const)\s+\w+`),
		regexp.MustCompile(`=>`),
		regexp.MustCompile(`\basync\s+function\b`),
		regexp.MustCompile(`\btype\s+\w+\s*=`),
		regexp.MustCompile(`:\s*(string|number|boolean|any)\b`),
		regexp.MustCompile(`\bundefined\b`),
	}
)

// DetectDialect scores src against the three indicator sets. Comment and
// string content is not excluded — the heuristic is best-effort by design.
func DetectDialect(src string) Confidence {
	var c Confidence
	for _, re := range cIndicators {
		c.C += len(re.FindAllStringIndex(src, -1))
	}
	for _, re := range cppIndicators {
		c.CPP += len(re.FindAllStringIndex(src, -1))
	}
	for _, re := range tsIndicators {
		c.TS += len(re.FindAllStringIndex(src, -1))
	}
	return c
}

// GuessModeFromFilename maps well-known extensions to a mode, falling back
// to MixedMode for the engine's own .wes scripts.
func GuessModeFromFilename(name string) LanguageMode {
	switch {
	case strings.HasSuffix(name, ".c") || strings.HasSuffix(name, ".h"):
		return CMode
	case strings.HasSuffix(name, ".cpp") || strings.HasSuffix(name, ".cc") ||
		strings.HasSuffix(name, ".hpp") || strings.HasSuffix(name, ".cxx"):
		return CPPMode
	case strings.HasSuffix(name, ".ts") || strings.HasSuffix(name, ".tsx"):
		return TSMode
	default:
		return MixedMode
	}
}
