package security

import (
	"path/filepath"
	"regexp"
	"strings"
)

const baseConfidence = 0.6

var (
	commentLineRE       = regexp.MustCompile(`^\s*(//|#|\*|/\*)`)
	templateInterpRE    = regexp.MustCompile(`\$\{[^}]*\}`)
	placeholderIdentRE  = regexp.MustCompile(`(?i)(example|placeholder|your_|todo|xxx|test|demo|lorem|change_me|replace_me)`)
	docMarkerRE         = regexp.MustCompile(`@(example|param)\b`)
	jsxContextRE        = regexp.MustCompile(`(?i)\b(props|state|component|useState|useEffect)\b|<[A-Za-z][\w.]*[\s/>]`)
	assignmentRE        = regexp.MustCompile(`[:=]\s*['"]?\S`)
	exportOrProcessEnvRE = regexp.MustCompile(`\b(export\s|process\.env)`)
	importMentioningKeyRE = regexp.MustCompile(`(?i)^\s*(import|require)\b.*\b(api|key)\b`)
	openAIKeyRE         = regexp.MustCompile(`sk-`)
)

// scoreConfidence implements spec 4.H's confidence-scoring pipeline for
// one raw pattern match: base 0.6, hard zero for recognized false
// positives, then additive context and per-pattern adjustments.
func scoreConfidence(p Pattern, line, filePath, secretValue string) float64 {
	if isFalsePositiveContext(p, line, secretValue) {
		return 0
	}

	confidence := baseConfidence

	if assignmentRE.MatchString(line) {
		confidence += 0.2
	}
	if exportOrProcessEnvRE.MatchString(line) {
		confidence += 0.3
	}
	if importMentioningKeyRE.MatchString(line) {
		confidence += 0.1
	}
	if isNodeModulesOrPackageJSON(filePath) {
		confidence -= 0.2
	}
	if isTestPath(filePath) {
		confidence -= 0.3
	}
	if isDocPath(filePath) {
		confidence -= 0.4
	}

	confidence += perPatternAdjustment(p, line, secretValue)

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

func isFalsePositiveContext(p Pattern, line, secretValue string) bool {
	if commentLineRE.MatchString(line) {
		return true
	}
	if templateInterpRE.MatchString(secretValue) {
		return true
	}
	if placeholderIdentRE.MatchString(secretValue) {
		return true
	}
	if docMarkerRE.MatchString(line) {
		return true
	}
	if jsxContextRE.MatchString(line) {
		return true
	}
	if looksMinified(line) {
		return true
	}
	for _, kw := range p.FalsePositiveKeywords {
		if strings.Contains(strings.ToLower(secretValue), strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// perPatternAdjustment applies the spec's named per-pattern corrections.
func perPatternAdjustment(p Pattern, line, secretValue string) float64 {
	switch p.ID {
	case "jwt":
		if strings.Count(secretValue, ".") != 2 {
			return -1 // forces keep-threshold miss
		}
	case "openai_key":
		if !openAIKeyRE.MatchString(secretValue) {
			return -1
		}
	case "database_url":
		if !strings.Contains(secretValue, "://") || strings.Contains(secretValue, "example.com") {
			return -1
		}
	case "generic_secret":
		if templateInterpRE.MatchString(line) && len(secretValue) > 40 {
			return -0.5
		}
	}
	return 0
}

func isNodeModulesOrPackageJSON(path string) bool {
	p := filepath.ToSlash(path)
	return strings.Contains(p, "node_modules/") || filepath.Base(p) == "package.json"
}

func isTestPath(path string) bool {
	p := strings.ToLower(filepath.ToSlash(path))
	return strings.Contains(p, "/test/") || strings.Contains(p, "/tests/") ||
		strings.Contains(p, "_test.") || strings.Contains(p, ".test.") ||
		strings.Contains(p, ".spec.") || strings.HasPrefix(p, "test/") || strings.HasPrefix(p, "tests/")
}

func isDocPath(path string) bool {
	p := strings.ToLower(filepath.ToSlash(path))
	return strings.Contains(p, "/docs/") || strings.HasPrefix(p, "docs/") ||
		strings.HasSuffix(p, ".md") || strings.HasSuffix(p, ".rst") || strings.HasSuffix(p, ".adoc")
}
