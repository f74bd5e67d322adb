// Package security implements the Secret Scanner (component H): a
// parallel file-discovery and multi-pattern-matching pipeline with
// context-aware confidence scoring, deduplication and git-awareness,
// producing a model.SecurityReport.
//
// Grounded on secret_discovery.go's PatternDetector, EntropyDetector,
// ExclusionManager and semaphore-bounded goroutine-per-file ScanDirectory
// model, extended per spec 4.H with a quick-reject pre-scan, git-aware
// severity adjustment via pkg/common/runner, and JWT structural
// verification via golang-jwt/jwt/v5.
package security

import "github.com/reposcope/reposcope/pkg/model"

type Severity = model.SecuritySeverity
type Category = model.SecurityCategory

const (
	SeverityCritical = model.SeverityCritical
	SeverityHigh     = model.SeverityHigh
	SeverityMedium   = model.SeverityMedium
	SeverityLow      = model.SeverityLow
	SeverityInfo     = model.SeverityInfo
)

const (
	CategorySecretsExposure = model.CategorySecretsExposure
)
