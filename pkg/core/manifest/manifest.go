// Package manifest implements the Manifest Parser (component B): per
// recognized manifest file, it produces a normalized model.ManifestRecord
// with a uniform dependency list, following the rules in spec section 4.B.
//
// Grounded on pkg/core/analysis/repository.go's extractNpmDependencies /
// extractPipDependencies / extractMavenDependencies / extractGoDependencies,
// generalized into a Parser-per-ecosystem shape; the Maven/Gradle CLI
// fallback behavior is supplemented from original_source/dependency_parser.rs.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/reposcope/reposcope/pkg/common/runner"
	"github.com/reposcope/reposcope/pkg/errkit"
	"github.com/reposcope/reposcope/pkg/model"
)

// Parser recognizes and parses one manifest format.
type Parser interface {
	// Matches reports whether the given base filename is this parser's format.
	Matches(basename string) bool
	// Parse reads and normalizes the manifest at path.
	Parse(path string) (model.ManifestRecord, error)
}

// Registry is the ordered set of known manifest parsers.
func Registry(cr runner.CommandRunner) []Parser {
	return []Parser{
		&npmParser{},
		&pipRequirementsParser{},
		&pipfileParser{},
		&pyprojectParser{},
		&cargoParser{},
		&gomodParser{},
		&mavenParser{runner: cr},
		&gradleParser{runner: cr},
		&composerParser{},
		&bundlerParser{},
		&nugetParser{},
		&dartParser{},
		&setupCfgParser{},
	}
}

// ParseProject walks manifestPaths (absolute paths, as classified by the
// walker) and parses each against the first matching registered parser.
// Malformed manifests are recorded as errkit.Error (ManifestParsing) but do
// not abort the run, per spec section 4.B's failure semantics.
func ParseProject(manifestPaths []string, cr runner.CommandRunner) ([]model.ManifestRecord, []errkit.Error) {
	parsers := Registry(cr)
	var records []model.ManifestRecord
	var errs []errkit.Error

	for _, path := range manifestPaths {
		base := filepath.Base(path)
		for _, p := range parsers {
			if !p.Matches(base) {
				continue
			}
			rec, err := p.Parse(path)
			if err != nil {
				errs = append(errs, *errkit.New(errkit.ManifestParsing, "manifest", err.Error(), err).WithPath(path))
				break
			}
			rec.Path = path
			records = append(records, rec)
			break
		}
	}
	return records, errs
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
