// Package technology implements the Technology Classifier (component D):
// rule-driven detection of frameworks, libraries, runtimes, and databases
// from a project's resolved dependency list, with requires-propagation,
// conflict resolution, and primary-technology election, per spec 4.D.
// Matched dependencies' raw version ranges are normalized into a semver
// constraint via github.com/Masterminds/semver/v3, and a project's
// k8s/manifests/deploy YAML is probed for apiVersion/kind through
// sigs.k8s.io/yaml to surface an Orchestration-category "Kubernetes" entry.
//
// Grounded on pkg/core/analysis/repository.go's detectJavaScriptFramework
// and analyzeDatabase switch-based detectors, generalized into the
// table-driven confidence/requires/conflicts_with rule model
// original_source/mcp-rust-server/cli/src/analyzer/frameworks/javascript.rs
// and project_context.rs build their DetectedTechnology values around.
package technology

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/reposcope/reposcope/pkg/model"
)

// categoryPriority ranks categories for conflict resolution and primary
// election: a MetaFramework outranks a BackendFramework outranks a
// FrontendFramework outranks a Runtime outranks everything else.
var categoryPriority = map[model.CategoryKind]int{
	model.CatMetaFramework:     5,
	model.CatBackendFramework:  4,
	model.CatFrontendFramework: 3,
	model.CatRuntime:           2,
	model.CatDatabase:          1,
}

// Classify matches the rule pack for lang against deps, resolves
// requires/conflicts, and elects exactly one primary technology among the
// survivors (if any rule qualifies as a primary indicator). files is
// consulted only for signals deps/lang can't carry, such as the
// orchestration-manifest probe below.
func Classify(root string, deps []model.Dependency, lang model.LanguageName, files []model.File) []model.DetectedTechnology {
	rules := RulesFor(lang)
	matched := map[string]model.DetectedTechnology{}

	for _, r := range rules {
		conf, ok := matchRule(root, r, deps)
		if !ok {
			continue
		}
		matched[r.Name] = model.DetectedTechnology{
			Name:              r.Name,
			Category:          r.Category,
			Confidence:        conf,
			Version:           rawVersionFor(r, deps),
			VersionConstraint: versionConstraintFor(r, deps),
			Requires:          r.Requires,
			ConflictsWith:     r.ConflictsWith,
		}
	}

	propagateRequires(matched, rules)
	resolveConflicts(matched)

	out := make([]model.DetectedTechnology, 0, len(matched)+1)
	for _, t := range matched {
		out = append(out, t)
	}
	if k8s, ok := detectKubernetesManifests(root, files); ok {
		out = append(out, k8s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	electPrimary(out)
	return out
}

// rawVersionFor returns the manifest-declared version range of the
// dependency that satisfied r's DependencyPatterns, empty if none matched
// by name (e.g. a requires-propagated technology with no dependency of its
// own).
func rawVersionFor(r Rule, deps []model.Dependency) string {
	for _, d := range deps {
		name := strings.ToLower(d.Name)
		for _, p := range r.DependencyPatterns {
			if name == strings.ToLower(p) || strings.Contains(name, strings.ToLower(p)) {
				return d.Version
			}
		}
	}
	return ""
}

// versionConstraintFor normalizes a dependency's raw manifest version range
// (npm's "^1.2.3", Cargo's ">=1, <2", pip's "~=2.0") into semver's canonical
// constraint string, so callers get a comparable constraint instead of an
// ecosystem-specific range syntax. Returns empty when the raw version is
// absent or isn't expressible as a semver constraint (a git ref, "latest",
// a path dependency, etc).
func versionConstraintFor(r Rule, deps []model.Dependency) string {
	raw := rawVersionFor(r, deps)
	if raw == "" {
		return ""
	}
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return ""
	}
	return c.String()
}

// k8sManifestDirs are the directory names spec 4.D treats as Kubernetes
// manifest locations worth probing for apiVersion/kind discriminators.
var k8sManifestDirs = map[string]bool{"k8s": true, "manifests": true, "deploy": true}

type k8sDiscriminator struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`
}

// detectKubernetesManifests reports an Orchestration-category "Kubernetes"
// technology when a YAML file under a k8s/manifests/deploy directory
// decodes to a document carrying both apiVersion and kind.
func detectKubernetesManifests(root string, files []model.File) (model.DetectedTechnology, bool) {
	for _, f := range files {
		if !strings.HasSuffix(f.RelPath, ".yaml") && !strings.HasSuffix(f.RelPath, ".yml") {
			continue
		}
		dir := strings.Split(filepath.ToSlash(f.RelPath), "/")[0]
		if !k8sManifestDirs[dir] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, f.RelPath))
		if err != nil {
			continue
		}
		var doc k8sDiscriminator
		if err := sigsyaml.Unmarshal(data, &doc); err != nil {
			continue
		}
		if doc.APIVersion == "" || doc.Kind == "" {
			continue
		}
		return model.DetectedTechnology{
			Name:       "Kubernetes",
			Category:   model.TechnologyCategory{Kind: model.CatOrchestration},
			Confidence: 0.8,
		}, true
	}
	return model.DetectedTechnology{}, false
}

// matchRule reports whether rule r is satisfied and at what confidence.
// A dependency-pattern match alone earns BaseConfidence; rules carrying a
// SourceProbe additionally require a signature file to exist (and, if
// SourceProbeContains is set, to contain the expected fragment) before
// they're accepted — this is what disambiguates a bare `prisma` devDependency
// (could be unused, or just installed for codegen) from an actual schema.
func matchRule(root string, r Rule, deps []model.Dependency) (float64, bool) {
	depHit := false
	for _, d := range deps {
		name := strings.ToLower(d.Name)
		for _, p := range r.DependencyPatterns {
			if name == strings.ToLower(p) || strings.Contains(name, strings.ToLower(p)) {
				depHit = true
				break
			}
		}
		if depHit {
			break
		}
	}
	if !depHit {
		return 0, false
	}
	if len(r.SourceProbeFiles) == 0 {
		return r.BaseConfidence, true
	}
	for _, rel := range r.SourceProbeFiles {
		if probeFileMatches(root, rel, r.SourceProbeContains) {
			return r.BaseConfidence, true
		}
	}
	// Dependency present but no corroborating source signature: the
	// technology may be an unused transitive install. Lower confidence
	// rather than reject outright, matching spec 4.D's ambiguous-manifest
	// handling for Drizzle/Prisma/Encore/Tanstack Start.
	return r.BaseConfidence * 0.5, true
}

func probeFileMatches(root, rel string, contains []string) bool {
	if root == "" {
		return false
	}
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return false
	}
	if len(contains) == 0 {
		return true
	}
	text := string(data)
	for _, c := range contains {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}

// propagateRequires adds technologies named in a matched rule's Requires
// list that weren't independently detected, at 0.85x the requirer's
// confidence, per spec 4.D (e.g. Next.js implies React even when React
// isn't separately listed as a dependency).
func propagateRequires(matched map[string]model.DetectedTechnology, rules []Rule) {
	byName := map[string]Rule{}
	for _, r := range rules {
		byName[r.Name] = r
	}
	changed := true
	for changed {
		changed = false
		for _, t := range matched {
			for _, reqName := range t.Requires {
				if _, ok := matched[reqName]; ok {
					continue
				}
				r, ok := byName[reqName]
				if !ok {
					continue
				}
				matched[reqName] = model.DetectedTechnology{
					Name:          r.Name,
					Category:      r.Category,
					Confidence:    t.Confidence * 0.85,
					Requires:      r.Requires,
					ConflictsWith: r.ConflictsWith,
				}
				changed = true
			}
		}
	}
}

// resolveConflicts drops the lower-confidence side of any ConflictsWith
// pair (e.g. Next.js vs Nuxt can't both be the project's meta-framework).
func resolveConflicts(matched map[string]model.DetectedTechnology) {
	for name, t := range matched {
		for _, other := range t.ConflictsWith {
			o, ok := matched[other]
			if !ok {
				continue
			}
			if t.Confidence >= o.Confidence {
				delete(matched, other)
			} else {
				delete(matched, name)
				break
			}
		}
	}
}

// electPrimary marks exactly one technology IsPrimary=true: the highest
// category-priority, highest-confidence candidate among those whose rule
// was flagged IsPrimaryIndicator. If no candidate qualifies, none is
// marked primary.
func electPrimary(techs []model.DetectedTechnology) {
	best := -1
	for i, t := range techs {
		if !t.Category.IsPrimaryIndicatorCategory() {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		pb := categoryPriority[techs[best].Category.Kind]
		pi := categoryPriority[t.Category.Kind]
		if pi > pb || (pi == pb && t.Confidence > techs[best].Confidence) {
			best = i
		}
	}
	if best >= 0 {
		techs[best].IsPrimary = true
	}
}
