package manifest

import (
	"context"
	"encoding/xml"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/reposcope/reposcope/pkg/common/runner"
	"github.com/reposcope/reposcope/pkg/logger"
	"github.com/reposcope/reposcope/pkg/model"
)

// buildToolTimeout bounds mvn/gradle introspection calls, per spec section
// 5's 5s per-call subprocess deadline and original_source/dependency_parser.rs's
// documented fallback-on-timeout behavior.
const buildToolTimeout = 5 * time.Second

type pomXML struct {
	Dependencies struct {
		Dependency []struct {
			GroupID    string `xml:"groupId"`
			ArtifactID string `xml:"artifactId"`
			Version    string `xml:"version"`
			Scope      string `xml:"scope"`
		} `xml:"dependency"`
	} `xml:"dependencies"`
}

type mavenParser struct {
	runner runner.CommandRunner
}

func (p *mavenParser) Matches(basename string) bool { return basename == "pom.xml" }

func (p *mavenParser) Parse(path string) (model.ManifestRecord, error) {
	rec := model.ManifestRecord{Language: model.LangJava, PackageManager: "maven"}

	if deps, ok := p.tryMavenCLI(path); ok {
		rec.Dependencies = deps
		return rec, nil
	}

	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	var doc pomXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return model.ManifestRecord{}, err
	}
	for _, d := range doc.Dependencies.Dependency {
		kind := model.DepProd
		if d.Scope == "test" {
			kind = model.DepDev
		}
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: d.GroupID + ":" + d.ArtifactID, Version: d.Version, Kind: kind, Direct: true, Ecosystem: "maven",
		})
	}
	return rec, nil
}

var mavenDepLineRE = regexp.MustCompile(`([\w.\-]+):([\w.\-]+):jar:([\w.\-]+):(\w+)`)

func (p *mavenParser) tryMavenCLI(path string) ([]model.Dependency, bool) {
	if p.runner == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), buildToolTimeout)
	defer cancel()
	out, err := p.runner.RunInDir(ctx, filepath.Dir(path), "mvn", "-q", "dependency:list")
	if err != nil {
		logger.Debugf("mvn dependency:list unavailable, falling back to pom.xml parse: %v", err)
		return nil, false
	}
	var deps []model.Dependency
	for _, m := range mavenDepLineRE.FindAllStringSubmatch(out, -1) {
		kind := model.DepProd
		if m[4] == "test" {
			kind = model.DepDev
		}
		deps = append(deps, model.Dependency{
			Name: m[1] + ":" + m[2], Version: m[3], Kind: kind, Direct: true, Ecosystem: "maven",
		})
	}
	if len(deps) == 0 {
		return nil, false
	}
	return deps, true
}

type gradleParser struct {
	runner runner.CommandRunner
}

func (p *gradleParser) Matches(basename string) bool {
	return basename == "build.gradle" || basename == "build.gradle.kts"
}

var gradleDepLineRE = regexp.MustCompile(`['"]([\w.\-]+):([\w.\-]+):([\w.\-+]+)['"]`)
var gradleConfigRE = regexp.MustCompile(`^\s*(testImplementation|testCompile|androidTestImplementation|implementation|api|compile|runtimeOnly)\b`)

func (p *gradleParser) Parse(path string) (model.ManifestRecord, error) {
	rec := model.ManifestRecord{Language: model.LangJava, PackageManager: "gradle"}
	if strings.HasSuffix(path, ".kts") {
		// Kotlin DSL Gradle scripts use the same dependency coordinate
		// string literals as Groovy; the line-oriented fallback below
		// covers both (original_source's Kotlin detection also reuses the
		// Groovy Gradle parser for .kts, per spec's open-question note).
	}

	if deps, ok := p.tryGradleCLI(path); ok {
		rec.Dependencies = deps
		return rec, nil
	}

	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		m := gradleDepLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		kind := model.DepProd
		if gradleConfigRE.MatchString(line) && strings.Contains(strings.ToLower(line), "test") {
			kind = model.DepDev
		}
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: m[1] + ":" + m[2], Version: m[3], Kind: kind, Direct: true, Ecosystem: "gradle",
		})
	}
	return rec, nil
}

func (p *gradleParser) tryGradleCLI(path string) ([]model.Dependency, bool) {
	if p.runner == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), buildToolTimeout)
	defer cancel()
	out, err := p.runner.RunInDir(ctx, filepath.Dir(path), "gradle", "dependencies", "--configuration=runtimeClasspath")
	if err != nil {
		logger.Debugf("gradle dependencies unavailable, falling back to build.gradle parse: %v", err)
		return nil, false
	}
	var deps []model.Dependency
	for _, m := range gradleDepLineRE.FindAllStringSubmatch(out, -1) {
		deps = append(deps, model.Dependency{
			Name: m[1] + ":" + m[2], Version: m[3], Kind: model.DepProd, Direct: true, Ecosystem: "gradle",
		})
	}
	if len(deps) == 0 {
		return nil, false
	}
	return deps, true
}
