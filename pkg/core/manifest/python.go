package manifest

import (
	"bufio"
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/reposcope/reposcope/pkg/model"
)

var versionSplitRE = regexp.MustCompile(`[=<>~!]`)

// splitRequirement splits a PEP-508-ish requirement into name and version
// specifier at the first of = > < ~ !, stripping bracketed extras from the
// name, per spec 4.B's PEP-508 rule.
func splitRequirement(req string) (name, version string) {
	req = strings.TrimSpace(req)
	if idx := strings.IndexByte(req, ';'); idx >= 0 {
		req = strings.TrimSpace(req[:idx]) // drop environment markers
	}
	loc := versionSplitRE.FindStringIndex(req)
	if loc == nil {
		name = req
	} else {
		name = strings.TrimSpace(req[:loc[0]])
		version = strings.TrimSpace(req[loc[0]:])
	}
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name), version
}

type pipRequirementsParser struct{}

func (p *pipRequirementsParser) Matches(basename string) bool {
	return strings.HasPrefix(basename, "requirements") && strings.HasSuffix(basename, ".txt")
}

func (p *pipRequirementsParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	isDev := strings.Contains(strings.ToLower(filepath.Base(path)), "dev")
	kind := model.DepProd
	if isDev {
		kind = model.DepDev
	}

	rec := model.ManifestRecord{Language: model.LangPython, PackageManager: "pip"}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		name, version := splitRequirement(line)
		if name == "" {
			continue
		}
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: version, Kind: kind, Direct: true, Ecosystem: "pip",
		})
	}
	return rec, nil
}

type pipfileDoc struct {
	Packages    map[string]interface{} `toml:"packages"`
	DevPackages map[string]interface{} `toml:"dev-packages"`
}

type pipfileParser struct{}

func (p *pipfileParser) Matches(basename string) bool { return basename == "Pipfile" }

func (p *pipfileParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	var doc pipfileDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return model.ManifestRecord{}, err
	}
	rec := model.ManifestRecord{Language: model.LangPython, PackageManager: "pipenv"}
	addPipfileDeps(&rec, doc.Packages, model.DepProd)
	addPipfileDeps(&rec, doc.DevPackages, model.DepDev)
	return rec, nil
}

func addPipfileDeps(rec *model.ManifestRecord, pkgs map[string]interface{}, kind model.DependencyKind) {
	for name, v := range pkgs {
		version := "*"
		if s, ok := v.(string); ok {
			version = s
		}
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: version, Kind: kind, Direct: true, Ecosystem: "pip",
		})
	}
}

// pyprojectDoc covers Poetry, PEP 621, and is permissive about PDM/setuptools
// sections it doesn't specifically model.
type pyprojectDoc struct {
	Project struct {
		Dependencies          []string            `toml:"dependencies"`
		OptionalDependencies  map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
			DevDependencies map[string]interface{} `toml:"dev-dependencies"`
			Group map[string]struct {
				Dependencies map[string]interface{} `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

type pyprojectParser struct{}

func (p *pyprojectParser) Matches(basename string) bool { return basename == "pyproject.toml" }

func (p *pyprojectParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	var doc pyprojectDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return model.ManifestRecord{}, err
	}
	rec := model.ManifestRecord{Language: model.LangPython, PackageManager: "pip"}

	for name, v := range doc.Tool.Poetry.Dependencies {
		if strings.EqualFold(name, "python") {
			if s, ok := v.(string); ok {
				rec.Version = s
			}
			continue
		}
		rec.PackageManager = "poetry"
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: poetryVersion(v), Kind: model.DepProd, Direct: true, Ecosystem: "pip",
		})
	}
	for name, v := range doc.Tool.Poetry.DevDependencies {
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: poetryVersion(v), Kind: model.DepDev, Direct: true, Ecosystem: "pip",
		})
	}
	for groupName, group := range doc.Tool.Poetry.Group {
		kind := model.DepOptional
		if strings.HasPrefix(groupName, "dev") || strings.HasPrefix(groupName, "test") {
			kind = model.DepDev
		}
		for name, v := range group.Dependencies {
			rec.Dependencies = append(rec.Dependencies, model.Dependency{
				Name: name, Version: poetryVersion(v), Kind: kind, Direct: true, Ecosystem: "pip",
			})
		}
	}

	for _, req := range doc.Project.Dependencies {
		name, version := splitRequirement(req)
		if name == "" {
			continue
		}
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: version, Kind: model.DepProd, Direct: true, Ecosystem: "pip",
		})
	}
	for groupName, reqs := range doc.Project.OptionalDependencies {
		kind := model.DepOptional
		lower := strings.ToLower(groupName)
		if strings.HasPrefix(lower, "dev") || strings.HasPrefix(lower, "test") {
			kind = model.DepDev
		}
		for _, req := range reqs {
			name, version := splitRequirement(req)
			if name == "" {
				continue
			}
			rec.Dependencies = append(rec.Dependencies, model.Dependency{
				Name: name, Version: version, Kind: kind, Direct: true, Ecosystem: "pip",
			})
		}
	}
	return rec, nil
}

func poetryVersion(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		if s, ok := t["version"].(string); ok {
			return s
		}
	}
	return "*"
}
