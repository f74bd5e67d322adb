package manifest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reposcope/reposcope/pkg/model"
)

type composerManifest struct {
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

type composerParser struct{}

func (p *composerParser) Matches(basename string) bool { return basename == "composer.json" }

func (p *composerParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	var m composerManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return model.ManifestRecord{}, err
	}
	rec := model.ManifestRecord{Language: "PHP", PackageManager: "composer"}
	for name, v := range m.Require {
		if name == "php" {
			rec.Version = v
			continue
		}
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: v, Kind: model.DepProd, Direct: true, Ecosystem: "composer",
		})
	}
	for name, v := range m.RequireDev {
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: v, Kind: model.DepDev, Direct: true, Ecosystem: "composer",
		})
	}
	return rec, nil
}

var gemLineRE = regexp.MustCompile(`^\s*gem\s+['"]([\w.\-]+)['"](?:\s*,\s*['"]([^'"]+)['"])?`)

type bundlerParser struct{}

func (p *bundlerParser) Matches(basename string) bool { return basename == "Gemfile" }

func (p *bundlerParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	rec := model.ManifestRecord{Language: "Ruby", PackageManager: "bundler"}
	inTestGroup := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "group") && (strings.Contains(trimmed, ":test") || strings.Contains(trimmed, ":development")) {
			inTestGroup = true
			continue
		}
		if trimmed == "end" {
			inTestGroup = false
			continue
		}
		m := gemLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		kind := model.DepProd
		if inTestGroup {
			kind = model.DepDev
		}
		version := m[2]
		if version == "" {
			version = "*"
		}
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: m[1], Version: version, Kind: kind, Direct: true, Ecosystem: "bundler",
		})
	}
	return rec, nil
}

type csprojXML struct {
	ItemGroup []struct {
		PackageReference []struct {
			Include string `xml:"Include,attr"`
			Version string `xml:"Version,attr"`
		} `xml:"PackageReference"`
	} `xml:"ItemGroup"`
}

type nugetParser struct{}

func (p *nugetParser) Matches(basename string) bool { return strings.HasSuffix(basename, ".csproj") }

func (p *nugetParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	var doc csprojXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return model.ManifestRecord{}, err
	}
	rec := model.ManifestRecord{Language: "C#", PackageManager: "nuget"}
	for _, group := range doc.ItemGroup {
		for _, ref := range group.PackageReference {
			rec.Dependencies = append(rec.Dependencies, model.Dependency{
				Name: ref.Include, Version: ref.Version, Kind: model.DepProd, Direct: true, Ecosystem: "nuget",
			})
		}
	}
	return rec, nil
}

type pubspecDoc struct {
	Environment map[string]string      `yaml:"environment"`
	Dependencies map[string]interface{} `yaml:"dependencies"`
	DevDependencies map[string]interface{} `yaml:"dev_dependencies"`
}

type dartParser struct{}

func (p *dartParser) Matches(basename string) bool { return basename == "pubspec.yaml" }

func (p *dartParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	var doc pubspecDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.ManifestRecord{}, err
	}
	rec := model.ManifestRecord{Language: "Dart", PackageManager: "pub"}
	if sdk, ok := doc.Environment["sdk"]; ok {
		rec.Version = sdk
	}
	for name, v := range doc.Dependencies {
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: pubVersion(v), Kind: model.DepProd, Direct: true, Ecosystem: "pub",
		})
	}
	for name, v := range doc.DevDependencies {
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: pubVersion(v), Kind: model.DepDev, Direct: true, Ecosystem: "pub",
		})
	}
	return rec, nil
}

func pubVersion(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "*"
}
