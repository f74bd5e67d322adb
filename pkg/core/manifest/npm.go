package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/reposcope/reposcope/pkg/model"
)

type npmManifest struct {
	Name            string            `json:"name"`
	Engines         map[string]string `json:"engines"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type npmParser struct{}

func (p *npmParser) Matches(basename string) bool { return basename == "package.json" }

func (p *npmParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	var m npmManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return model.ManifestRecord{}, fmt.Errorf("package.json: %w", err)
	}

	rec := model.ManifestRecord{
		Language:       model.LangJavaScript,
		PackageManager: "npm",
	}
	if v, ok := m.Engines["node"]; ok {
		rec.Version = v
	}
	for name, v := range m.Dependencies {
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: v, Kind: model.DepProd, Direct: true, Ecosystem: "npm",
		})
	}
	for name, v := range m.DevDependencies {
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: v, Kind: model.DepDev, Direct: true, Ecosystem: "npm",
		})
	}
	return rec, nil
}
