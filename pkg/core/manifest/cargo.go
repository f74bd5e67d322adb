package manifest

import (
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/reposcope/reposcope/pkg/model"
)

var editionVersionHints = map[string]string{
	"2021": "1.56+",
	"2018": "1.31+",
	"2015": "1.0+",
}

type cargoDoc struct {
	Package struct {
		Name    string `toml:"name"`
		Edition string `toml:"edition"`
		Version string `toml:"version"`
	} `toml:"package"`
	Dependencies    map[string]interface{} `toml:"dependencies"`
	DevDependencies map[string]interface{} `toml:"dev-dependencies"`
}

type cargoLockDoc struct {
	Package []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

type cargoParser struct{}

func (p *cargoParser) Matches(basename string) bool { return basename == "Cargo.toml" }

func (p *cargoParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	var doc cargoDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return model.ManifestRecord{}, err
	}

	rec := model.ManifestRecord{
		Language:       model.LangRust,
		PackageManager: "cargo",
		Edition:        doc.Package.Edition,
	}
	if hint, ok := editionVersionHints[doc.Package.Edition]; ok {
		rec.Version = hint
	}

	devNames := map[string]bool{}
	for name := range doc.DevDependencies {
		devNames[name] = true
	}

	lockPath := filepath.Join(filepath.Dir(path), "Cargo.lock")
	if fileExists(lockPath) {
		// Cargo.lock enumerates the transitive closure; prefer it, tagging
		// each locked package dev only if it also appears in
		// [dev-dependencies], per spec 4.B.
		lockData, lerr := readFile(lockPath)
		if lerr == nil {
			var lock cargoLockDoc
			if toml.Unmarshal(lockData, &lock) == nil {
				for _, pkg := range lock.Package {
					kind := model.DepProd
					if devNames[pkg.Name] {
						kind = model.DepDev
					}
					rec.Dependencies = append(rec.Dependencies, model.Dependency{
						Name: pkg.Name, Version: pkg.Version, Kind: kind, Direct: false, Ecosystem: "cargo",
					})
				}
				return rec, nil
			}
		}
	}

	for name, v := range doc.Dependencies {
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: cargoDepVersion(v), Kind: model.DepProd, Direct: true, Ecosystem: "cargo",
		})
	}
	for name, v := range doc.DevDependencies {
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: cargoDepVersion(v), Kind: model.DepDev, Direct: true, Ecosystem: "cargo",
		})
	}
	return rec, nil
}

func cargoDepVersion(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		if s, ok := t["version"].(string); ok {
			return s
		}
		// path/git source with no version field.
		return "*"
	}
	return "*"
}
