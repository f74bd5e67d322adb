package manifest

import (
	"strings"

	"gopkg.in/ini.v1"

	"github.com/reposcope/reposcope/pkg/model"
)

// setupCfgParser recovers install_requires from setup.cfg's [options]
// section, for the (increasingly rare) Python projects that declare
// dependencies there instead of pyproject.toml.
type setupCfgParser struct{}

func (p *setupCfgParser) Matches(basename string) bool {
	return basename == "setup.cfg" || basename == "tox.ini"
}

func (p *setupCfgParser) Parse(path string) (model.ManifestRecord, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	rec := model.ManifestRecord{Language: model.LangPython, PackageManager: "pip"}
	section := cfg.Section("options")
	raw := section.Key("install_requires").String()
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, version := splitRequirement(line)
		if name == "" {
			continue
		}
		rec.Dependencies = append(rec.Dependencies, model.Dependency{
			Name: name, Version: version, Kind: model.DepProd, Direct: true, Ecosystem: "pip",
		})
	}
	return rec, nil
}
