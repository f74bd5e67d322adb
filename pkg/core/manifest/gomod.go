package manifest

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/reposcope/reposcope/pkg/model"
)

type gomodParser struct{}

func (p *gomodParser) Matches(basename string) bool { return basename == "go.mod" }

// Parse implements the line-oriented go.mod require-block parser from
// repository.go's extractGoDependencies, handling both single-line and
// multi-line require(...) blocks and stripping trailing "// indirect"
// markers, retaining indirect deps but flagging Direct=false.
func (p *gomodParser) Parse(path string) (model.ManifestRecord, error) {
	data, err := readFile(path)
	if err != nil {
		return model.ManifestRecord{}, err
	}
	rec := model.ManifestRecord{Language: model.LangGo, PackageManager: "go modules"}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	inBlock := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "go "):
			rec.Version = strings.TrimSpace(strings.TrimPrefix(line, "go "))
		case strings.HasPrefix(line, "module "):
			// module path, not a dependency
		case strings.HasPrefix(line, "require ("):
			inBlock = true
		case inBlock && line == ")":
			inBlock = false
		case inBlock:
			if dep, ok := parseGoRequireLine(line); ok {
				rec.Dependencies = append(rec.Dependencies, dep)
			}
		case strings.HasPrefix(line, "require "):
			if dep, ok := parseGoRequireLine(strings.TrimPrefix(line, "require ")); ok {
				rec.Dependencies = append(rec.Dependencies, dep)
			}
		}
	}
	return rec, nil
}

func parseGoRequireLine(line string) (model.Dependency, bool) {
	indirect := false
	if idx := strings.Index(line, "//"); idx >= 0 {
		comment := strings.TrimSpace(line[idx+2:])
		if strings.Contains(comment, "indirect") {
			indirect = true
		}
		line = strings.TrimSpace(line[:idx])
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return model.Dependency{}, false
	}
	return model.Dependency{
		Name:      fields[0],
		Version:   fields[1],
		Kind:      model.DepProd,
		Direct:    !indirect,
		Ecosystem: "go",
	}, true
}
