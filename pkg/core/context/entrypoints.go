// Package context implements the Context Extractor (component E):
// entry points, ports, environment variables, build scripts, Compose
// service typing, and project-type inference, per spec 4.E.
//
// Grounded on pkg/core/analysis/repository.go's findEntryPoints,
// findBuildFiles, detectPort, and extractPortFromPackageJson,
// generalized into a per-language pattern table and, for build-script
// argument parsing, google/shlex-lexed script strings per
// original_source/mcp-rust-server/cli/src/analyzer/project_context.rs's
// per-language analyze_*_project functions.
package context

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/reposcope/reposcope/pkg/model"
)

var entryPointCandidates = map[model.LanguageName][]string{
	model.LangJavaScript: {"index.js", "app.js", "server.js", "main.js"},
	model.LangTypeScript: {"index.ts", "app.ts", "server.ts", "main.ts"},
	model.LangPython:     {"main.py", "app.py", "manage.py", "__main__.py", "run.py"},
	model.LangGo:         {"main.go"},
	model.LangRust:       {"src/main.rs"},
}

// DetectEntryPoints finds conventional-filename entry points, package.json
// "main"/"bin" declarations, Cargo [[bin]] targets, and cmd/*/main.go
// binaries among a project's files.
func DetectEntryPoints(root string, files []model.File, lang model.LanguageName) []model.EntryPoint {
	present := map[string]bool{}
	for _, f := range files {
		present[f.RelPath] = true
	}

	var out []model.EntryPoint
	for _, candidate := range entryPointCandidates[lang] {
		if present[candidate] {
			out = append(out, model.EntryPoint{File: candidate})
		}
	}

	for rel := range present {
		if strings.HasPrefix(rel, "cmd/") && strings.HasSuffix(rel, "/main.go") {
			out = append(out, model.EntryPoint{File: rel, Command: "go run ./" + filepath.Dir(rel)})
		}
	}

	if pkg, ok := readPackageJSON(root); ok {
		if pkg.Main != "" && present[pkg.Main] {
			out = append(out, model.EntryPoint{File: pkg.Main})
		}
		for name, binPath := range pkg.Bin {
			out = append(out, model.EntryPoint{File: binPath, Command: name})
		}
	}

	if bins, ok := readCargoBins(root); ok {
		for _, b := range bins {
			out = append(out, model.EntryPoint{File: b.Path, Command: b.Name})
		}
	}

	return out
}

type packageJSON struct {
	Main string            `json:"main"`
	Bin  map[string]string `json:"bin"`
}

func readPackageJSON(root string) (packageJSON, bool) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return packageJSON{}, false
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return packageJSON{}, false
	}
	return pkg, true
}

type cargoBin struct {
	Name string
	Path string
}

// readCargoBins extracts [[bin]] tables from Cargo.toml without a full TOML
// parse dependency duplicate of the manifest package's cargoDoc, since only
// the bin name/path pair is needed here.
func readCargoBins(root string) ([]cargoBin, bool) {
	data, err := os.ReadFile(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		return nil, false
	}
	var bins []cargoBin
	lines := strings.Split(string(data), "\n")
	inBin := false
	var cur cargoBin
	flush := func() {
		if cur.Name != "" {
			if cur.Path == "" {
				cur.Path = "src/bin/" + cur.Name + ".rs"
			}
			bins = append(bins, cur)
		}
		cur = cargoBin{}
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "[[bin]]" {
			flush()
			inBin = true
			continue
		}
		if strings.HasPrefix(trimmed, "[") {
			inBin = false
			continue
		}
		if !inBin {
			continue
		}
		if name, ok := strings.CutPrefix(trimmed, "name"); ok {
			cur.Name = extractQuoted(name)
		}
		if path, ok := strings.CutPrefix(trimmed, "path"); ok {
			cur.Path = extractQuoted(path)
		}
	}
	flush()
	return bins, len(bins) > 0
}

func extractQuoted(s string) string {
	i := strings.Index(s, "\"")
	if i == -1 {
		return ""
	}
	rest := s[i+1:]
	j := strings.Index(rest, "\"")
	if j == -1 {
		return ""
	}
	return rest[:j]
}
