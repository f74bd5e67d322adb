package context

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/reposcope/reposcope/pkg/model"
)

var languageDefaultScripts = map[model.LanguageName][]model.BuildScript{
	model.LangRust:       {{Name: "build", Command: "cargo build"}, {Name: "test", Command: "cargo test"}, {Name: "run", Command: "cargo run"}},
	model.LangGo:         {{Name: "build", Command: "go build ./..."}, {Name: "test", Command: "go test ./..."}, {Name: "run", Command: "go run ."}},
	model.LangPython:     {{Name: "install", Command: "pip install -r requirements.txt"}},
	model.LangJava:       {{Name: "build", Command: "mvn package"}, {Name: "test", Command: "mvn test"}},
	model.LangKotlin:     {{Name: "build", Command: "gradle build"}, {Name: "test", Command: "gradle test"}},
	model.LangJavaScript: {},
	model.LangTypeScript: {},
}

// preferredDefaultNames ranks candidate script names for the single
// is_default=true election, per spec 4.E ("preferring start or dev/run").
var preferredDefaultNames = []string{"start", "dev", "run"}

// DetectBuildScripts collects package.json "scripts", Poetry scripts from
// pyproject.toml, Makefile targets, and a fixed per-language default set,
// then elects exactly one is_default=true entry.
func DetectBuildScripts(root string, lang model.LanguageName) []model.BuildScript {
	var out []model.BuildScript

	if scripts, ok := readPackageJSONScripts(root); ok {
		for name, cmd := range scripts {
			out = append(out, model.BuildScript{Name: name, Command: cmd})
		}
	}

	if scripts := readPoetryScripts(root); len(scripts) > 0 {
		out = append(out, scripts...)
	}

	if targets := readMakefileTargets(root); len(targets) > 0 {
		out = append(out, targets...)
	}

	out = append(out, languageDefaultScripts[lang]...)

	electDefault(out)
	return out
}

func electDefault(scripts []model.BuildScript) {
	if len(scripts) == 0 {
		return
	}
	best := -1
	bestRank := len(preferredDefaultNames)
	for i, s := range scripts {
		for rank, name := range preferredDefaultNames {
			if strings.EqualFold(s.Name, name) && rank < bestRank {
				best = i
				bestRank = rank
			}
		}
	}
	if best == -1 {
		best = 0
	}
	for i := range scripts {
		scripts[i].IsDefault = i == best
	}
}

func readPoetryScripts(root string) []model.BuildScript {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return nil
	}
	var out []model.BuildScript
	inScripts := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "[tool.poetry.scripts]" {
			inScripts = true
			continue
		}
		if strings.HasPrefix(trimmed, "[") {
			inScripts = false
			continue
		}
		if !inScripts || !strings.Contains(trimmed, "=") {
			continue
		}
		parts := strings.SplitN(trimmed, "=", 2)
		name := strings.TrimSpace(parts[0])
		cmd := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		out = append(out, model.BuildScript{Name: name, Command: cmd})
	}
	return out
}

func readMakefileTargets(root string) []model.BuildScript {
	f, err := os.Open(filepath.Join(root, "Makefile"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []model.BuildScript
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		name := strings.TrimSpace(line[:idx])
		if strings.ContainsAny(name, " $()%") {
			continue
		}
		out = append(out, model.BuildScript{Name: name, Command: "make " + name})
	}
	return out
}
