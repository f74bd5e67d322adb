package context

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/reposcope/reposcope/pkg/model"
)

var envSourceCallPatterns = []*regexp.Regexp{
	regexp.MustCompile(`process\.env\.([A-Z_][A-Z0-9_]*)`),
	regexp.MustCompile(`os\.environ\.get\(\s*["']([A-Z_][A-Z0-9_]*)["']`),
	regexp.MustCompile(`env::var\(\s*["']([A-Z_][A-Z0-9_]*)["']`),
	regexp.MustCompile(`os\.Getenv\(\s*["']([A-Z_][A-Z0-9_]*)["']`),
	regexp.MustCompile(`System\.getenv\(\s*["']([A-Z_][A-Z0-9_]*)["']`),
	regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`),
}

// DetectEnvVars scans source files for environment-variable read calls and
// .env* files for declared key=value pairs, per spec 4.E.
func DetectEnvVars(root string, files []model.File) []model.EnvVar {
	byName := map[string]*model.EnvVar{}
	order := []string{}
	upsert := func(name string, def *string, required bool, desc string) {
		if e, ok := byName[name]; ok {
			if def != nil {
				e.DefaultValue = def
			}
			if desc != "" && e.Description == "" {
				e.Description = desc
			}
			return
		}
		e := &model.EnvVar{Name: name, DefaultValue: def, Required: required, Description: desc}
		byName[name] = e
		order = append(order, name)
	}

	for _, f := range files {
		abs := filepath.Join(root, f.RelPath)
		if f.IsEnvFile {
			scanEnvFile(abs, upsert)
			continue
		}
		if !f.IsSourceFile {
			continue
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			continue
		}
		text := string(data)
		for _, re := range envSourceCallPatterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				upsert(m[1], nil, true, "Referenced in "+f.RelPath)
			}
		}
	}

	out := make([]model.EnvVar, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

func scanEnvFile(path string, upsert func(name string, def *string, required bool, desc string)) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		val = strings.Trim(val, `"'`)

		required := val == "" || strings.EqualFold(val, "required")
		var def *string
		if !required {
			v := val
			def = &v
		}
		upsert(key, def, required, "Declared in "+filepath.Base(path))
	}
}
