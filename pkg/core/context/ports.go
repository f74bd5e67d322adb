package context

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/google/shlex"

	"github.com/reposcope/reposcope/pkg/model"
)

// portPatterns is the fixed regex set spec 4.E specifies, one per common
// source-level "listen on port N" idiom.
var portPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.listen\(\s*(\d{2,5})`),              // app.listen(3000)
	regexp.MustCompile(`\.Listen\(\s*":(\d{2,5})"`),            // http.ListenAndServe(":8080")
	regexp.MustCompile(`[Uu]vicorn\.run\([^)]*port\s*=\s*(\d{2,5})`),
	regexp.MustCompile(`(?m)^PORT\s*=\s*(\d{2,5})`),
	regexp.MustCompile(`server\.port\s*[:=]\s*(\d{2,5})`), // Spring application.properties/yml
}

// DetectPorts scans source files (and, for npm projects, shlex-lexed
// package.json script strings) for the fixed port-discovery regex set.
func DetectPorts(root string, files []model.File) []model.Port {
	seen := map[string]bool{}
	var out []model.Port

	add := func(n int, proto model.Protocol, desc string) {
		if n <= 0 || n > 65535 {
			return
		}
		p := model.Port{Number: uint16(n), Protocol: proto, Description: desc}
		key := p.Key()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}

	for _, f := range files {
		if !f.IsSourceFile && f.Ext != ".properties" && f.Ext != ".yml" && f.Ext != ".yaml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, f.RelPath))
		if err != nil {
			continue
		}
		text := string(data)
		for _, re := range portPatterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				if n, err := strconv.Atoi(m[1]); err == nil {
					add(n, model.ProtoHTTP, "Detected in "+f.RelPath)
				}
			}
		}
	}

	if pkg, ok := readPackageJSONScripts(root); ok {
		for name, script := range pkg {
			tokens, err := shlex.Split(script)
			if err != nil {
				continue
			}
			for i, tok := range tokens {
				if (tok == "-p" || tok == "--port") && i+1 < len(tokens) {
					if n, err := strconv.Atoi(tokens[i+1]); err == nil {
						add(n, model.ProtoHTTP, "npm script \""+name+"\"")
					}
				}
			}
		}
	}

	return out
}

func readPackageJSONScripts(root string) (map[string]string, bool) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil, false
	}
	var doc struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	return doc.Scripts, len(doc.Scripts) > 0
}
