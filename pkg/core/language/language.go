// Package language implements the Language Detector (component C):
// combining the File Walker's extension tallies with the Manifest Parser's
// evidence into a confidence-ranked list of model.DetectedLanguage, per
// spec section 4.C.
//
// Grounded on pkg/core/analysis/repository.go's detectLanguageAndFramework
// fixed-file table, generalized into the multi-signal confidence model
// original_source/language_detector.rs uses (manifest presence, extension
// histogram, lockfile presence, shebang sniffing).
package language

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	hcversion "github.com/hashicorp/go-version"

	"github.com/reposcope/reposcope/pkg/model"
)

var extToLanguage = map[string]model.LanguageName{
	".rs":  model.LangRust,
	".js":  model.LangJavaScript,
	".jsx": model.LangJavaScript,
	".ts":  model.LangTypeScript,
	".tsx": model.LangTypeScript,
	".py":  model.LangPython,
	".go":  model.LangGo,
	".java": model.LangJava,
	".kt":  model.LangKotlin,
	".kts": model.LangKotlin,
}

var manifestLanguage = map[string]model.LanguageName{
	"Cargo.toml":       model.LangRust,
	"package.json":     model.LangJavaScript,
	"requirements.txt": model.LangPython,
	"Pipfile":          model.LangPython,
	"pyproject.toml":   model.LangPython,
	"pom.xml":          model.LangJava,
	"build.gradle":     model.LangJava,
	"build.gradle.kts": model.LangKotlin,
	"go.mod":           model.LangGo,
}

// Detect produces the ranked language list for one project partition.
func Detect(files []model.File, manifests []model.ManifestRecord) []model.DetectedLanguage {
	sourceFiles := map[model.LanguageName][]string{}
	hasJS, hasTS, hasKt := false, false, false

	for _, f := range files {
		if !f.IsSourceFile {
			continue
		}
		lang, ok := extToLanguage[f.Ext]
		if !ok {
			continue
		}
		sourceFiles[lang] = append(sourceFiles[lang], f.RelPath)
		switch f.Ext {
		case ".js", ".jsx":
			hasJS = true
		case ".ts", ".tsx":
			hasTS = true
		case ".kt", ".kts":
			hasKt = true
		}
	}

	manifestByLang := map[model.LanguageName]*model.ManifestRecord{}
	for i := range manifests {
		base := filepath.Base(manifests[i].Path)
		if lang, ok := manifestLanguage[base]; ok {
			manifestByLang[lang] = &manifests[i]
		} else if manifests[i].Language != "" {
			manifestByLang[model.LanguageName(manifests[i].Language)] = &manifests[i]
		}
	}

	candidates := map[model.LanguageName]bool{}
	for lang := range sourceFiles {
		candidates[lang] = true
	}
	for lang := range manifestByLang {
		candidates[lang] = true
	}

	var out []model.DetectedLanguage
	for lang := range candidates {
		srcs := sourceFiles[lang]
		man := manifestByLang[lang]

		confidence := 0.0
		if man != nil || len(srcs) > 0 {
			confidence = 0.5
		}
		if man != nil {
			confidence = 0.95
		}
		if man != nil && len(srcs) > 0 {
			confidence = (0.95 + 0.875) / 2
		}
		if confidence > 1 {
			confidence = 1
		}

		dl := model.DetectedLanguage{
			Name:        lang,
			Confidence:  confidence,
			SourceFiles: srcs,
		}
		if man != nil {
			dl.Version = man.Version
			dl.PackageManager = man.PackageManager
			for _, d := range man.Dependencies {
				if d.Kind == model.DepDev {
					dl.DevDeps = append(dl.DevDeps, d.Name)
				} else {
					dl.MainDeps = append(dl.MainDeps, d.Name)
				}
			}
		}
		out = append(out, dl)
	}

	// JS/TS merge: "If both .js and .ts files are present, rename language
	// from generic JavaScript to TypeScript."
	if hasJS && hasTS {
		out = mergeInto(out, model.LangJavaScript, model.LangTypeScript)
	}
	// JVM rename: Kotlin if any .kt files present, else Java.
	if hasKt {
		out = mergeInto(out, model.LangJava, model.LangKotlin)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

// mergeInto folds the `from` detection's evidence into `into`, dropping the
// separate `from` entry, used for the JS->TS and Java->Kotlin renames.
func mergeInto(langs []model.DetectedLanguage, from, into model.LanguageName) []model.DetectedLanguage {
	var fromEntry *model.DetectedLanguage
	var intoIdx = -1
	var out []model.DetectedLanguage
	for i := range langs {
		switch langs[i].Name {
		case from:
			fromEntry = &langs[i]
		case into:
			intoIdx = len(out)
			out = append(out, langs[i])
		default:
			out = append(out, langs[i])
		}
	}
	if fromEntry == nil {
		return langs
	}
	if intoIdx == -1 {
		renamed := *fromEntry
		renamed.Name = into
		out = append(out, renamed)
		return out
	}
	out[intoIdx].SourceFiles = append(out[intoIdx].SourceFiles, fromEntry.SourceFiles...)
	if fromEntry.Confidence > out[intoIdx].Confidence {
		out[intoIdx].Confidence = fromEntry.Confidence
	}
	return out
}

// CompareToolchainVersions reports whether a is newer than b, for comparing
// pinned toolchain versions (go.mod's "go 1.23", .nvmrc, .python-version)
// against a project's declared minimum.
func CompareToolchainVersions(a, b string) (int, bool) {
	va, err1 := hcversion.NewVersion(normalizeVersion(a))
	vb, err2 := hcversion.NewVersion(normalizeVersion(b))
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return va.Compare(vb), true
}

func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "+")
	v = strings.TrimPrefix(v, "^")
	v = strings.TrimPrefix(v, "~")
	v = strings.TrimPrefix(v, ">=")
	v = strings.TrimPrefix(v, "v")
	return v
}

// ReadPinnedVersionFile reads a single-line version-pin file such as
// .nvmrc or .python-version, used when no manifest-embedded version hint
// is available.
func ReadPinnedVersionFile(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), true
	}
	return "", false
}
