// Package walker implements the File Walker & Classifier (component A):
// it walks a project root honoring gitignore and scan-mode ignore rules
// and emits a classified, priority-scored model.File per candidate path.
//
// Grounded on pkg/common/filesystem/fs.go's gitignore-compilation pattern
// (the newer, consolidated version of the teacher's file-tree logic;
// pkg/filetree/filetree.go was the superseded duplicate and was removed)
// and on pkg/common/runner's CommandRunner for the git-aware enumeration
// path described in spec section 4.A.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/reposcope/reposcope/pkg/common/runner"
	"github.com/reposcope/reposcope/pkg/errkit"
	"github.com/reposcope/reposcope/pkg/logger"
	"github.com/reposcope/reposcope/pkg/model"
)

const maxWalkDepth = 20

var defaultIgnoreDirs = map[string]bool{
	".git": true, "node_modules": true, "target": true, "build": true,
	"dist": true, ".next": true, "coverage": true, "__pycache__": true,
	"venv": true, ".venv": true, "env": true, "vendor": true,
	".idea": true, ".vscode": true, ".DS_Store": true,
}

// fastModeExtraIgnoreDirs are skipped in the two fastest scan modes only.
var fastModeExtraIgnoreDirs = map[string]bool{
	"test": true, "tests": true, "spec": true, "specs": true, "docs": true,
}

var lockFileNames = map[string]bool{
	"package-lock.json": true, "yarn.lock": true, "pnpm-lock.yaml": true,
	"bun.lockb": true, "poetry.lock": true, "Pipfile.lock": true,
	"Cargo.lock": true, "go.sum": true, "Gemfile.lock": true, "composer.lock": true,
}

var binaryExts = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".zip": true, ".tar": true, ".gz": true, ".7z": true, ".rar": true,
	".mp3": true, ".mp4": true, ".mov": true, ".avi": true, ".pdf": true,
	".class": true, ".pyc": true, ".o": true, ".a": true, ".db": true, ".sqlite": true,
}

var assetExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".svg": true, ".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".bmp": true, ".webp": true,
}

var docExts = map[string]bool{".md": true, ".txt": true, ".rst": true, ".adoc": true}

var manifestNames = map[string]bool{
	"package.json": true, "requirements.txt": true, "Pipfile": true,
	"pyproject.toml": true, "pom.xml": true, "build.gradle": true,
	"build.gradle.kts": true, "Cargo.toml": true, "go.mod": true,
	"composer.json": true, "Gemfile": true, "mix.exs": true,
	"project.clj": true, "pubspec.yaml": true, "setup.cfg": true, "tox.ini": true,
}

var configNames = map[string]bool{
	".eslintrc": true, ".eslintrc.json": true, "tsconfig.json": true,
	"webpack.config.js": true, "vite.config.ts": true, ".babelrc": true,
	"docker-compose.yml": true, "docker-compose.yaml": true,
}

var secretFileGlobs = []string{
	".env*", "*.key", "*.pem", "*.p12", "*credentials*", "*secret*",
	"config/*.json", "config/*.yml",
}

var secretKeywordBytes = []string{"secret", "password", "apikey", "api_key", "token", "credential", "private_key"}

// Options configures one walk.
type Options struct {
	UseGit              bool
	MaxFileSize         int64
	ScanMode            model.ScanMode
	ExtraIgnoreGlobs    []string
	Runner              runner.CommandRunner
}

// DefaultOptions mirrors spec.md's Balanced-mode defaults.
func DefaultOptions() Options {
	return Options{
		UseGit:      true,
		MaxFileSize: 10 * 1024 * 1024,
		ScanMode:    model.ScanBalanced,
		Runner:      &runner.DefaultCommandRunner{},
	}
}

// Walker walks a root directory and classifies each candidate file.
type Walker struct {
	opts           Options
	extraMatchers  []glob.Glob
	secretMatchers []glob.Glob
}

// New builds a Walker, compiling any configured extra ignore globs once.
func New(opts Options) *Walker {
	w := &Walker{opts: opts}
	for _, g := range opts.ExtraIgnoreGlobs {
		if compiled, err := glob.Compile(g); err == nil {
			w.extraMatchers = append(w.extraMatchers, compiled)
		}
	}
	for _, g := range secretFileGlobs {
		if compiled, err := glob.Compile(g); err == nil {
			w.secretMatchers = append(w.secretMatchers, compiled)
		}
	}
	return w
}

// Walk produces the classified file set for root.
func (w *Walker) Walk(ctx context.Context, root string) ([]model.File, []errkit.Error) {
	gi := loadGitignore(root)

	var paths []string
	var errs []errkit.Error
	if w.opts.UseGit && isGitRepo(root) {
		tracked, err := w.gitTrackedPaths(ctx, root)
		if err != nil {
			errs = append(errs, *errkit.New(errkit.ExternalTool, "walker", "git ls-files failed, falling back to filesystem walk", err))
			paths = w.filesystemWalk(root)
		} else {
			paths = tracked
			paths = append(paths, w.untrackedSecretCandidates(root, gi)...)
		}
	} else {
		paths = w.filesystemWalk(root)
	}

	seen := make(map[string]bool, len(paths))
	var files []model.File
	for _, rel := range paths {
		if seen[rel] {
			continue
		}
		seen[rel] = true
		select {
		case <-ctx.Done():
			errs = append(errs, *errkit.New(errkit.Cancelled, "walker", "walk cancelled", ctx.Err()))
			return files, errs
		default:
		}

		abs := filepath.Join(root, rel)
		info, err := os.Lstat(abs)
		if err != nil {
			errs = append(errs, *errkit.New(errkit.FileSystem, "walker", "stat failed", err).WithPath(rel))
			continue
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			continue
		}

		f := w.classify(root, rel, info, gi)
		if f == nil {
			continue
		}
		if f.Size > w.opts.MaxFileSize && !f.IsSecretFile && !f.IsEnvFile {
			continue
		}
		f.ComputePriority()
		files = append(files, *f)
	}

	logger.Debugf("walker: classified %d files under %s", len(files), root)
	return files, errs
}

func (w *Walker) classify(root, rel string, info os.FileInfo, gi *ignore.GitIgnore) *model.File {
	base := filepath.Base(rel)
	ext := strings.ToLower(filepath.Ext(base))
	lowerRel := strings.ToLower(rel)

	isSecretFile := matchesAny(w.secretMatchers, base) || matchesAny(w.secretMatchers, rel)
	isEnvFile := strings.HasPrefix(base, ".env")
	isConfigFile := configNames[base] || strings.HasSuffix(base, ".config.js") || strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml")
	isManifest := manifestNames[base]
	isDockerFile := base == "Dockerfile" || strings.HasPrefix(base, "Dockerfile.") || strings.HasSuffix(base, ".dockerfile") ||
		strings.HasPrefix(base, "docker-compose") || strings.HasPrefix(base, "compose")

	critical := isEnvFile || isSecretFile || ext == ".pem" || ext == ".key"

	kind := model.KindSource
	switch {
	case isManifest:
		kind = model.KindManifest
	case isDockerFile:
		kind = model.KindDocker
	case lockFileNames[base] || strings.HasSuffix(base, ".lock") || strings.HasSuffix(base, "-lock.json") || strings.HasSuffix(base, "-lock.yaml"):
		kind = model.KindLock
	case binaryExts[ext]:
		if !critical {
			kind = model.KindBinary
		}
	case assetExts[ext] || strings.Contains(lowerRel, "/assets/") || strings.Contains(lowerRel, "/static/") ||
		strings.Contains(lowerRel, "/public/") || strings.Contains(lowerRel, "/images/") || strings.Contains(lowerRel, "/media/") || strings.Contains(lowerRel, "/fonts/"):
		if !critical {
			kind = model.KindAsset
		}
	case strings.Contains(base, ".min.") || strings.Contains(base, ".bundle.") || strings.Contains(base, ".chunk.") || strings.Contains(base, ".vendor."):
		if !critical {
			kind = model.KindBinary
		}
	case docExts[ext]:
		if !critical {
			kind = model.KindDoc
		}
	case isConfigFile:
		kind = model.KindConfig
	}

	// Drop non-critical binary/asset/doc/lock noise outright, matching 4.A's
	// "records are discarded if ... unless the file is critical" rule.
	if !critical {
		switch kind {
		case model.KindBinary, model.KindAsset, model.KindLock, model.KindDoc:
			return nil
		}
	}

	if kind == model.KindSource {
		srcExts := map[string]bool{
			".go": true, ".rs": true, ".py": true, ".js": true, ".jsx": true,
			".ts": true, ".tsx": true, ".java": true, ".kt": true, ".kts": true,
		}
		if !srcExts[ext] {
			kind = model.KindConfig
		}
	}

	gitignored := gi != nil && gi.MatchesPath(rel)

	f := &model.File{
		AbsPath:          filepath.Join(root, rel),
		RelPath:          filepath.ToSlash(rel),
		Size:             info.Size(),
		ModTime:          info.ModTime(),
		Ext:              ext,
		Kind:             kind,
		Gitignored:       gitignored,
		IsEnvFile:        isEnvFile,
		IsConfigFile:     isConfigFile,
		IsSecretFile:     isSecretFile,
		IsSourceFile:     kind == model.KindSource,
		HasSecretKeyword: containsSecretKeyword(lowerRel),
	}
	return f
}

func containsSecretKeyword(lowerPath string) bool {
	for _, kw := range secretKeywordBytes {
		if strings.Contains(lowerPath, kw) {
			return true
		}
	}
	return false
}

func matchesAny(matchers []glob.Glob, s string) bool {
	for _, m := range matchers {
		if m.Match(s) {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}

func isGitRepo(root string) bool {
	info, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil && info.IsDir()
}

func (w *Walker) gitTrackedPaths(ctx context.Context, root string) ([]string, error) {
	r := w.opts.Runner
	if r == nil {
		r = &runner.DefaultCommandRunner{}
	}
	out, err := r.RunInDir(ctx, root, "git", "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(out, "\x00")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result, nil
}

func (w *Walker) untrackedSecretCandidates(root string, gi *ignore.GitIgnore) []string {
	var out []string
	ignoreDirSkip := func(name string) bool { return defaultIgnoreDirs[name] }
	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return nil
		}
		if info.IsDir() {
			if ignoreDirSkip(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchesAny(w.secretMatchers, filepath.Base(path)) {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	}
	_ = filepath.Walk(root, walkFn)
	return out
}

func (w *Walker) filesystemWalk(root string) []string {
	var out []string
	skipExtra := w.opts.ScanMode == model.ScanLightning || w.opts.ScanMode == model.ScanFast

	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil || rel == "." {
			return nil
		}
		depth := strings.Count(rel, string(filepath.Separator))
		if depth > maxWalkDepth {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := info.Name()
		if info.IsDir() {
			if defaultIgnoreDirs[name] || (skipExtra && fastModeExtraIgnoreDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		out = append(out, rel)
		return nil
	})
	return out
}
