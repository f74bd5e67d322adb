package security

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/reposcope/reposcope/pkg/common/runner"
)

const (
	gitStatusTracked   = "tracked"
	gitStatusIgnored   = "ignored"
	gitStatusUntracked = "untracked"
)

// gitClassifier answers spec 4.H's tracked/ignored/untracked question for
// one relative path, grounded on pkg/core/walker's CommandRunner-based
// git enumeration and on go-gitignore (already a module dependency via
// the walker) for the manual-matcher fallback.
type gitClassifier struct {
	root     string
	runner   runner.CommandRunner
	fallback *ignore.GitIgnore
}

func newGitClassifier(root string, r runner.CommandRunner) *gitClassifier {
	gc := &gitClassifier{root: root, runner: r}
	if !isGitRepo(root) {
		gc.runner = nil
	}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		gc.fallback = gi
	}
	return gc
}

func (gc *gitClassifier) classify(ctx context.Context, relPath string) string {
	if gc.runner == nil {
		return gc.fallbackClassify(relPath)
	}

	if _, err := gc.runner.RunInDir(ctx, gc.root, "git", "ls-files", "--error-unmatch", relPath); err == nil {
		return gitStatusTracked
	}

	if out, err := gc.runner.RunInDir(ctx, gc.root, "git", "check-ignore", relPath); err == nil && strings.TrimSpace(out) != "" {
		return gitStatusIgnored
	}

	return gc.fallbackClassify(relPath)
}

// fallbackClassify is used when git itself is unavailable (no .git
// directory, or the runner errors for a reason other than "not ignored")
// — it can only ever report ignored or untracked, never tracked.
func (gc *gitClassifier) fallbackClassify(relPath string) string {
	if gc.fallback != nil && gc.fallback.MatchesPath(relPath) {
		return gitStatusIgnored
	}
	return gitStatusUntracked
}

func isGitRepo(root string) bool {
	info, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil && info.IsDir()
}
