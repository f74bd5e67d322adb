package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/pkg/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestWalkClassifiesAndIgnores(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"name":"x"}`)
	writeFile(t, root, "src/index.js", "console.log(1)")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}")
	writeFile(t, root, ".env", "SECRET=1")
	writeFile(t, root, "logo.png", "\x89PNG")

	opts := DefaultOptions()
	opts.UseGit = false
	w := New(opts)

	files, errs := w.Walk(context.Background(), root)
	require.Empty(t, errs)

	byRel := map[string]model.File{}
	for _, f := range files {
		byRel[f.RelPath] = f
	}

	require.Contains(t, byRel, "package.json")
	require.Equal(t, model.KindManifest, byRel["package.json"].Kind)

	require.Contains(t, byRel, "src/index.js")
	require.True(t, byRel["src/index.js"].IsSourceFile)

	require.Contains(t, byRel, ".env")
	require.True(t, byRel[".env"].IsEnvFile)
	require.Greater(t, byRel[".env"].PriorityScore, byRel["src/index.js"].PriorityScore)

	require.NotContains(t, byRel, "node_modules/dep/index.js")
	require.NotContains(t, byRel, "logo.png")
}

func TestMaxFileSizeDropsNonCriticalOversizedFiles(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, 200)
	for i := range big {
		big[i] = 'a'
	}
	writeFile(t, root, "src/big.js", string(big))

	opts := DefaultOptions()
	opts.UseGit = false
	opts.MaxFileSize = 50
	w := New(opts)

	files, _ := w.Walk(context.Background(), root)
	for _, f := range files {
		require.NotEqual(t, "src/big.js", f.RelPath)
	}
}
