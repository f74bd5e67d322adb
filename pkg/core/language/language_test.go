package language

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/pkg/model"
)

func TestSourceOnlyYieldsBaseConfidence(t *testing.T) {
	files := []model.File{
		{RelPath: "main.go", Ext: ".go", IsSourceFile: true},
	}
	out := Detect(files, nil)
	require.Len(t, out, 1)
	require.Equal(t, model.LangGo, out[0].Name)
	require.InDelta(t, 0.5, out[0].Confidence, 0.0001)
}

func TestManifestOnlyYieldsHighConfidence(t *testing.T) {
	manifests := []model.ManifestRecord{
		{Path: "/tmp/proj/go.mod", Version: "1.22"},
	}
	out := Detect(nil, manifests)
	require.Len(t, out, 1)
	require.Equal(t, model.LangGo, out[0].Name)
	require.InDelta(t, 0.95, out[0].Confidence, 0.0001)
}

func TestManifestAndSourceBlend(t *testing.T) {
	files := []model.File{
		{RelPath: "main.go", Ext: ".go", IsSourceFile: true},
	}
	manifests := []model.ManifestRecord{
		{Path: "/tmp/proj/go.mod", Version: "1.22"},
	}
	out := Detect(files, manifests)
	require.Len(t, out, 1)
	require.InDelta(t, (0.95+0.875)/2, out[0].Confidence, 0.0001)
}

func TestJSAndTSMergeIntoTypeScript(t *testing.T) {
	files := []model.File{
		{RelPath: "legacy.js", Ext: ".js", IsSourceFile: true},
		{RelPath: "index.ts", Ext: ".ts", IsSourceFile: true},
	}
	out := Detect(files, nil)
	require.Len(t, out, 1)
	require.Equal(t, model.LangTypeScript, out[0].Name)
	require.Len(t, out[0].SourceFiles, 2)
}

func TestKotlinFilesRenameJavaToKotlin(t *testing.T) {
	files := []model.File{
		{RelPath: "Main.java", Ext: ".java", IsSourceFile: true},
		{RelPath: "App.kt", Ext: ".kt", IsSourceFile: true},
	}
	out := Detect(files, nil)
	require.Len(t, out, 1)
	require.Equal(t, model.LangKotlin, out[0].Name)
	require.Len(t, out[0].SourceFiles, 2)
}

func TestNoKotlinFilesKeepsJava(t *testing.T) {
	files := []model.File{
		{RelPath: "Main.java", Ext: ".java", IsSourceFile: true},
	}
	out := Detect(files, nil)
	require.Len(t, out, 1)
	require.Equal(t, model.LangJava, out[0].Name)
}

func TestSortedByDescendingConfidence(t *testing.T) {
	files := []model.File{
		{RelPath: "main.go", Ext: ".go", IsSourceFile: true},
		{RelPath: "script.py", Ext: ".py", IsSourceFile: true},
	}
	manifests := []model.ManifestRecord{
		{Path: "/tmp/proj/go.mod", Version: "1.22"},
	}
	out := Detect(files, manifests)
	require.Len(t, out, 2)
	require.Equal(t, model.LangGo, out[0].Name)
	require.Equal(t, model.LangPython, out[1].Name)
	require.GreaterOrEqual(t, out[0].Confidence, out[1].Confidence)
}

func TestCompareToolchainVersions(t *testing.T) {
	cmp, ok := CompareToolchainVersions("1.23", "1.22")
	require.True(t, ok)
	require.Equal(t, 1, cmp)

	_, ok = CompareToolchainVersions("not-a-version", "1.22")
	require.False(t, ok)
}

func TestReadPinnedVersionFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".nvmrc")
	require.NoError(t, os.WriteFile(path, []byte("18.19.0\n"), 0o644))

	v, ok := ReadPinnedVersionFile(path)
	require.True(t, ok)
	require.Equal(t, "18.19.0", v)

	_, ok = ReadPinnedVersionFile(filepath.Join(dir, "missing"))
	require.False(t, ok)
}
