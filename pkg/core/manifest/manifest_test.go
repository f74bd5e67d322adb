package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/pkg/model"
)

func TestNPMParser(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "x",
		"engines": {"node": ">=18"},
		"dependencies": {"next": "^14.0.0", "react": "^18.2.0"},
		"devDependencies": {"typescript": "^5.0.0"}
	}`), 0o644))

	rec, errs := ParseProject([]string{path}, nil)
	require.Empty(t, errs)
	require.Len(t, rec, 1)
	require.Equal(t, model.LangJavaScript, rec[0].Language)
	require.Len(t, rec[0].Dependencies, 3)
}

func TestCargoParserEditionVersionHint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[package]
name = "x"
edition = "2021"

[dependencies]
tokio = "1"
`), 0o644))

	rec, errs := ParseProject([]string{path}, nil)
	require.Empty(t, errs)
	require.Len(t, rec, 1)
	require.Equal(t, "1.56+", rec[0].Version)
	require.Len(t, rec[0].Dependencies, 1)
	require.Equal(t, "tokio", rec[0].Dependencies[0].Name)
}

func TestGoModParser(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(path, []byte(`module example.com/x

go 1.22

require (
	github.com/rs/zerolog v1.33.0
	github.com/foo/bar v1.0.0 // indirect
)
`), 0o644))

	rec, errs := ParseProject([]string{path}, nil)
	require.Empty(t, errs)
	require.Len(t, rec, 1)
	require.Equal(t, "1.22", rec[0].Version)
	require.Len(t, rec[0].Dependencies, 2)
	for _, d := range rec[0].Dependencies {
		if d.Name == "github.com/foo/bar" {
			require.False(t, d.Direct)
		} else {
			require.True(t, d.Direct)
		}
	}
}

func TestMalformedManifestIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	rec, errs := ParseProject([]string{path}, nil)
	require.Empty(t, rec)
	require.Len(t, errs, 1)
}
