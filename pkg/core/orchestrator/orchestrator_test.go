package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/pkg/common/runner"
	"github.com/reposcope/reposcope/pkg/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func testConfig() Config {
	cfg := DefaultConfig()
	fake := &runner.FakeCommandRunner{ErrStr: "not a git repository"}
	cfg.Walker.Runner = fake
	cfg.Security.Runner = fake
	cfg.CommandRunner = fake
	return cfg
}

func TestAnalyzeSingleProjectElectsMonolithic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/app\n\ngo 1.23\n")
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	result, errs := Analyze(context.Background(), root, testConfig())
	require.Empty(t, errs)
	require.False(t, result.IsMonorepo)
	require.Len(t, result.Projects, 1)
	require.Equal(t, model.ArchMonolithic, result.TechnologySummary.ArchitecturePattern)
	require.Equal(t, "root", result.Projects[0].Name)
	require.Contains(t, result.Projects[0].Analysis.EntryPoints[0].File, "main.go")
}

func TestAnalyzeMonorepoPartitionsFrontendAndBackend(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, filepath.Join("frontend", "package.json"),
		`{"name":"web","dependencies":{"react":"18.0.0"}}`)
	writeFile(t, root, filepath.Join("frontend", "src", "index.jsx"), "export default function App() {}\n")
	writeFile(t, root, filepath.Join("backend", "go.mod"), "module example.com/backend\n\ngo 1.23\n")
	writeFile(t, root, filepath.Join("backend", "main.go"), "package main\n\nfunc main() {}\n")

	result, errs := Analyze(context.Background(), root, testConfig())
	require.Empty(t, errs)
	require.True(t, result.IsMonorepo)
	require.Len(t, result.Projects, 2)

	byPath := map[string]model.ProjectInfo{}
	for _, p := range result.Projects {
		byPath[p.Path] = p
	}
	frontend, ok := byPath[filepath.Join("frontend")]
	require.True(t, ok)
	require.Equal(t, "frontend", frontend.Name)
	// partition-relative paths must not carry the "frontend/" prefix
	for _, ep := range frontend.Analysis.EntryPoints {
		require.NotContains(t, ep.File, "frontend"+string(filepath.Separator))
	}

	backend, ok := byPath[filepath.Join("backend")]
	require.True(t, ok)
	require.Equal(t, "backend", backend.Name)
}

func TestAnalyzeReportsProgressForEveryPhase(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/app\n\ngo 1.23\n")
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	seen := map[string]bool{}
	cfg := testConfig()
	cfg.Observer = func(e ProgressEvent) { seen[e.Phase] = true }

	_, errs := Analyze(context.Background(), root, cfg)
	require.Empty(t, errs)
	for _, phase := range []string{PhaseWalk, PhaseManifests, PhaseDocker, PhasePartition, PhaseAnalyze, PhaseSecurity, PhaseFinalize} {
		require.True(t, seen[phase], "expected phase %q to be reported", phase)
	}
}

func TestAnalyzeSurfacesSecretFindings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/app\n\ngo 1.23\n")
	writeFile(t, root, filepath.Join("src", "config.go"),
		`const key = "sk-0123456789abcdef0123456789abcdef01234567"`+"\n")

	result, errs := Analyze(context.Background(), root, testConfig())
	require.Empty(t, errs)
	require.NotEmpty(t, result.Security.Findings)
	require.Less(t, result.Security.OverallScore, 100)
}

func TestAnalyzeEmptyDirectoryYieldsPerfectSecurityScore(t *testing.T) {
	root := t.TempDir()

	result, errs := Analyze(context.Background(), root, testConfig())
	require.Empty(t, errs)
	require.Equal(t, 0, len(result.Projects[0].Analysis.Languages))
	require.Equal(t, 100, result.Security.OverallScore)
}
