package technology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/pkg/model"
)

func TestNextJSImpliesReactAndWinsMetaFrameworkConflict(t *testing.T) {
	deps := []model.Dependency{
		{Name: "next", Kind: model.DepProd},
		{Name: "react-dom", Kind: model.DepProd},
	}
	out := Classify("", deps, model.LangJavaScript, nil)

	byName := map[string]model.DetectedTechnology{}
	for _, t := range out {
		byName[t.Name] = t
	}
	require.Contains(t, byName, "Next.js")
	require.Contains(t, byName, "React")
	require.True(t, byName["Next.js"].IsPrimary)
	require.False(t, byName["React"].IsPrimary)
}

func TestRequiresPropagationWithoutExplicitDependency(t *testing.T) {
	deps := []model.Dependency{{Name: "nuxt", Kind: model.DepProd}}
	out := Classify("", deps, model.LangJavaScript, nil)

	byName := map[string]model.DetectedTechnology{}
	for _, t := range out {
		byName[t.Name] = t
	}
	require.Contains(t, byName, "Vue")
	require.InDelta(t, byName["Nuxt"].Confidence*0.85, byName["Vue"].Confidence, 0.0001)
}

func TestConflictingMetaFrameworksKeepsHigherConfidenceOnly(t *testing.T) {
	deps := []model.Dependency{
		{Name: "next", Kind: model.DepProd},
		{Name: "nuxt", Kind: model.DepProd},
	}
	out := Classify("", deps, model.LangJavaScript, nil)

	names := map[string]bool{}
	for _, t := range out {
		names[t.Name] = true
	}
	require.True(t, names["Next.js"] != names["Nuxt"], "exactly one of Next.js/Nuxt should survive the conflict")
}

func TestSourceProbeDisambiguatesPrismaFromBareDependency(t *testing.T) {
	deps := []model.Dependency{{Name: "prisma", Kind: model.DepDev}}

	withoutSchema := Classify(t.TempDir(), deps, model.LangTypeScript, nil)
	var low float64
	for _, t := range withoutSchema {
		if t.Name == "Prisma" {
			low = t.Confidence
		}
	}
	require.Greater(t, low, 0.0)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "prisma"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "prisma", "schema.prisma"), []byte("model User {\n  id Int @id\n}\n"), 0o644))
	withSchema := Classify(root, deps, model.LangTypeScript, nil)
	var high float64
	for _, t := range withSchema {
		if t.Name == "Prisma" {
			high = t.Confidence
		}
	}
	require.Greater(t, high, low)
}

func TestDatabaseRulesApplyAcrossEcosystems(t *testing.T) {
	deps := []model.Dependency{{Name: "github.com/jackc/pgx/v5", Kind: model.DepProd}}
	out := Classify("", deps, model.LangGo, nil)

	found := false
	for _, t := range out {
		if t.Name == "PostgreSQL" {
			found = true
		}
	}
	require.True(t, found)
}

func TestVersionConstraintNormalizesNpmRange(t *testing.T) {
	deps := []model.Dependency{{Name: "next", Version: "^14.1.0", Kind: model.DepProd}}
	out := Classify("", deps, model.LangJavaScript, nil)

	byName := map[string]model.DetectedTechnology{}
	for _, t := range out {
		byName[t.Name] = t
	}
	require.Equal(t, "^14.1.0", byName["Next.js"].Version)
	require.NotEmpty(t, byName["Next.js"].VersionConstraint)
}

func TestVersionConstraintEmptyForUnparseableRange(t *testing.T) {
	deps := []model.Dependency{{Name: "next", Version: "workspace:*", Kind: model.DepProd}}
	out := Classify("", deps, model.LangJavaScript, nil)

	byName := map[string]model.DetectedTechnology{}
	for _, t := range out {
		byName[t.Name] = t
	}
	require.Empty(t, byName["Next.js"].VersionConstraint)
}

func TestKubernetesManifestDetectedFromDeployDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "deploy"), 0o755))
	manifest := "apiVersion: apps/v1\nkind: Deployment\nmetadata:\n  name: api\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "deploy", "api.yaml"), []byte(manifest), 0o644))

	files := []model.File{{RelPath: filepath.Join("deploy", "api.yaml")}}
	out := Classify(root, nil, model.LangGo, files)

	found := false
	for _, t := range out {
		if t.Name == "Kubernetes" {
			found = true
			require.Equal(t, model.CatOrchestration, t.Category.Kind)
		}
	}
	require.True(t, found)
}

func TestNoKubernetesManifestWhenDirectoryAbsent(t *testing.T) {
	out := Classify(t.TempDir(), nil, model.LangGo, nil)
	for _, t := range out {
		require.NotEqual(t, "Kubernetes", t.Name)
	}
}
