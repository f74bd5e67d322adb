package partition

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/pkg/model"
)

func TestDetectRootsFindsManifestRoots(t *testing.T) {
	manifests := []model.ManifestRecord{
		{Path: filepath.Join("frontend", "package.json")},
		{Path: filepath.Join("backend", "go.mod")},
	}
	roots := DetectRoots(nil, manifests)
	paths := map[string]bool{}
	for _, r := range roots {
		paths[r.Path] = true
	}
	require.True(t, paths["frontend"])
	require.True(t, paths["backend"])
}

func TestDetectRootsIgnoresNodeModules(t *testing.T) {
	manifests := []model.ManifestRecord{
		{Path: filepath.Join("node_modules", "some-pkg", "package.json")},
		{Path: "package.json"},
	}
	roots := DetectRoots(nil, manifests)
	for _, r := range roots {
		require.NotContains(t, r.Path, "node_modules")
	}
}

func TestClassifyFrontendBeatsBackend(t *testing.T) {
	analysis := model.ProjectAnalysis{
		Technologies: []model.DetectedTechnology{
			{Name: "React", Category: model.TechnologyCategory{Kind: model.CatFrontendFramework}},
			{Name: "Express", Category: model.TechnologyCategory{Kind: model.CatBackendFramework}},
		},
	}
	require.Equal(t, model.CategoryFrontend, Classify("app", analysis))
}

func TestClassifyAPIFromNameHeuristic(t *testing.T) {
	analysis := model.ProjectAnalysis{
		Technologies: []model.DetectedTechnology{
			{Name: "Gin", Category: model.TechnologyCategory{Kind: model.CatBackendFramework}},
		},
		Ports: []model.Port{{Number: 8080}},
	}
	require.Equal(t, model.CategoryAPI, Classify("services/api-gateway", analysis))
}

func TestClassifyLibraryWithNoEntryPoints(t *testing.T) {
	analysis := model.ProjectAnalysis{}
	require.Equal(t, model.CategoryLibrary, Classify("utils", analysis))
}

func TestElectArchitectureFullstack(t *testing.T) {
	projects := []model.ProjectInfo{
		{Category: model.CategoryFrontend},
		{Category: model.CategoryBackend},
	}
	require.Equal(t, model.ArchFullstack, ElectArchitecture(projects, model.OrchDockerCompose))
}

func TestElectArchitectureMicroservicesOnThreeBackends(t *testing.T) {
	projects := []model.ProjectInfo{
		{Category: model.CategoryBackend},
		{Category: model.CategoryBackend},
		{Category: model.CategoryAPI},
	}
	require.Equal(t, model.ArchMicroservices, ElectArchitecture(projects, model.OrchDockerCompose))
}

func TestElectArchitectureMonolithicSingleProject(t *testing.T) {
	projects := []model.ProjectInfo{{Category: model.CategoryBackend}}
	require.Equal(t, model.ArchMonolithic, ElectArchitecture(projects, model.OrchSingleContainer))
}
