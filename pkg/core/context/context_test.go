package context

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/pkg/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectEntryPointsGoConventional(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\nfunc main() {}\n")
	files := []model.File{{RelPath: "main.go", IsSourceFile: true}}

	eps := DetectEntryPoints(root, files, model.LangGo)
	require.Len(t, eps, 1)
	require.Equal(t, "main.go", eps[0].File)
}

func TestDetectEntryPointsCmdMainGo(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "cmd/server/main.go", "package main\nfunc main() {}\n")
	files := []model.File{{RelPath: "cmd/server/main.go", IsSourceFile: true}}

	eps := DetectEntryPoints(root, files, model.LangGo)
	require.Len(t, eps, 1)
	require.Equal(t, "cmd/server/main.go", eps[0].File)
}

func TestDetectPortsFromSourceAndNpmScript(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "server.js", "app.listen(3000)\n")
	writeFile(t, root, "package.json", `{"scripts": {"dev": "vite --port 5173"}}`)
	files := []model.File{{RelPath: "server.js", IsSourceFile: true}}

	ports := DetectPorts(root, files)
	found := map[uint16]bool{}
	for _, p := range ports {
		found[p.Number] = true
	}
	require.True(t, found[3000])
	require.True(t, found[5173])
}

func TestDetectEnvVarsFromDotEnvAndSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".env", "DATABASE_URL=postgres://localhost\nAPI_KEY=\n")
	writeFile(t, root, "index.js", "const x = process.env.DEBUG_MODE\n")
	files := []model.File{
		{RelPath: ".env", IsEnvFile: true},
		{RelPath: "index.js", IsSourceFile: true},
	}

	vars := DetectEnvVars(root, files)
	byName := map[string]model.EnvVar{}
	for _, v := range vars {
		byName[v.Name] = v
	}
	require.Contains(t, byName, "DATABASE_URL")
	require.False(t, byName["DATABASE_URL"].Required)
	require.Contains(t, byName, "API_KEY")
	require.True(t, byName["API_KEY"].Required)
	require.Contains(t, byName, "DEBUG_MODE")
	require.True(t, byName["DEBUG_MODE"].Required)
}

func TestDetectBuildScriptsElectsExactlyOneDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"scripts": {"build": "tsc", "start": "node dist/index.js", "test": "jest"}}`)

	scripts := DetectBuildScripts(root, model.LangJavaScript)
	defaults := 0
	var defaultName string
	for _, s := range scripts {
		if s.IsDefault {
			defaults++
			defaultName = s.Name
		}
	}
	require.Equal(t, 1, defaults)
	require.Equal(t, "start", defaultName)
}

func TestClassifyComposeServiceByName(t *testing.T) {
	svc := model.DockerService{Name: "db", ImageOrBuild: model.ImageOrBuild{Image: "postgres:16"}}
	require.Equal(t, model.ServicePostgreSQL, ClassifyComposeService(svc))
}

func TestClassifyComposeServiceByEnvPrefix(t *testing.T) {
	svc := model.DockerService{
		Name:         "store",
		ImageOrBuild: model.ImageOrBuild{Image: "myregistry/custom:1.0"},
		Environment:  map[string]string{"MYSQL_ROOT_PASSWORD": "x"},
	}
	require.Equal(t, model.ServiceMySQL, ClassifyComposeService(svc))
}

func TestInferProjectTypeMicroserviceOnTwoDatabases(t *testing.T) {
	techs := []model.DetectedTechnology{
		{Name: "PostgreSQL", Category: model.TechnologyCategory{Kind: model.CatDatabase}},
		{Name: "Redis", Category: model.TechnologyCategory{Kind: model.CatDatabase}},
	}
	pt := InferProjectType(t.TempDir(), techs, nil, nil, nil)
	require.Equal(t, model.ProjectMicroservice, pt)
}

func TestInferProjectTypeAPIServiceBeatsWebApplication(t *testing.T) {
	techs := []model.DetectedTechnology{
		{Name: "FastAPI", Category: model.TechnologyCategory{Kind: model.CatBackendFramework}},
	}
	pt := InferProjectType(t.TempDir(), techs, nil, nil, nil)
	require.Equal(t, model.ProjectAPIService, pt)
}

func TestInferProjectTypeCliToolSingleEntryPointNoPorts(t *testing.T) {
	eps := []model.EntryPoint{{File: "main.go"}}
	pt := InferProjectType(t.TempDir(), nil, eps, nil, nil)
	require.Equal(t, model.ProjectCLITool, pt)
}
