package context

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/reposcope/reposcope/pkg/model"
)

var orchestrationFrameworks = map[string]bool{
	"Encore": true, "Dapr": true, "Temporal": true,
}

var staticSiteGenerators = map[string]bool{
	"Gatsby": true, "Hugo": true, "Eleventy": true, "Jekyll": true,
}

var apiOnlyFrameworks = map[string]bool{
	"FastAPI": true, "Express": true, "Fastify": true, "Koa": true, "Gin": true, "Echo": true, "Fiber": true,
}

var webFrameworks = map[string]bool{
	"Next.js": true, "Nuxt": true, "SvelteKit": true, "React": true, "Vue": true, "Angular": true, "Svelte": true, "Django": true, "Flask": true, "Spring Boot": true,
}

var cliFrameworks = map[string]bool{
	"Cobra": true,
}

// InferProjectType applies spec 4.E's exact precedence chain: Microservice
// > StaticSite > ApiService > WebApplication > CliTool > Library > Unknown.
func InferProjectType(root string, techs []model.DetectedTechnology, entryPoints []model.EntryPoint, ports []model.Port, deps []model.Dependency) model.ProjectType {
	databaseCount := 0
	hasOrchestrationFramework := false
	backendCount := 0
	for _, t := range techs {
		if t.Category.Kind == model.CatDatabase {
			databaseCount++
		}
		if orchestrationFrameworks[t.Name] {
			hasOrchestrationFramework = true
		}
		if t.Category.Kind == model.CatBackendFramework || t.Category.Kind == model.CatMetaFramework {
			backendCount++
		}
	}
	if databaseCount >= 2 || (hasOrchestrationFramework && backendCount >= 2) {
		return model.ProjectMicroservice
	}

	for _, t := range techs {
		if staticSiteGenerators[t.Name] {
			return model.ProjectStaticSite
		}
	}

	for _, t := range techs {
		if apiOnlyFrameworks[t.Name] {
			return model.ProjectAPIService
		}
	}

	for _, t := range techs {
		if webFrameworks[t.Name] {
			return model.ProjectWebApplication
		}
	}

	for _, t := range techs {
		if cliFrameworks[t.Name] {
			return model.ProjectCLITool
		}
	}
	if len(entryPoints) == 1 && len(ports) == 0 {
		return model.ProjectCLITool
	}

	if isLibrary(root, deps) {
		return model.ProjectLibrary
	}

	return model.ProjectUnknown
}

func isLibrary(root string, deps []model.Dependency) bool {
	if fileExists(filepath.Join(root, "src", "lib.rs")) {
		return true
	}
	if fileExists(filepath.Join(root, "__init__.py")) {
		return true
	}
	direct := 0
	for _, d := range deps {
		if d.Direct && d.Kind != model.DepDev {
			direct++
		}
	}
	return direct == 0 && hasLibraryDirLayout(root)
}

func hasLibraryDirLayout(root string) bool {
	entries, err := os.ReadDir(root)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), "lib") && e.IsDir() {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
