package technology

import "github.com/reposcope/reposcope/pkg/model"

// Rule is the table-driven technology detection rule from spec 4.D.
type Rule struct {
	Name                string
	Category            model.TechnologyCategory
	BaseConfidence      float64
	DependencyPatterns  []string // case-insensitive substrings matched against dep names
	Requires            []string
	ConflictsWith       []string
	IsPrimaryIndicator  bool
	AlternativeNames    []string
	// SourceProbe, when set, is a signature filename/content fragment
	// checked for ambiguous-manifest technologies (Drizzle, Prisma, etc).
	SourceProbeFiles    []string
	SourceProbeContains []string
}

func cat(kind model.CategoryKind) model.TechnologyCategory {
	return model.TechnologyCategory{Kind: kind}
}

func lib(t model.LibraryType) model.TechnologyCategory {
	return model.TechnologyCategory{Kind: model.CatLibrary, LibraryType: t}
}

// jsRules covers the Node/JS/TS ecosystem.
var jsRules = []Rule{
	{Name: "Next.js", Category: cat(model.CatMetaFramework), BaseConfidence: 0.95, DependencyPatterns: []string{"next"}, Requires: []string{"React"}, ConflictsWith: []string{"Nuxt", "SvelteKit"}, IsPrimaryIndicator: true},
	{Name: "Nuxt", Category: cat(model.CatMetaFramework), BaseConfidence: 0.95, DependencyPatterns: []string{"nuxt"}, Requires: []string{"Vue"}, ConflictsWith: []string{"Next.js", "SvelteKit"}, IsPrimaryIndicator: true},
	{Name: "SvelteKit", Category: cat(model.CatMetaFramework), BaseConfidence: 0.95, DependencyPatterns: []string{"@sveltejs/kit"}, Requires: []string{"Svelte"}, ConflictsWith: []string{"Next.js", "Nuxt"}, IsPrimaryIndicator: true},
	{Name: "Gatsby", Category: cat(model.CatMetaFramework), BaseConfidence: 0.9, DependencyPatterns: []string{"gatsby"}, Requires: []string{"React"}, IsPrimaryIndicator: true},
	{Name: "React", Category: cat(model.CatFrontendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"react-dom", "react"}, IsPrimaryIndicator: true},
	{Name: "Vue", Category: cat(model.CatFrontendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"vue"}, IsPrimaryIndicator: true},
	{Name: "Angular", Category: cat(model.CatFrontendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"@angular/core"}, IsPrimaryIndicator: true},
	{Name: "Svelte", Category: cat(model.CatFrontendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"svelte"}, IsPrimaryIndicator: true},
	{Name: "Express", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"express"}, IsPrimaryIndicator: true},
	{Name: "Koa", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"koa"}, IsPrimaryIndicator: true},
	{Name: "Fastify", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"fastify"}, IsPrimaryIndicator: true},
	{Name: "NestJS", Category: cat(model.CatBackendFramework), BaseConfidence: 0.9, DependencyPatterns: []string{"@nestjs/core"}, IsPrimaryIndicator: true},
	{Name: "Redux", Category: lib(model.LibStateManagement), BaseConfidence: 0.8, DependencyPatterns: []string{"redux", "@reduxjs/toolkit"}},
	{Name: "Zustand", Category: lib(model.LibStateManagement), BaseConfidence: 0.8, DependencyPatterns: []string{"zustand"}},
	{Name: "React Query", Category: lib(model.LibDataFetching), BaseConfidence: 0.8, DependencyPatterns: []string{"@tanstack/react-query", "react-query"}},
	{Name: "React Router", Category: lib(model.LibRouting), BaseConfidence: 0.8, DependencyPatterns: []string{"react-router", "react-router-dom"}},
	{Name: "Tailwind CSS", Category: lib(model.LibStyling), BaseConfidence: 0.8, DependencyPatterns: []string{"tailwindcss"}},
	{Name: "Axios", Category: lib(model.LibHTTPClient), BaseConfidence: 0.8, DependencyPatterns: []string{"axios"}},
	{Name: "NextAuth", Category: lib(model.LibAuthentication), BaseConfidence: 0.8, DependencyPatterns: []string{"next-auth"}},
	{Name: "Jest", Category: cat(model.CatTesting), BaseConfidence: 0.8, DependencyPatterns: []string{"jest"}},
	{Name: "Vitest", Category: cat(model.CatTesting), BaseConfidence: 0.8, DependencyPatterns: []string{"vitest"}},
	{Name: "Webpack", Category: cat(model.CatBuildTool), BaseConfidence: 0.7, DependencyPatterns: []string{"webpack"}},
	{Name: "Vite", Category: cat(model.CatBuildTool), BaseConfidence: 0.7, DependencyPatterns: []string{"vite"}},
	{Name: "Prisma", Category: lib(model.LibDataFetching), BaseConfidence: 0.7, DependencyPatterns: []string{"@prisma/client", "prisma"}, SourceProbeFiles: []string{"prisma/schema.prisma"}, SourceProbeContains: []string{"model "}},
	{Name: "Drizzle", Category: lib(model.LibDataFetching), BaseConfidence: 0.6, DependencyPatterns: []string{"drizzle-orm"}, SourceProbeFiles: []string{"drizzle.config.ts", "drizzle.config.js"}, SourceProbeContains: []string{"drizzle"}},
	{Name: "Encore", Category: cat(model.CatBackendFramework), BaseConfidence: 0.6, DependencyPatterns: []string{"encore.dev"}, SourceProbeFiles: []string{"encore.app"}, SourceProbeContains: []string{"id:"}, IsPrimaryIndicator: true},
	{Name: "Tanstack Start", Category: cat(model.CatMetaFramework), BaseConfidence: 0.6, DependencyPatterns: []string{"@tanstack/start"}, SourceProbeFiles: []string{"app.config.ts"}, SourceProbeContains: []string{"tanstack"}, IsPrimaryIndicator: true},
}

var pythonRules = []Rule{
	{Name: "Django", Category: cat(model.CatBackendFramework), BaseConfidence: 0.9, DependencyPatterns: []string{"django"}, IsPrimaryIndicator: true},
	{Name: "Flask", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"flask"}, IsPrimaryIndicator: true},
	{Name: "FastAPI", Category: cat(model.CatBackendFramework), BaseConfidence: 0.9, DependencyPatterns: []string{"fastapi"}, Requires: []string{"Uvicorn"}, IsPrimaryIndicator: true},
	{Name: "Uvicorn", Category: cat(model.CatRuntime), BaseConfidence: 0.7, DependencyPatterns: []string{"uvicorn"}},
	{Name: "Celery", Category: lib(model.LibUtility), BaseConfidence: 0.75, DependencyPatterns: []string{"celery"}},
	{Name: "SQLAlchemy", Category: lib(model.LibDataFetching), BaseConfidence: 0.75, DependencyPatterns: []string{"sqlalchemy"}},
	{Name: "Pytest", Category: cat(model.CatTesting), BaseConfidence: 0.8, DependencyPatterns: []string{"pytest"}},
}

var goRules = []Rule{
	{Name: "Gin", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"github.com/gin-gonic/gin"}, IsPrimaryIndicator: true},
	{Name: "Echo", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"github.com/labstack/echo"}, IsPrimaryIndicator: true},
	{Name: "Fiber", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"github.com/gofiber/fiber"}, IsPrimaryIndicator: true},
	{Name: "Cobra", Category: cat(model.CatBuildTool), BaseConfidence: 0.7, DependencyPatterns: []string{"github.com/spf13/cobra"}},
	{Name: "Gorm", Category: lib(model.LibDataFetching), BaseConfidence: 0.75, DependencyPatterns: []string{"gorm.io/gorm"}},
}

var rustRules = []Rule{
	{Name: "Actix Web", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"actix-web"}, IsPrimaryIndicator: true},
	{Name: "Axum", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"axum"}, IsPrimaryIndicator: true},
	{Name: "Tokio", Category: lib(model.LibUtility), BaseConfidence: 0.7, DependencyPatterns: []string{"tokio"}},
	{Name: "Serde", Category: lib(model.LibUtility), BaseConfidence: 0.6, DependencyPatterns: []string{"serde"}},
	{Name: "Diesel", Category: lib(model.LibDataFetching), BaseConfidence: 0.75, DependencyPatterns: []string{"diesel"}},
}

var javaRules = []Rule{
	{Name: "Spring Boot", Category: cat(model.CatBackendFramework), BaseConfidence: 0.9, DependencyPatterns: []string{"spring-boot"}, IsPrimaryIndicator: true},
	{Name: "Quarkus", Category: cat(model.CatBackendFramework), BaseConfidence: 0.85, DependencyPatterns: []string{"quarkus"}, IsPrimaryIndicator: true},
	{Name: "Hibernate", Category: lib(model.LibDataFetching), BaseConfidence: 0.75, DependencyPatterns: []string{"hibernate"}},
	{Name: "JUnit", Category: cat(model.CatTesting), BaseConfidence: 0.8, DependencyPatterns: []string{"junit"}},
}

// databaseRules are cross-ecosystem, matched against dependency names
// regardless of detected language (a Node app and a Go app can both
// depend on a postgres driver).
var databaseRules = []Rule{
	{Name: "PostgreSQL", Category: cat(model.CatDatabase), BaseConfidence: 0.8, DependencyPatterns: []string{"pg", "postgres", "psycopg2", "asyncpg", "lib/pq", "jackc/pgx"}},
	{Name: "MySQL", Category: cat(model.CatDatabase), BaseConfidence: 0.8, DependencyPatterns: []string{"mysql", "pymysql", "go-sql-driver/mysql"}},
	{Name: "MongoDB", Category: cat(model.CatDatabase), BaseConfidence: 0.8, DependencyPatterns: []string{"mongodb", "mongoose", "pymongo", "mongo-driver"}},
	{Name: "Redis", Category: cat(model.CatDatabase), BaseConfidence: 0.75, DependencyPatterns: []string{"redis", "ioredis", "go-redis"}},
	{Name: "SQLite", Category: cat(model.CatDatabase), BaseConfidence: 0.7, DependencyPatterns: []string{"sqlite3", "sqlite"}},
}

// RulesFor returns the rule pack applicable to lang, plus database rules
// which apply cross-language.
func RulesFor(lang model.LanguageName) []Rule {
	var packs []Rule
	switch lang {
	case model.LangJavaScript, model.LangTypeScript:
		packs = append(packs, jsRules...)
	case model.LangPython:
		packs = append(packs, pythonRules...)
	case model.LangGo:
		packs = append(packs, goRules...)
	case model.LangRust:
		packs = append(packs, rustRules...)
	case model.LangJava, model.LangKotlin:
		packs = append(packs, javaRules...)
	}
	packs = append(packs, databaseRules...)
	return packs
}
