package orchestrator

import (
	"sort"

	"github.com/reposcope/reposcope/pkg/model"
)

// summarize rolls every project's languages/technologies up into the
// monorepo-wide TechnologySummary spec 4.I's output carries.
func summarize(projects []model.ProjectInfo, architecture model.ArchitecturePattern) model.TechnologySummary {
	languages := map[string]bool{}
	frameworks := map[string]bool{}
	databases := map[string]bool{}

	for _, p := range projects {
		for _, l := range p.Analysis.Languages {
			languages[string(l.Name)] = true
		}
		for _, t := range p.Analysis.Technologies {
			switch t.Category.Kind {
			case model.CatDatabase:
				databases[t.Name] = true
			case model.CatFrontendFramework, model.CatBackendFramework, model.CatMetaFramework:
				frameworks[t.Name] = true
			}
		}
	}

	return model.TechnologySummary{
		Languages:           keys(languages),
		Frameworks:          keys(frameworks),
		Databases:           keys(databases),
		ArchitecturePattern: architecture,
	}
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
