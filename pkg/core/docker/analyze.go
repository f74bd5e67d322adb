package docker

import (
	"context"
	"path/filepath"

	"github.com/reposcope/reposcope/pkg/errkit"
	"github.com/reposcope/reposcope/pkg/model"
)

// Analyze discovers and parses every Dockerfile/Compose manifest among the
// given project files (already filtered by the walker's ignore rules) and
// assembles the full model.DockerAnalysis: per-file parse results, the
// merged service graph, networking, orchestration pattern, and
// environment grouping, per spec 4.F.
func Analyze(ctx context.Context, root string, files []model.File) (*model.DockerAnalysis, []errkit.Error) {
	var errs []errkit.Error
	analysis := &model.DockerAnalysis{}

	groups := map[string]*model.EnvironmentGroup{}
	groupFor := func(name string) *model.EnvironmentGroup {
		g, ok := groups[name]
		if !ok {
			g = &model.EnvironmentGroup{Name: name, ConfigOverrides: map[string]string{}}
			groups[name] = g
		}
		return g
	}

	for _, f := range files {
		base := filepath.Base(f.RelPath)
		abs := filepath.Join(root, f.RelPath)
		switch {
		case IsDockerfile(base):
			info, err := ParseDockerfile(abs)
			if err != nil {
				errs = append(errs, *errkit.New(errkit.FileSystem, "docker", err.Error(), err).WithPath(abs))
				continue
			}
			analysis.Dockerfiles = append(analysis.Dockerfiles, info)
			g := groupFor(info.Environment)
			g.Dockerfiles = append(g.Dockerfiles, abs)

		case IsComposeFile(base):
			info, services, err := ParseCompose(ctx, abs, filepath.Dir(abs))
			if err != nil {
				errs = append(errs, *errkit.New(errkit.ManifestParsing, "docker", err.Error(), err).WithPath(abs))
				continue
			}
			analysis.ComposeFiles = append(analysis.ComposeFiles, info)
			analysis.Services = append(analysis.Services, services...)
			g := groupFor(info.Environment)
			g.ComposeFiles = append(g.ComposeFiles, abs)
		}

		select {
		case <-ctx.Done():
			return analysis, append(errs, *errkit.New(errkit.Cancelled, "docker", ctx.Err().Error(), ctx.Err()))
		default:
		}
	}

	for _, g := range groups {
		analysis.Environments = append(analysis.Environments, *g)
	}

	networking, pattern := AnalyzeTopology(analysis.Services)
	analysis.Networking = networking
	analysis.Orchestration = pattern

	return analysis, errs
}
