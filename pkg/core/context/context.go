package context

import (
	"github.com/reposcope/reposcope/pkg/model"
)

// Result bundles one project partition's extracted context, ready to be
// merged into a model.ProjectAnalysis by the orchestrator.
type Result struct {
	EntryPoints  []model.EntryPoint
	Ports        []model.Port
	EnvVars      []model.EnvVar
	BuildScripts []model.BuildScript
	ProjectType  model.ProjectType
}

// Extract runs the full 4.E pipeline for one project partition: entry
// points and build scripts are language-specific; ports and env vars are
// merged with whatever the Docker Topology Analyzer already found in
// Dockerfiles/Compose services for the same root, then project type is
// inferred last since it depends on every other signal.
func Extract(root string, files []model.File, lang model.LanguageName, techs []model.DetectedTechnology, deps []model.Dependency, docker *model.DockerAnalysis) Result {
	entryPoints := DetectEntryPoints(root, files, lang)
	ports := DetectPorts(root, files)
	envVars := DetectEnvVars(root, files)
	buildScripts := DetectBuildScripts(root, lang)

	if docker != nil {
		ports = mergeDockerPorts(ports, docker)
		envVars = mergeDockerEnv(envVars, docker)
	}

	projectType := InferProjectType(root, techs, entryPoints, ports, deps)

	return Result{
		EntryPoints:  entryPoints,
		Ports:        ports,
		EnvVars:      envVars,
		BuildScripts: buildScripts,
		ProjectType:  projectType,
	}
}

func mergeDockerPorts(ports []model.Port, docker *model.DockerAnalysis) []model.Port {
	seen := map[string]bool{}
	for _, p := range ports {
		seen[p.Key()] = true
	}
	add := func(p model.Port) {
		if seen[p.Key()] {
			return
		}
		seen[p.Key()] = true
		ports = append(ports, p)
	}

	for _, df := range docker.Dockerfiles {
		for _, p := range df.ExposedPorts {
			add(p)
		}
	}
	for _, svc := range docker.Services {
		svcType := ClassifyComposeService(svc)
		for _, pm := range svc.Ports {
			add(model.Port{
				Number:      uint16(pm.ContainerPort),
				Protocol:    pm.Protocol,
				Description: DescribePort(svc.Name, svcType, pm),
			})
		}
	}
	return ports
}

func mergeDockerEnv(envVars []model.EnvVar, docker *model.DockerAnalysis) []model.EnvVar {
	seen := map[string]bool{}
	for _, e := range envVars {
		seen[e.Name] = true
	}
	for _, svc := range docker.Services {
		svcType := ClassifyComposeService(svc)
		for name, val := range svc.Environment {
			if seen[name] {
				continue
			}
			seen[name] = true
			v := val
			envVars = append(envVars, model.EnvVar{
				Name:         name,
				DefaultValue: &v,
				Description:  "Set for " + string(svcType) + " service \"" + svc.Name + "\"",
			})
		}
	}
	return envVars
}
