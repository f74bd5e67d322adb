package docker

import (
	"context"
	"strconv"
	"strings"

	"github.com/compose-spec/compose-go/v2/cli"
	"github.com/compose-spec/compose-go/v2/types"
	distreference "github.com/docker/distribution/reference"

	"github.com/reposcope/reposcope/pkg/model"
)

// ParseCompose loads one Compose file with compose-spec/compose-go/v2 and
// lowers it into the project-agnostic model.DockerService/ComposeFileInfo
// shapes, per spec 4.F's Compose parse rules.
func ParseCompose(ctx context.Context, path, workingDir string) (model.ComposeFileInfo, []model.DockerService, error) {
	opts, err := cli.NewProjectOptions(
		[]string{path},
		cli.WithWorkingDirectory(workingDir),
		cli.WithOsEnv,
		cli.WithDotEnv,
	)
	if err != nil {
		return model.ComposeFileInfo{}, nil, err
	}
	project, err := opts.LoadProject(ctx)
	if err != nil {
		return model.ComposeFileInfo{}, nil, err
	}

	info := model.ComposeFileInfo{
		Path:        path,
		Environment: EnvironmentFromFilename(path),
	}

	var services []model.DockerService
	for name, svc := range project.Services {
		info.Services = append(info.Services, name)
		services = append(services, lowerService(name, path, svc))
	}
	for name, net := range project.Networks {
		_ = net
		info.Networks = append(info.Networks, name)
	}
	for name := range project.Volumes {
		info.Volumes = append(info.Volumes, name)
	}
	return info, services, nil
}

func lowerService(name, sourceFile string, svc types.ServiceConfig) model.DockerService {
	ds := model.DockerService{
		Name:          name,
		SourceFile:    sourceFile,
		Environment:   map[string]string{},
		RestartPolicy: model.RestartPolicy(svc.Restart),
	}

	if svc.Build != nil {
		ds.ImageOrBuild = model.ImageOrBuild{
			Kind:       model.ImageKindBuild,
			Context:    svc.Build.Context,
			Dockerfile: svc.Build.Dockerfile,
			BuildArgs:  stringMap(svc.Build.Args),
		}
	} else {
		ds.ImageOrBuild = model.ImageOrBuild{
			Kind:  model.ImageKindRef,
			Image: NormalizeImageRef(svc.Image),
		}
	}

	for _, p := range svc.Ports {
		pm := model.PortMapping{
			ContainerPort: int(p.Target),
			Protocol:      model.ProtoTCP,
			ExposedToHost: p.Published != "",
		}
		if strings.EqualFold(p.Protocol, "udp") {
			pm.Protocol = model.ProtoUDP
		}
		if p.Published != "" {
			if n, err := strconv.Atoi(p.Published); err == nil {
				pm.HostPort = &n
			}
		}
		ds.Ports = append(ds.Ports, pm)
	}

	for k, v := range svc.Environment {
		if v != nil {
			ds.Environment[k] = *v
		}
	}

	for dep := range svc.DependsOn {
		ds.DependsOn = append(ds.DependsOn, dep)
	}

	for net := range svc.Networks {
		ds.Networks = append(ds.Networks, net)
	}

	for _, v := range svc.Volumes {
		mt := model.MountVolume
		if v.Type == "bind" || strings.HasPrefix(v.Source, ".") || strings.HasPrefix(v.Source, "/") {
			mt = model.MountBind
		}
		if v.Type == "tmpfs" {
			mt = model.MountTmpfs
		}
		ds.Volumes = append(ds.Volumes, model.VolumeMount{
			Source:    v.Source,
			Target:    v.Target,
			MountType: mt,
			ReadOnly:  v.ReadOnly,
		})
	}

	if svc.HealthCheck != nil && len(svc.HealthCheck.Test) > 0 {
		hc := &model.HealthCheck{Test: []string(svc.HealthCheck.Test)}
		if svc.HealthCheck.Interval != nil {
			hc.Interval = svc.HealthCheck.Interval.String()
		}
		if svc.HealthCheck.Timeout != nil {
			hc.Timeout = svc.HealthCheck.Timeout.String()
		}
		if svc.HealthCheck.Retries != nil {
			hc.Retries = int(*svc.HealthCheck.Retries)
		}
		ds.HealthCheck = hc
	}

	if svc.Deploy != nil && svc.Deploy.Resources.Limits != nil {
		lim := svc.Deploy.Resources.Limits
		rl := &model.ResourceLimits{}
		if lim.NanoCPUs != "" {
			rl.CPUs = lim.NanoCPUs
		}
		if lim.MemoryBytes != 0 {
			rl.Memory = strconv.FormatInt(int64(lim.MemoryBytes), 10)
		}
		ds.ResourceLimits = rl
	}

	return ds
}

func stringMap(m types.MappingWithEquals) map[string]string {
	out := map[string]string{}
	for k, v := range m {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

// NormalizeImageRef canonicalizes an image reference (adding the implicit
// docker.io/library/ prefix and :latest tag a bare name carries) using
// docker/distribution's reference parser, falling back to the raw string
// when it isn't a well-formed reference.
func NormalizeImageRef(ref string) string {
	if ref == "" {
		return ref
	}
	named, err := distreference.ParseNormalizedNamed(ref)
	if err != nil {
		return ref
	}
	return distreference.TagNameOnly(named).String()
}
