package docker

import (
	"strings"

	"github.com/reposcope/reposcope/pkg/model"
)

// AnalyzeTopology computes a project's networking configuration and
// orchestration pattern from its discovered Compose services, per spec
// 4.F's networking/orchestration and pattern-election rules.
func AnalyzeTopology(services []model.DockerService) (model.NetworkingConfig, model.OrchestrationPattern) {
	networking := model.NetworkingConfig{
		Networks:      map[string][]string{},
		LoadBalancers: map[string][]string{},
	}

	for _, s := range services {
		for _, n := range s.Networks {
			networking.Networks[n] = append(networking.Networks[n], s.Name)
		}
		image := s.ImageOrBuild.Image
		if imageMatchesAny(image, "consul", "etcd", "zookeeper") {
			networking.ExternalDiscovery = true
		}
		if imageMatchesAny(image, "istio", "linkerd", "envoy", "consul-connect") {
			networking.ServiceMesh = true
		}
	}
	if len(services) > 0 {
		networking.InternalDNS = true
	}

	isLB := map[string]bool{}
	for _, s := range services {
		if imageMatchesAny(s.ImageOrBuild.Image, "nginx", "traefik", "haproxy", "envoy", "kong") {
			isLB[s.Name] = true
		}
	}
	for _, s := range services {
		if !isLB[s.Name] {
			continue
		}
		dependsOn := map[string]bool{}
		for _, d := range s.DependsOn {
			dependsOn[d] = true
		}
		var backends []string
		for _, other := range services {
			if other.Name == s.Name || dependsOn[other.Name] {
				continue
			}
			backends = append(backends, other.Name)
		}
		networking.LoadBalancers[s.Name] = backends
	}

	nonProxyCount := 0
	hasMessageQueue := false
	for _, s := range services {
		if isLB[s.Name] {
			continue
		}
		nonProxyCount++
		if imageMatchesAny(s.ImageOrBuild.Image, "redis", "rabbitmq", "kafka", "nats") {
			hasMessageQueue = true
		}
	}

	var pattern model.OrchestrationPattern
	switch {
	case len(services) == 0:
		pattern = model.OrchSingleContainer
	case len(services) == 1:
		pattern = model.OrchSingleContainer
	case networking.ServiceMesh:
		pattern = model.OrchServiceMesh
	case hasMessageQueue && nonProxyCount >= 3:
		pattern = model.OrchEventDriven
	case nonProxyCount >= 3 && networking.ExternalDiscovery:
		pattern = model.OrchMicroservices
	default:
		pattern = model.OrchDockerCompose
	}
	return networking, pattern
}

func imageMatchesAny(image string, needles ...string) bool {
	lower := strings.ToLower(image)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
