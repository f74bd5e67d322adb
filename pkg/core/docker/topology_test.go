package docker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/pkg/model"
)

func service(name, image string, deps ...string) model.DockerService {
	return model.DockerService{
		Name:         name,
		ImageOrBuild: model.ImageOrBuild{Kind: model.ImageKindRef, Image: image},
		DependsOn:    deps,
	}
}

func TestZeroServicesIsSingleContainerWithNoFindings(t *testing.T) {
	net, pattern := AnalyzeTopology(nil)
	require.Equal(t, model.OrchSingleContainer, pattern)
	require.False(t, net.InternalDNS)
}

func TestSingleServiceIsSingleContainer(t *testing.T) {
	_, pattern := AnalyzeTopology([]model.DockerService{service("web", "myapp:latest")})
	require.Equal(t, model.OrchSingleContainer, pattern)
}

func TestServiceMeshWins(t *testing.T) {
	services := []model.DockerService{
		service("web", "myapp:latest"),
		service("proxy", "istio/proxyv2"),
	}
	_, pattern := AnalyzeTopology(services)
	require.Equal(t, model.OrchServiceMesh, pattern)
}

func TestEventDrivenRequiresQueueAndThreeNonProxyBackends(t *testing.T) {
	services := []model.DockerService{
		service("api", "myapp/api"),
		service("worker", "myapp/worker"),
		service("scheduler", "myapp/scheduler"),
		service("queue", "redis"),
	}
	_, pattern := AnalyzeTopology(services)
	require.Equal(t, model.OrchEventDriven, pattern)
}

func TestMicroservicesRequiresDiscoveryAndThreeBackends(t *testing.T) {
	services := []model.DockerService{
		service("api", "myapp/api"),
		service("worker", "myapp/worker"),
		service("scheduler", "myapp/scheduler"),
		service("registry", "consul"),
	}
	_, pattern := AnalyzeTopology(services)
	require.Equal(t, model.OrchMicroservices, pattern)
}

func TestPlainComposeIsDefaultFallback(t *testing.T) {
	services := []model.DockerService{
		service("api", "myapp/api"),
		service("db", "postgres"),
	}
	_, pattern := AnalyzeTopology(services)
	require.Equal(t, model.OrchDockerCompose, pattern)
}

func TestLoadBalancerBackendsExcludeSelfAndDependencies(t *testing.T) {
	services := []model.DockerService{
		service("lb", "nginx", "api"),
		service("api", "myapp/api"),
		service("worker", "myapp/worker"),
	}
	net, _ := AnalyzeTopology(services)
	require.ElementsMatch(t, []string{"worker"}, net.LoadBalancers["lb"])
}
