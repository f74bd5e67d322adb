package context

import (
	"strconv"
	"strings"

	"github.com/reposcope/reposcope/pkg/model"
)

// ClassifyComposeService types a Compose service by examining, in order,
// its name, its image reference, and characteristic environment variable
// prefixes, per spec 4.E's Compose service typing rule.
func ClassifyComposeService(svc model.DockerService) model.ServiceType {
	if t, ok := classifyByToken(svc.Name); ok {
		return t
	}
	if t, ok := classifyByToken(svc.ImageOrBuild.Image); ok {
		return t
	}
	for key := range svc.Environment {
		switch {
		case strings.HasPrefix(key, "POSTGRES_"):
			return model.ServicePostgreSQL
		case strings.HasPrefix(key, "MYSQL_"):
			return model.ServiceMySQL
		case strings.HasPrefix(key, "MONGO_"):
			return model.ServiceMongoDB
		}
	}
	if svc.ImageOrBuild.Kind == model.ImageKindBuild {
		return model.ServiceApplication
	}
	return model.ServiceUnknown
}

func classifyByToken(s string) (model.ServiceType, bool) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "postgres"):
		return model.ServicePostgreSQL, true
	case strings.Contains(lower, "mysql") || strings.Contains(lower, "mariadb"):
		return model.ServiceMySQL, true
	case strings.Contains(lower, "mongo"):
		return model.ServiceMongoDB, true
	case strings.Contains(lower, "redis"):
		return model.ServiceRedis, true
	case strings.Contains(lower, "rabbitmq"):
		return model.ServiceRabbitMQ, true
	case strings.Contains(lower, "kafka"):
		return model.ServiceKafka, true
	case strings.Contains(lower, "elasticsearch") || strings.Contains(lower, "elastic"):
		return model.ServiceElasticsearch, true
	case strings.Contains(lower, "nginx"):
		return model.ServiceNginx, true
	}
	return "", false
}

// DescribePort builds the "<ServiceType> database (<service>) -
// external:<N>, internal:<N>" style label spec 4.E's Compose service typing
// feeds into port descriptions.
func DescribePort(svcName string, svcType model.ServiceType, pm model.PortMapping) string {
	kind := "service"
	switch svcType {
	case model.ServicePostgreSQL, model.ServiceMySQL, model.ServiceMongoDB:
		kind = "database"
	case model.ServiceRedis:
		kind = "cache"
	case model.ServiceRabbitMQ, model.ServiceKafka:
		kind = "message queue"
	}
	internal := strconv.Itoa(pm.ContainerPort)
	external := internal
	if pm.HostPort != nil {
		external = strconv.Itoa(*pm.HostPort)
	}
	return string(svcType) + " " + kind + " (" + svcName + ") - external:" + external + ", internal:" + internal
}
