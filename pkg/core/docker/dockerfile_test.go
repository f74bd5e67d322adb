package docker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDockerfileMultiStageAndExposedPorts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Dockerfile")
	content := "FROM golang:1.23 AS build\nWORKDIR /src\nRUN go build \\\n    -o app .\nFROM scratch\nCOPY --from=build /src/app /app\nEXPOSE 8080/tcp\nEXPOSE 9090\nENTRYPOINT [\"/app\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	info, err := ParseDockerfile(path)
	require.NoError(t, err)
	require.True(t, info.MultiStage)
	require.Len(t, info.BaseImages, 2)
	require.Len(t, info.ExposedPorts, 2)
	require.Greater(t, info.InstructionCount, 0)
}

func TestEnvironmentFromFilename(t *testing.T) {
	require.Equal(t, "development", EnvironmentFromFilename("Dockerfile.dev"))
	require.Equal(t, "production", EnvironmentFromFilename("docker-compose.prod.yml"))
	require.Equal(t, "test", EnvironmentFromFilename("docker-compose.test.yaml"))
	require.Equal(t, "default", EnvironmentFromFilename("Dockerfile"))
}

func TestIsDockerfileAndIsComposeFile(t *testing.T) {
	require.True(t, IsDockerfile("Dockerfile"))
	require.True(t, IsDockerfile("Dockerfile.prod"))
	require.True(t, IsDockerfile("api.dockerfile"))
	require.False(t, IsDockerfile("README.md"))

	require.True(t, IsComposeFile("docker-compose.yml"))
	require.True(t, IsComposeFile("compose.yaml"))
	require.False(t, IsComposeFile("docker-compose.md"))
}
