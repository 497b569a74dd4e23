package testutil

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// ExpireNX needs redis 7.
	redisImage     = "redis:7-alpine"
	redisPort      = "6379/tcp"
	startupTimeout = 60 * time.Second
)

// RedisTestContainer is a throwaway redis server for integration tests.
type RedisTestContainer struct {
	Container testcontainers.Container
	Addr      string
	Client    *redis.Client
}

// SetupRedisContainer starts redis in docker and returns a connected client.
// Skipped under -short.
func SetupRedisContainer(t *testing.T) *RedisTestContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{redisPort},
		WaitingFor:   wait.ForListeningPort(redisPort).WithStartupTimeout(startupTimeout),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	t.Cleanup(func() {
		if container != nil {
			_ = container.Terminate(context.Background())
		}
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, redisPort)
	require.NoError(t, err)

	addr := host + ":" + port.Port()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	return &RedisTestContainer{Container: container, Addr: addr, Client: client}
}
