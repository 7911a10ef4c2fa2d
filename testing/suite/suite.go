// Package suite runs repository tests against a real redis in a throwaway container.
package suite

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerTTL = uint(120)
	startTimeout = 120 * time.Second

	redisImage = "redis"
	redisTag   = "alpine"
	redisPort  = "6379/tcp"
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

// New - gives the test an empty redis database. Skipped with -short or when docker is unavailable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("redis container tests are disabled by -short")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker pool unavailable: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker daemon unreachable: %v", err)
	}

	client := startRedis(ctx, t, pool)

	if err = client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, &Suite{
		T:       t,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Storage: client,
	}
}

// startRedis - runs a redis container and waits until it answers PING. The container is purged on cleanup.
func startRedis(ctx context.Context, t *testing.T, pool *dockertest.Pool) *redis.Client {
	t.Helper()

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(host *docker.HostConfig) {
		host.AutoRemove = true
		host.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}

	purge := func() {
		if purgeErr := pool.Purge(resource); purgeErr != nil {
			t.Errorf("purge redis container: %v", purgeErr)
		}
	}

	// a leaked container removes itself after the TTL
	_ = resource.Expire(containerTTL)

	client := redis.NewClient(&redis.Options{Addr: resource.GetHostPort(redisPort)})

	pool.MaxWait = startTimeout
	if err = pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		purge()
		t.Fatalf("redis container never became ready: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		purge()
	})

	return client
}
