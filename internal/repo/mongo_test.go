//go:build integration

package repo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/config"
	"github.com/SergeyBogomolovv/storefront-service/internal/mongodb"
	"github.com/SergeyBogomolovv/storefront-service/internal/repo"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMongoRepo(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	client, err := mongodb.New(ctx, config.Mongo{
		URI:            fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database:       "storefront",
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	// каждая проверка получает чистую базу
	n := 0
	runStoreContract(t, func(t *testing.T) store {
		n++
		db := client.Database(fmt.Sprintf("storefront_%d", n))
		t.Cleanup(func() { _ = db.Drop(context.Background()) })

		r := repo.NewMongoRepo(db)
		require.NoError(t, r.EnsureIndexes(ctx))
		return r
	})
}
