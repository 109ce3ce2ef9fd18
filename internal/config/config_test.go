package config_test

import (
	"testing"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	conf := config.New()

	assert.Equal(t, "development", conf.Env)
	assert.Equal(t, "postgres", conf.Storage.Backend)
	assert.Equal(t, "lru", conf.Cache.Backend)
	assert.Equal(t, 7*24*time.Hour, conf.Auth.TokenTTL)
	assert.False(t, conf.Kafka.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "memory backend needs no postgres credentials",
			env: map[string]string{
				"STORAGE_BACKEND": "memory",
				"JWT_SECRET":      "0123456789abcdef",
			},
		},
		{
			name: "postgres backend without credentials",
			env: map[string]string{
				"STORAGE_BACKEND": "postgres",
				"JWT_SECRET":      "0123456789abcdef",
			},
			wantErr: true,
		},
		{
			name: "postgres backend with credentials",
			env: map[string]string{
				"STORAGE_BACKEND":   "postgres",
				"POSTGRES_USER":     "user",
				"POSTGRES_PASSWORD": "password",
				"JWT_SECRET":        "0123456789abcdef",
			},
		},
		{
			name: "missing jwt secret",
			env: map[string]string{
				"STORAGE_BACKEND": "memory",
			},
			wantErr: true,
		},
		{
			name: "unknown backend",
			env: map[string]string{
				"STORAGE_BACKEND": "sqlite",
				"JWT_SECRET":      "0123456789abcdef",
			},
			wantErr: true,
		},
		{
			name: "kafka enabled",
			env: map[string]string{
				"STORAGE_BACKEND": "file",
				"JWT_SECRET":      "0123456789abcdef",
				"KAFKA_ENABLED":   "true",
				"KAFKA_BROKERS":   "localhost:9092,localhost:9093",
			},
		},
		{
			name: "redis cache with bad address",
			env: map[string]string{
				"STORAGE_BACKEND": "memory",
				"JWT_SECRET":      "0123456789abcdef",
				"CACHE_BACKEND":   "redis",
				"REDIS_ADDR":      "not an address",
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			err := config.New().Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
