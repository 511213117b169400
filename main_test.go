package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usermgmt/internal/config"
)

func TestRun_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{"gin mode", config.Config{StoreDriver: config.StoreDriverMemory, GinMode: "production", BcryptCost: 10}, "GIN_MODE"},
		{"bcrypt cost", config.Config{StoreDriver: config.StoreDriverMemory, GinMode: "release", BcryptCost: 40}, "BCRYPT_COST"},
		{"store driver", config.Config{StoreDriver: "mongo", GinMode: "release", BcryptCost: 10}, "STORE_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := run(&cfg, zerolog.Nop())
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewUserRepository_Memory(t *testing.T) {
	repo, closer, err := newUserRepository(&config.Config{StoreDriver: config.StoreDriverMemory}, zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, repo)
	assert.NoError(t, closer.Close())
}
