package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		ServerPort:     "8080",
		RequestTimeout: 30 * time.Second,
		DatabaseURL:    "postgres://localhost:5432/hotelhub",
		AccessSecret:   "Acc3ss-Secret!",
		RefreshSecret:  "R3fresh-Secret!",
		AccessTTL:      15 * time.Minute,
		RefreshTTL:     3 * time.Hour,
		CookieName:     "refresh_token",
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing database url", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabaseURL = ""
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("identical secrets rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.RefreshSecret = cfg.AccessSecret
		assert.ErrorContains(t, cfg.Validate(), "must differ")
	})

	t.Run("refresh ttl must exceed access ttl", func(t *testing.T) {
		cfg := validConfig()
		cfg.RefreshTTL = cfg.AccessTTL
		assert.ErrorContains(t, cfg.Validate(), "REFRESH_TTL")
	})

	t.Run("empty cookie name", func(t *testing.T) {
		cfg := validConfig()
		cfg.CookieName = "  "
		assert.ErrorContains(t, cfg.Validate(), "JWT_COOKIE_NAME")
	})
}

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"valid secret", "Acc3ss-Secret!", false},
		{"too short", "Ab1!", true},
		{"too long", "Aa1!" + strings.Repeat("x", 64), true},
		{"missing uppercase", "acc3ss-secret!", true},
		{"missing lowercase", "ACC3SS-SECRET!", true},
		{"missing digit", "Access-Secret!", true},
		{"missing symbol", "Acc3ssSecret99", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSecret("ACCESS_SECRET", tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV("a, b"))
	assert.Equal(t, []string{"*"}, splitCSV("*"))
	assert.Nil(t, splitCSV("  "))
	assert.Equal(t, []string{"x"}, splitCSV(",x,,"))
}
