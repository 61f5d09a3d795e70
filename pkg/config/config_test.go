package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-grocery/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "en-GB", cfg.LocaleCode)
	assert.Equal(t, time.Hour, cfg.TTLs.StoreSearch)
	assert.Equal(t, 12*time.Hour, cfg.TTLs.MemberProfile)
	assert.Equal(t, 24*time.Hour, cfg.TTLs.Basket)
	assert.Equal(t, 10, cfg.SearchHistoryLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TTL_MEMBER_PROFILE", "6h")
	t.Setenv("LOCALE_CODE", "en-IE")
	t.Setenv("SEARCH_HISTORY_LIMIT", "3")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, cfg.TTLs.MemberProfile)
	assert.Equal(t, "en-IE", cfg.LocaleCode)
	assert.Equal(t, 3, cfg.SearchHistoryLimit)
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("TTL_MENU", "0s")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TTL_MENU")
}

func TestLoad_RejectsNonPositiveHistoryLimit(t *testing.T) {
	t.Setenv("SEARCH_HISTORY_LIMIT", "0")

	_, err := config.Load()

	require.Error(t, err)
}
