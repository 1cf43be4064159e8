package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	cfg := mustConfig()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "./credentials.json", cfg.CredentialsFile)
	assert.Equal(t, "COPERNICUS/S2_HARMONIZED", cfg.Collection)
	assert.Equal(t, "2023-06-01", cfg.DateStart)
	assert.Equal(t, "2023-08-31", cfg.DateEnd)
	assert.Equal(t, 20.0, cfg.MaxCloudPct)
}

func TestConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEE_COLLECTION", "COPERNICUS/S2_SR_HARMONIZED")
	t.Setenv("GEE_MAX_CLOUD_PCT", "35.5")

	cfg := mustConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "COPERNICUS/S2_SR_HARMONIZED", cfg.Collection)
	assert.Equal(t, 35.5, cfg.MaxCloudPct)
}

func TestConfigBadFloatFallsBack(t *testing.T) {
	t.Setenv("GEE_MAX_CLOUD_PCT", "cloudy")
	assert.Equal(t, 20.0, mustConfig().MaxCloudPct)
}
