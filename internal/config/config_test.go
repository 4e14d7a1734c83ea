package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "balanced", cfg.Engine.DefaultProfile)
	require.EqualValues(t, 64*1024, cfg.Engine.SampleThresholdBytes())
}

func TestDefaultsMatchesLoadWithNoOverrides(t *testing.T) {
	loaded, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), loaded)
}

func TestValidateRejectsUnknownProfile(t *testing.T) {
	cfg := &Config{Engine: EngineConfig{DefaultProfile: "warp-speed", SampleThreshold: "64KB"}}
	require.ErrorIs(t, validate(cfg), ErrInvalidProfile)
}

func TestValidateRejectsNegativeWorkers(t *testing.T) {
	cfg := &Config{Engine: EngineConfig{DefaultProfile: "fast", Workers: -1, SampleThreshold: "64KB"}}
	require.ErrorIs(t, validate(cfg), ErrInvalidWorkers)
}
