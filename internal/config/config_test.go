package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goenrich/domain/enrichment"
	"goenrich/internal/errors"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/goenrich_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Profiling.Enabled)
	assert.Equal(t, enrichment.DefaultOptions(), cfg.Analysis.Options())
}

func TestLoad_AnalysisOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/goenrich_test")
	t.Setenv("GATE_CUTOFF", "0.01")
	t.Setenv("FILTER_CUTOFF", "0.1")
	t.Setenv("FILTER_DIMENSION", "raw")
	t.Setenv("CORRECTION_METHOD", "bonferroni")
	t.Setenv("ANALYSIS_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	opts := cfg.Analysis.Options()
	assert.Equal(t, 0.01, opts.GateCutoff)
	assert.Equal(t, 0.1, opts.FilterCutoff)
	assert.Equal(t, enrichment.FilterOnRaw, opts.FilterDimension)
	assert.Equal(t, enrichment.CorrectionBonferroni, opts.Method)
	assert.Equal(t, 4, opts.Workers)
}

func TestLoad_RejectsInvalidAnalysisDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/goenrich_test")
	t.Setenv("CORRECTION_METHOD", "mystery")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
