package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "./documents.db", cfg.Store.SQLitePath)
	assert.Equal(t, "swe", cfg.OCR.Language)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, "nomic-embed-text", cfg.Embed.Model)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.Equal(t, "linear", cfg.Sampling.Strategy)
	assert.Equal(t, 4, cfg.Triage.Workers)
	assert.Equal(t, 3000, cfg.Triage.MaxTextSize)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OCR_LANG", "eng")
	t.Setenv("OCR_DPI", "150")
	t.Setenv("TRIAGE_WORKERS", "8")
	t.Setenv("LLM_TIMEOUT", "90s")
	t.Setenv("SAMPLING_MAX_PAGES", "5")

	cfg := LoadConfig()
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 150, cfg.OCR.DPI)
	assert.Equal(t, 8, cfg.Triage.Workers)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5, cfg.Sampling.MaxPages)
}

func TestLoadConfigIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("OCR_DPI", "not-a-number")
	t.Setenv("LLM_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Store:  StoreConfig{SQLitePath: "x.db"},
		OCR:    OCRConfig{DPI: 300},
		Triage: TriageConfig{Workers: 4},
	}
	assert.NoError(t, cfg.Validate())

	t.Run("store required", func(t *testing.T) {
		t.Parallel()
		bad := *cfg
		bad.Store = StoreConfig{}
		err := bad.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("dpi must be positive", func(t *testing.T) {
		t.Parallel()
		bad := *cfg
		bad.OCR.DPI = 0
		assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)
	})

	t.Run("workers must be positive", func(t *testing.T) {
		t.Parallel()
		bad := *cfg
		bad.Triage.Workers = -1
		assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)
	})
}
