package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8000/providescore", cfg.ScoringURL)
	assert.Equal(t, "http://localhost:8000/draftemail", cfg.DraftingURL)
	assert.Empty(t, cfg.SlotsURL)
	assert.Zero(t, cfg.CollaboratorTimeout, "collaborator calls wait forever unless configured")
	assert.Equal(t, 200*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 0.05, cfg.SlotFailureRate)
	assert.False(t, cfg.MailEnabled())
}

func TestOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":                 "9090",
		"COLLABORATOR_TIMEOUT": "3s",
		"ALLOWED_ORIGINS":      "https://a.example, https://b.example ,",
		"SLOT_FAILURE_RATE":    "0",
		"MAIL_HOST":            "smtp.example.com",
		"MAIL_FROM":            "sdr@example.com",
		"MAIL_PORT":            "2525",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.CollaboratorTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Zero(t, cfg.SlotFailureRate)
	assert.Equal(t, 2525, cfg.MailPort)
	assert.True(t, cfg.MailEnabled())
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SEARCH_DEBOUNCE":       "soon",
		"MAIL_PORT":             "smtp",
		"SLOT_FAILURE_RATE":     "1.5",
		"RATE_LIMIT_PER_MINUTE": "0",
	}
	for key, val := range cases {
		_, err := FromEnv(envMap(map[string]string{key: val}))
		assert.ErrorContains(t, err, key, key)
	}
}
