package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestParseJson_PartialOverride(t *testing.T) {
	path := writeConfigFile(t, `{
		"address": ":9000",
		"token_validity_duration": "48h"
	}`)

	oldArgs := os.Args
	os.Args = []string{"server", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":9000", c.Address)
	assert.Equal(t, 48*time.Hour, c.TokenValidityDuration)
	// absent keys keep defaults
	assert.Equal(t, "ca-central-1", c.AWSRegion)
	assert.Equal(t, 3000*time.Second, c.PresignExpiry)
}

func TestParseJson_NoFlagIsNoop(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"server"}
	t.Cleanup(func() { os.Args = oldArgs })

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":8080", c.Address)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	path := writeConfigFile(t, `{not json`)

	oldArgs := os.Args
	os.Args = []string{"server", "-config", path}
	t.Cleanup(func() { os.Args = oldArgs })

	var c Config
	c.LoadDefaults()

	require.Panics(t, func() { parseJson(&c) })
}
