package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, 10, c.MaxToolIterations)
	require.InDelta(t, 1.0, c.Temperature, 1e-9)
	require.False(t, c.SurfacePlainMessages)
	require.False(t, c.RepairArguments)
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		c, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		require.NoError(t, err)
		require.Equal(t, Default(), c)
	})

	t.Run("empty path", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		require.Equal(t, "Assistant", c.Name)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "thinkact.yml")
		content := "name: Recorder\nprovider: anthropic\nengine: claude-test\nmax-tool-iterations: 3\nsurface-plain-messages: true\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		c, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "Recorder", c.Name)
		require.Equal(t, ProviderAnthropic, c.Provider)
		require.Equal(t, "claude-test", c.Engine)
		require.Equal(t, 3, c.MaxToolIterations)
		require.True(t, c.SurfacePlainMessages)
		require.InDelta(t, 1.0, c.Temperature, 1e-9)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "thinkact.yml")
		require.NoError(t, os.WriteFile(path, []byte("engine: from-file\n"), 0o644))
		t.Setenv("THINKACT_ENGINE", "from-env")
		t.Setenv("THINKACT_PROVIDER", "compat")
		t.Setenv("THINKACT_REPAIR_ARGUMENTS", "true")

		c, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "from-env", c.Engine)
		require.Equal(t, ProviderCompat, c.Provider)
		require.True(t, c.RepairArguments)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("name: [broken\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "parse config file")
	})

	t.Run("invalid env value", func(t *testing.T) {
		t.Setenv("THINKACT_MAX_TOOL_ITERATIONS", "many")
		_, err := Load("")
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"empty name", func(c *Config) { c.Name = " " }, "name"},
		{"provider", func(c *Config) { c.Provider = "nope" }, "unknown provider"},
		{"temperature", func(c *Config) { c.Temperature = 3 }, "temperature"},
		{"max tokens", func(c *Config) { c.MaxTokens = -1 }, "max-tokens"},
		{"iterations", func(c *Config) { c.MaxToolIterations = -1 }, "max-tool-iterations"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMarshal(t *testing.T) {
	b, err := Default().Marshal()
	require.NoError(t, err)
	require.Contains(t, string(b), "max-tool-iterations: 10")
}
