package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsklein/mtstates/internal/substream"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mtstates.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, uint32(1962), cfg.Seed)
	assert.Equal(t, uint64(1)<<50, cfg.Distance)
}

func TestLoadFull(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
generator {
  seed     = 42
  distance = 1048576
  workers  = 4
}

logging {
  level = "debug"
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{Seed: 42, Distance: 1 << 20, Workers: 4, LogLevel: "debug"}, cfg)
}

func TestLoadPartial(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
generator {
  workers = 2
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, substream.DefaultSeed, cfg.Seed)
	assert.Equal(t, substream.DefaultDistance, cfg.Distance)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadSeedZero(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "generator {\n  seed = 0\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), cfg.Seed)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "generator {", "failed to parse HCL file"},
		{"unknown attribute", "generator {\n  speed = 1\n}\n", "failed to decode HCL"},
		{"negative seed", "generator {\n  seed = -1\n}\n", "failed to decode HCL"},
		{"zero distance", "generator {\n  distance = 0\n}\n", "distance must be positive"},
		{"zero workers", "generator {\n  workers = 0\n}\n", "workers must be positive"},
		{"bad level", "logging {\n  level = \"loud\"\n}\n", "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSubstream(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Workers = 3
	sc := cfg.Substream(10)
	assert.Equal(t, substream.Config{Seed: 1962, Distance: 1 << 50, Count: 10, Workers: 3}, sc)
	assert.NoError(t, sc.Validate())
}
