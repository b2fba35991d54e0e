package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
generator:
  records: 5000
  seed: 42
  chunk_size: 300
sink:
  path: /tmp/synth360.db
  table: known_customer_360
  host: dbc-example.cloud.example.com
  warehouse: wh-main
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5000, cfg.Generator.Records)
	assert.Equal(t, int64(42), cfg.Generator.Seed)
	assert.Equal(t, 300, cfg.Generator.ChunkSize)
	assert.Equal(t, "/tmp/synth360.db", cfg.Sink.Path)
	assert.Equal(t, "known_customer_360", cfg.Sink.Table)
	assert.Equal(t, "dbc-example.cloud.example.com", cfg.Sink.Host)
	assert.Equal(t, "wh-main", cfg.Sink.Warehouse)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{
			name: "zero records",
			cfg: Config{
				Generator: GeneratorConfig{Records: 0, ChunkSize: 300},
				Sink:      SinkConfig{Table: "t"},
			},
		},
		{
			name: "zero chunk size",
			cfg: Config{
				Generator: GeneratorConfig{Records: 100, ChunkSize: 0},
				Sink:      SinkConfig{Table: "t"},
			},
		},
		{
			name: "missing table",
			cfg: Config{
				Generator: GeneratorConfig{Records: 100, ChunkSize: 300},
				Sink:      SinkConfig{},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestValidate_OptionalSinkOptions(t *testing.T) {
	cfg := Config{
		Generator: GeneratorConfig{Records: 10, Seed: 1, ChunkSize: 5},
		Sink:      SinkConfig{Table: "t"},
	}
	assert.NoError(t, cfg.Validate(), "host, warehouse and token are optional")
}
