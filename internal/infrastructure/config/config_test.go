package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: Multivarka\n"))

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, MenuStoreDatabase, cfg.Menu.Store)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Database.Seed)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: postgres
  host: db
  username: cook
  password: "p@ss"
  database: kitchen
menu:
  store: redis
`)
	t.Setenv("MULTIVARKA_SERVER_PORT", "9100")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port, "environment overrides the file")
	assert.Equal(t, MenuStoreRedis, cfg.Menu.Store)
	assert.Equal(t, "host=db port=5432 user=cook password=p@ss dbname=kitchen sslmode=disable", cfg.GetDSN())
	assert.Equal(t, "postgres://cook:p%40ss@db:5432/kitchen?sslmode=disable", cfg.GetURL())
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"BadDriver":    "database:\n  driver: mysql\n",
		"BadMenuStore": "menu:\n  store: disk\n",
		"BadPort":      "server:\n  port: 70000\n",
		"BadLogLevel":  "app:\n  log_level: loud\n",
		"BadSampling":  "monitoring:\n  sampling_rate: 2\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
