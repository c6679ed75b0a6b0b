package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DATABASE_DSN", "OPENAI_MODEL", "OPENAI_TIMEOUT", "REDIS_ADDR", "RECORD_SOURCE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 60*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, "db", cfg.App.RecordSource)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Contains(t, cfg.Database.DSN(), "dbname=salescrm")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", `"postgres://u:p@db:5432/crm?sslmode=disable"`)
	t.Setenv("OPENAI_TIMEOUT", "30")
	t.Setenv("DRAFT_TTL", "2h")
	t.Setenv("MIGRATIONS", "yes")
	cfg := Load()
	assert.Equal(t, "postgres://u:p@db:5432/crm?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, cfg.Database.DSN(), cfg.Database.URL())
	assert.Equal(t, 30*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Redis.DraftTTL)
	assert.True(t, cfg.App.Migrations)
}

func TestDSN_SQLite(t *testing.T) {
	d := DatabaseConfig{Driver: "sqlite", DBName: "crm.db"}
	assert.Equal(t, "crm.db", d.DSN())
}

func TestLogError_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "nonsense", JSON: true})
	logger.SetOutput(&buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	LogError(logger, "intake", "Submit", "insert client", map[string]string{"step": "6"}, errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "intake", entry["module"])
	assert.Equal(t, "Submit", entry["funcName"])
	assert.NotNil(t, entry["data"])
}
