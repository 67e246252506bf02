package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "user-service", "production")
	buf.Reset()

	LogError(l, "update failed", errors.New("boom"), logrus.Fields{"account_id": int64(7)})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "update failed", line["msg"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, float64(7), line["account_id"])
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewLogger_DevelopmentIsText(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "user-service", "development")

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.True(t, strings.Contains(buf.String(), "logger initialized"))
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
