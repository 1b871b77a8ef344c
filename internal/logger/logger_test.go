package logger

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"":      logrus.InfoLevel,
		"loud":  logrus.InfoLevel,
	}
	for level, want := range cases {
		t.Run(level, func(t *testing.T) {
			assert.Equal(t, want, New("local", level).Logger.GetLevel())
		})
	}
}

func TestNewFormatter(t *testing.T) {
	_, isText := New("local", "").Logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)

	_, isJSON := New("production", "").Logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestWithRequest(t *testing.T) {
	l := Discard()

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	e := l.WithRequest(r)
	assert.Equal(t, "abc-123", e.Data["req_id"])
	assert.Equal(t, "/dashboard", e.Data["path"])

	r2 := httptest.NewRequest("POST", "/upload", nil)
	e2 := l.WithRequest(r2)
	assert.Len(t, e2.Data["req_id"], 36)
}

func TestWithErrorAndComponent(t *testing.T) {
	l := Discard().Component("loader")
	assert.Equal(t, "loader", l.Data["component"])

	e := l.WithError(errors.New("boom"))
	assert.Equal(t, "boom", e.Data["error"])
	assert.Equal(t, "loader", e.Data["component"])

	assert.Equal(t, l.Entry, l.WithError(nil))
}
