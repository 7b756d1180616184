package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidroman0O/goservice"
)

type logEntry map[string]any

func decodeLines(t *testing.T, buf *bytes.Buffer) []logEntry {
	t.Helper()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry logEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

type chargeCard struct {
	goservice.BaseAction
}

var chargeContract = goservice.NewContract().Named("billing.ChargeCard").Expects("amount")

func (chargeCard) Contract() *goservice.Contract { return chargeContract }

func TestLoggerInfoWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", HumanReadable: false, Writer: buf})
	require.NoError(t, err)

	log = log.WithFields(map[string]any{"organizer": "checkout"})
	log.Info("running %d actions", 3)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	require.Equal(t, "running 3 actions", entries[0]["message"])
	require.Equal(t, "checkout", entries[0]["organizer"])
	require.Equal(t, "info", entries[0]["level"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "INFO", Writer: buf})
	require.NoError(t, err)

	log.Debug("this should not appear")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestLoggerHumanReadable(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", HumanReadable: true, Writer: buf})
	require.NoError(t, err)

	log.Warn("careful with %s", "that")
	require.Contains(t, buf.String(), "careful with that")
	require.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var log *Logger
	require.NotPanics(t, func() {
		log.Info("ignored")
		log.Error("ignored")
		require.Nil(t, log.WithFields(map[string]any{"a": 1}))
	})
}

func TestLoggerAsContextLogger(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	_, err = goservice.Call(chargeCard{}, map[string]any{"amount": 10}, goservice.WithLogger(log))
	require.NoError(t, err)

	found := false
	for _, entry := range decodeLines(t, buf) {
		if entry["level"] == "debug" && strings.Contains(entry["message"].(string), "billing.ChargeCard") {
			found = true
		}
	}
	require.True(t, found)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	mw := goservice.WithMiddleware(Middleware(log))

	ctx, err := goservice.Call(chargeCard{}, map[string]any{"amount": 10}, mw)
	require.NoError(t, err)

	_, err = goservice.Call(chargeCard{}, map[string]any{}, mw)
	require.Error(t, err)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)

	require.Equal(t, "action invoked", entries[0]["message"])
	require.Equal(t, "billing.ChargeCard", entries[0]["action"])
	require.Equal(t, ctx.ID(), entries[0]["context_id"])
	require.Equal(t, "success", entries[0]["outcome"])
	require.Equal(t, true, entries[0]["success"])

	require.Equal(t, "error", entries[1]["level"])
	require.Equal(t, "contract_violation", entries[1]["outcome"])
	require.Contains(t, entries[1]["error"], "did not find the expected key(s): amount")
}

func TestMiddlewareWithNilLogger(t *testing.T) {
	t.Parallel()

	mw := goservice.WithMiddleware(Middleware(nil))

	require.NotPanics(t, func() {
		ctx, err := goservice.Call(chargeCard{}, map[string]any{"amount": 10}, mw)
		require.NoError(t, err)
		require.True(t, ctx.Success())
		require.Len(t, ctx.CalledActions(), 1)

		_, err = goservice.Call(chargeCard{}, map[string]any{}, mw)
		var missing *goservice.MissingExpectedKeysError
		require.ErrorAs(t, err, &missing)
	})
}
