package logging

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestLogger_UsesRequestID(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "abc123")
	New(ctx).Error("projects.create", errors.New("boom"))

	assert.Equal(t, "[error] request_id=abc123 operation=projects.create error=boom\n", buf.String())
}

func TestLogger_UnknownRequest(t *testing.T) {
	buf := captureLog(t)

	New(context.Background()).Infof("bus.publish", "table=%s", "videos")

	assert.Equal(t, "[info] request_id=unknown operation=bus.publish table=videos\n", buf.String())
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestSetLevel(t *testing.T) {
	buf := captureLog(t)
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("warn")
	l := New(context.Background())
	l.Info("pages.invalidate", "dropped")
	l.Warn("bus.publish", "offline")
	l.Error("actions.write", errors.New("boom"))

	assert.Equal(t,
		"[warn] request_id=unknown operation=bus.publish message=offline\n"+
			"[error] request_id=unknown operation=actions.write error=boom\n",
		buf.String())
}
