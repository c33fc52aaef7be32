package queue

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFormatLine(t *testing.T) {
	active := true
	notes := "looks good"
	line := FormatLine(ModerationEvent{
		Entity:    EntitySpace,
		EntityID:  "s1",
		Status:    "approved",
		AdminID:   "a1",
		Notes:     &notes,
		IsActive:  &active,
		DecidedAt: time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC),
	})
	assert.Equal(t, "[2026-05-04T03:02:01Z] space approved | id=s1 | admin=a1 | active=true | notes=\"looks good\"\n", line)

	line = FormatLine(ModerationEvent{Entity: EntityProvider, EntityID: "u1", Status: "rejected", AdminID: "a1"})
	assert.NotContains(t, line, "active=")
	assert.NotContains(t, line, "notes=")
}

func TestConsumerHandle_AppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c := &Consumer{LogDir: dir, Log: zap.NewNop()}

	for _, id := range []string{"u1", "u2"} {
		body, err := json.Marshal(ModerationEvent{Entity: EntityProvider, EntityID: id, Status: "approved", AdminID: "a1", DecidedAt: time.Now()})
		require.NoError(t, err)
		require.NoError(t, c.Handle(body))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "moderation.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "id=u1")
	assert.Contains(t, lines[1], "id=u2")
}

func TestConsumerHandle_Rejects(t *testing.T) {
	c := &Consumer{LogDir: t.TempDir(), Log: zap.NewNop()}
	assert.Error(t, c.Handle([]byte("{not json")))
	assert.Error(t, c.Handle([]byte(`{"status":"approved"}`)))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishModeration(context.Background(), ModerationEvent{}))
}

// silentBroker accepts TCP connections and never answers the AMQP handshake.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var conns []net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, c)
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		<-done
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestPublisher_HungBrokerFailsFast(t *testing.T) {
	p := NewPublisher(silentBroker(t), "moderation.decided", zap.NewNop())
	p.dialTimeout = 200 * time.Millisecond
	p.redialBackoff = time.Minute

	start := time.Now()
	err := p.PublishModeration(context.Background(), ModerationEvent{Entity: EntitySpace, EntityID: "s1"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	// within the backoff window no dial is attempted
	start = time.Now()
	err = p.PublishModeration(context.Background(), ModerationEvent{Entity: EntitySpace, EntityID: "s1"})
	assert.ErrorIs(t, err, errBrokerBackoff)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPublisher_RespectsContextDeadline(t *testing.T) {
	p := NewPublisher(silentBroker(t), "moderation.decided", zap.NewNop())
	p.dialTimeout = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	start := time.Now()
	require.Error(t, p.PublishModeration(ctx, ModerationEvent{Entity: EntityProvider, EntityID: "u1"}))
	assert.Less(t, time.Since(start), 2*time.Second)
}
