package audit

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdularham/clinic-api/internal/model"
)

type memorySink struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     bool
}

func (s *memorySink) Append(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return stderrors.New("sink unavailable")
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *memorySink) Query(_ context.Context) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, stderrors.New("sink unavailable")
	}
	out := make([][]byte, len(s.payloads))
	copy(out, s.payloads)
	return out, nil
}

func TestEmitAppendsToSink(t *testing.T) {
	sink := &memorySink{}
	svc := NewService(sink, 8, zerolog.Nop())

	svc.Emit(model.AuditRecord{Message: "Doctor Login", Success: true, Timestamp: time.Now()})
	svc.Close()

	records, err := svc.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Doctor Login", records[0].Message)
	assert.True(t, records[0].Success)
}

func TestLogsNewestFirst(t *testing.T) {
	sink := &memorySink{}
	svc := NewService(sink, 8, zerolog.Nop())

	svc.Emit(model.AuditRecord{Message: "first"})
	svc.Emit(model.AuditRecord{Message: "second"})
	svc.Emit(model.AuditRecord{Message: "third"})
	svc.Close()

	records, err := svc.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "third", records[0].Message)
	assert.Equal(t, "first", records[2].Message)
}

func TestFailingSinkDoesNotBlockEmit(t *testing.T) {
	sink := &memorySink{fail: true}
	svc := NewService(sink, 2, zerolog.Nop())
	defer svc.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			svc.Emit(model.AuditRecord{Message: "burst"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a failing sink")
	}
}

func TestLogsSkipsUndecodableEntries(t *testing.T) {
	sink := &memorySink{}
	good, err := json.Marshal(model.AuditRecord{Message: "good"})
	require.NoError(t, err)
	sink.payloads = [][]byte{[]byte("{broken"), good}

	svc := NewService(sink, 8, zerolog.Nop())
	defer svc.Close()

	records, err := svc.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Message)
}

func TestEmitAfterCloseIsNoop(t *testing.T) {
	sink := &memorySink{}
	svc := NewService(sink, 8, zerolog.Nop())
	svc.Close()

	assert.NotPanics(t, func() {
		svc.Emit(model.AuditRecord{Message: "late"})
	})
}
