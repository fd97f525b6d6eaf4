package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/pkg/errors"
)

// Sink is the durable backend the audit trail is appended to.
type Sink interface {
	Append(ctx context.Context, payload []byte) error
	Query(ctx context.Context) ([][]byte, error)
}

// Service records one audit entry per handled request. Emission is
// fire-and-forget: records go through a buffered channel to a single
// writer goroutine, and a full buffer or failing sink never blocks or
// fails the request that produced the record.
type Service struct {
	sink    Sink
	records chan model.AuditRecord
	logger  zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

const defaultBuffer = 256

func NewService(sink Sink, buffer int, logger zerolog.Logger) *Service {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	s := &Service{
		sink:    sink,
		records: make(chan model.AuditRecord, buffer),
		logger:  logger.With().Str("component", "audit").Logger(),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Service) run() {
	defer s.wg.Done()
	for record := range s.records {
		payload, err := json.Marshal(record)
		if err != nil {
			s.logger.Warn().Err(err).Msg("dropping unmarshalable audit record")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = s.sink.Append(ctx, payload)
		cancel()
		if err != nil {
			s.logger.Warn().Err(err).Str("message", record.Message).Msg("failed to append audit record")
		}
	}
}

// Emit queues a record without blocking. When the buffer is full the
// record is dropped with a warning; audit pressure must not back up into
// request handling.
func (s *Service) Emit(record model.AuditRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.records <- record:
	default:
		s.logger.Warn().Str("message", record.Message).Msg("audit buffer full, dropping record")
	}
}

// Logs returns the audit trail newest-first. Entries that fail to decode
// are skipped rather than failing the whole read.
func (s *Service) Logs(ctx context.Context) ([]model.AuditRecord, error) {
	payloads, err := s.sink.Query(ctx)
	if err != nil {
		return nil, errors.Store(err)
	}

	records := make([]model.AuditRecord, 0, len(payloads))
	for _, payload := range payloads {
		var record model.AuditRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			s.logger.Warn().Err(err).Msg("skipping undecodable audit record")
			continue
		}
		records = append(records, record)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Close drains pending records and stops the writer goroutine.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.records)
	s.mu.Unlock()
	s.wg.Wait()
}
