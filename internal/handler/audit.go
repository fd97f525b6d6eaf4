package handler

import (
	stderrors "errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/pkg/errors"
)

// Emitter is the slice of the audit service handlers need.
type Emitter interface {
	Emit(record model.AuditRecord)
}

// AuditScope accumulates the outcome of one request and emits exactly one
// audit record when flushed. Handlers open a scope at the top, defer
// Flush, and set the outcome on every return path.
type AuditScope struct {
	emitter Emitter
	record  model.AuditRecord
	settled bool
}

func OpenAudit(emitter Emitter, c *gin.Context, message string) *AuditScope {
	return &AuditScope{
		emitter: emitter,
		record: model.AuditRecord{
			Message:     message,
			Timestamp:   time.Now(),
			RequestType: c.Request.Method,
		},
	}
}

func (s *AuditScope) Succeed(result string) {
	s.record.Result = result
	s.record.Success = true
	s.settled = true
}

// FailErr classifies err into the record: validation failures carry their
// field list, unclassified errors are recorded as server errors.
func (s *AuditScope) FailErr(err error) {
	s.record.Success = false
	s.settled = true

	var e *errors.Error
	if !stderrors.As(err, &e) {
		e = errors.Store(err)
	}
	s.record.Result = e.Message
	s.record.Errors = e.Fields
	if e.Code == errors.CodeStore && e.Err != nil {
		s.record.ServerError = e.Err.Error()
	}
}

// Flush emits the single record for this scope. A scope that was never
// settled records an unhandled failure so no request escapes the trail.
func (s *AuditScope) Flush() {
	if !s.settled {
		s.record.Result = "request terminated without outcome"
		s.record.Success = false
	}
	s.emitter.Emit(s.record)
}
