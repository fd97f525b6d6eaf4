package model

import (
	"time"

	"github.com/abdularham/clinic-api/pkg/errors"
)

// AuditRecord is one append-only entry in the audit log. Records are never
// updated or deleted by this system.
type AuditRecord struct {
	Message     string              `json:"message"`
	Result      string              `json:"result"`
	Timestamp   time.Time           `json:"timestamp"`
	RequestType string              `json:"request_type"`
	Success     bool                `json:"success"`
	Errors      []errors.FieldError `json:"errors,omitempty"`
	ServerError string              `json:"server_error,omitempty"`
}
