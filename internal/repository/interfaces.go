package repository

import (
	"context"
	"errors"

	"github.com/abdularham/clinic-api/internal/model"
)

// Sentinel errors the postgres layer maps low-level failures onto, so
// services can branch without inspecting driver errors.
var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail means an insert lost to an existing email row.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrAppointmentConsumed means the appointment's visit_id was already
	// set when a derivation transaction tried to claim it.
	ErrAppointmentConsumed = errors.New("appointment already associated with a visit")
)

// All repository interfaces in one file
type (
	// AdminRepository handles the permanent admin accounts.
	AdminRepository interface {
		Create(ctx context.Context, admin *model.Admin) error
		Get(ctx context.Context, id int64) (*model.Admin, error)
		GetByEmail(ctx context.Context, email string) (*model.Admin, error)
		List(ctx context.Context) ([]*model.Admin, error)
	}

	// PrincipalRepository handles soft-deletable doctor/patient rows.
	// One implementation is instantiated per table.
	PrincipalRepository interface {
		Create(ctx context.Context, p *model.Principal) error
		Get(ctx context.Context, id int64) (*model.Principal, error)
		GetByEmail(ctx context.Context, email string) (*model.Principal, error)
		List(ctx context.Context) ([]*model.Principal, error)
		MarkDeleted(ctx context.Context, id int64) error
		Reactivate(ctx context.Context, id int64) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		GetByVisit(ctx context.Context, visitID int64) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, id int64, status string) error
		List(ctx context.Context) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error)
	}

	VisitRepository interface {
		Create(ctx context.Context, visit *model.Visit) error
		// CreateFromAppointment inserts the visit and claims the source
		// appointment's visit_id in one transaction. Returns
		// ErrAppointmentConsumed if another derivation won the race.
		CreateFromAppointment(ctx context.Context, visit *model.Visit, appointmentID int64) error
		Get(ctx context.Context, id int64) (*model.Visit, error)
		List(ctx context.Context) ([]*model.Visit, error)
		ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Visit, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.Visit, error)
	}

	ExamRepository interface {
		Create(ctx context.Context, exam *model.Exam) error
		List(ctx context.Context) ([]*model.Exam, error)
		ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Exam, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.Exam, error)
	}
)
