package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/internal/repository"
)

const visitColumns = `id, patient_id, doctor_id, start_time, end_time, appointment_id`

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visits (patient_id, doctor_id, start_time, end_time, appointment_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		visit.PatientID,
		visit.DoctorID,
		visit.StartTime,
		visit.EndTime,
		visit.AppointmentID,
	).Scan(&visit.ID)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

// CreateFromAppointment inserts the visit and sets the appointment's
// visit_id in one transaction. The visit_id IS NULL guard means exactly one
// of any number of concurrent derivations can claim the appointment; the
// rest roll back with ErrAppointmentConsumed.
func (r *visitRepository) CreateFromAppointment(ctx context.Context, visit *model.Visit, appointmentID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO visits (patient_id, doctor_id, start_time, end_time, appointment_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err = tx.QueryRowxContext(ctx, insert,
		visit.PatientID,
		visit.DoctorID,
		visit.StartTime,
		visit.EndTime,
		appointmentID,
	).Scan(&visit.ID)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}

	claim := `UPDATE appointments SET visit_id = $1 WHERE id = $2 AND visit_id IS NULL`
	result, err := tx.ExecContext(ctx, claim, visit.ID, appointmentID)
	if err != nil {
		return fmt.Errorf("failed to link appointment to visit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrAppointmentConsumed
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit visit creation: %w", err)
	}
	appointmentIDCopy := appointmentID
	visit.AppointmentID = &appointmentIDCopy
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id int64) (*model.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE id = $1`

	var visit model.Visit
	err := r.db.GetContext(ctx, &visit, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) List(ctx context.Context) ([]*model.Visit, error) {
	return r.list(ctx, `SELECT `+visitColumns+` FROM visits ORDER BY id`)
}

func (r *visitRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Visit, error) {
	return r.list(ctx, `SELECT `+visitColumns+` FROM visits WHERE doctor_id = $1 ORDER BY id`, doctorID)
}

func (r *visitRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Visit, error) {
	return r.list(ctx, `SELECT `+visitColumns+` FROM visits WHERE patient_id = $1 ORDER BY id`, patientID)
}

func (r *visitRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Visit, error) {
	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}
