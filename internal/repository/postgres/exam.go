package postgres

import (
	"context"
	"fmt"

	"github.com/abdularham/clinic-api/internal/model"
)

func (r *examRepository) Create(ctx context.Context, exam *model.Exam) error {
	query := `
		INSERT INTO exams (visit_id, doctor_comment)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query, exam.VisitID, exam.DoctorComment).Scan(&exam.ID)
	if err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	return nil
}

func (r *examRepository) List(ctx context.Context) ([]*model.Exam, error) {
	return r.list(ctx, `SELECT id, visit_id, doctor_comment FROM exams ORDER BY id`)
}

// Per-role exam listings go through the owning visit, since exams only
// reference a visit id.
func (r *examRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Exam, error) {
	query := `
		SELECT exams.id, exams.visit_id, exams.doctor_comment
		FROM exams
		INNER JOIN visits ON exams.visit_id = visits.id
		WHERE visits.doctor_id = $1
		ORDER BY exams.id
	`
	return r.list(ctx, query, doctorID)
}

func (r *examRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Exam, error) {
	query := `
		SELECT exams.id, exams.visit_id, exams.doctor_comment
		FROM exams
		INNER JOIN visits ON exams.visit_id = visits.id
		WHERE visits.patient_id = $1
		ORDER BY exams.id
	`
	return r.list(ctx, query, patientID)
}

func (r *examRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Exam, error) {
	var exams []*model.Exam
	if err := r.db.SelectContext(ctx, &exams, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	return exams, nil
}
