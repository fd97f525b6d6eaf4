package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/abdularham/clinic-api/internal/repository"
)

type adminRepository struct {
	db *sqlx.DB
}

// principalRepository serves both the doctors and patients tables; the
// two share a schema and differ only by table name.
type principalRepository struct {
	db    *sqlx.DB
	table string
}

type appointmentRepository struct {
	db *sqlx.DB
}

type visitRepository struct {
	db *sqlx.DB
}

type examRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

func NewDoctorRepository(db *sqlx.DB) repository.PrincipalRepository {
	return &principalRepository{db: db, table: "doctors"}
}

func NewPatientRepository(db *sqlx.DB) repository.PrincipalRepository {
	return &principalRepository{db: db, table: "patients"}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

func NewExamRepository(db *sqlx.DB) repository.ExamRepository {
	return &examRepository{db: db}
}
