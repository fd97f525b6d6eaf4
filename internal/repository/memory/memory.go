// Package memory holds in-memory repository implementations backing the
// service and handler tests. Semantics mirror the postgres layer,
// including the visit_id claim race on appointment-derived visits.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/internal/repository"
)

type AdminRepository struct {
	mu     sync.Mutex
	rows   map[int64]*model.Admin
	nextID int64
}

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{rows: make(map[int64]*model.Admin)}
}

func (r *AdminRepository) Create(_ context.Context, admin *model.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == admin.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.nextID++
	admin.ID = r.nextID
	clone := *admin
	r.rows[admin.ID] = &clone
	return nil
}

func (r *AdminRepository) Get(_ context.Context, id int64) (*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *AdminRepository) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			clone := *row
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AdminRepository) List(_ context.Context) ([]*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Admin, 0, len(r.rows))
	for _, row := range r.rows {
		clone := *row
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type PrincipalRepository struct {
	mu     sync.Mutex
	rows   map[int64]*model.Principal
	nextID int64
}

func NewPrincipalRepository() *PrincipalRepository {
	return &PrincipalRepository{rows: make(map[int64]*model.Principal)}
}

func (r *PrincipalRepository) Create(_ context.Context, p *model.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == p.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.nextID++
	p.ID = r.nextID
	clone := *p
	r.rows[p.ID] = &clone
	return nil
}

func (r *PrincipalRepository) Get(_ context.Context, id int64) (*model.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *PrincipalRepository) GetByEmail(_ context.Context, email string) (*model.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			clone := *row
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *PrincipalRepository) List(_ context.Context) ([]*model.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Principal, 0, len(r.rows))
	for _, row := range r.rows {
		clone := *row
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PrincipalRepository) MarkDeleted(_ context.Context, id int64) error {
	return r.setDeleted(id, true)
}

func (r *PrincipalRepository) Reactivate(_ context.Context, id int64) error {
	return r.setDeleted(id, false)
}

func (r *PrincipalRepository) setDeleted(id int64, deleted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.Deleted = deleted
	return nil
}

type AppointmentRepository struct {
	mu     sync.Mutex
	rows   map[int64]*model.Appointment
	nextID int64
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{rows: make(map[int64]*model.Appointment)}
}

func (r *AppointmentRepository) Create(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	clone := *a
	r.rows[a.ID] = &clone
	return nil
}

func (r *AppointmentRepository) Get(_ context.Context, id int64) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *AppointmentRepository) GetByVisit(_ context.Context, visitID int64) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.VisitID != nil && *row.VisitID == visitID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AppointmentRepository) UpdateStatus(_ context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.Status = status
	return nil
}

func (r *AppointmentRepository) List(_ context.Context) ([]*model.Appointment, error) {
	return r.filter(func(*model.Appointment) bool { return true })
}

func (r *AppointmentRepository) ListByDoctor(_ context.Context, doctorID int64) ([]*model.Appointment, error) {
	return r.filter(func(a *model.Appointment) bool { return a.DoctorID == doctorID })
}

func (r *AppointmentRepository) ListByPatient(_ context.Context, patientID int64) ([]*model.Appointment, error) {
	return r.filter(func(a *model.Appointment) bool { return a.PatientID == patientID })
}

func (r *AppointmentRepository) filter(keep func(*model.Appointment) bool) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, row := range r.rows {
		if keep(row) {
			clone := *row
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// claim links an appointment to a visit; false when already claimed.
func (r *AppointmentRepository) claim(appointmentID, visitID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[appointmentID]
	if !ok || row.VisitID != nil {
		return false
	}
	row.VisitID = &visitID
	return true
}

type VisitRepository struct {
	mu           sync.Mutex
	rows         map[int64]*model.Visit
	nextID       int64
	appointments *AppointmentRepository
}

func NewVisitRepository(appointments *AppointmentRepository) *VisitRepository {
	return &VisitRepository{rows: make(map[int64]*model.Visit), appointments: appointments}
}

func (r *VisitRepository) Create(_ context.Context, v *model.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	v.ID = r.nextID
	clone := *v
	r.rows[v.ID] = &clone
	return nil
}

func (r *VisitRepository) CreateFromAppointment(ctx context.Context, v *model.Visit, appointmentID int64) error {
	if err := r.Create(ctx, v); err != nil {
		return err
	}
	if !r.appointments.claim(appointmentID, v.ID) {
		r.mu.Lock()
		delete(r.rows, v.ID)
		r.mu.Unlock()
		return repository.ErrAppointmentConsumed
	}
	r.mu.Lock()
	id := appointmentID
	r.rows[v.ID].AppointmentID = &id
	v.AppointmentID = &id
	r.mu.Unlock()
	return nil
}

func (r *VisitRepository) Get(_ context.Context, id int64) (*model.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *VisitRepository) List(_ context.Context) ([]*model.Visit, error) {
	return r.filter(func(*model.Visit) bool { return true })
}

func (r *VisitRepository) ListByDoctor(_ context.Context, doctorID int64) ([]*model.Visit, error) {
	return r.filter(func(v *model.Visit) bool { return v.DoctorID == doctorID })
}

func (r *VisitRepository) ListByPatient(_ context.Context, patientID int64) ([]*model.Visit, error) {
	return r.filter(func(v *model.Visit) bool { return v.PatientID == patientID })
}

func (r *VisitRepository) filter(keep func(*model.Visit) bool) ([]*model.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Visit
	for _, row := range r.rows {
		if keep(row) {
			clone := *row
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type ExamRepository struct {
	mu     sync.Mutex
	rows   map[int64]*model.Exam
	nextID int64
	visits *VisitRepository
}

func NewExamRepository(visits *VisitRepository) *ExamRepository {
	return &ExamRepository{rows: make(map[int64]*model.Exam), visits: visits}
}

func (r *ExamRepository) Create(_ context.Context, e *model.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	clone := *e
	r.rows[e.ID] = &clone
	return nil
}

func (r *ExamRepository) List(_ context.Context) ([]*model.Exam, error) {
	return r.filter(func(*model.Exam) bool { return true })
}

func (r *ExamRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Exam, error) {
	return r.filter(func(e *model.Exam) bool {
		v, err := r.visits.Get(ctx, e.VisitID)
		return err == nil && v.DoctorID == doctorID
	})
}

func (r *ExamRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Exam, error) {
	return r.filter(func(e *model.Exam) bool {
		v, err := r.visits.Get(ctx, e.VisitID)
		return err == nil && v.PatientID == patientID
	})
}

func (r *ExamRepository) filter(keep func(*model.Exam) bool) ([]*model.Exam, error) {
	r.mu.Lock()
	rows := make([]*model.Exam, 0, len(r.rows))
	for _, row := range r.rows {
		clone := *row
		rows = append(rows, &clone)
	}
	r.mu.Unlock()

	var out []*model.Exam
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
