package scheduling

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/internal/repository"
	"github.com/abdularham/clinic-api/pkg/auth"
	"github.com/abdularham/clinic-api/pkg/errors"
)

const (
	fieldsInvalidMessage = "One of the fields is not correct"
	notVisitOwnerMessage = "Unauthorized for making this visit"
)

// timeLayouts are the accepted clock string formats, tried in order.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05"}

// Actor is the authenticated doctor or patient performing a scheduling
// operation. Role decides which side of an appointment the actor owns.
type Actor struct {
	Role auth.Role
	ID   int64
}

// Service implements the appointment, visit and exam lifecycle. Every
// operation re-validates actor liveness against the identity store, so a
// soft-deleted account is locked out mid-token.
type Service struct {
	appointments repository.AppointmentRepository
	visits       repository.VisitRepository
	exams        repository.ExamRepository
	doctors      repository.PrincipalRepository
	patients     repository.PrincipalRepository
	logger       zerolog.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	visits repository.VisitRepository,
	exams repository.ExamRepository,
	doctors repository.PrincipalRepository,
	patients repository.PrincipalRepository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		visits:       visits,
		exams:        exams,
		doctors:      doctors,
		patients:     patients,
		logger:       logger.With().Str("component", "scheduling").Logger(),
	}
}

func (s *Service) store(role auth.Role) (repository.PrincipalRepository, error) {
	switch role {
	case auth.RoleDoctor:
		return s.doctors, nil
	case auth.RolePatient:
		return s.patients, nil
	default:
		return nil, fmt.Errorf("role %q cannot act on schedules", role)
	}
}

// requireActor re-checks the actor's row before any scheduling write or
// read. Missing or soft-deleted rows fail authorization even though the
// token itself verified.
func (s *Service) requireActor(ctx context.Context, actor Actor) error {
	store, err := s.store(actor.Role)
	if err != nil {
		return errors.Store(err)
	}

	p, err := store.Get(ctx, actor.ID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.AuthorizationFailed()
	}
	if err != nil {
		return errors.Store(err)
	}
	if p.Deleted {
		return errors.AuthorizationFailed()
	}
	return nil
}

// requireLivePrincipal checks the actor's counterparty exists and is live.
func (s *Service) requireLivePrincipal(ctx context.Context, role auth.Role, id int64) error {
	store, err := s.store(role)
	if err != nil {
		return errors.Store(err)
	}

	p, err := store.Get(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) || (err == nil && p.Deleted) {
		return errors.NotFound(fmt.Sprintf("No %s exists with the given id", role))
	}
	if err != nil {
		return errors.Store(err)
	}
	return nil
}

func parseClock(field, raw string) (time.Time, *errors.FieldError) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &errors.FieldError{
		Field:   field,
		Rule:    "datetime",
		Message: "must be a valid timestamp",
	}
}

// parseWindow validates a start/end pair: both must parse and the window
// must be strictly positive.
func parseWindow(startRaw, endRaw string) (time.Time, time.Time, []errors.FieldError) {
	var fields []errors.FieldError

	start, ferr := parseClock("start_time", startRaw)
	if ferr != nil {
		fields = append(fields, *ferr)
	}
	end, ferr := parseClock("end_time", endRaw)
	if ferr != nil {
		fields = append(fields, *ferr)
	}
	if len(fields) == 0 && !start.Before(end) {
		fields = append(fields, errors.FieldError{
			Field:   "end_time",
			Rule:    "gtfield",
			Message: "must be after start_time",
		})
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, fields
	}
	return start, end, nil
}

// CreateAppointment books a new appointment between the actor and the
// counterparty identified by counterpartyID. A doctor books against a
// patient id and vice versa. New appointments always start as "booked".
func (s *Service) CreateAppointment(ctx context.Context, actor Actor, counterpartyID int64, startRaw, endRaw string) (*model.Appointment, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}

	start, end, fields := parseWindow(startRaw, endRaw)
	if fields != nil {
		return nil, errors.Validation(fieldsInvalidMessage, fields)
	}

	appointment := &model.Appointment{
		StartTime: start,
		EndTime:   end,
		Status:    model.AppointmentStatusBooked,
	}
	switch actor.Role {
	case auth.RoleDoctor:
		appointment.DoctorID = actor.ID
		appointment.PatientID = counterpartyID
		if err := s.requireLivePrincipal(ctx, auth.RolePatient, counterpartyID); err != nil {
			return nil, err
		}
	case auth.RolePatient:
		appointment.PatientID = actor.ID
		appointment.DoctorID = counterpartyID
		if err := s.requireLivePrincipal(ctx, auth.RoleDoctor, counterpartyID); err != nil {
			return nil, err
		}
	default:
		return nil, errors.AuthorizationFailed()
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, errors.Store(err)
	}
	return appointment, nil
}

// owns reports whether the actor is the doctor or patient side of the
// appointment, according to their role.
func owns(actor Actor, patientID, doctorID int64) bool {
	switch actor.Role {
	case auth.RoleDoctor:
		return doctorID == actor.ID
	case auth.RolePatient:
		return patientID == actor.ID
	default:
		return false
	}
}

// UpdateStatus sets an appointment's status. Setting the status it already
// has is rejected, so "cancel" twice fails the second time.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, appointmentID int64, status string) (*model.Appointment, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}

	appointment, err := s.appointments.Get(ctx, appointmentID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFound("No appointment exists with the given id")
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	if !owns(actor, appointment.PatientID, appointment.DoctorID) {
		return nil, errors.NotOwner(notVisitOwnerMessage)
	}
	if appointment.Status == status {
		return nil, errors.Conflict(fmt.Sprintf("Appointment Status was already set to %s", status))
	}

	if err := s.appointments.UpdateStatus(ctx, appointmentID, status); err != nil {
		return nil, errors.Store(err)
	}
	appointment.Status = status
	return appointment, nil
}

// CreateVisit realizes a visit in one of two modes. With appointment_id set
// the visit is derived: window and pairing come from the appointment, the
// appointment must be owned by the actor, not cancelled or completed, and
// not already consumed. Without appointment_id the visit is standalone:
// the counterparty id and both times are required, and the actor's own
// side is taken from the token.
func (s *Service) CreateVisit(ctx context.Context, actor Actor, req *model.CreateVisitRequest) (*model.Visit, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	if req.AppointmentID != nil {
		return s.deriveVisit(ctx, actor, *req.AppointmentID)
	}
	return s.standaloneVisit(ctx, actor, req)
}

func (s *Service) deriveVisit(ctx context.Context, actor Actor, appointmentID int64) (*model.Visit, error) {
	appointment, err := s.appointments.Get(ctx, appointmentID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFound("No appointment exists with the given id")
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	if appointment.Consumed() {
		return nil, errors.AlreadyConsumed("A visit has already been created for this appointment")
	}
	if !owns(actor, appointment.PatientID, appointment.DoctorID) {
		return nil, errors.NotOwner(notVisitOwnerMessage)
	}
	if appointment.Status == model.AppointmentStatusCancelled || appointment.Status == model.AppointmentStatusCompleted {
		return nil, errors.Conflict(fmt.Sprintf("Cannot create a visit for a %s appointment", appointment.Status))
	}

	counterpartyRole, counterpartyID := auth.RolePatient, appointment.PatientID
	if actor.Role == auth.RolePatient {
		counterpartyRole, counterpartyID = auth.RoleDoctor, appointment.DoctorID
	}
	if err := s.requireLivePrincipal(ctx, counterpartyRole, counterpartyID); err != nil {
		return nil, err
	}

	visit := &model.Visit{
		PatientID: appointment.PatientID,
		DoctorID:  appointment.DoctorID,
		StartTime: appointment.StartTime,
		EndTime:   appointment.EndTime,
	}
	err = s.visits.CreateFromAppointment(ctx, visit, appointmentID)
	if stderrors.Is(err, repository.ErrAppointmentConsumed) {
		// Lost the claim race after the pre-check passed.
		return nil, errors.AlreadyConsumed("A visit has already been created for this appointment")
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return visit, nil
}

// standaloneVisit creates a visit with an explicit window. The actor's own
// side of the pairing comes from the token; the caller supplies only the
// counterparty id plus the times.
func (s *Service) standaloneVisit(ctx context.Context, actor Actor, req *model.CreateVisitRequest) (*model.Visit, error) {
	counterpartyField, counterpartyRole, counterparty := "patient_id", auth.RolePatient, req.PatientID
	if actor.Role == auth.RolePatient {
		counterpartyField, counterpartyRole, counterparty = "doctor_id", auth.RoleDoctor, req.DoctorID
	}

	var fields []errors.FieldError
	if counterparty == nil {
		fields = append(fields, errors.FieldError{Field: counterpartyField, Rule: "required", Message: "is required without appointment_id"})
	}
	if req.StartTime == "" {
		fields = append(fields, errors.FieldError{Field: "start_time", Rule: "required", Message: "is required without appointment_id"})
	}
	if req.EndTime == "" {
		fields = append(fields, errors.FieldError{Field: "end_time", Rule: "required", Message: "is required without appointment_id"})
	}
	if fields != nil {
		return nil, errors.Validation(fieldsInvalidMessage, fields)
	}

	start, end, fields := parseWindow(req.StartTime, req.EndTime)
	if fields != nil {
		return nil, errors.Validation(fieldsInvalidMessage, fields)
	}

	if err := s.requireLivePrincipal(ctx, counterpartyRole, *counterparty); err != nil {
		return nil, err
	}

	visit := &model.Visit{
		StartTime: start,
		EndTime:   end,
	}
	if actor.Role == auth.RoleDoctor {
		visit.DoctorID = actor.ID
		visit.PatientID = *counterparty
	} else {
		visit.PatientID = actor.ID
		visit.DoctorID = *counterparty
	}
	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, errors.Store(err)
	}
	return visit, nil
}

// CreateExam records an exam against a visit the doctor owns. When the
// visit was derived from an appointment that has since been cancelled, the
// exam is refused.
func (s *Service) CreateExam(ctx context.Context, actor Actor, req *model.CreateExamRequest) (*model.Exam, error) {
	if actor.Role != auth.RoleDoctor {
		return nil, errors.AuthorizationFailed()
	}
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}

	visit, err := s.visits.Get(ctx, req.VisitID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFound("No visit exists with the given id")
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	if visit.DoctorID != actor.ID {
		return nil, errors.NotOwner("Unauthorized for creating this exam")
	}

	// A standalone visit has no linked appointment; the lookup misses and
	// the exam proceeds.
	appointment, err := s.appointments.GetByVisit(ctx, visit.ID)
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.Store(err)
	}
	if err == nil && appointment.Status == model.AppointmentStatusCancelled {
		return nil, errors.ExamBlocked("Cannot create an exam for a cancelled appointment")
	}

	exam := &model.Exam{VisitID: req.VisitID, DoctorComment: req.DoctorComment}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, errors.Store(err)
	}
	return exam, nil
}

// AppointmentsFor lists the actor's own appointments.
func (s *Service) AppointmentsFor(ctx context.Context, actor Actor) ([]*model.Appointment, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	var (
		rows []*model.Appointment
		err  error
	)
	if actor.Role == auth.RoleDoctor {
		rows, err = s.appointments.ListByDoctor(ctx, actor.ID)
	} else {
		rows, err = s.appointments.ListByPatient(ctx, actor.ID)
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return rows, nil
}

func (s *Service) VisitsFor(ctx context.Context, actor Actor) ([]*model.Visit, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	var (
		rows []*model.Visit
		err  error
	)
	if actor.Role == auth.RoleDoctor {
		rows, err = s.visits.ListByDoctor(ctx, actor.ID)
	} else {
		rows, err = s.visits.ListByPatient(ctx, actor.ID)
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return rows, nil
}

func (s *Service) ExamsFor(ctx context.Context, actor Actor) ([]*model.Exam, error) {
	if err := s.requireActor(ctx, actor); err != nil {
		return nil, err
	}
	var (
		rows []*model.Exam
		err  error
	)
	if actor.Role == auth.RoleDoctor {
		rows, err = s.exams.ListByDoctor(ctx, actor.ID)
	} else {
		rows, err = s.exams.ListByPatient(ctx, actor.ID)
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return rows, nil
}

// Admin-wide listings. Liveness of the admin is checked by the caller
// against the identity store.

func (s *Service) AllAppointments(ctx context.Context) ([]*model.Appointment, error) {
	rows, err := s.appointments.List(ctx)
	if err != nil {
		return nil, errors.Store(err)
	}
	return rows, nil
}

func (s *Service) AllVisits(ctx context.Context) ([]*model.Visit, error) {
	rows, err := s.visits.List(ctx)
	if err != nil {
		return nil, errors.Store(err)
	}
	return rows, nil
}

func (s *Service) AllExams(ctx context.Context) ([]*model.Exam, error) {
	rows, err := s.exams.List(ctx)
	if err != nil {
		return nil, errors.Store(err)
	}
	return rows, nil
}
