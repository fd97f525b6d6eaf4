package model

import "time"

// AppointmentStatusBooked is the status every new appointment starts in.
// Status is otherwise a free-form alphabetic string; "cancelled" and
// "completed" carry meaning in the visit/exam lifecycle.
const (
	AppointmentStatusBooked    = "booked"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"
)

type Appointment struct {
	ID        int64     `db:"id" json:"id"`
	PatientID int64     `db:"patient_id" json:"patient_id"`
	DoctorID  int64     `db:"doctor_id" json:"doctor_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Status    string    `db:"status" json:"status"`
	VisitID   *int64    `db:"visit_id" json:"visit_id,omitempty"`
}

// Consumed reports whether a visit has already been derived from the
// appointment. A consumed appointment can never back a second visit.
func (a *Appointment) Consumed() bool {
	return a.VisitID != nil
}
