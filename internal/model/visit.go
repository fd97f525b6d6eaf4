package model

import "time"

// Visit is a realized encounter. It is either derived from an appointment
// (AppointmentID set, window and pairing inherited) or created standalone
// with explicit fields. Visit and Appointment point at each other; both
// rows are owned by the scheduling store.
type Visit struct {
	ID            int64     `db:"id" json:"id"`
	PatientID     int64     `db:"patient_id" json:"patient_id"`
	DoctorID      int64     `db:"doctor_id" json:"doctor_id"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	EndTime       time.Time `db:"end_time" json:"end_time"`
	AppointmentID *int64    `db:"appointment_id" json:"appointment_id,omitempty"`
}
