package model

// Request bodies, one declarative schema per endpoint. Binding tags are
// evaluated before any store access; failures become a structured field
// error list on the audit record.

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=16"`
}

type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=16"`
}

type DeleteAccountRequest struct {
	ID int64 `json:"id" binding:"required"`
}

type GetByIDRequest struct {
	ID int64 `json:"id" binding:"required"`
}

type GetByEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Timestamps travel as strings of at least 19 characters
// ("2006-01-02 15:04:05" or RFC 3339); parsing happens in the scheduling
// engine after binding.

type DoctorCreateAppointmentRequest struct {
	PatientID int64  `json:"patient_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required,min=19"`
	EndTime   string `json:"end_time" binding:"required,min=19"`
}

type PatientCreateAppointmentRequest struct {
	DoctorID  int64  `json:"doctor_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required,min=19"`
	EndTime   string `json:"end_time" binding:"required,min=19"`
}

// CreateVisitRequest has two mutually exclusive modes, so nothing besides
// shape is enforced at binding time. The scheduling engine reports
// field-specific errors for the standalone mode before touching the store.
type CreateVisitRequest struct {
	AppointmentID *int64 `json:"appointment_id"`
	PatientID     *int64 `json:"patient_id"`
	DoctorID      *int64 `json:"doctor_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

type UpdateStatusRequest struct {
	AppointmentID int64  `json:"appointment_id" binding:"required"`
	Status        string `json:"status" binding:"required,alpha"`
}

type CreateExamRequest struct {
	VisitID       int64   `json:"visit_id" binding:"required"`
	DoctorComment *string `json:"doctor_comment"`
}
