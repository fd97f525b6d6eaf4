package model

type Exam struct {
	ID            int64   `db:"id" json:"id"`
	VisitID       int64   `db:"visit_id" json:"visit_id"`
	DoctorComment *string `db:"doctor_comment" json:"doctor_comment,omitempty"`
}
