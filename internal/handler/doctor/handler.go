package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/abdularham/clinic-api/internal/handler"
	"github.com/abdularham/clinic-api/internal/middleware"
	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/internal/service/audit"
	"github.com/abdularham/clinic-api/internal/service/identity"
	"github.com/abdularham/clinic-api/internal/service/scheduling"
	"github.com/abdularham/clinic-api/pkg/auth"
)

// Handler serves the doctor surface.
type Handler struct {
	identity   *identity.Service
	scheduling *scheduling.Service
	audit      *audit.Service
}

func NewHandler(identitySvc *identity.Service, schedulingSvc *scheduling.Service, auditSvc *audit.Service) *Handler {
	return &Handler{
		identity:   identitySvc,
		scheduling: schedulingSvc,
		audit:      auditSvc,
	}
}

func (h *Handler) fail(c *gin.Context, scope *handler.AuditScope, err error) {
	scope.FailErr(err)
	handler.Failure(c, err)
}

func (h *Handler) actor(c *gin.Context) scheduling.Actor {
	return scheduling.Actor{Role: auth.RoleDoctor, ID: middleware.PrincipalID(c)}
}

func (h *Handler) Login(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Doctor Login")
	defer scope.Flush()

	var req model.LoginRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	token, err := h.identity.LoginPrincipal(c.Request.Context(), auth.RoleDoctor, &req)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("doctor logged in")
	handler.Success(c, gin.H{"doctorToken": token})
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Doctor Create Appointment")
	defer scope.Flush()

	var req model.DoctorCreateAppointmentRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	appointment, err := h.scheduling.CreateAppointment(c.Request.Context(), h.actor(c), req.PatientID, req.StartTime, req.EndTime)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("appointment booked")
	handler.Success(c, gin.H{
		"message":     "Appointment created successfully",
		"appointment": appointment,
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Doctor Update Appointment Status")
	defer scope.Flush()

	var req model.UpdateStatusRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	appointment, err := h.scheduling.UpdateStatus(c.Request.Context(), h.actor(c), req.AppointmentID, req.Status)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("appointment status updated")
	handler.Success(c, gin.H{
		"message":     "Appointment status updated successfully",
		"appointment": appointment,
	})
}

func (h *Handler) CreateVisit(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Doctor Create Visit")
	defer scope.Flush()

	var req model.CreateVisitRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	visit, err := h.scheduling.CreateVisit(c.Request.Context(), h.actor(c), &req)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("visit created")
	handler.Success(c, gin.H{
		"message": "Visit created successfully",
		"visit":   visit,
	})
}

func (h *Handler) CreateExam(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Doctor Create Exam")
	defer scope.Flush()

	var req model.CreateExamRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	exam, err := h.scheduling.CreateExam(c.Request.Context(), h.actor(c), &req)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("exam created")
	handler.Success(c, gin.H{
		"message": "Exam created successfully",
		"exam":    exam,
	})
}

func (h *Handler) AllAppointments(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Doctor Get Appointments")
	defer scope.Flush()

	rows, err := h.scheduling.AppointmentsFor(c.Request.Context(), h.actor(c))
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("appointments listed")
	handler.Success(c, gin.H{"all_appointments": rows})
}

func (h *Handler) AllVisits(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Doctor Get Visits")
	defer scope.Flush()

	rows, err := h.scheduling.VisitsFor(c.Request.Context(), h.actor(c))
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("visits listed")
	handler.Success(c, gin.H{"all_visits": rows})
}

func (h *Handler) AllExams(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Doctor Get Exams")
	defer scope.Flush()

	rows, err := h.scheduling.ExamsFor(c.Request.Context(), h.actor(c))
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("exams listed")
	handler.Success(c, gin.H{"all_exams": rows})
}

// Delete soft-deletes the doctor's own account. The token stays
// syntactically valid, but every guarded operation rejects it afterwards.
func (h *Handler) Delete(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Doctor Self Delete")
	defer scope.Flush()

	doctorID := middleware.PrincipalID(c)
	if _, err := h.identity.RequirePrincipal(c.Request.Context(), auth.RoleDoctor, doctorID); err != nil {
		h.fail(c, scope, err)
		return
	}

	if err := h.identity.SoftDelete(c.Request.Context(), auth.RoleDoctor, doctorID); err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("doctor account deleted")
	handler.Success(c, gin.H{"message": "Doctor account deleted successfully"})
}
