package patient

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

// Handler serves the patient surface. Patients can book and realize
// encounters like doctors can, but cannot record exams.
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
	return scheduling.Actor{Role: auth.RolePatient, ID: middleware.PrincipalID(c)}
}

func (h *Handler) Login(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Patient Login")
	defer scope.Flush()

	var req model.LoginRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	token, err := h.identity.LoginPrincipal(c.Request.Context(), auth.RolePatient, &req)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("patient logged in")
	handler.Success(c, gin.H{"patientToken": token})
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Patient Create Appointment")
	defer scope.Flush()

	var req model.PatientCreateAppointmentRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	appointment, err := h.scheduling.CreateAppointment(c.Request.Context(), h.actor(c), req.DoctorID, req.StartTime, req.EndTime)
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
	scope := handler.OpenAudit(h.audit, c, "Patient Update Appointment Status")
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
	scope := handler.OpenAudit(h.audit, c, "Patient Create Visit")
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

func (h *Handler) AllAppointments(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Patient Get Appointments")
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
	scope := handler.OpenAudit(h.audit, c, "Patient Get Visits")
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
	scope := handler.OpenAudit(h.audit, c, "Patient Get Exams")
	defer scope.Flush()

	rows, err := h.scheduling.ExamsFor(c.Request.Context(), h.actor(c))
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("exams listed")
	handler.Success(c, gin.H{"all_exams": rows})
}

func (h *Handler) Delete(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Patient Self Delete")
	defer scope.Flush()

	patientID := middleware.PrincipalID(c)
	if _, err := h.identity.RequirePrincipal(c.Request.Context(), auth.RolePatient, patientID); err != nil {
		h.fail(c, scope, err)
		return
	}

	if err := h.identity.SoftDelete(c.Request.Context(), auth.RolePatient, patientID); err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("patient account deleted")
	handler.Success(c, gin.H{"message": "Patient account deleted successfully"})
}
