package admin

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

// Handler serves the admin surface: account administration, clinic-wide
// listings and the audit trail.
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

// requireAdmin re-checks that the token's admin row still exists before
// the operation proceeds.
func (h *Handler) requireAdmin(c *gin.Context, scope *handler.AuditScope) (int64, bool) {
	adminID := middleware.PrincipalID(c)
	if _, err := h.identity.RequireAdmin(c.Request.Context(), adminID); err != nil {
		h.fail(c, scope, err)
		return 0, false
	}
	return adminID, true
}

func (h *Handler) Login(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Admin Login")
	defer scope.Flush()

	var req model.LoginRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	token, err := h.identity.LoginAdmin(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("admin logged in")
	handler.Success(c, gin.H{"adminToken": token})
}

func (h *Handler) CreateAdmin(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Create Admin")
	defer scope.Flush()

	adminID, ok := h.requireAdmin(c, scope)
	if !ok {
		return
	}

	var req model.CreateAccountRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	created, err := h.identity.CreateAdmin(c.Request.Context(), adminID, &req)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("admin account created")
	handler.Success(c, gin.H{
		"message": "Admin account created successfully",
		"id":      created.ID,
	})
}

func (h *Handler) createPrincipal(c *gin.Context, role auth.Role, opName, successMsg string) {
	scope := handler.OpenAudit(h.audit, c, opName)
	defer scope.Flush()

	adminID, ok := h.requireAdmin(c, scope)
	if !ok {
		return
	}

	var req model.CreateAccountRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	created, err := h.identity.CreatePrincipal(c.Request.Context(), role, adminID, &req)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed(successMsg)
	handler.Success(c, gin.H{
		"message": successMsg,
		"id":      created.ID,
	})
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	h.createPrincipal(c, auth.RoleDoctor, "Create Doctor", "Doctor account created successfully")
}

func (h *Handler) CreatePatient(c *gin.Context) {
	h.createPrincipal(c, auth.RolePatient, "Create Patient", "Patient account created successfully")
}

func (h *Handler) deletePrincipal(c *gin.Context, role auth.Role, opName, successMsg string) {
	scope := handler.OpenAudit(h.audit, c, opName)
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	var req model.DeleteAccountRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	if err := h.identity.SoftDelete(c.Request.Context(), role, req.ID); err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed(successMsg)
	handler.Success(c, gin.H{"message": successMsg})
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	h.deletePrincipal(c, auth.RoleDoctor, "Delete Doctor", "Doctor account deleted successfully")
}

func (h *Handler) DeletePatient(c *gin.Context) {
	h.deletePrincipal(c, auth.RolePatient, "Delete Patient", "Patient account deleted successfully")
}

func (h *Handler) GetAdmins(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Get Admins")
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	admins, err := h.identity.ListAdmins(c.Request.Context())
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("admins listed")
	handler.Success(c, gin.H{"admins": admins})
}

func (h *Handler) listPrincipals(c *gin.Context, role auth.Role, opName, key string) {
	scope := handler.OpenAudit(h.audit, c, opName)
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	rows, err := h.identity.ListPrincipals(c.Request.Context(), role)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed(key + " listed")
	handler.Success(c, gin.H{key: rows})
}

func (h *Handler) GetDoctors(c *gin.Context) {
	h.listPrincipals(c, auth.RoleDoctor, "Get Doctors", "doctors")
}

func (h *Handler) GetPatients(c *gin.Context) {
	h.listPrincipals(c, auth.RolePatient, "Get Patients", "patients")
}

func (h *Handler) GetAdminByID(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Get Admin By ID")
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	var req model.GetByIDRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	admin, err := h.identity.AdminByID(c.Request.Context(), req.ID)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("admin found")
	handler.Success(c, gin.H{"admin": admin})
}

func (h *Handler) GetAdminByEmail(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Get Admin By Email")
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	var req model.GetByEmailRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	admin, err := h.identity.AdminByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("admin found")
	handler.Success(c, gin.H{"admin": admin})
}

func (h *Handler) principalByID(c *gin.Context, role auth.Role, opName, key string) {
	scope := handler.OpenAudit(h.audit, c, opName)
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	var req model.GetByIDRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	p, err := h.identity.PrincipalByID(c.Request.Context(), role, req.ID)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed(key + " found")
	handler.Success(c, gin.H{key: p})
}

func (h *Handler) principalByEmail(c *gin.Context, role auth.Role, opName, key string) {
	scope := handler.OpenAudit(h.audit, c, opName)
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	var req model.GetByEmailRequest
	if err := handler.Bind(c, &req); err != nil {
		h.fail(c, scope, err)
		return
	}

	p, err := h.identity.PrincipalByEmail(c.Request.Context(), role, req.Email)
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed(key + " found")
	handler.Success(c, gin.H{key: p})
}

func (h *Handler) GetDoctorByID(c *gin.Context) {
	h.principalByID(c, auth.RoleDoctor, "Get Doctor By ID", "doctor")
}

func (h *Handler) GetDoctorByEmail(c *gin.Context) {
	h.principalByEmail(c, auth.RoleDoctor, "Get Doctor By Email", "doctor")
}

func (h *Handler) GetPatientByID(c *gin.Context) {
	h.principalByID(c, auth.RolePatient, "Get Patient By ID", "patient")
}

func (h *Handler) GetPatientByEmail(c *gin.Context) {
	h.principalByEmail(c, auth.RolePatient, "Get Patient By Email", "patient")
}

func (h *Handler) AllAppointments(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Get All Appointments")
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	rows, err := h.scheduling.AllAppointments(c.Request.Context())
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("appointments listed")
	handler.Success(c, gin.H{"appointments": rows})
}

func (h *Handler) AllVisits(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Get All Visits")
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	rows, err := h.scheduling.AllVisits(c.Request.Context())
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("visits listed")
	handler.Success(c, gin.H{"visits": rows})
}

func (h *Handler) AllExams(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Get All Exams")
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	rows, err := h.scheduling.AllExams(c.Request.Context())
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("exams listed")
	handler.Success(c, gin.H{"exams": rows})
}

// Logs returns the audit trail newest-first. Reading the trail is itself
// audited.
func (h *Handler) Logs(c *gin.Context) {
	scope := handler.OpenAudit(h.audit, c, "Get Logs")
	defer scope.Flush()

	if _, ok := h.requireAdmin(c, scope); !ok {
		return
	}

	logs, err := h.audit.Logs(c.Request.Context())
	if err != nil {
		h.fail(c, scope, err)
		return
	}

	scope.Succeed("logs read")
	handler.Success(c, gin.H{"logs": logs})
}
