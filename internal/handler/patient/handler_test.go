package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdularham/clinic-api/internal/middleware"
	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/internal/repository/memory"
	auditService "github.com/abdularham/clinic-api/internal/service/audit"
	identityService "github.com/abdularham/clinic-api/internal/service/identity"
	schedulingService "github.com/abdularham/clinic-api/internal/service/scheduling"
	"github.com/abdularham/clinic-api/pkg/auth"
	"github.com/abdularham/clinic-api/pkg/security"
)

type memorySink struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (s *memorySink) Append(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *memorySink) Query(_ context.Context) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.payloads))
	copy(out, s.payloads)
	return out, nil
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	adminRepo := memory.NewAdminRepository()
	doctorRepo := memory.NewPrincipalRepository()
	patientRepo := memory.NewPrincipalRepository()
	appointmentRepo := memory.NewAppointmentRepository()
	visitRepo := memory.NewVisitRepository(appointmentRepo)
	examRepo := memory.NewExamRepository(visitRepo)

	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewJWTService("test-secret", time.Hour)

	identitySvc := identityService.NewService(adminRepo, doctorRepo, patientRepo, hasher, tokens, zerolog.Nop())
	schedulingSvc := schedulingService.NewService(appointmentRepo, visitRepo, examRepo, doctorRepo, patientRepo, zerolog.Nop())
	auditSvc := auditService.NewService(&memorySink{}, 64, zerolog.Nop())
	t.Cleanup(auditSvc.Close)

	ctx := context.Background()
	admin, err := identitySvc.CreateAdmin(ctx, 0, &model.CreateAccountRequest{
		Name: "Root Admin", Email: "root@clinic.test", Password: "rootpassword",
	})
	require.NoError(t, err)
	_, err = identitySvc.CreatePrincipal(ctx, auth.RoleDoctor, admin.ID, &model.CreateAccountRequest{
		Name: "Dr Jones", Email: "jones@clinic.test", Password: "doctorpassword",
	})
	require.NoError(t, err)
	_, err = identitySvc.CreatePrincipal(ctx, auth.RolePatient, admin.ID, &model.CreateAccountRequest{
		Name: "Pat Doe", Email: "pat@clinic.test", Password: "patientpassword",
	})
	require.NoError(t, err)

	h := NewHandler(identitySvc, schedulingSvc, auditSvc)
	guard := middleware.NewAccessGuard(tokens, zerolog.Nop())

	engine := gin.New()
	group := engine.Group("/patient")
	group.POST("/login", h.Login)
	guarded := group.Group("", guard.Require(auth.RolePatient))
	guarded.POST("/createvisit", h.CreateVisit)
	guarded.GET("/allvisits", h.AllVisits)

	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path, token, body string) map[string]interface{} {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("patient-token", token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestLoginReturnsPatientToken(t *testing.T) {
	engine := newTestEngine(t)

	out := do(t, engine, http.MethodPost, "/patient/login", "",
		`{"email":"pat@clinic.test","password":"patientpassword"}`)
	require.Equal(t, true, out["success"], out)
	require.Contains(t, out, "patientToken")
	assert.NotEmpty(t, out["patientToken"])
}

func TestStandaloneVisitNeedsOnlyDoctorSide(t *testing.T) {
	engine := newTestEngine(t)

	out := do(t, engine, http.MethodPost, "/patient/login", "",
		`{"email":"pat@clinic.test","password":"patientpassword"}`)
	require.Equal(t, true, out["success"], out)
	token := out["patientToken"].(string)

	// Only the doctor id and the window travel in the body; the patient
	// side comes from the token.
	out = do(t, engine, http.MethodPost, "/patient/createvisit", token,
		`{"doctor_id":1,"start_time":"2026-09-02 10:00:00","end_time":"2026-09-02 10:30:00"}`)
	require.Equal(t, true, out["success"], out)

	visit := out["visit"].(map[string]interface{})
	assert.Equal(t, float64(1), visit["patient_id"])
	assert.Equal(t, float64(1), visit["doctor_id"])
}
