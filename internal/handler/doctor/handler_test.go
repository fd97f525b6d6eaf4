package doctor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
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

type testStack struct {
	engine   *gin.Engine
	identity *identityService.Service
	audit    *auditService.Service
	doctorID int64
}

func newTestStack(t *testing.T) *testStack {
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
	doctor, err := identitySvc.CreatePrincipal(ctx, auth.RoleDoctor, admin.ID, &model.CreateAccountRequest{
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
	group := engine.Group("/doctor")
	group.POST("/login", h.Login)
	guarded := group.Group("", guard.Require(auth.RoleDoctor))
	guarded.POST("/createappointment", h.CreateAppointment)
	guarded.POST("/updatestatus", h.UpdateStatus)
	guarded.POST("/createvisit", h.CreateVisit)
	guarded.POST("/createexam", h.CreateExam)
	guarded.GET("/allappointments", h.AllAppointments)
	guarded.POST("/delete", h.Delete)

	return &testStack{engine: engine, identity: identitySvc, audit: auditSvc, doctorID: doctor.ID}
}

func (s *testStack) do(t *testing.T, method, path, token, body string) map[string]interface{} {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("doctor-token", token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *testStack) login(t *testing.T) string {
	t.Helper()
	out := s.do(t, http.MethodPost, "/doctor/login", "",
		`{"email":"jones@clinic.test","password":"doctorpassword"}`)
	require.Equal(t, true, out["success"])
	require.Contains(t, out, "doctorToken")
	return out["doctorToken"].(string)
}

func TestLoginAndBookFlow(t *testing.T) {
	s := newTestStack(t)
	token := s.login(t)

	out := s.do(t, http.MethodPost, "/doctor/createappointment", token,
		`{"patient_id":1,"start_time":"2026-09-01 09:00:00","end_time":"2026-09-01 09:30:00"}`)
	require.Equal(t, true, out["success"], out)

	appointment := out["appointment"].(map[string]interface{})
	appointmentID := appointment["id"].(float64)
	assert.Equal(t, "booked", appointment["status"])

	out = s.do(t, http.MethodPost, "/doctor/createvisit", token,
		fmt.Sprintf(`{"appointment_id":%d}`, int64(appointmentID)))
	require.Equal(t, true, out["success"], out)

	visit := out["visit"].(map[string]interface{})
	visitID := visit["id"].(float64)

	out = s.do(t, http.MethodPost, "/doctor/createexam", token,
		fmt.Sprintf(`{"visit_id":%d,"doctor_comment":"all clear"}`, int64(visitID)))
	assert.Equal(t, true, out["success"], out)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestStack(t)

	out := s.do(t, http.MethodPost, "/doctor/login", "",
		`{"email":"jones@clinic.test","password":"wrongpassword"}`)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "One of the email and password provided is not correct", out["message"])
}

func TestValidationFailureListsFields(t *testing.T) {
	s := newTestStack(t)
	token := s.login(t)

	out := s.do(t, http.MethodPost, "/doctor/createappointment", token,
		`{"start_time":"2026-09-01 09:00:00"}`)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "One of the fields is not correct", out["message"])
	assert.NotEmpty(t, out["errors"])
}

func TestDeletedDoctorTokenStillParsesButFailsAuthorization(t *testing.T) {
	s := newTestStack(t)
	token := s.login(t)

	out := s.do(t, http.MethodPost, "/doctor/delete", token, "")
	require.Equal(t, true, out["success"], out)

	// The token still verifies, so the guard passes, but the liveness
	// re-check inside the operation rejects the deleted account.
	out = s.do(t, http.MethodGet, "/doctor/allappointments", token, "")
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Authorization Failed", out["message"])
}

func TestDoubleStatusUpdateFails(t *testing.T) {
	s := newTestStack(t)
	token := s.login(t)

	out := s.do(t, http.MethodPost, "/doctor/createappointment", token,
		`{"patient_id":1,"start_time":"2026-09-01 09:00:00","end_time":"2026-09-01 09:30:00"}`)
	require.Equal(t, true, out["success"], out)
	id := int64(out["appointment"].(map[string]interface{})["id"].(float64))

	body := fmt.Sprintf(`{"appointment_id":%d,"status":"cancelled"}`, id)
	out = s.do(t, http.MethodPost, "/doctor/updatestatus", token, body)
	require.Equal(t, true, out["success"], out)

	out = s.do(t, http.MethodPost, "/doctor/updatestatus", token, body)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Appointment Status was already set to cancelled", out["message"])
}

func TestEveryRequestIsAudited(t *testing.T) {
	s := newTestStack(t)
	s.login(t)

	out := s.do(t, http.MethodPost, "/doctor/login", "",
		`{"email":"jones@clinic.test","password":"wrongpassword"}`)
	require.Equal(t, false, out["success"])

	s.audit.Close()
	records, err := s.audit.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first: the failed login precedes the successful one.
	assert.False(t, records[0].Success)
	assert.True(t, records[1].Success)
	assert.Equal(t, "Doctor Login", records[0].Message)
	assert.Equal(t, http.MethodPost, records[0].RequestType)
}
