package identity

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/internal/repository/memory"
	"github.com/abdularham/clinic-api/pkg/auth"
	"github.com/abdularham/clinic-api/pkg/errors"
	"github.com/abdularham/clinic-api/pkg/security"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(
		memory.NewAdminRepository(),
		memory.NewPrincipalRepository(),
		memory.NewPrincipalRepository(),
		security.NewBcryptHasher(bcrypt.MinCost),
		auth.NewJWTService("test-secret", time.Hour),
		zerolog.Nop(),
	)
}

func seedAdmin(t *testing.T, svc *Service) *model.Admin {
	t.Helper()
	admin, err := svc.CreateAdmin(context.Background(), 0, &model.CreateAccountRequest{
		Name:     "Root Admin",
		Email:    "root@clinic.test",
		Password: "rootpassword",
	})
	require.NoError(t, err)
	return admin
}

func TestLoginAdmin(t *testing.T) {
	svc := newTestService(t)
	seedAdmin(t, svc)

	token, err := svc.LoginAdmin(context.Background(), &model.LoginRequest{
		Email:    "root@clinic.test",
		Password: "rootpassword",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginAdminWrongPassword(t *testing.T) {
	svc := newTestService(t)
	seedAdmin(t, svc)

	_, err := svc.LoginAdmin(context.Background(), &model.LoginRequest{
		Email:    "root@clinic.test",
		Password: "wrongpassword",
	})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidCredentials))
	assert.Equal(t, "Incorrect Email or Password", err.(*errors.Error).Message)
}

func TestLoginUnknownAdmin(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.LoginAdmin(context.Background(), &model.LoginRequest{
		Email:    "ghost@clinic.test",
		Password: "somepassword",
	})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidCredentials))
}

func TestCreatePrincipalAndLogin(t *testing.T) {
	svc := newTestService(t)
	admin := seedAdmin(t, svc)

	doctor, err := svc.CreatePrincipal(context.Background(), auth.RoleDoctor, admin.ID, &model.CreateAccountRequest{
		Name:     "Dr Jones",
		Email:    "jones@clinic.test",
		Password: "doctorpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, doctor.CreatedBy)

	token, err := svc.LoginPrincipal(context.Background(), auth.RoleDoctor, &model.LoginRequest{
		Email:    "jones@clinic.test",
		Password: "doctorpassword",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestCreatePrincipalDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	admin := seedAdmin(t, svc)

	req := &model.CreateAccountRequest{Name: "Dr Jones", Email: "jones@clinic.test", Password: "doctorpassword"}
	_, err := svc.CreatePrincipal(context.Background(), auth.RoleDoctor, admin.ID, req)
	require.NoError(t, err)

	_, err = svc.CreatePrincipal(context.Background(), auth.RoleDoctor, admin.ID, req)
	assert.True(t, errors.IsCode(err, errors.CodeEmailInUse))
}

func TestSoftDeleteLocksOutLogin(t *testing.T) {
	svc := newTestService(t)
	admin := seedAdmin(t, svc)

	patient, err := svc.CreatePrincipal(context.Background(), auth.RolePatient, admin.ID, &model.CreateAccountRequest{
		Name:     "Pat Doe",
		Email:    "pat@clinic.test",
		Password: "patientpassword",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(context.Background(), auth.RolePatient, patient.ID))

	_, err = svc.LoginPrincipal(context.Background(), auth.RolePatient, &model.LoginRequest{
		Email:    "pat@clinic.test",
		Password: "patientpassword",
	})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidCredentials))
}

func TestSoftDeleteTwiceFails(t *testing.T) {
	svc := newTestService(t)
	admin := seedAdmin(t, svc)

	doctor, err := svc.CreatePrincipal(context.Background(), auth.RoleDoctor, admin.ID, &model.CreateAccountRequest{
		Name:     "Dr Jones",
		Email:    "jones@clinic.test",
		Password: "doctorpassword",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(context.Background(), auth.RoleDoctor, doctor.ID))
	err = svc.SoftDelete(context.Background(), auth.RoleDoctor, doctor.ID)
	assert.True(t, errors.IsCode(err, errors.CodeAlreadyDeleted))
}

func TestSoftDeleteUnknownID(t *testing.T) {
	svc := newTestService(t)
	seedAdmin(t, svc)

	err := svc.SoftDelete(context.Background(), auth.RoleDoctor, 999)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestReactivationKeepsRowID(t *testing.T) {
	svc := newTestService(t)
	admin := seedAdmin(t, svc)

	req := &model.CreateAccountRequest{Name: "Dr Jones", Email: "jones@clinic.test", Password: "doctorpassword"}
	doctor, err := svc.CreatePrincipal(context.Background(), auth.RoleDoctor, admin.ID, req)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(context.Background(), auth.RoleDoctor, doctor.ID))

	revived, err := svc.CreatePrincipal(context.Background(), auth.RoleDoctor, admin.ID, req)
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, revived.ID)
	assert.False(t, revived.Deleted)

	// The account is live again.
	_, err = svc.RequirePrincipal(context.Background(), auth.RoleDoctor, doctor.ID)
	assert.NoError(t, err)
}

func TestRequirePrincipalRejectsDeleted(t *testing.T) {
	svc := newTestService(t)
	admin := seedAdmin(t, svc)

	doctor, err := svc.CreatePrincipal(context.Background(), auth.RoleDoctor, admin.ID, &model.CreateAccountRequest{
		Name:     "Dr Jones",
		Email:    "jones@clinic.test",
		Password: "doctorpassword",
	})
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(context.Background(), auth.RoleDoctor, doctor.ID))

	_, err = svc.RequirePrincipal(context.Background(), auth.RoleDoctor, doctor.ID)
	assert.True(t, errors.IsCode(err, errors.CodeAuthorization))
}

func TestRequireAdminUnknown(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RequireAdmin(context.Background(), 42)
	assert.True(t, errors.IsCode(err, errors.CodeAuthorization))
}

func TestPrincipalLookupsIncludeDeleted(t *testing.T) {
	svc := newTestService(t)
	admin := seedAdmin(t, svc)

	doctor, err := svc.CreatePrincipal(context.Background(), auth.RoleDoctor, admin.ID, &model.CreateAccountRequest{
		Name:     "Dr Jones",
		Email:    "jones@clinic.test",
		Password: "doctorpassword",
	})
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(context.Background(), auth.RoleDoctor, doctor.ID))

	profile, err := svc.PrincipalByID(context.Background(), auth.RoleDoctor, doctor.ID)
	require.NoError(t, err)
	assert.True(t, profile.Deleted)

	profile, err = svc.PrincipalByEmail(context.Background(), auth.RoleDoctor, "jones@clinic.test")
	require.NoError(t, err)
	assert.True(t, profile.Deleted)
}
