package identity

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abdularham/clinic-api/internal/model"
	"github.com/abdularham/clinic-api/internal/repository"
	"github.com/abdularham/clinic-api/pkg/auth"
	"github.com/abdularham/clinic-api/pkg/errors"
	"github.com/abdularham/clinic-api/pkg/security"
)

// Login failure wording differs per role and is part of the wire contract.
const (
	adminLoginFailedMessage     = "Incorrect Email or Password"
	principalLoginFailedMessage = "One of the email and password provided is not correct"
)

// Service owns accounts and credentials for all three roles. Doctors and
// patients are soft-deletable principals; admins are permanent.
type Service struct {
	admins   repository.AdminRepository
	doctors  repository.PrincipalRepository
	patients repository.PrincipalRepository
	hasher   security.PasswordHasher
	tokens   auth.TokenService
	logger   zerolog.Logger
}

func NewService(
	admins repository.AdminRepository,
	doctors repository.PrincipalRepository,
	patients repository.PrincipalRepository,
	hasher security.PasswordHasher,
	tokens auth.TokenService,
	logger zerolog.Logger,
) *Service {
	return &Service{
		admins:   admins,
		doctors:  doctors,
		patients: patients,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger.With().Str("component", "identity").Logger(),
	}
}

func (s *Service) principals(role auth.Role) (repository.PrincipalRepository, error) {
	switch role {
	case auth.RoleDoctor:
		return s.doctors, nil
	case auth.RolePatient:
		return s.patients, nil
	default:
		return nil, fmt.Errorf("role %q has no principal store", role)
	}
}

// LoginAdmin verifies admin credentials and mints an admin token.
func (s *Service) LoginAdmin(ctx context.Context, req *model.LoginRequest) (string, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if stderrors.Is(err, repository.ErrNotFound) {
		return "", errors.InvalidCredentials(adminLoginFailedMessage)
	}
	if err != nil {
		return "", errors.Store(err)
	}
	if err := s.hasher.Compare(admin.PasswordHash, req.Password); err != nil {
		return "", errors.InvalidCredentials(adminLoginFailedMessage)
	}

	token, err := s.tokens.Issue(auth.RoleAdmin, admin.ID)
	if err != nil {
		return "", errors.Store(err)
	}
	return token, nil
}

// LoginPrincipal verifies doctor or patient credentials. A deleted account
// cannot log in; the caller sees the same message as a wrong password.
func (s *Service) LoginPrincipal(ctx context.Context, role auth.Role, req *model.LoginRequest) (string, error) {
	store, err := s.principals(role)
	if err != nil {
		return "", errors.Store(err)
	}

	p, err := store.GetByEmail(ctx, req.Email)
	if stderrors.Is(err, repository.ErrNotFound) {
		return "", errors.InvalidCredentials(principalLoginFailedMessage)
	}
	if err != nil {
		return "", errors.Store(err)
	}
	if p.Deleted {
		return "", errors.InvalidCredentials(principalLoginFailedMessage)
	}
	if err := s.hasher.Compare(p.PasswordHash, req.Password); err != nil {
		return "", errors.InvalidCredentials(principalLoginFailedMessage)
	}

	token, err := s.tokens.Issue(role, p.ID)
	if err != nil {
		return "", errors.Store(err)
	}
	return token, nil
}

// CreateAdmin registers a new permanent admin account.
func (s *Service) CreateAdmin(ctx context.Context, creatorID int64, req *model.CreateAccountRequest) (*model.Admin, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Store(err)
	}

	admin := &model.Admin{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedBy:    creatorID,
	}
	err = s.admins.Create(ctx, admin)
	if stderrors.Is(err, repository.ErrDuplicateEmail) {
		return nil, errors.EmailInUse()
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return admin, nil
}

// CreatePrincipal registers a doctor or patient. If the email belongs to a
// soft-deleted row of the same role, that row is reactivated under its
// original id instead of inserting a new one.
func (s *Service) CreatePrincipal(ctx context.Context, role auth.Role, creatorID int64, req *model.CreateAccountRequest) (*model.Principal, error) {
	store, err := s.principals(role)
	if err != nil {
		return nil, errors.Store(err)
	}

	existing, err := store.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && existing.Deleted:
		if err := store.Reactivate(ctx, existing.ID); err != nil {
			return nil, errors.Store(err)
		}
		s.logger.Info().Str("role", string(role)).Int64("id", existing.ID).Msg("reactivated account")
		existing.Deleted = false
		return existing, nil
	case err == nil:
		return nil, errors.EmailInUse()
	case !stderrors.Is(err, repository.ErrNotFound):
		return nil, errors.Store(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Store(err)
	}

	p := &model.Principal{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedBy:    creatorID,
	}
	err = store.Create(ctx, p)
	if stderrors.Is(err, repository.ErrDuplicateEmail) {
		return nil, errors.EmailInUse()
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return p, nil
}

// SoftDelete flags a doctor or patient as deleted. The row stays, so issued
// tokens keep parsing but every guarded operation rejects the account.
func (s *Service) SoftDelete(ctx context.Context, role auth.Role, id int64) error {
	store, err := s.principals(role)
	if err != nil {
		return errors.Store(err)
	}

	p, err := store.Get(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound(fmt.Sprintf("No %s exists with the given id", role))
	}
	if err != nil {
		return errors.Store(err)
	}
	if p.Deleted {
		return errors.AlreadyDeleted(fmt.Sprintf("The %s account is already deleted", role))
	}

	if err := store.MarkDeleted(ctx, id); err != nil {
		return errors.Store(err)
	}
	return nil
}

// RequireAdmin re-checks that the authenticated admin still exists. It runs
// on every admin operation, not just at token verification time.
func (s *Service) RequireAdmin(ctx context.Context, id int64) (*model.Admin, error) {
	admin, err := s.admins.Get(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.AuthorizationFailed()
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return admin, nil
}

// RequirePrincipal re-checks that a doctor or patient is still live. A
// soft-deleted account fails here even when its token is still valid.
func (s *Service) RequirePrincipal(ctx context.Context, role auth.Role, id int64) (*model.Principal, error) {
	store, err := s.principals(role)
	if err != nil {
		return nil, errors.Store(err)
	}

	p, err := store.Get(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.AuthorizationFailed()
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	if p.Deleted {
		return nil, errors.AuthorizationFailed()
	}
	return p, nil
}

func (s *Service) ListAdmins(ctx context.Context) ([]*model.AdminProfile, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, errors.Store(err)
	}
	profiles := make([]*model.AdminProfile, len(admins))
	for i, a := range admins {
		profiles[i] = a.Profile()
	}
	return profiles, nil
}

func (s *Service) ListPrincipals(ctx context.Context, role auth.Role) ([]*model.PrincipalProfile, error) {
	store, err := s.principals(role)
	if err != nil {
		return nil, errors.Store(err)
	}

	rows, err := store.List(ctx)
	if err != nil {
		return nil, errors.Store(err)
	}
	profiles := make([]*model.PrincipalProfile, len(rows))
	for i, p := range rows {
		profiles[i] = p.Profile()
	}
	return profiles, nil
}

// AdminByID returns the restricted projection of one admin.
func (s *Service) AdminByID(ctx context.Context, id int64) (*model.AdminProfile, error) {
	admin, err := s.admins.Get(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFound("No admin exists with the given id")
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return admin.Profile(), nil
}

func (s *Service) AdminByEmail(ctx context.Context, email string) (*model.AdminProfile, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFound("No admin exists with the given email")
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return admin.Profile(), nil
}

// PrincipalByID looks up a doctor or patient including soft-deleted rows.
// Lookups are an admin surface; hiding deleted rows would make the deletion
// endpoints impossible to audit.
func (s *Service) PrincipalByID(ctx context.Context, role auth.Role, id int64) (*model.PrincipalProfile, error) {
	store, err := s.principals(role)
	if err != nil {
		return nil, errors.Store(err)
	}

	p, err := store.Get(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFound(fmt.Sprintf("No %s exists with the given id", role))
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return p.Profile(), nil
}

func (s *Service) PrincipalByEmail(ctx context.Context, role auth.Role, email string) (*model.PrincipalProfile, error) {
	store, err := s.principals(role)
	if err != nil {
		return nil, errors.Store(err)
	}

	p, err := store.GetByEmail(ctx, email)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFound(fmt.Sprintf("No %s exists with the given email", role))
	}
	if err != nil {
		return nil, errors.Store(err)
	}
	return p.Profile(), nil
}
