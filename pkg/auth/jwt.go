package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies which actor group a token was minted for. Each role has
// its own header slot on the wire (admin-token, doctor-token, patient-token).
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// HeaderSlot returns the request header the role's token travels in.
func (r Role) HeaderSlot() string {
	return string(r) + "-token"
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongRole    = errors.New("token issued for a different role")
)

// Claims is the token payload: the role and the numeric principal id.
// Liveness of the principal is deliberately NOT encoded here; handlers
// re-check the identity store on every call.
type Claims struct {
	jwt.RegisteredClaims
	Role        Role  `json:"role"`
	PrincipalID int64 `json:"principal_id"`
}

// TokenService mints and verifies signed principal tokens.
type TokenService interface {
	Issue(role Role, principalID int64) (string, error)
	Verify(token string, role Role) (*Claims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) TokenService {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) Issue(role Role, principalID int64) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Role:        role,
		PrincipalID: principalID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) Verify(token string, role Role) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != role {
		return nil, ErrWrongRole
	}
	return claims, nil
}
