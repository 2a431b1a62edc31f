package jwt

import (
	"errors"
	"time"

	"slot-engine/internal/domain/access"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims carries the administrative scope of the bearer. The subject is the
// admin's identifier as issued by the account service.
type Claims struct {
	SuperAdmin    bool        `json:"super_admin,omitempty"`
	Complexes     []uuid.UUID `json:"complexes,omitempty"`
	Centers       []uuid.UUID `json:"centers,omitempty"`
	Professionals []uuid.UUID `json:"professionals,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Scope() access.Scope {
	if c.SuperAdmin {
		return access.SuperAdmin(c.Subject)
	}
	return access.Admin(c.Subject, c.Complexes, c.Centers, c.Professionals)
}

type Service struct {
	secretKey     []byte
	tokenDuration time.Duration
}

func NewService(secretKey string, tokenDuration time.Duration) *Service {
	return &Service{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// GenerateToken signs a scope token. It is used by the CLI and tests; the
// account service issues tokens in production.
func (s *Service) GenerateToken(subject string, claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ResolveScope validates tokenString and returns the scope it grants.
func (s *Service) ResolveScope(tokenString string) (access.Scope, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return access.Public(), err
	}
	return claims.Scope(), nil
}
