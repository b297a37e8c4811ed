package services

import (
	"context"
	"errors"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrUnauthorized = errors.New("unauthorized")
)

type AuthService interface {
	GenerateToken(user *domain.User) (string, error)
	GenerateRefreshToken(userID domain.UserID) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	CheckProjectAccess(ctx context.Context, userID domain.UserID, role domain.Role, projectID domain.ProjectID, allowed ...domain.Role) error
}

// IdentityClaim is the identity payload embedded under the token's "user" field.
type IdentityClaim struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
}

type Claims struct {
	User IdentityClaim `json:"user"`
	jwt.RegisteredClaims
}

// UserID returns the claim's user id in domain form.
func (c *Claims) UserID() domain.UserID {
	return domain.UserID(c.User.ID)
}

// Role returns the claim's role, defaulted to the baseline member role.
func (c *Claims) Role() domain.Role {
	return domain.NormalizeRole(c.User.Role)
}

type authService struct {
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	projectRepo     ports.ProjectRepository // Can be nil for token-only validation
}

func NewAuthService(
	jwtSecret string,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
	projectRepo ports.ProjectRepository,
) AuthService {
	return &authService{
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		projectRepo:     projectRepo,
	}
}

func (s *authService) GenerateToken(user *domain.User) (string, error) {
	claims := &Claims{
		User: IdentityClaim{
			ID:   string(user.ID),
			Role: string(user.Role),
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) GenerateRefreshToken(userID domain.UserID) (string, error) {
	claims := &Claims{
		User: IdentityClaim{ID: string(userID)},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.refreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.User.ID == "" {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (s *authService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.ValidateToken(tokenString)
}

// CheckProjectAccess decides whether the identity may act on the project.
// The owner is granted unconditionally, even when a role allow-list is set
// and the owner's role is outside it. An empty allow-list means membership
// alone is sufficient.
func (s *authService) CheckProjectAccess(ctx context.Context, userID domain.UserID, role domain.Role, projectID domain.ProjectID, allowed ...domain.Role) error {
	if s.projectRepo == nil {
		return ErrUnauthorized
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	// Owner bypass: ownership alone grants access.
	if project.Owner == userID {
		return nil
	}

	if !project.HasMember(userID) {
		return domain.ErrNotMember
	}

	if len(allowed) > 0 {
		userRole := domain.NormalizeRole(string(role))
		for _, a := range allowed {
			if userRole == a {
				return nil
			}
		}
		return domain.ErrInsufficientRole
	}

	return nil
}
