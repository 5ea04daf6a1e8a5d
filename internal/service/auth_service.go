package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"loanlens/internal/config"
	"loanlens/internal/domain"
	"loanlens/internal/port"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// Claims are the JWT claims carried by officer tokens.
type Claims struct {
	jwt.RegisteredClaims
	OfficerID uuid.UUID          `json:"officer_id"`
	Email     string             `json:"email"`
	Role      domain.OfficerRole `json:"role"`
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginInput is the DTO for login requests.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshInput is the DTO for token refresh requests.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateOfficerInput is the DTO for adding an officer account.
type CreateOfficerInput struct {
	Email    string             `json:"email" validate:"required,email"`
	Password string             `json:"password" validate:"required,min=8"`
	FullName string             `json:"full_name" validate:"required,max=255"`
	Role     domain.OfficerRole `json:"role" validate:"required,oneof=admin underwriter"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(tokenString string) (*Claims, error)
	CreateOfficer(ctx context.Context, input CreateOfficerInput) (*domain.Officer, error)
}

type authService struct {
	officerRepo port.OfficerRepository
	cfg         config.JWTConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(officerRepo port.OfficerRepository, cfg config.JWTConfig) AuthService {
	return &authService{officerRepo: officerRepo, cfg: cfg}
}

// HashPassword returns the bcrypt hash stored in officers.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	officer, err := s.officerRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrOfficerNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(officer.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !officer.IsActive {
		return nil, domain.ErrOfficerInactive
	}

	return s.generateTokenPair(officer)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateTokenString(refreshToken, audienceRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	officer, err := s.officerRepo.GetByID(ctx, claims.OfficerID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !officer.IsActive {
		return nil, domain.ErrOfficerInactive
	}

	return s.generateTokenPair(officer)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validateTokenString(tokenString, audienceAccess)
}

func (s *authService) CreateOfficer(ctx context.Context, input CreateOfficerInput) (*domain.Officer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	officer := &domain.Officer{
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.officerRepo.Create(ctx, officer); err != nil {
		return nil, err
	}
	return officer, nil
}

func (s *authService) generateTokenPair(officer *domain.Officer) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenExpiry)

	accessToken, err := s.sign(officer, audienceAccess, now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	refreshToken, err := s.sign(officer, audienceRefresh, now, now.Add(s.cfg.RefreshTokenExpiry))
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *authService) sign(officer *domain.Officer, audience string, issuedAt, expiresAt time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   officer.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{audience},
		},
		OfficerID: officer.ID,
		Email:     officer.Email,
		Role:      officer.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *authService) validateTokenString(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(s.cfg.Secret), nil
		},
		jwt.WithAudience(audience),
		jwt.WithIssuer(s.cfg.Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
