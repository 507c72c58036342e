package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/steamexplorer/backend/internal/domain"
)

// AuthServiceConfig holds token signing configuration
type AuthServiceConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService registers accounts and issues session tokens
type AuthService struct {
	users      domain.UserRepository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

// tokenClaims is the payload of an issued token
type tokenClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new auth service
func NewAuthService(users domain.UserRepository, config AuthServiceConfig) *AuthService {
	ttl := config.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	cost := config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:      users,
		secret:     []byte(config.JWTSecret),
		tokenTTL:   ttl,
		bcryptCost: cost,
		now:        time.Now,
	}
}

// Register creates an account and returns a token for it
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	required := []struct{ field, value string }{
		{"username", req.Username},
		{"email", req.Email},
		{"password", req.Password},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidArgument, r.field)
		}
	}

	if err := s.ensureAvailable(ctx, req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", domain.ErrInternal, err)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{Message: "user registered successfully", Token: token, User: user}, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, req domain.RegisterRequest) error {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return fmt.Errorf("%w: email already registered", domain.ErrUserExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return fmt.Errorf("%w: username already taken", domain.ErrUserExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	return nil
}

// Login verifies credentials and returns a fresh token
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidArgument)
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{Message: "login successful", Token: token, User: user}, nil
}

// Me resolves a token to its account
func (s *AuthService) Me(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

// ParseToken validates an HS256 token and returns its user id
func (s *AuthService) ParseToken(token string) (uint, error) {
	if token == "" {
		return 0, fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}

	claims := &tokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	return claims.UserID, nil
}

func (s *AuthService) issueToken(userID uint) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", domain.ErrInternal, err)
	}
	return signed, nil
}
