// Package service holds the business rules that sit between HTTP handlers and repositories.
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"neuroflow/internal/cache"
	"neuroflow/internal/models"
	"neuroflow/internal/repository"
	"neuroflow/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenIssuer   = "neuroflow-api"
	TokenAudience = "neuroflow-client"
	TokenType     = "bearer"
)

type AuthService struct {
	users      repository.UserRepository
	secret     []byte
	ttl        time.Duration
	now        func() time.Time
	bcryptCost int
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// IssuedToken is the credential handed back after register or login.
type IssuedToken struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

// TokenClaims is the verified content of an access token.
type TokenClaims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		ttl:        ttl,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*IssuedToken, error) {
	email := validation.NormalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	if email == "" || username == "" || in.Password == "" {
		return nil, models.NewValidationError("Email, username, and password are required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}
	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: string(hashed),
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.IssueToken(user)
}

// Login accepts either the username or the email address as login.
func (s *AuthService) Login(ctx context.Context, login, password string) (*IssuedToken, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.users.GetByEmail(ctx, validation.NormalizeEmail(login))
	} else {
		user, err = s.users.GetByUsername(ctx, login)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Incorrect username or password")
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Incorrect username or password")
	}
	if !user.IsActive {
		return nil, models.NewUnauthorizedError("Inactive user")
	}
	return s.IssueToken(user)
}

// IssueToken signs an HS256 access token for user.
func (s *AuthService) IssueToken(user *models.User) (*IssuedToken, error) {
	if len(s.secret) == 0 {
		return nil, models.NewInternalError(errors.New("JWT secret not configured"))
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &IssuedToken{
		AccessToken: signed,
		TokenType:   TokenType,
		ExpiresAt:   expires.UTC(),
		User:        user,
	}, nil
}

// ParseToken verifies signature, issuer, audience and expiry.
func (s *AuthService) ParseToken(tokenString string) (*TokenClaims, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Could not validate credentials")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, models.NewUnauthorizedError("Invalid token subject")
	}

	return &TokenClaims{
		UserID:    uint(userID),
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ResolveUser turns a bearer token into the active user it names.
func (s *AuthService) ResolveUser(ctx context.Context, tokenString string) (*models.User, *TokenClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := cache.IsRevoked(ctx, claims.JTI)
	if err == nil && revoked {
		return nil, nil, models.NewUnauthorizedError("Token has been revoked")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, nil, models.NewUnauthorizedError("Could not validate credentials")
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, models.NewUnauthorizedError("Inactive user")
	}
	return user, claims, nil
}

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *TokenClaims) error {
	if claims == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := cache.RevokeToken(ctx, claims.JTI, ttl); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
