package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"display_bridge/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = time.Hour

	// minSigningKeyLen is the shortest configured key accepted for HS256 tokens.
	minSigningKeyLen = 16
	// placeholderSigningKey shipped in older config files.
	placeholderSigningKey = "change-me"
)

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrSignUpClosed     = errors.New("sign-up closed: an operator already exists")
	ErrEmptyCredentials = errors.New("username and password are required")
)

// AuthService guards /api/v1. Only the first operator can sign up; that happens once, on a
// freshly flashed board.
type AuthService struct {
	operators  repository.Operators
	signingKey []byte
	tokenTTL   time.Duration
}

// NewAuthService uses key to sign HS256 tokens valid for ttl (one hour when ttl <= 0).
// EnsureSigningKey returns key when it is usable. An empty, placeholder or short key is
// replaced by 32 random bytes, hex encoded, and generated reports true. A generated key
// lives only as long as the process, so tokens do not survive a restart.
func EnsureSigningKey(key string) (signingKey string, generated bool, err error) {
	key = strings.TrimSpace(key)
	if len(key) >= minSigningKeyLen && key != placeholderSigningKey {
		return key, false, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", false, fmt.Errorf("generate signing key: %w", err)
	}
	return hex.EncodeToString(buf), true, nil
}

func NewAuthService(operators repository.Operators, key string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{operators: operators, signingKey: []byte(key), tokenTTL: ttl}
}

// SignUp creates the first operator. Later calls fail with ErrSignUpClosed.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (int, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return 0, ErrEmptyCredentials
	}
	n, err := s.operators.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, ErrSignUpClosed
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.operators.Create(ctx, username, string(hash))
}

// Claims are the JWT claims issued to operators.
type Claims struct {
	jwt.RegisteredClaims
	OperatorID int `json:"operator_id"`
}

// GenerateToken checks the credentials and returns a signed token.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	op, err := s.operators.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if op == nil {
		return "", ErrOperatorNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	return s.issueToken(op.ID)
}

// ParseToken validates an HS256 token and returns the operator ID it was issued to.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.OperatorID, nil
}

func (s *AuthService) issueToken(operatorID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OperatorID: operatorID,
	})
	return token.SignedString(s.signingKey)
}
