package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAdmin = "admin"

var ErrInvalidAdminToken = errors.New("invalid admin token")

type Service interface {
	// GenerateAdminToken signs a token identifying reviewerID as an administrator.
	GenerateAdminToken(reviewerID string) (token string, expiresAt int64, err error)
	// ReviewerFromToken returns the reviewer id of a verified admin token.
	ReviewerFromToken(token jwt.Token) (string, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
	ttl       time.Duration
	now       func() time.Time
}

func NewJWTService(secretKey string, ttl time.Duration) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAdminToken(reviewerID string) (token string, expiresAt int64, err error) {
	issuedAt := j.now()
	expiresAt = issuedAt.Add(j.ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":  reviewerID,
		"type": tokenTypeAdmin,
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ReviewerFromToken(token jwt.Token) (string, error) {
	if token == nil {
		return "", ErrInvalidAdminToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != tokenTypeAdmin {
		return "", ErrInvalidAdminToken
	}

	subject := token.Subject()
	if subject == "" {
		return "", ErrInvalidAdminToken
	}
	return subject, nil
}
