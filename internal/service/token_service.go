package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"exhibitsurvey/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and validates survey-session tokens. A token only
// names the session it belongs to; respondents are anonymous.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. Tokens expire after ttl.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for a session of surveyType
func (s *TokenService) Issue(surveyType, sessionID string) (string, error) {
	now := time.Now()
	claims := &model.SessionClaims{
		SurveyType: surveyType,
		SessionID:  sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks a session token and returns its claims
func (s *TokenService) Validate(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" || claims.SurveyType == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
