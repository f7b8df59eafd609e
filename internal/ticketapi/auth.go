package ticketapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vogiaan1904/ticketbottle-queuestatus/config"
)

const tokenSubject = "queue-status-watcher"

// TokenSource mints the bearer token sent with every ticket service call.
type TokenSource interface {
	Token(ticketID string) (string, error)
}

type jwtTokenSource struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTTokenSource returns nil when no secret is configured, in which case
// requests go out unauthenticated.
func NewJWTTokenSource(cfg config.JWTConfig) TokenSource {
	if cfg.Secret == "" {
		return nil
	}
	return &jwtTokenSource{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expiry,
		now:    time.Now,
	}
}

func (s *jwtTokenSource) Token(ticketID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":       tokenSubject,
		"ticket_id": ticketID,
		"iat":       now.Unix(),
		"exp":       now.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenStr, nil
}
