package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "gamehub"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongUse     = errors.New("token used for wrong purpose")
)

// SessionClaims is the payload of a long-lived session token handed out
// at login.
type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TicketClaims is the payload of a short-lived websocket upgrade ticket.
// The ID (jti) is stored server-side so the ticket can only be used once.
type TicketClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
	ticketTTL  time.Duration
}

func NewTokenManager(secret string, sessionTTL, ticketTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		ticketTTL:  ticketTTL,
	}
}

func (m *TokenManager) TicketTTL() time.Duration {
	return m.ticketTTL
}

// IssueSession creates a signed session JWT for a user.
func (m *TokenManager) IssueSession(userID string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifySession parses and validates a session token, returning the user id.
func (m *TokenManager) VerifySession(tokenString string) (string, error) {
	claims := &SessionClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// IssueTicket creates a websocket upgrade ticket. The returned ticket ID
// must be stored by the caller so the ticket can be consumed exactly once.
func (m *TokenManager) IssueTicket(userID string) (token, ticketID string, err error) {
	now := time.Now()
	ticketID = uuid.NewString()
	claims := &TicketClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ticketID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ticketTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	return token, ticketID, err
}

// VerifyTicket validates signature and expiry of an upgrade ticket and
// returns its subject user id and ticket id. Single-use enforcement is the
// ticket store's job.
func (m *TokenManager) VerifyTicket(tokenString string) (userID, ticketID string, err error) {
	claims := &TicketClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return "", "", err
	}
	if claims.ID == "" {
		return "", "", ErrWrongUse
	}
	return claims.UserID, claims.ID, nil
}

func (m *TokenManager) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
