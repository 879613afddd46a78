package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "agenda_bot"

// DefaultTTL срок жизни токена API
const DefaultTTL = 30 * 24 * time.Hour

var (
	ErrDisabled     = errors.New("api auth disabled")
	ErrInvalidToken = errors.New("invalid token")
)

// Tokens выпускает и проверяет HMAC JWT специалиста. Subject - id специалиста
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens пустой secret отключает API: выпуск и проверка возвращают ErrDisabled
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Enabled() bool {
	return t != nil && len(t.secret) > 0
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue подписывает токен для специалиста
func (t *Tokens) Issue(professionalID int64) (string, error) {
	if !t.Enabled() {
		return "", ErrDisabled
	}
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(professionalID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись и срок, возвращает id специалиста
func (t *Tokens) Parse(token string) (int64, error) {
	if !t.Enabled() {
		return 0, ErrDisabled
	}
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}
