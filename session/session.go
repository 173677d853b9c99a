package session

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mbolis/quick-forms/config"
)

const CookieName = "admin-session"

const TTL = 24 * time.Hour

// Sessions is the admin gate: a single shared identity checked against the
// configured credentials, marked by a signed cookie.
type Sessions struct {
	user   string
	pass   string
	secret []byte
}

func New(cfg config.Config) *Sessions {
	return &Sessions{
		user:   cfg.AdminUser,
		pass:   cfg.AdminPass,
		secret: []byte(cfg.TokenSecret),
	}
}

func (s *Sessions) VerifyCredentials(username, password string) bool {
	userOk := subtle.ConstantTimeCompare([]byte(username), []byte(s.user)) == 1
	passOk := subtle.ConstantTimeCompare([]byte(password), []byte(s.pass)) == 1
	return userOk && passOk
}

// IssueCookie signs a fresh session token and wraps it in the admin cookie.
func (s *Sessions) IssueCookie() (*http.Cookie, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        jti.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(TTL),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}, nil
}

// Check reports whether the request carries a valid, unexpired session cookie.
func (s *Sessions) Check(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	return err == nil && token.Valid
}

// ClearCookie expires the admin cookie immediately.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
