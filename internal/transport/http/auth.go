package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator verifies bearer tokens issued by the surrounding identity
// provider. Registration and login live outside this service; we only
// consume the HS256-signed identity.
type Authenticator struct {
	hmac []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{hmac: []byte(secret)}
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue mints a token for a user. Used by tests and local tooling.
func (a *Authenticator) Issue(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(a.hmac)
}

func (a *Authenticator) parse(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil || !token.Valid {
		return "", err
	}
	c, _ := token.Claims.(*claims)
	if c == nil || c.Subject == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	return c.Subject, nil
}

type ctxKey int

const userKey ctxKey = iota

// RequireUser rejects anonymous requests and stores the authenticated user
// ID in the request context. Websocket clients may pass the token as a
// query parameter since browsers cannot set headers on upgrade requests.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := ""
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenStr = strings.TrimPrefix(h, "Bearer ")
		} else if t := r.URL.Query().Get("token"); t != "" {
			tokenStr = t
		}
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := a.parse(tokenStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, userID)))
	})
}

// UserFromContext returns the authenticated user ID, empty for anonymous.
func UserFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userKey).(string)
	return userID
}
