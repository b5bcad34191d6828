package api

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/models"
	"github.com/taskhive-dev/taskhive-backend/services"
)

const sessionCookie = "session"

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// sessions mints and verifies the signed tokens carried in the session cookie.
type sessions struct {
	secret []byte
	ttl    time.Duration
}

func newSessions(secret string, ttl time.Duration) sessions {
	return sessions{secret: []byte(secret), ttl: ttl}
}

func (s sessions) mint(caller services.Caller) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: string(caller.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s sessions) parse(tokenString string) (services.Caller, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.NewUnauthorized("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return services.Caller{}, errs.NewUnauthorized("invalid session")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return services.Caller{}, errs.NewUnauthorized("invalid session")
	}
	role := models.Role(claims.Role)
	if !role.Valid() {
		return services.Caller{}, errs.NewUnauthorized("invalid session")
	}
	return services.Caller{ID: id, Role: role}, nil
}

func (s sessions) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s sessions) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
