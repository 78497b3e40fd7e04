package middleware

import (
	"context"
	"net/http"

	"rescue-revolution/internal/domain/users"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// SessionCookie es el nombre de la cookie que transporta el token opaco.
const SessionCookie = "session"

// Claims representa la identidad autenticada del request.
type Claims struct {
	UserID   string
	Username string
	Email    string
	IsAdmin  bool
}

// SessionResolver resuelve un token de sesión a un usuario.
type SessionResolver interface {
	UserFromToken(ctx context.Context, token string) (users.User, error)
}

// SessionContext:
// - Si viene cookie de sesión válida => setea claims en el contexto.
// - Si no hay cookie o el token es inválido, el request sigue igual;
//   los handlers deciden si exigen auth (401).
func SessionContext(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := resolver.UserFromToken(r.Context(), c.Value)
			if err != nil {
				// No cortamos aquí. El handler decide 401/403.
				next.ServeHTTP(w, r)
				return
			}

			claims := Claims{
				UserID:   u.ID,
				Username: u.Username,
				Email:    u.Email,
				IsAdmin:  u.IsAdmin,
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return Claims{}, false
	}
	c, ok := v.(Claims)
	return c, ok
}
