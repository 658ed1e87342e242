package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/EluvK/ai-sketch/internal/config"
	"github.com/EluvK/ai-sketch/internal/database"
	"github.com/EluvK/ai-sketch/internal/database/model"
	"github.com/EluvK/ai-sketch/internal/util/jwt"
	"github.com/EluvK/ai-sketch/internal/util/rest"
)

type contextKey string

const userContextKey contextKey = "user"

// Auth validates access tokens on API requests. The JWT secret comes from
// config, handed in at construction.
type Auth struct {
	cfg *config.ServerConfig
}

func NewAuth(cfg *config.ServerConfig) *Auth {
	return &Auth{cfg: cfg}
}

func returnUnauthorized(w http.ResponseWriter, r *http.Request) {
	rest.WriteResponse(http.StatusUnauthorized, w, r, struct {
		Error string `json:"error"`
	}{
		Error: "Authentication token is not valid",
	})
}

func GetBearerToken(r *http.Request) string {
	var bearer string
	fmt.Sscanf(r.Header.Get("Authorization"), "Bearer %s", &bearer)
	return bearer
}

// ApiAuth verifies the bearer access token, loads the user and stores it on
// the request context.
func (a *Auth) ApiAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer := GetBearerToken(r)
		if bearer == "" {
			returnUnauthorized(w, r)
			return
		}

		userId, err := jwt.VerifyAccessToken(a.cfg.JWT.AccessSecret, bearer)
		if err != nil {
			returnUnauthorized(w, r)
			return
		}

		user, err := database.GetInstance().GetUser(userId)
		if err != nil || !user.Active || user.IsDeleted {
			returnUnauthorized(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserFromContext returns the authenticated user set by ApiAuth.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// WithUser returns a context carrying user, used by handler tests.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
