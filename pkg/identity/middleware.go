package identity

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fleetworks/fleetworks-backend/pkg/config"
	"github.com/fleetworks/fleetworks-backend/pkg/errors"
	"github.com/fleetworks/fleetworks-backend/pkg/httputil"
)

// Claims are the access-token claims issued by the auth service.
type Claims struct {
	jwt.RegisteredClaims
	UserID         string `json:"user_id"`
	Role           string `json:"role"`
	BusinessUnitID *int64 `json:"business_unit_id,omitempty"`
}

// Verifier validates access tokens and resolves the caller identity.
type Verifier struct {
	cfg *config.JWTConfig
}

// NewVerifier creates a token verifier.
func NewVerifier(cfg *config.JWTConfig) *Verifier {
	return &Verifier{cfg: cfg}
}

// Verify parses and validates a token string, returning the caller.
func (v *Verifier) Verify(tokenString string) (Caller, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.TokenInvalid()
		}
		return []byte(v.cfg.Secret), nil
	}, jwt.WithIssuer(v.cfg.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Caller{}, errors.TokenExpired()
		}
		return Caller{}, errors.TokenInvalid()
	}
	if !token.Valid {
		return Caller{}, errors.TokenInvalid()
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}

	return Caller{
		UserID:         userID,
		Role:           claims.Role,
		BusinessUnitID: claims.BusinessUnitID,
	}, nil
}

// Middleware authenticates requests with a Bearer token and injects the
// resolved caller into the request context. Health checks bypass auth.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			httputil.Error(w, errors.Unauthorized("missing authorization header"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.Error(w, errors.Unauthorized("malformed authorization header"))
			return
		}

		caller, err := v.Verify(parts[1])
		if err != nil {
			httputil.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// RequireRole guards a route subtree behind an exact role match.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				httputil.Error(w, errors.Unauthorized("not authenticated"))
				return
			}
			if caller.Role != role {
				httputil.Error(w, errors.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
