package transport

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kamau/expensa/internal/config"
	"github.com/kamau/expensa/model"
)

// Sessions mints and verifies the signed session tokens issued at login.
// Tokens are HMAC-signed JWTs carrying the member's identity claims.
type Sessions struct {
	issuer string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions creates a Sessions from configuration. The signing secret is
// read from the environment variable named by cfg.SecretEnv.
func NewSessions(cfg config.SessionConfig) (*Sessions, error) {
	secret := os.Getenv(cfg.SecretEnv)
	if secret == "" {
		return nil, fmt.Errorf("session: environment variable %s is not set", cfg.SecretEnv)
	}
	return &Sessions{
		issuer: cfg.Issuer,
		secret: []byte(secret),
		ttl:    cfg.TTL,
		now:    time.Now,
	}, nil
}

// Mint issues a signed session token for the given member.
func (s *Sessions) Mint(sess *model.Session) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  sess.MemberID,
		"name": sess.FullName,
		"org":  sess.OrganizationID,
		"role": sess.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// parse verifies a token string and rebuilds the session it carries.
func (s *Sessions) parse(tokenStr string) (*model.Session, error) {
	token, err := jwt.Parse(tokenStr,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithLeeway(30*time.Second),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &model.Session{
		MemberID:       claimString(claims, "sub"),
		FullName:       claimString(claims, "name"),
		OrganizationID: claimString(claims, "org"),
		Role:           claimString(claims, "role"),
	}, nil
}

// Authenticate is middleware that verifies the Bearer token and stores the
// authenticated session in the request context.
func (s *Sessions) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			WriteError(w, model.NewUnauthorizedError("Missing authorization header"))
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			WriteError(w, model.NewUnauthorizedError("Invalid authorization header format"))
			return
		}

		sess, err := s.parse(auth[7:])
		if err != nil {
			WriteError(w, model.NewUnauthorizedError(classifyJWTError(err)))
			return
		}
		sess.CorrelationID = CorrelationIDFrom(r.Context())

		ctx := model.WithSession(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

func classifyJWTError(err error) string {
	s := err.Error()
	switch {
	case strings.Contains(s, "expired"):
		return "Token expired"
	case strings.Contains(s, "issuer"):
		return "Invalid token issuer"
	case strings.Contains(s, "signing method"):
		return "Disallowed signing algorithm"
	case strings.Contains(s, "signature"):
		return "Invalid token signature"
	default:
		return "Invalid token"
	}
}
