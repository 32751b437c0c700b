package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamau/expensa/internal/config"
	"github.com/kamau/expensa/model"
)

func testSessions(t *testing.T) *Sessions {
	t.Helper()
	t.Setenv("EXPENSA_SESSION_SECRET", "test-secret")

	sessions, err := NewSessions(config.SessionConfig{
		Issuer:    "expensa",
		SecretEnv: "EXPENSA_SESSION_SECRET",
		TTL:       time.Hour,
	})
	require.NoError(t, err)
	return sessions
}

func TestNewSessions_missing_secret(t *testing.T) {
	t.Setenv("EXPENSA_SESSION_SECRET", "")
	_, err := NewSessions(config.SessionConfig{SecretEnv: "EXPENSA_SESSION_SECRET"})
	require.Error(t, err)
}

func TestSessions_mint_and_parse(t *testing.T) {
	sessions := testSessions(t)

	token, err := sessions.Mint(&model.Session{
		MemberID:       "mem-1",
		FullName:       "Amira Tan",
		OrganizationID: "org-1",
		Role:           model.RoleApprover,
	})
	require.NoError(t, err)

	sess, err := sessions.parse(token)
	require.NoError(t, err)
	assert.Equal(t, "mem-1", sess.MemberID)
	assert.Equal(t, "Amira Tan", sess.FullName)
	assert.Equal(t, "org-1", sess.OrganizationID)
	assert.Equal(t, model.RoleApprover, sess.Role)
}

func TestSessions_expired_token(t *testing.T) {
	sessions := testSessions(t)
	sessions.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }

	token, err := sessions.Mint(&model.Session{MemberID: "mem-1"})
	require.NoError(t, err)

	sessions.now = time.Now
	_, err = sessions.parse(token)
	require.Error(t, err)
	assert.Equal(t, "Token expired", classifyJWTError(err))
}

func TestSessions_wrong_secret(t *testing.T) {
	minting := testSessions(t)
	token, err := minting.Mint(&model.Session{MemberID: "mem-1"})
	require.NoError(t, err)

	t.Setenv("EXPENSA_SESSION_SECRET", "different-secret")
	verifying, err := NewSessions(config.SessionConfig{
		Issuer:    "expensa",
		SecretEnv: "EXPENSA_SESSION_SECRET",
		TTL:       time.Hour,
	})
	require.NoError(t, err)

	_, err = verifying.parse(token)
	require.Error(t, err)
	assert.Equal(t, "Invalid token signature", classifyJWTError(err))
}

func TestAuthenticate_stores_session(t *testing.T) {
	sessions := testSessions(t)
	token, err := sessions.Mint(&model.Session{MemberID: "mem-1", Role: model.RoleSubmitter})
	require.NoError(t, err)

	var got *model.Session
	handler := sessions.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = model.SessionFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ui/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "mem-1", got.MemberID)
}

func TestAuthenticate_missing_header(t *testing.T) {
	sessions := testSessions(t)
	handler := sessions.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/ui/session", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrUnauthorized)
}

func TestAuthenticate_malformed_header(t *testing.T) {
	sessions := testSessions(t)
	handler := sessions.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/ui/session", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_garbage_token(t *testing.T) {
	sessions := testSessions(t)
	handler := sessions.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/ui/session", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
