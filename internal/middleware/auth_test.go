package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-graph/internal/domain"
)

type stubValidator struct {
	claims *TokenClaims
	err    error
}

func (v *stubValidator) Validate(_ context.Context, _ string) (*TokenClaims, error) {
	return v.claims, v.err
}

// stubUsers resolves accounts by id and email from fixed maps.
type stubUsers struct {
	byID    map[int64]*domain.User
	byEmail map[string]*domain.User
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("user %d not found", id)
	}
	return u, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound("user %s not found", email)
	}
	return u, nil
}

func (s *stubUsers) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	panic("not used")
}
func (s *stubUsers) List(_ context.Context) ([]domain.User, error)          { panic("not used") }
func (s *stubUsers) Update(_ context.Context, _ *domain.User) (*domain.User, error) {
	panic("not used")
}
func (s *stubUsers) SetActive(_ context.Context, _ int64, _ bool) error { panic("not used") }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedRequest(t *testing.T, mw func(http.Handler) http.Handler, header string) (*httptest.ResponseRecorder, *domain.Principal) {
	t.Helper()

	var got *domain.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFromContext(r.Context()); ok {
			got = &p
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec, got
}

func TestAuth_ResolvesBySubject(t *testing.T) {
	sam := &domain.User{ID: 7, Email: "sam@example.com", Name: "Sam", Role: domain.RoleSupplier, Active: true}
	users := &stubUsers{byID: map[int64]*domain.User{7: sam}}
	mw := Auth(&stubValidator{claims: &TokenClaims{Subject: "7"}}, users, testLogger())

	rec, p := authedRequest(t, mw, "Bearer whatever")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, p)
	assert.Equal(t, "7", p.ID)
	assert.Equal(t, domain.RoleSupplier, p.Role)
}

func TestAuth_ResolvesByEmail(t *testing.T) {
	sam := &domain.User{ID: 7, Email: "sam@example.com", Name: "Sam", Role: domain.RoleAdmin, Active: true}
	users := &stubUsers{byEmail: map[string]*domain.User{"sam@example.com": sam}}
	// External IdP subjects are opaque, not numeric account ids.
	mw := Auth(&stubValidator{claims: &TokenClaims{Subject: "auth0|abc", Email: "sam@example.com"}}, users, testLogger())

	rec, p := authedRequest(t, mw, "Bearer whatever")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, p)
	assert.True(t, p.IsAdmin())
}

func TestAuth_MissingHeader(t *testing.T) {
	mw := Auth(&stubValidator{claims: &TokenClaims{Subject: "7"}}, &stubUsers{}, testLogger())

	rec, p := authedRequest(t, mw, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, p)
}

func TestAuth_InvalidToken(t *testing.T) {
	mw := Auth(&stubValidator{err: context.DeadlineExceeded}, &stubUsers{}, testLogger())

	rec, _ := authedRequest(t, mw, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_UnknownAccount(t *testing.T) {
	mw := Auth(&stubValidator{claims: &TokenClaims{Subject: "42"}}, &stubUsers{byID: map[int64]*domain.User{}}, testLogger())

	rec, _ := authedRequest(t, mw, "Bearer whatever")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_DeactivatedAccount(t *testing.T) {
	sam := &domain.User{ID: 7, Email: "sam@example.com", Active: false}
	users := &stubUsers{byID: map[int64]*domain.User{7: sam}}
	mw := Auth(&stubValidator{claims: &TokenClaims{Subject: "7"}}, users, testLogger())

	rec, p := authedRequest(t, mw, "Bearer whatever")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, p)
}

func TestAuth_EndToEndHS256(t *testing.T) {
	validator, err := NewHS256Validator("test-secret")
	require.NoError(t, err)

	sam := &domain.User{ID: 7, Email: "sam@example.com", Name: "Sam", Role: domain.RoleSupplier, Active: true}
	users := &stubUsers{byID: map[int64]*domain.User{7: sam}}
	mw := Auth(validator, users, testLogger())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	rec, p := authedRequest(t, mw, "Bearer "+signed)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, p)
	assert.Equal(t, "Sam", p.Name)
}
