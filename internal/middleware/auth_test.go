package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/creerlio/talentbank/internal/ctxkeys"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// whoami echoes the resolved caller
var whoami = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(ctxkeys.UserID(r.Context())))
})

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/talent-bank/items", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBearerAuth_ValidToken(t *testing.T) {
	token, err := NewToken(testSecret, "authenticated", "u1", time.Hour)
	require.NoError(t, err)

	rec := serve(BearerAuth(testSecret, "authenticated")(whoami), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestBearerAuth_RejectedTokensStayAnonymous(t *testing.T) {
	expired, err := NewToken(testSecret, "authenticated", "u1", -time.Minute)
	require.NoError(t, err)
	wrongSecret, err := NewToken("other-secret", "authenticated", "u1", time.Hour)
	require.NoError(t, err)
	wrongAudience, err := NewToken(testSecret, "service_role", "u1", time.Hour)
	require.NoError(t, err)
	noSubject, err := NewToken(testSecret, "authenticated", "", time.Hour)
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "u1",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	wrongAlg, err := hs512.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"none", ""},
		{"not bearer", "Basic dTE6cGFzcw=="},
		{"garbage", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + wrongSecret},
		{"wrong audience", "Bearer " + wrongAudience},
		{"no subject", "Bearer " + noSubject},
		{"wrong alg", "Bearer " + wrongAlg},
	}

	h := BearerAuth(testSecret, "authenticated")(whoami)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.header)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Body.String())
		})
	}
}

func TestRequireAuth(t *testing.T) {
	h := BearerAuth(testSecret, "")(RequireAuth(whoami))

	rec := serve(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Not authenticated"}`, rec.Body.String())

	token, err := NewToken(testSecret, "", "u2", time.Hour)
	require.NoError(t, err)
	rec = serve(h, "bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u2", rec.Body.String())
}

func TestNewToken_RequiresSecret(t *testing.T) {
	_, err := NewToken("", "", "u1", time.Hour)
	assert.Error(t, err)
}
