package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/megumiii12/athlete/internal/models"
	"github.com/megumiii12/athlete/internal/service"
)

type fakeResolver struct {
	valid map[string]models.PublicUser
	err   error
}

func (f fakeResolver) ResolveToken(_ context.Context, token string) (models.PublicUser, error) {
	if f.err != nil {
		return models.PublicUser{}, f.err
	}
	user, ok := f.valid[token]
	if !ok {
		return models.PublicUser{}, service.ErrInvalidCredentials
	}
	return user, nil
}

const cookieName = "athlete_session"

func newAuthRouter(resolver TokenResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", SessionAuth(cookieName, resolver), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, user)
	})
	return r
}

func TestSessionAuthMissingToken(t *testing.T) {
	r := newAuthRouter(fakeResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if body := w.Body.String(); body != `{"error":"missing_token"}` {
		t.Fatalf("body = %s", body)
	}
}

func TestSessionAuthBearerToken(t *testing.T) {
	resolver := fakeResolver{valid: map[string]models.PublicUser{
		"good": {ID: 7, Username: "runner"},
	}}
	r := newAuthRouter(resolver)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestSessionAuthCookieWinsOverHeader(t *testing.T) {
	resolver := fakeResolver{valid: map[string]models.PublicUser{
		"good": {ID: 7, Username: "runner"},
	}}
	r := newAuthRouter(resolver)

	// A bad cookie must not fall through to a good header token: the
	// cookie is the single source once present.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "bad"})
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if body := w.Body.String(); body != `{"error":"invalid_token"}` {
		t.Fatalf("body = %s", body)
	}

	// And a good cookie authenticates regardless of the header.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "good"})
	req.Header.Set("Authorization", "Bearer bad")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestSessionAuthStoreFailure(t *testing.T) {
	r := newAuthRouter(fakeResolver{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer anything")
	r.ServeHTTP(w, req)

	// Store unavailability is a service failure, not an auth failure,
	// and leaks no detail.
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := w.Body.String(); body != `{"error":"internal_error"}` {
		t.Fatalf("body = %s", body)
	}
}
