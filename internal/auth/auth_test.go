package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeAuth map[string]Principal

func (f fakeAuth) Authenticate(_ context.Context, email, password string) (Principal, error) {
	p, ok := f[email+":"+password]
	if !ok {
		return Principal{}, ErrBadCredentials
	}
	return p, nil
}

func newRouter() *gin.Engine {
	r := gin.New()
	users := fakeAuth{
		"ana@example.com:pw":   {UserID: 1, Roles: []Role{RoleCustomer}},
		"admin@example.com:pw": {UserID: 2, Roles: []Role{RoleAdmin}},
	}
	r.Use(BasicAuth(users, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) {
		p, _ := FromGin(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID})
	})
	r.GET("/admin", RequireRole(RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r http.Handler, path, user, pass string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != "" {
		req.SetBasicAuth(user, pass)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestBasicAuth(t *testing.T) {
	r := newRouter()
	if got := do(r, "/me", "", ""); got != http.StatusUnauthorized {
		t.Fatalf("no creds: %d", got)
	}
	if got := do(r, "/me", "ana@example.com", "nope"); got != http.StatusUnauthorized {
		t.Fatalf("bad creds: %d", got)
	}
	if got := do(r, "/me", "ana@example.com", "pw"); got != http.StatusOK {
		t.Fatalf("good creds: %d", got)
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter()
	if got := do(r, "/admin", "ana@example.com", "pw"); got != http.StatusForbidden {
		t.Fatalf("customer on admin route: %d", got)
	}
	if got := do(r, "/admin", "admin@example.com", "pw"); got != http.StatusNoContent {
		t.Fatalf("admin on admin route: %d", got)
	}
}

func TestPolicy(t *testing.T) {
	cust := Principal{UserID: 7, Roles: []Role{RoleCustomer}}
	admin := Principal{UserID: 8, Roles: []Role{RoleAdmin, RoleCustomer}}

	if !IsSelf(cust, 7) || IsSelf(cust, 8) || IsSelf(Principal{}, 0) {
		t.Fatal("IsSelf")
	}
	if !IsSelfOrAdmin(admin, 7) || IsSelfOrAdmin(cust, 8) {
		t.Fatal("IsSelfOrAdmin")
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
}
