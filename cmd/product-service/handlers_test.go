package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/cardstore/internal/auth"
	"github.com/MikeMC777/cardstore/internal/inventory"
	"github.com/MikeMC777/cardstore/internal/order"
	"github.com/MikeMC777/cardstore/internal/validation"
)

//
// ===== FAKES =====
//

type fakeAuth map[string]auth.Principal

func (f fakeAuth) Authenticate(_ context.Context, email, password string) (auth.Principal, error) {
	p, ok := f[email]
	if !ok || password != "pw" {
		return auth.Principal{}, auth.ErrBadCredentials
	}
	return p, nil
}

func seed() *inventory.MemStore {
	cond := "NM"
	return inventory.NewMemStore(
		inventory.Listing{ID: 1, Name: "Blue-Eyes White Dragon", Version: "LOB-001", Condition: &cond, Price: decimal.RequireFromString("29.99"), Quantity: 5},
		inventory.Listing{ID: 2, Name: "Dark Magician", Version: "LOB-005", Price: decimal.RequireFromString("12.50"), Quantity: 3},
		inventory.Listing{ID: 3, Name: "Booster Box", Version: "MRD", Price: decimal.RequireFromString("120.00"), Quantity: 1},
	)
}

func newRouter(repo inventory.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	users := fakeAuth{
		"admin@example.com": {UserID: 9, Roles: []auth.Role{auth.RoleAdmin}},
		"yugi@example.com":  {UserID: 1, Roles: []auth.Role{auth.RoleCustomer}},
	}
	r := gin.New()
	r.GET("/listings", listListingsHandler(repo, logger))
	r.GET("/listings/:id", getListingHandler(repo, logger))
	r.PUT("/listings/:id/price",
		auth.BasicAuth(users, logger),
		auth.RequireRole(auth.RoleAdmin),
		updatePriceHandler(repo, validation.New(), logger),
	)
	return r
}

func doReq(r *gin.Engine, method, path, email, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.SetBasicAuth(email, "pw")
	}
	r.ServeHTTP(w, req)
	return w
}

//
// ===== TESTS =====
//

func TestListListings_SearchAndPaging(t *testing.T) {
	t.Parallel()
	r := newRouter(seed())

	w := doReq(r, http.MethodGet, "/listings?q=dark&limit=10", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp inventory.ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Q != "dark" || resp.Limit != 10 || len(resp.Items) != 1 || resp.Items[0].ID != 2 {
		t.Fatalf("resp=%+v", resp)
	}

	w = doReq(r, http.MethodGet, "/listings?limit=2&offset=2", "", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Items) != 1 || resp.Offset != 2 {
		t.Fatalf("page=%+v", resp)
	}
}

func TestGetListing(t *testing.T) {
	t.Parallel()
	r := newRouter(seed())

	w := doReq(r, http.MethodGet, "/listings/1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var l inventory.Listing
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if l.Quantity != 5 || l.Condition == nil || *l.Condition != "NM" {
		t.Fatalf("listing=%+v", l)
	}

	if w := doReq(r, http.MethodGet, "/listings/404", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing listing status=%d (want 404)", w.Code)
	}
	if w := doReq(r, http.MethodGet, "/listings/x", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status=%d (want 400)", w.Code)
	}
}

func TestUpdatePrice_AdminOnly(t *testing.T) {
	t.Parallel()
	r := newRouter(seed())

	if w := doReq(r, http.MethodPut, "/listings/1/price", "", `{"price":"31.50"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status=%d (want 401)", w.Code)
	}
	if w := doReq(r, http.MethodPut, "/listings/1/price", "yugi@example.com", `{"price":"31.50"}`); w.Code != http.StatusForbidden {
		t.Fatalf("customer status=%d (want 403)", w.Code)
	}

	w := doReq(r, http.MethodPut, "/listings/1/price", "admin@example.com", `{"price":"31.50"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("admin status=%d body=%s", w.Code, w.Body.String())
	}
	var l inventory.Listing
	if err := json.Unmarshal(w.Body.Bytes(), &l); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !l.Price.Equal(decimal.RequireFromString("31.50")) {
		t.Fatalf("price=%s", l.Price)
	}
}

func TestUpdatePrice_Invalid(t *testing.T) {
	t.Parallel()
	r := newRouter(seed())

	for _, body := range []string{`{"price":"-1"}`, `{"price":"abc"}`, `{}`, `{"price":`} {
		if w := doReq(r, http.MethodPut, "/listings/1/price", "admin@example.com", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status=%d (want 400)", body, w.Code)
		}
	}
	if w := doReq(r, http.MethodPut, "/listings/77/price", "admin@example.com", `{"price":"1.00"}`); w.Code != http.StatusNotFound {
		t.Fatalf("missing listing status=%d (want 404)", w.Code)
	}
}

// A price change after checkout leaves the order's unit price untouched.
func TestUpdatePrice_DoesNotTouchPlacedOrders(t *testing.T) {
	t.Parallel()
	inv := seed()
	r := newRouter(inv)
	svc := order.NewService(order.NewMemStore(inv), zap.NewNop())
	buyer := auth.Principal{UserID: 1, Roles: []auth.Role{auth.RoleCustomer}}
	addr := order.AddressInput{Street: "s", Number: "1", Neighborhood: "n", City: "c", State: "st", Country: "co", ZipCode: "z"}

	o, err := svc.CreateOrder(context.Background(), buyer, order.CreateOrderRequest{
		Items:           []order.CreateOrderItem{{ListingID: 1, Quantity: 2}},
		BillingAddress:  addr,
		DeliveryAddress: addr,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if w := doReq(r, http.MethodPut, "/listings/1/price", "admin@example.com", `{"price":"99.00"}`); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	got, err := svc.GetOrder(context.Background(), buyer, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("29.99")) || !got.Total.Equal(decimal.RequireFromString("59.98")) {
		t.Fatalf("line price=%s total=%s", got.Lines[0].UnitPrice, got.Total)
	}
}
