package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"twinkle/internal/config"
	"twinkle/internal/genai"
	"twinkle/internal/http/handlers"
	"twinkle/internal/repos"
	"twinkle/internal/services"
)

// newAdminApp wires login plus the staff-gated back office.
func newAdminApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}
	deps := handlers.NewDeps(db, config.Config{ContactPhone: "201234567890"}, genai.New("", "test-model"))

	app := fiber.New()
	app.Post("/login", authH.Login)
	app.Post("/logout", authH.Logout)

	api := app.Group("/api/v1")
	api.Post("/cart", deps.CartHandler.Add)
	api.Post("/orders", deps.OrderHandler.Place)

	admin := app.Group("/admin", handlers.RequireStaff(authSvc))
	admin.Post("/products", deps.AdminHandler.SaveProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/logs", deps.AdminHandler.ListAuditLogs)
	return app
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, _ := app.Test(jsonReq("POST", "/login", `{"email":"`+email+`","password":"`+password+`"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: %d", email, resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("login issued no session cookie")
	}
	return sid
}

func asStaff(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}

func TestAdminRequiresStaffSession(t *testing.T) {
	app := newAdminApp(t)

	resp, _ := app.Test(httptest.NewRequest("GET", "/admin/orders", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous admin access: %d", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "not-a-session"})
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unbound session admitted: %d", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newAdminApp(t)

	resp, _ := app.Test(jsonReq("POST", "/login", `{"email":"admin@twinkle.com","password":"wrong"}`))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", resp.StatusCode)
	}
	resp, _ = app.Test(jsonReq("POST", "/login", `{"email":"nobody@twinkle.com","password":"admin"}`))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown account: %d", resp.StatusCode)
	}
}

func TestStaffCanManageCatalog(t *testing.T) {
	app := newAdminApp(t)
	sid := login(t, app, "editor@twinkle.com", "editor")

	body := `{"id":"p900","title":"Oud Nights","description":"Deep oud.","price":1800,"stock":7,"category":"PERFUME","attributes":{"size":"75ml"}}`
	resp, _ := app.Test(asStaff(jsonReq("POST", "/admin/products", body), sid))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save product: %d", resp.StatusCode)
	}

	resp, _ = app.Test(asStaff(jsonReq("POST", "/admin/products", `{"id":"p901","title":"X","price":1,"stock":1,"category":"GADGET"}`), sid))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad category accepted: %d", resp.StatusCode)
	}

	resp, _ = app.Test(asStaff(httptest.NewRequest("DELETE", "/admin/products/p900", nil), sid))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete product: %d", resp.StatusCode)
	}

	// Both writes land in the audit trail.
	resp, _ = app.Test(asStaff(httptest.NewRequest("GET", "/admin/logs", nil), sid))
	logs := decodeBody(t, resp)["logs"].([]any)
	if len(logs) < 2 {
		t.Fatalf("audit trail has %d entries, want >= 2", len(logs))
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	app := newAdminApp(t)

	// A shopper places an order.
	resp, _ := app.Test(jsonReq("POST", "/api/v1/cart", `{"productId":"p001","qty":"1"}`))
	shopper := extractCookie(resp, "sid")
	order := `{"name":"Mona Ali","phone":"+201001234567","address":"12 Nile St, Zamalek","governorate":"Cairo"}`
	req := jsonReq("POST", "/api/v1/orders", order)
	req.AddCookie(&http.Cookie{Name: "sid", Value: shopper})
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: %d", resp.StatusCode)
	}
	oid := decodeBody(t, resp)["order"].(map[string]any)["id"].(string)

	sid := login(t, app, "admin@twinkle.com", "admin")

	// PENDING cannot jump straight to DELIVERED.
	resp, _ = app.Test(asStaff(jsonReq("POST", "/admin/orders/"+oid+"/status", `{"status":"DELIVERED"}`), sid))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("illegal transition answered %d, want 409", resp.StatusCode)
	}

	for _, next := range []string{"CONFIRMED", "SHIPPED", "DELIVERED"} {
		resp, _ = app.Test(asStaff(jsonReq("POST", "/admin/orders/"+oid+"/status", `{"status":"`+next+`"}`), sid))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("transition to %s: %d", next, resp.StatusCode)
		}
	}

	// DELIVERED is terminal.
	resp, _ = app.Test(asStaff(jsonReq("POST", "/admin/orders/"+oid+"/status", `{"status":"CANCELLED"}`), sid))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("terminal order reopened: %d", resp.StatusCode)
	}
}
