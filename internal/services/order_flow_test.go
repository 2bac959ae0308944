package services_test

import (
	"errors"
	"strings"
	"testing"

	"twinkle/internal/domain"
	"twinkle/internal/repos"
	"twinkle/internal/services"
)

var staff = &domain.User{ID: "u1", Name: "Owner", Role: "OWNER"}

func ship() services.ShippingDetails {
	return services.ShippingDetails{
		Name: "Tester", Phone: "+201001234567",
		Address: "12 Nile St, Zamalek", Governorate: "Cairo",
	}
}

func TestPlaceOrderTotalsAndShipping(t *testing.T) {
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, repos.NewOrderRepo(db), repos.NewAuditRepo(db))

	sid := "sess-order"
	if err := cartSvc.Add(sid, "p001", 2); err != nil { // subtotal 2500 > 1500
		t.Fatal(err)
	}

	o, items, err := orderSvc.Place(sid, ship())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(o.ID, "ORD-") {
		t.Fatalf("unexpected order id %q", o.ID)
	}
	if o.Shipping != 0 {
		t.Fatalf("shipping should be waived above threshold, got %d", o.Shipping)
	}
	if o.Total != o.Subtotal+o.Shipping {
		t.Fatalf("total %d != subtotal %d + shipping %d", o.Total, o.Subtotal, o.Shipping)
	}
	if len(items) != 1 || items[0].Qty != 2 {
		t.Fatalf("bad snapshot items: %+v", items)
	}
	if o.Status != domain.StatusPending {
		t.Fatalf("new order must be PENDING, got %s", o.Status)
	}
	if o.CreatedAt == "" {
		t.Fatal("placed order must carry its creation time")
	}

	// cart cleared after checkout
	cv, _ := cartSvc.View(sid)
	if len(cv.Items) != 0 {
		t.Fatalf("cart should be empty after checkout, got %+v", cv.Items)
	}
}

// The free-shipping condition is strict: exactly 1500 still pays the fee.
func TestShippingBoundaryExactThreshold(t *testing.T) {
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, repos.NewOrderRepo(db), repos.NewAuditRepo(db))

	db.MustExec(`INSERT INTO products(id,title,description,price,stock,category,created_at) VALUES('x1','Exact','Boundary case',1500,5,'PERFUME','2024-01-04')`)

	sid := "sess-boundary"
	if err := cartSvc.Add(sid, "x1", 1); err != nil { // subtotal exactly 1500
		t.Fatal(err)
	}

	o, _, err := orderSvc.Place(sid, ship())
	if err != nil {
		t.Fatal(err)
	}
	if o.Shipping != services.ShippingFee {
		t.Fatalf("subtotal 1500 must still pay shipping %d, got %d", services.ShippingFee, o.Shipping)
	}
	if o.Total != 1550 {
		t.Fatalf("want total 1550, got %d", o.Total)
	}
}

func TestStockDecrementFlooredAtZero(t *testing.T) {
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, repos.NewOrderRepo(db), repos.NewAuditRepo(db))

	sid := "sess-floor"
	if err := cartSvc.Add(sid, "a001", 10); err != nil { // stock is 3
		t.Fatal(err)
	}

	if _, _, err := orderSvc.Place(sid, ship()); err != nil {
		t.Fatal(err)
	}

	p, err := prodRepo.Get("a001")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 0 {
		t.Fatalf("stock must floor at 0, got %d", p.Stock)
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, repos.NewOrderRepo(db), repos.NewAuditRepo(db))

	if _, _, err := orderSvc.Place("sess-empty", ship()); err == nil {
		t.Fatal("placing an order from an empty cart must fail")
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderRepo := repos.NewOrderRepo(db)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, repos.NewAuditRepo(db))

	sid := "sess-status"
	if err := cartSvc.Add(sid, "p001", 1); err != nil {
		t.Fatal(err)
	}
	o, _, err := orderSvc.Place(sid, ship())
	if err != nil {
		t.Fatal(err)
	}

	// forward chain
	for _, next := range []domain.OrderStatus{domain.StatusConfirmed, domain.StatusShipped, domain.StatusDelivered} {
		if err := orderSvc.UpdateStatus(o.ID, next, staff); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	// DELIVERED is terminal
	if err := orderSvc.UpdateStatus(o.ID, domain.StatusCancelled, staff); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("DELIVERED->CANCELLED must be rejected, got %v", err)
	}
	if err := orderSvc.UpdateStatus(o.ID, domain.StatusShipped, staff); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("DELIVERED->SHIPPED must be rejected, got %v", err)
	}

	got, _ := orderRepo.Status(o.ID)
	if got != domain.StatusDelivered {
		t.Fatalf("rejected transition must not mutate status, got %s", got)
	}
}

func TestCancelFromPending(t *testing.T) {
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderRepo := repos.NewOrderRepo(db)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, repos.NewAuditRepo(db))

	sid := "sess-cancel"
	if err := cartSvc.Add(sid, "p001", 1); err != nil {
		t.Fatal(err)
	}
	o, _, _ := orderSvc.Place(sid, ship())

	if err := orderSvc.UpdateStatus(o.ID, domain.StatusCancelled, staff); err != nil {
		t.Fatalf("PENDING->CANCELLED should succeed: %v", err)
	}
	if err := orderSvc.UpdateStatus(o.ID, domain.StatusConfirmed, staff); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("CANCELLED is terminal, got %v", err)
	}
}

// Snapshot lines come back in the order they were added to the cart, not
// alphabetically.
func TestOrderItemsKeepSubmissionOrder(t *testing.T) {
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderRepo := repos.NewOrderRepo(db)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, repos.NewAuditRepo(db))

	sid := "sess-itemorder"
	// "Twinkle Signature Gold" first, then "Black Night" — title order would flip them
	if err := cartSvc.Add(sid, "p001", 1); err != nil {
		t.Fatal(err)
	}
	if err := cartSvc.Add(sid, "p002", 1); err != nil {
		t.Fatal(err)
	}

	o, _, err := orderSvc.Place(sid, ship())
	if err != nil {
		t.Fatal(err)
	}

	_, items, err := orderRepo.Get(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ProductID != "p001" || items[1].ProductID != "p002" {
		t.Fatalf("want [p001 p002], got %+v", items)
	}
}
