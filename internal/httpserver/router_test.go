package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"communityshop/internal/domain"
	cartsvc "communityshop/internal/service/cart"
	donationsvc "communityshop/internal/service/donation"
	ordersvc "communityshop/internal/service/order"
	paymentsvc "communityshop/internal/service/payment"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCatalog struct {
	products []domain.Product
	err      error
}

func (s *stubCatalog) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) Get(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].SKU == sku {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubCart struct {
	line    *domain.CartLine
	cart    *domain.Cart
	err     error
	removed bool
}

func (s *stubCart) Add(_ context.Context, _ string, _ cartsvc.LineInput) (*domain.CartLine, error) {
	return s.line, s.err
}

func (s *stubCart) SetQuantity(_ context.Context, _ string, _ cartsvc.LineInput) (*domain.CartLine, error) {
	return s.line, s.err
}

func (s *stubCart) Remove(_ context.Context, _ string, _ cartsvc.LineInput) error {
	s.removed = true
	return s.err
}

func (s *stubCart) Get(_ context.Context, ownerKey string) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cart != nil {
		return s.cart, nil
	}
	return &domain.Cart{OwnerKey: ownerKey}, nil
}

type stubOrderSvc struct {
	order *domain.Order
	err   error
	owner string
}

func (s *stubOrderSvc) Create(_ context.Context, in ordersvc.CreateInput) (*domain.Order, error) {
	s.owner = in.OwnerID
	return s.order, s.err
}

func (s *stubOrderSvc) Get(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderSvc) ListByOwner(_ context.Context, _ string) ([]domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.order == nil {
		return nil, nil
	}
	return []domain.Order{*s.order}, nil
}

func (s *stubOrderSvc) UpdateStatus(_ context.Context, _ string, status domain.OrderStatus) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: "o1", Status: status}, nil
}

type stubPayment struct {
	order *domain.Order
	err   error
	owner string
}

func (s *stubPayment) VerifySession(_ context.Context, ownerID, _ string) (*domain.Order, error) {
	s.owner = ownerID
	return s.order, s.err
}

func (s *stubPayment) Capture(_ context.Context, ownerID string, _ paymentsvc.CaptureInput) (*domain.Order, error) {
	s.owner = ownerID
	return s.order, s.err
}

type stubDonation struct {
	donation  *domain.Donation
	campaign  *domain.Campaign
	err       error
	deletedID string
}

func (s *stubDonation) Record(_ context.Context, campaignID string, in donationsvc.RecordInput) (*domain.Donation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Donation{ID: "d1", CampaignID: campaignID, AmountCents: in.AmountCents}, nil
}

func (s *stubDonation) Update(_ context.Context, id string, _ donationsvc.UpdateInput) (*domain.Donation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Donation{ID: id}, nil
}

func (s *stubDonation) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.err
}

func (s *stubDonation) ListByCampaign(_ context.Context, _ string) ([]domain.Donation, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.donation == nil {
		return nil, nil
	}
	return []domain.Donation{*s.donation}, nil
}

func (s *stubDonation) GetCampaign(_ context.Context, _ string) (*domain.Campaign, error) {
	return s.campaign, s.err
}

func (s *stubDonation) ListCampaigns(_ context.Context) ([]domain.Campaign, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.campaign == nil {
		return nil, nil
	}
	return []domain.Campaign{*s.campaign}, nil
}

type stubAnonymous struct{}

func (stubAnonymous) Issue(_ context.Context) (string, string, error) {
	return "tok", "anon-1", nil
}

func (stubAnonymous) TTLSeconds() int { return 900 }

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	if deps.AnonymousSvc == nil {
		deps.AnonymousSvc = stubAnonymous{}
	}
	router, err := buildRouter(log.New(io.Discard, "", 0), nil, deps)
	if err != nil {
		t.Fatalf("buildRouter: %v", err)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, owner string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, Deps{})
	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyzWithoutDB(t *testing.T) {
	router := newTestRouter(t, Deps{})
	rec := doJSON(t, router, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a pool, got %d", rec.Code)
	}
}

func TestAnonymousToken(t *testing.T) {
	router := newTestRouter(t, Deps{})
	rec := doJSON(t, router, http.MethodPost, "/anonymous/token", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["token"] != "tok" || body["anonymousId"] != "anon-1" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestOwnedRoutesRequireHeader(t *testing.T) {
	router := newTestRouter(t, Deps{CartSvc: &stubCart{}, OrderSvc: &stubOrderSvc{}})
	for _, path := range []string{"/me/cart", "/me/orders"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s without owner header: expected 401, got %d", path, rec.Code)
		}
	}
	rec := doJSON(t, router, http.MethodPost, "/checkout", "", gin.H{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("checkout without owner header: expected 401, got %d", rec.Code)
	}
}

func TestGetCart(t *testing.T) {
	router := newTestRouter(t, Deps{CartSvc: &stubCart{cart: &domain.Cart{OwnerKey: "u1", TotalCents: 500}}})
	rec := doJSON(t, router, http.MethodGet, "/me/cart", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var cart domain.Cart
	if err := json.Unmarshal(rec.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cart.TotalCents != 500 {
		t.Fatalf("unexpected cart %+v", cart)
	}
}

func TestAddCartLine(t *testing.T) {
	router := newTestRouter(t, Deps{CartSvc: &stubCart{line: &domain.CartLine{ProductID: "p1", Quantity: 2}}})
	rec := doJSON(t, router, http.MethodPost, "/me/cart/lines", "u1", gin.H{"productId": "p1", "quantity": 2})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAddCartLineMissingProduct(t *testing.T) {
	router := newTestRouter(t, Deps{CartSvc: &stubCart{}})
	rec := doJSON(t, router, http.MethodPost, "/me/cart/lines", "u1", gin.H{"quantity": 2})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddCartLineStockExceeded(t *testing.T) {
	router := newTestRouter(t, Deps{CartSvc: &stubCart{err: domain.ErrStockExceeded}})
	rec := doJSON(t, router, http.MethodPost, "/me/cart/lines", "u1", gin.H{"productId": "p1", "quantity": 99})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSetCartLineRemovalReturnsNoContent(t *testing.T) {
	router := newTestRouter(t, Deps{CartSvc: &stubCart{line: nil}})
	rec := doJSON(t, router, http.MethodPatch, "/me/cart/lines", "u1", gin.H{"productId": "p1", "quantity": 0})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestRemoveCartLine(t *testing.T) {
	cart := &stubCart{}
	router := newTestRouter(t, Deps{CartSvc: cart})
	rec := doJSON(t, router, http.MethodDelete, "/me/cart/lines", "u1", gin.H{"productId": "p1"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !cart.removed {
		t.Fatalf("expected Remove to be called")
	}
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t, Deps{CatalogSvc: &stubCatalog{products: []domain.Product{{ID: "p1"}, {ID: "p2"}}}})
	rec := doJSON(t, router, http.MethodGet, "/products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Results []domain.Product `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Results) != 2 {
		t.Fatalf("expected 2 products, got %d", len(body.Results))
	}
}

func TestListProductsBySKU(t *testing.T) {
	router := newTestRouter(t, Deps{CatalogSvc: &stubCatalog{products: []domain.Product{
		{ID: "p1", SKU: "SHIRT-1"},
		{ID: "p2", SKU: "MUG-1"},
	}}})
	rec := doJSON(t, router, http.MethodGet, "/products?sku=MUG-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Results []domain.Product `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].ID != "p2" {
		t.Fatalf("expected single sku match, got %+v", body.Results)
	}
}

func TestListProductsByUnknownSKU(t *testing.T) {
	router := newTestRouter(t, Deps{CatalogSvc: &stubCatalog{}})
	rec := doJSON(t, router, http.MethodGet, "/products?sku=GHOST", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetProductNotFound(t *testing.T) {
	router := newTestRouter(t, Deps{CatalogSvc: &stubCatalog{}})
	rec := doJSON(t, router, http.MethodGet, "/products/ghost", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func validCheckoutBody() gin.H {
	address := gin.H{"streetName": "1 Main St", "city": "Townsville", "country": "US"}
	return gin.H{
		"lines":           []gin.H{{"productId": "p1", "quantity": 2, "unitPriceCents": 1000}},
		"shippingAddress": address,
		"billingAddress":  address,
		"subtotalCents":   2000,
		"shippingCents":   500,
		"taxCents":        100,
		"totalCents":      2600,
	}
}

func TestCheckout(t *testing.T) {
	orders := &stubOrderSvc{order: &domain.Order{ID: "o1", OwnerID: "u1"}}
	router := newTestRouter(t, Deps{OrderSvc: orders})
	rec := doJSON(t, router, http.MethodPost, "/checkout", "u1", validCheckoutBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if orders.owner != "u1" {
		t.Fatalf("expected owner from header, got %q", orders.owner)
	}
}

func TestCheckoutTotalsMismatchRejected(t *testing.T) {
	router := newTestRouter(t, Deps{OrderSvc: &stubOrderSvc{}})
	body := validCheckoutBody()
	body["totalCents"] = 9999
	rec := doJSON(t, router, http.MethodPost, "/checkout", "u1", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inconsistent totals, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutStockExceeded(t *testing.T) {
	router := newTestRouter(t, Deps{OrderSvc: &stubOrderSvc{err: domain.ErrStockExceeded}})
	rec := doJSON(t, router, http.MethodPost, "/checkout", "u1", validCheckoutBody())
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestVerifySession(t *testing.T) {
	payment := &stubPayment{order: &domain.Order{ID: "o1", PaymentReference: "cap-1"}}
	router := newTestRouter(t, Deps{PaymentSvc: payment})
	rec := doJSON(t, router, http.MethodPost, "/checkout/card/verify", "u1", gin.H{"sessionRef": "cs-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if payment.owner != "u1" {
		t.Fatalf("expected owner from header, got %q", payment.owner)
	}
}

func TestVerifySessionIncomplete(t *testing.T) {
	router := newTestRouter(t, Deps{PaymentSvc: &stubPayment{err: domain.ErrPaymentIncomplete}})
	rec := doJSON(t, router, http.MethodPost, "/checkout/card/verify", "u1", gin.H{"sessionRef": "cs-1"})
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", rec.Code)
	}
}

func TestVerifySessionForeignSession(t *testing.T) {
	router := newTestRouter(t, Deps{PaymentSvc: &stubPayment{err: domain.ErrForbidden}})
	rec := doJSON(t, router, http.MethodPost, "/checkout/card/verify", "u1", gin.H{"sessionRef": "cs-1"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestCapture(t *testing.T) {
	router := newTestRouter(t, Deps{PaymentSvc: &stubPayment{order: &domain.Order{ID: "o1"}}})
	address := gin.H{"streetName": "1 Main St", "city": "Townsville", "country": "US"}
	rec := doJSON(t, router, http.MethodPost, "/checkout/altpay/capture", "u1", gin.H{
		"processorOrderId": "ap-9",
		"lines":            []gin.H{{"productId": "p1", "quantity": 1}},
		"shippingAddress":  address,
		"billingAddress":   address,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCaptureMissingProcessorOrderID(t *testing.T) {
	router := newTestRouter(t, Deps{PaymentSvc: &stubPayment{}})
	rec := doJSON(t, router, http.MethodPost, "/checkout/altpay/capture", "u1", gin.H{
		"lines": []gin.H{{"productId": "p1", "quantity": 1}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListOrders(t *testing.T) {
	router := newTestRouter(t, Deps{OrderSvc: &stubOrderSvc{order: &domain.Order{ID: "o1", OwnerID: "u1"}}})
	rec := doJSON(t, router, http.MethodGet, "/me/orders", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	router := newTestRouter(t, Deps{OrderSvc: &stubOrderSvc{err: domain.ErrNotFound}})
	rec := doJSON(t, router, http.MethodGet, "/me/orders/ghost", "u1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRecordDonation(t *testing.T) {
	router := newTestRouter(t, Deps{DonationSvc: &stubDonation{}})
	rec := doJSON(t, router, http.MethodPost, "/campaigns/c1/donations", "", gin.H{"amountCents": 5000})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateDonation(t *testing.T) {
	router := newTestRouter(t, Deps{DonationSvc: &stubDonation{}})
	rec := doJSON(t, router, http.MethodPatch, "/admin/donations/d1", "", gin.H{"amountCents": 3000})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteDonation(t *testing.T) {
	donations := &stubDonation{}
	router := newTestRouter(t, Deps{DonationSvc: donations})
	rec := doJSON(t, router, http.MethodDelete, "/admin/donations/d1", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if donations.deletedID != "d1" {
		t.Fatalf("expected delete of d1, got %q", donations.deletedID)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	router := newTestRouter(t, Deps{OrderSvc: &stubOrderSvc{}})
	rec := doJSON(t, router, http.MethodPatch, "/admin/orders/o1/status", "", gin.H{"status": "SHIPPED"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ord domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &ord); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ord.Status != domain.OrderStatusShipped {
		t.Fatalf("expected SHIPPED, got %s", ord.Status)
	}
}
