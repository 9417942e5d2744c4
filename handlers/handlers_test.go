package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yourrest-api/events"
	"yourrest-api/handlers"
	"yourrest-api/middleware"
	"yourrest-api/payment"
	"yourrest-api/repository/sqlstore"
	"yourrest-api/routes"
	"yourrest-api/services"
)

type stubGateway struct{ fail bool }

func (g *stubGateway) CreateOrder(_ context.Context, amount int64, currency string) (*payment.Order, error) {
	if g.fail {
		return nil, payment.ErrGateway
	}
	return &payment.Order{ID: "order_test", Amount: amount, Currency: currency}, nil
}

func (g *stubGateway) VerifySignature(c payment.Confirmation) error {
	if payment.Sign("secret", c.OrderID, c.PaymentID) != c.Signature {
		return payment.ErrBadSignature
	}
	return nil
}

func (g *stubGateway) KeyID() string { return "rzp_test" }

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, file io.Reader, filename, preset string) (string, error) {
	_, _ = io.Copy(io.Discard, file)
	return "https://img.example.com/" + preset + "/" + filename, nil
}

type testServer struct {
	router  *gin.Engine
	gateway *stubGateway
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	store := sqlstore.New(db)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	gateway := &stubGateway{}
	tokens := services.NewTokenManager([]byte("test"), time.Hour)
	h := &handlers.Handler{
		Auth:     services.NewAuthService(store.Users, tokens, services.LogMailer{}, "admin@yourrest.test", "http://localhost"),
		Ordering: services.NewOrderingService(store, gateway, events.NoopPublisher{}, "INR"),
		Catalog:  services.NewCatalogService(store.Menu, stubUploader{}, "MenuImages"),
		Profiles: services.NewProfileService(store.Users, stubUploader{}, "profilePicture"),
		Contact:  services.NewContactService(""),
		Gateway:  gateway,
		Currency: "INR",
		Store:    store,
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	routes.SetupRoutes(r, h, "")
	return &testServer{router: r, gateway: gateway}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	return s.serve(t, req, token)
}

func (s *testServer) multipart(t *testing.T, method, path, token string, fields map[string]string, fileField, filename string) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("image-bytes"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.serve(t, req, token)
}

func (s *testServer) serve(t *testing.T, req *http.Request, token string) (int, map[string]any) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	code, body := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"displayName": "Tester", "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code, body)
	return body["token"].(string)
}

func notification(body map[string]any) (string, string) {
	n, _ := body["notification"].(map[string]any)
	level, _ := n["level"].(string)
	msg, _ := n["message"].(string)
	return level, msg
}

func (s *testServer) addMenuItem(t *testing.T, adminToken string) string {
	t.Helper()
	code, body := s.multipart(t, http.MethodPost, "/api/admin/menu", adminToken,
		map[string]string{"name": "Paneer Tikka", "price": "250"}, "image", "pt.png")
	require.Equal(t, http.StatusCreated, code, body)
	return body["item"].(map[string]any)["id"].(string)
}

func TestOrderFlow(t *testing.T) {
	s := newServer(t)
	admin := s.register(t, "admin@yourrest.test")
	user := s.register(t, "asha@example.com")

	code, _ := s.multipart(t, http.MethodPost, "/api/admin/menu", user, map[string]string{"name": "X", "price": "1"}, "image", "x.png")
	assert.Equal(t, http.StatusForbidden, code)

	itemID := s.addMenuItem(t, admin)

	code, body := s.do(t, http.MethodGet, "/api/menu?q=paneer", user, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	intake := map[string]string{"menuItemId": itemID, "name": "Asha", "phone": "98765", "address": "12 MG Road", "paymentMethod": "COD"}
	code, body = s.do(t, http.MethodPost, "/api/orders", user, intake)
	require.Equal(t, http.StatusCreated, code, body)
	level, msg := notification(body)
	assert.Equal(t, "success", level)
	assert.Equal(t, "Order placed successfully!", msg)
	order := body["order"].(map[string]any)
	assert.Equal(t, "Paneer Tikka", order["item"])
	assert.Equal(t, float64(250), order["price"])
	assert.Equal(t, "Pending", order["status"])
	orderID := order["id"].(string)

	code, body = s.do(t, http.MethodGet, "/api/orders", user, nil)
	require.Equal(t, http.StatusOK, code)
	orders := body["orders"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, []any{"Cancelled"}, orders[0].(map[string]any)["actions"])
	assert.Equal(t, "In Progress", s.adminNext(t, admin, orderID))

	code, body = s.do(t, http.MethodPut, "/api/admin/orders/"+orderID+"/advance", admin, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "In Progress", body["order"].(map[string]any)["status"])
	assert.Equal(t, "Delivered", s.adminNext(t, admin, orderID))

	code, body = s.do(t, http.MethodPut, "/api/admin/orders/"+orderID+"/advance", admin, map[string]int{"version": 1})
	assert.Equal(t, http.StatusConflict, code, body)

	code, _ = s.do(t, http.MethodPut, "/api/orders/"+orderID+"/cancel", user, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, s.adminNext(t, admin, orderID))

	_, body = s.do(t, http.MethodGet, "/api/orders", user, nil)
	actions, present := body["orders"].([]any)[0].(map[string]any)["actions"]
	assert.True(t, present)
	assert.Equal(t, []any{}, actions)

	code, body = s.do(t, http.MethodPut, "/api/admin/orders/"+orderID+"/advance", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	_, msg = notification(body)
	assert.Equal(t, "Error updating order status!", msg)

	code, body = s.do(t, http.MethodGet, "/api/admin/orders?sort=cancelled", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(1), body["order_summary"].(map[string]any)["Cancelled"])

	code, body = s.do(t, http.MethodGet, "/api/orders/"+orderID+"/history", user, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["count"])
}

// adminNext returns the "next" field of orderID in the admin list, or nil when absent.
func (s *testServer) adminNext(t *testing.T, adminToken, orderID string) any {
	t.Helper()
	code, body := s.do(t, http.MethodGet, "/api/admin/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	for _, o := range body["orders"].([]any) {
		view := o.(map[string]any)
		if view["id"] == orderID {
			return view["next"]
		}
	}
	t.Fatalf("order %s not in admin list", orderID)
	return nil
}

func TestAdminNextForDeliveredOrder(t *testing.T) {
	s := newServer(t)
	admin := s.register(t, "admin@yourrest.test")
	itemID := s.addMenuItem(t, admin)

	intake := map[string]string{"menuItemId": itemID, "name": "Asha", "phone": "98765", "address": "12 MG Road", "paymentMethod": "COD"}
	_, body := s.do(t, http.MethodPost, "/api/orders", admin, intake)
	orderID := body["order"].(map[string]any)["id"].(string)

	for range 2 {
		code, _ := s.do(t, http.MethodPut, "/api/admin/orders/"+orderID+"/advance", admin, nil)
		require.Equal(t, http.StatusOK, code)
	}
	assert.Nil(t, s.adminNext(t, admin, orderID))

	_, body = s.do(t, http.MethodGet, "/api/orders", admin, nil)
	assert.Equal(t, []any{}, body["orders"].([]any)[0].(map[string]any)["actions"])
}

func TestPlaceOrder_IncompleteIntake(t *testing.T) {
	s := newServer(t)
	admin := s.register(t, "admin@yourrest.test")
	itemID := s.addMenuItem(t, admin)

	code, body := s.do(t, http.MethodPost, "/api/orders", admin, map[string]string{"menuItemId": itemID, "name": "A", "phone": "1", "address": " "})
	assert.Equal(t, http.StatusBadRequest, code)
	level, msg := notification(body)
	assert.Equal(t, "error", level)
	assert.Equal(t, "Please fill all the details!", msg)

	_, body = s.do(t, http.MethodGet, "/api/orders", admin, nil)
	assert.Equal(t, float64(0), body["count"])
}

func TestOnlineCheckoutDismissed(t *testing.T) {
	s := newServer(t)
	admin := s.register(t, "admin@yourrest.test")
	user := s.register(t, "asha@example.com")
	itemID := s.addMenuItem(t, admin)

	intake := map[string]string{"menuItemId": itemID, "name": "Asha", "phone": "98765", "address": "12 MG Road", "paymentMethod": "OnlinePayment"}
	code, body := s.do(t, http.MethodPost, "/api/orders", user, intake)
	require.Equal(t, http.StatusAccepted, code, body)
	checkout := body["checkout"].(map[string]any)
	assert.Equal(t, float64(25000), checkout["amount"])
	checkoutID := checkout["checkoutId"].(string)

	code, body = s.do(t, http.MethodPost, "/api/checkouts/"+checkoutID+"/cancel", user, nil)
	require.Equal(t, http.StatusOK, code)
	level, msg := notification(body)
	assert.Equal(t, "info", level)
	assert.Equal(t, "Payment was canceled.", msg)

	_, body = s.do(t, http.MethodGet, "/api/orders", user, nil)
	assert.Equal(t, float64(0), body["count"])
}

func TestOnlineCheckoutCompleted(t *testing.T) {
	s := newServer(t)
	admin := s.register(t, "admin@yourrest.test")
	user := s.register(t, "asha@example.com")
	itemID := s.addMenuItem(t, admin)

	intake := map[string]string{"menuItemId": itemID, "name": "Asha", "phone": "98765", "address": "12 MG Road", "paymentMethod": "OnlinePayment"}
	_, body := s.do(t, http.MethodPost, "/api/orders", user, intake)
	checkoutID := body["checkout"].(map[string]any)["checkoutId"].(string)

	conf := map[string]string{
		"razorpay_order_id":   "order_test",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  payment.Sign("secret", "order_test", "pay_1"),
	}
	code, body := s.do(t, http.MethodPost, "/api/checkouts/"+checkoutID+"/complete", user, conf)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "OnlinePayment", body["order"].(map[string]any)["paymentMethod"])

	code, _ = s.do(t, http.MethodPost, "/api/checkouts/"+checkoutID+"/complete", user, conf)
	assert.Equal(t, http.StatusConflict, code)
}

func TestOnlinePayment_GatewayDown(t *testing.T) {
	s := newServer(t)
	admin := s.register(t, "admin@yourrest.test")
	itemID := s.addMenuItem(t, admin)
	s.gateway.fail = true

	intake := map[string]string{"menuItemId": itemID, "name": "Asha", "phone": "98765", "address": "12 MG Road", "paymentMethod": "OnlinePayment"}
	code, body := s.do(t, http.MethodPost, "/api/orders", admin, intake)
	assert.Equal(t, http.StatusBadGateway, code)
	_, msg := notification(body)
	assert.Equal(t, "Failed to initiate payment!", msg)
}

func TestPaymentEndpoint(t *testing.T) {
	s := newServer(t)
	user := s.register(t, "asha@example.com")

	code, body := s.do(t, http.MethodPost, "/payment", user, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Amount is required", body["error"])

	code, body = s.do(t, http.MethodPost, "/payment", user, map[string]any{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Amount is required", body["error"])

	code, body = s.do(t, http.MethodPost, "/payment", user, map[string]any{"amount": 50000})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"id": "order_test", "currency": "INR", "amount": float64(50000)}, body)

	s.gateway.fail = true
	code, body = s.do(t, http.MethodPost, "/payment", user, map[string]any{"amount": 50000})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to create payment order", body["error"])

	code, _ = s.do(t, http.MethodPost, "/payment", "", map[string]any{"amount": 1})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestOrdersRejectUnknownSort(t *testing.T) {
	s := newServer(t)
	user := s.register(t, "asha@example.com")
	code, _ := s.do(t, http.MethodGet, "/api/orders?sort=alphabetical", user, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProfile(t *testing.T) {
	s := newServer(t)
	user := s.register(t, "asha@example.com")

	code, body := s.do(t, http.MethodGet, "/api/profile", user, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Tester", body["user"].(map[string]any)["displayName"])

	code, body = s.multipart(t, http.MethodPut, "/api/profile", user, map[string]string{"displayName": "Tester", "address": ""}, "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["updated"])
	assert.Nil(t, body["notification"])

	code, body = s.multipart(t, http.MethodPut, "/api/profile", user, map[string]string{"displayName": "Asha", "address": "12 MG Road"}, "profilePic", "me.png")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["updated"])
	assert.Equal(t, "https://img.example.com/profilePicture/me.png", body["user"].(map[string]any)["profilePic"])

	code, body = s.multipart(t, http.MethodPut, "/api/profile", user, nil, "profilePic", "new.png")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["updated"])

	code, body = s.do(t, http.MethodGet, "/api/profile", user, nil)
	require.Equal(t, http.StatusOK, code)
	profile := body["user"].(map[string]any)
	assert.Equal(t, "Asha", profile["displayName"])
	assert.Equal(t, "12 MG Road", profile["address"])
	assert.Equal(t, "https://img.example.com/profilePicture/new.png", profile["profilePic"])
}

func TestMenuDeleteNeedsConfirm(t *testing.T) {
	s := newServer(t)
	admin := s.register(t, "admin@yourrest.test")
	itemID := s.addMenuItem(t, admin)

	code, _ := s.do(t, http.MethodDelete, "/api/admin/menu/"+itemID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodDelete, "/api/admin/menu/"+itemID+"?confirm=true", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodDelete, "/api/admin/menu/"+itemID+"?confirm=true", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSessionAndLogout(t *testing.T) {
	s := newServer(t)
	admin := s.register(t, "admin@yourrest.test")

	code, body := s.do(t, http.MethodGet, "/api/session?section=admin", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin", body["activeSection"])
	assert.Len(t, body["sections"], 7)

	code, _ = s.do(t, http.MethodPost, "/api/auth/logout", admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodGet, "/api/session", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestPublicEndpoints(t *testing.T) {
	s := newServer(t)

	code, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	code, body = s.do(t, http.MethodGet, "/api/state-machine", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["transitions"], 5)

	code, body = s.do(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "A", "email": "a@example.com", "message": "hi"})
	assert.Equal(t, http.StatusOK, code)
	_, msg := notification(body)
	assert.Equal(t, "Message sent successfully!", msg)

	code, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/api/menu", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
