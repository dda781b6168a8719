package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"budget-bites/middleware"
	httpapi "budget-bites/state-svc/internal/api/http"
	"budget-bites/state-svc/internal/domain"
	"budget-bites/state-svc/internal/mocks"
	"budget-bites/state-svc/internal/service"
)

type testAPI struct {
	t        *testing.T
	sessions *service.SessionService
	router   http.Handler
}

func newTestAPI(t *testing.T, opts ...service.Option) *testAPI {
	t.Helper()
	log, _ := nullLogger()
	sessions := service.NewSessionService(log, opts...)
	handler := httpapi.NewHandler(sessions, log)
	return &testAPI{
		t:        t,
		sessions: sessions,
		router:   httpapi.NewRouter(handler, middleware.NewMetrics("test"), nil),
	}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) createSession() string {
	a.t.Helper()
	w := a.do("POST", "/api/sessions", "")
	require.Equal(a.t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp["session_id"])
	return resp["session_id"]
}

func TestHealthAndSessions(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()

	w := api.do("GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sessions":1`)

	w = api.do("GET", "/api/sessions/"+sid, "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.Budget.DailyBudget.Equal(dec(200)))
	assert.Equal(t, "en", snap.AppSettings.Language)

	assert.Equal(t, http.StatusNoContent, api.do("DELETE", "/api/sessions/"+sid, "").Code)
	assert.Equal(t, http.StatusNotFound, api.do("DELETE", "/api/sessions/"+sid, "").Code)
	assert.Equal(t, http.StatusNotFound, api.do("GET", "/api/sessions/"+sid+"/cart", "").Code)
}

func TestCartHandlers(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		body         string
		wantCode     int
		wantQuantity int
	}{
		{name: "add aggregates", method: "POST", path: "/cart/items", body: `{"menu_item":{"id":"X","name":"Dal","price":100},"quantity":2}`, wantCode: http.StatusOK, wantQuantity: 3},
		{name: "add defaults quantity", method: "POST", path: "/cart/items", body: `{"menu_item":{"id":"X","price":100}}`, wantCode: http.StatusOK, wantQuantity: 2},
		{name: "add negative", method: "POST", path: "/cart/items", body: `{"menu_item":{"id":"X","price":100},"quantity":-1}`, wantCode: http.StatusBadRequest, wantQuantity: 1},
		{name: "add without id", method: "POST", path: "/cart/items", body: `{"quantity":1}`, wantCode: http.StatusBadRequest, wantQuantity: 1},
		{name: "invalid JSON", method: "POST", path: "/cart/items", body: `{invalid}`, wantCode: http.StatusBadRequest, wantQuantity: 1},
		{name: "set quantity", method: "PUT", path: "/cart/items/X", body: `{"quantity":5}`, wantCode: http.StatusOK, wantQuantity: 5},
		{name: "set zero removes", method: "PUT", path: "/cart/items/X", body: `{"quantity":0}`, wantCode: http.StatusOK, wantQuantity: 0},
		{name: "set unknown", method: "PUT", path: "/cart/items/nope", body: `{"quantity":2}`, wantCode: http.StatusNotFound, wantQuantity: 1},
		{name: "remove", method: "DELETE", path: "/cart/items/X", wantCode: http.StatusOK, wantQuantity: 0},
		{name: "clear", method: "DELETE", path: "/cart", wantCode: http.StatusOK, wantQuantity: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			api := newTestAPI(t)
			sid := api.createSession()
			st, _ := api.sessions.Session(sid)
			st.AddToCart(line("X", 100, 1))

			w := api.do(testCase.method, "/api/sessions/"+sid+testCase.path, testCase.body)

			assert.Equal(t, testCase.wantCode, w.Code)
			quantity := 0
			for _, l := range st.Cart() {
				if l.MenuItem.ID == "X" {
					quantity = l.Quantity
				}
			}
			assert.Equal(t, testCase.wantQuantity, quantity)
			assert.True(t, st.CartTotal().Equal(dec(int64(100*testCase.wantQuantity))))
		})
	}
}

func TestBudgetHandlers(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{name: "daily at floor", path: "/budget/daily", body: `{"amount":50}`, wantCode: http.StatusOK},
		{name: "daily below floor", path: "/budget/daily", body: `{"amount":49}`, wantCode: http.StatusUnprocessableEntity},
		{name: "monthly at floor", path: "/budget/monthly", body: `{"amount":1000}`, wantCode: http.StatusOK},
		{name: "monthly below floor", path: "/budget/monthly", body: `{"amount":999}`, wantCode: http.StatusUnprocessableEntity},
		{name: "missing amount", path: "/budget/daily", body: `{}`, wantCode: http.StatusBadRequest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			api := newTestAPI(t)
			sid := api.createSession()

			w := api.do("PUT", "/api/sessions/"+sid+testCase.path, testCase.body)
			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestGetBudget_DerivedValues(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()
	st, _ := api.sessions.Session(sid)
	st.RecordSpend(dec(250))

	w := api.do("GET", "/api/sessions/"+sid+"/budget", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(200), resp["daily_budget"])
	assert.Equal(t, float64(-50), resp["daily_remaining"])
	assert.Equal(t, float64(100), resp["daily_progress"])
	assert.Equal(t, true, resp["daily_exceeded"])
	assert.Equal(t, false, resp["monthly_exceeded"])
}

func TestCheckoutHandler(t *testing.T) {
	guard := mocks.NewCheckoutGuard(t)
	api := newTestAPI(t, service.WithCheckoutGuard(guard))
	sid := api.createSession()
	st, _ := api.sessions.Session(sid)

	w := api.do("POST", "/api/sessions/"+sid+"/checkout", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	st.AddToCart(line("X", 100, 2))

	guard.On("CheckoutMarkerKey", sid, "retry-1").Return("checkout:" + sid + ":retry-1")
	guard.On("Claim", mock.Anything, "checkout:"+sid+":retry-1").Return(true, nil).Once()
	guard.On("Claim", mock.Anything, "checkout:"+sid+":retry-1").Return(false, nil).Once()

	req := httptest.NewRequest("POST", "/api/sessions/"+sid+"/checkout", nil)
	req.Header.Set("Idempotency-Key", "retry-1")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result domain.CheckoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Order.Total.Equal(dec(230)))
	assert.True(t, result.OverBudget)
	assert.Equal(t, domain.StatusConfirmed, result.Order.Status)

	st.AddToCart(line("X", 100, 1))
	w = api.do("POST", "/api/sessions/"+sid+"/checkout", `{"idempotency_key":"retry-1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do("POST", "/api/sessions/"+sid+"/checkout", `{"address_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do("GET", "/api/sessions/"+sid+"/orders/"+result.Order.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.do("GET", "/api/sessions/"+sid+"/orders/ORD0", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderQRCodeHandler(t *testing.T) {
	api := newTestAPI(t, service.WithQRGenerator(service.DefaultQRGenerator{BaseURL: "http://localhost:8080"}))
	sid := api.createSession()
	st, _ := api.sessions.Session(sid)
	st.AddOrder(domain.Order{ID: "ORD1", DeliveryOTP: "1234"})

	w := api.do("GET", "/api/sessions/"+sid+"/orders/ORD1/qrcode", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	assert.Equal(t, http.StatusNotFound, api.do("GET", "/api/sessions/"+sid+"/orders/ORD2/qrcode", "").Code)
}

func TestAddressHandlers(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()
	base := "/api/sessions/" + sid + "/addresses"

	w := api.do("POST", base, `{"label":"home","full_address":"12 MG Road","city":"Pune","pincode":"411001"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var first domain.Address
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.IsDefault)

	w = api.do("POST", base, `{"label":"work","full_address":"Tech Park","city":"Pune","pincode":"411057"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var second domain.Address
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.False(t, second.IsDefault)

	w = api.do("POST", base, `{"label":"home","city":"Pune","pincode":"41"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var verr struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verr))
	assert.Equal(t, "Enter a valid 6-digit pincode", verr.Fields["pincode"])
	assert.Equal(t, "Address is required", verr.Fields["full_address"])

	assert.Equal(t, http.StatusOK, api.do("PUT", base+"/"+second.ID+"/default", "").Code)
	st, _ := api.sessions.Session(sid)
	def, ok := st.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, second.ID, def.ID)
	assert.Equal(t, 1, countDefaultAddresses(st.Addresses()))

	w = api.do("PATCH", base+"/"+first.ID, `{"landmark":"Near park"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, api.do("PUT", base+"/nonexistent-id/default", "").Code)
	assert.Equal(t, http.StatusNotFound, api.do("PATCH", base+"/nonexistent-id", `{"city":"Goa"}`).Code)
	assert.Equal(t, http.StatusNotFound, api.do("DELETE", base+"/nonexistent-id", "").Code)

	assert.Equal(t, http.StatusNoContent, api.do("DELETE", base+"/"+second.ID, "").Code)
	_, ok = st.DefaultAddress()
	assert.False(t, ok)
}

func TestPaymentMethodHandlers(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()
	base := "/api/sessions/" + sid + "/payment-methods"

	w := api.do("POST", base, `{"type":"card","name":"HDFC","card_number":"4111 1111 1111 1234","expiry":"08/29"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var card domain.PaymentMethod
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "HDFC Card", card.Name)
	assert.Equal(t, "•••• •••• •••• 1234", card.Details)
	assert.NotContains(t, w.Body.String(), "4111")

	w = api.do("POST", base, `{"type":"upi","name":"GPay","details":"not-a-upi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do("POST", base, `{"type":"cod"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var cod domain.PaymentMethod
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cod))

	w = api.do("PATCH", base+"/"+cod.ID, `{"is_default":true}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do("GET", base, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.PaymentMethod
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, 1, countDefaultPayments(list))
	assert.False(t, list[0].IsDefault)
	assert.True(t, list[1].IsDefault)
}

func TestProfileAndSettingsHandlers(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()
	base := "/api/sessions/" + sid

	assert.Equal(t, http.StatusConflict, api.do("PATCH", base+"/user", `{"name":"Priya","email":"priya@example.com","phone":"9876543210"}`).Code)

	w := api.do("PUT", base+"/user", `{"name":"Priya","email":"priya@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var user domain.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.DailyBudget.Equal(dec(200)))

	w = api.do("PATCH", base+"/user", `{"name":"Priya S","email":"priya@example.com","phone":"9876543210"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Priya S"`)

	assert.Equal(t, http.StatusBadRequest, api.do("PATCH", base+"/user", `{"name":"P","email":"x","phone":"1"}`).Code)

	w = api.do("PATCH", base+"/flags", `{"is_onboarded":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"is_onboarded":true,"is_logged_in":false}`, w.Body.String())

	w = api.do("PATCH", base+"/settings/notifications", `{"offers":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"order_updates":true,"offers":false,"reminders":true,"push_enabled":true,"sound":true,"vibration":false}`, w.Body.String())

	w = api.do("PATCH", base+"/settings/app", `{"dark_mode":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"language":"en","dark_mode":true,"privacy_mode":false}`, w.Body.String())

	w = api.do("PUT", base+"/user", `null`)
	require.Equal(t, http.StatusOK, w.Code)
	st, _ := api.sessions.Session(sid)
	assert.Nil(t, st.User())
}

func TestSetUser_DailyBudgetFloor(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()
	base := "/api/sessions/" + sid

	for _, body := range []string{
		`{"name":"Priya","daily_budget":10}`,
		`{"name":"Priya","daily_budget":-50}`,
		`{"name":"Priya","daily_budget":49}`,
	} {
		assert.Equal(t, http.StatusUnprocessableEntity, api.do("PUT", base+"/user", body).Code, body)
	}
	st, _ := api.sessions.Session(sid)
	assert.Nil(t, st.User())

	w := api.do("PUT", base+"/user", `{"name":"Priya","daily_budget":120}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, st.Budget().DailyBudget.Equal(dec(120)))

	require.Equal(t, http.StatusOK, api.do("PUT", base+"/budget/daily", `{"amount":250}`).Code)
	assert.True(t, st.User().DailyBudget.Equal(dec(250)))
}

func TestSubscriptionHandlers(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()
	base := "/api/sessions/" + sid + "/subscription"

	invalid := []string{
		`{"plan":"brunch"}`,
		`{"plan":"lunch","meals_delivered":15,"total_meals":10}`,
		`{"plan":"lunch","meals_delivered":-3,"total_meals":10}`,
		`{"plan":"dinner","meals_delivered":0,"total_meals":-1}`,
	}
	for _, body := range invalid {
		assert.Equal(t, http.StatusBadRequest, api.do("PUT", base, body).Code, body)
	}
	st, _ := api.sessions.Session(sid)
	assert.Nil(t, st.Subscription())

	w := api.do("PUT", base, `{"plan":"lunch","budget":3000,"is_active":true,"meals_delivered":5,"total_meals":20}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "lunch", resp["plan"])
	assert.Equal(t, 0.25, resp["progress"])
	assert.NotEmpty(t, resp["id"])

	w = api.do("PUT", base, `{"plan":"all","meals_delivered":10,"total_meals":10}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp["progress"])

	assert.Equal(t, http.StatusNoContent, api.do("DELETE", base, "").Code)
	assert.Nil(t, st.Subscription())
}

func TestTicketHandlers(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()
	base := "/api/sessions/" + sid + "/tickets"

	assert.Equal(t, http.StatusBadRequest, api.do("POST", base, `{"category":"Rant","message":"x"}`).Code)
	assert.Equal(t, http.StatusCreated, api.do("POST", base, `{"category":"App Bug","message":"Crash on login"}`).Code)
	assert.Equal(t, http.StatusCreated, api.do("POST", base, `{"category":"Suggestion","message":"Dark mode please"}`).Code)

	w := api.do("GET", base, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tickets []domain.SupportTicket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	require.Len(t, tickets, 2)
	assert.Equal(t, "Suggestion", tickets[0].Category)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()
	api.do("GET", "/api/sessions/"+sid+"/cart", "")

	w := api.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "test_http_requests_total")
	assert.Contains(t, body, `path="/api/sessions/{sid}/cart"`)
}

func TestRateLimiter(t *testing.T) {
	log, _ := nullLogger()
	sessions := service.NewSessionService(log)
	router := httpapi.NewRouter(httpapi.NewHandler(sessions, log), middleware.NewMetrics("test"), middleware.NewRateLimiter(1, 2, log))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestStreamEvents(t *testing.T) {
	api := newTestAPI(t)
	sid := api.createSession()
	st, _ := api.sessions.Session(sid)

	srv := httptest.NewServer(api.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + sid + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial domain.Snapshot
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Empty(t, initial.Cart)

	st.AddToCart(line("X", 100, 2))

	var update domain.Snapshot
	require.NoError(t, conn.ReadJSON(&update))
	assert.Greater(t, update.Version, initial.Version)
	require.Len(t, update.Cart, 1)
	assert.True(t, update.CartTotal.Equal(dec(200)))

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/sessions/missing/events", nil)
	assert.Error(t, err)
}
