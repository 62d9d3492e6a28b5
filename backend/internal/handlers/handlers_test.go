package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/user/papertrade/backend/internal/auth"
	"github.com/user/papertrade/backend/internal/catalog"
	"github.com/user/papertrade/backend/internal/engine"
	"github.com/user/papertrade/backend/internal/ledger"
	"github.com/user/papertrade/backend/internal/middleware"
	"github.com/user/papertrade/backend/internal/models"
	"github.com/user/papertrade/backend/internal/stream"
	"github.com/user/papertrade/backend/internal/valuation"
)

const (
	testUser  = "USER001"
	testToken = "test-token-001"
)

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newTestApp assembles the full route surface over fresh in-memory state.
func newTestApp(t *testing.T) (*fiber.App, *ledger.Store) {
	t.Helper()

	logger := zap.NewNop()
	cat := catalog.NewDefault()
	store := ledger.New()
	store.SeedHoldings(testUser, []models.Holding{
		{Symbol: "RELIANCE", Quantity: 10, AveragePrice: dec("2400.00")},
		{Symbol: "TCS", Quantity: 5, AveragePrice: dec("3800.00")},
		{Symbol: "INFY", Quantity: 15, AveragePrice: dec("1500.00")},
	})

	sessions := auth.NewSessions("test-secret", time.Hour)
	demo, err := auth.NewCredentials(testUser, "demo", "demo123")
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	tokens := auth.NewStaticTokens(map[string]string{testToken: testUser})

	h := New(cat, store, engine.New(cat, store, logger), valuation.New(cat, store),
		sessions, demo, stream.NewHub(cat, logger, time.Second), logger)

	app := fiber.New()
	h.Register(app, middleware.Protected(tokens, sessions))
	return app, store
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func TestProtectedRoutesRejectMissingOrBadToken(t *testing.T) {
	app, store := newTestApp(t)

	paths := []string{"/api/v1/orders", "/api/v1/trades", "/api/v1/portfolio"}
	for _, p := range paths {
		for _, token := range []string{"", "wrong-token"} {
			status, env := doRequest(t, app, http.MethodGet, p, token, nil)
			if status != http.StatusUnauthorized {
				t.Errorf("GET %s token=%q: got %d, want 401", p, token, status)
			}
			if env.Success || env.Error == nil || env.Error.Code != 401 {
				t.Errorf("GET %s token=%q: bad envelope %+v", p, token, env)
			}
		}
	}

	// A rejected mutation must not touch the store.
	status, _ := doRequest(t, app, http.MethodPost, "/api/v1/orders", "", fiber.Map{
		"symbol": "RELIANCE", "orderType": "BUY", "orderStyle": "MARKET", "quantity": 1,
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated place order: got %d, want 401", status)
	}
	if orders := store.ListOrdersForUser(testUser); len(orders) != 0 {
		t.Errorf("unauthenticated request created orders: %+v", orders)
	}
}

func TestInstrumentsArePublic(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := doRequest(t, app, http.MethodGet, "/api/v1/instruments", "", nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("list instruments: status %d, env %+v", status, env)
	}
	var data struct {
		Instruments []models.Instrument `json:"instruments"`
		Count       int                 `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Count != 10 || len(data.Instruments) != 10 {
		t.Errorf("expected 10 instruments, got count=%d len=%d", data.Count, len(data.Instruments))
	}

	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/instruments/INS001", "", nil)
	if status != http.StatusOK {
		t.Errorf("get instrument: got %d, want 200", status)
	}
	status, env = doRequest(t, app, http.MethodGet, "/api/v1/instruments/INS999", "", nil)
	if status != http.StatusNotFound || env.Error == nil || env.Error.Message != "Instrument not found" {
		t.Errorf("missing instrument: status %d env %+v", status, env)
	}
}

func TestPlaceOrderEndpoint(t *testing.T) {
	app, store := newTestApp(t)

	status, env := doRequest(t, app, http.MethodPost, "/api/v1/orders", testToken, fiber.Map{
		"symbol": "RELIANCE", "orderType": "BUY", "orderStyle": "MARKET", "quantity": 5,
	})
	if status != http.StatusCreated {
		t.Fatalf("place order: got %d, want 201", status)
	}
	if !env.Success || env.Message != "Order placed successfully" {
		t.Errorf("bad envelope: %+v", env)
	}

	var data struct {
		Order models.Order `json:"order"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Order.Status != models.OrderStatusExecuted {
		t.Errorf("status: got %s, want EXECUTED", data.Order.Status)
	}
	if data.Order.FilledQuantity != 5 || !data.Order.AverageFilledPrice.Equal(dec("2450.50")) {
		t.Errorf("fill fields: %+v", data.Order)
	}

	if trades := store.ListTradesForUser(testUser); len(trades) != 1 {
		t.Errorf("expected 1 booked trade, got %d", len(trades))
	}
}

func TestPlaceOrderValidationEnvelope(t *testing.T) {
	app, store := newTestApp(t)

	status, env := doRequest(t, app, http.MethodPost, "/api/v1/orders", testToken, fiber.Map{
		"orderType": "BUY", "orderStyle": "MARKET", "quantity": 5,
	})
	if status != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", status)
	}
	if env.Success || env.Error == nil || env.Error.Message != "Symbol is required" {
		t.Errorf("bad envelope: %+v", env)
	}
	if orders := store.ListOrdersForUser(testUser); len(orders) != 0 {
		t.Errorf("rejected order persisted: %+v", orders)
	}
}

func TestOrderListingAndStatusFilter(t *testing.T) {
	app, _ := newTestApp(t)

	doRequest(t, app, http.MethodPost, "/api/v1/orders", testToken, fiber.Map{
		"symbol": "RELIANCE", "orderType": "BUY", "orderStyle": "MARKET", "quantity": 1,
	})
	doRequest(t, app, http.MethodPost, "/api/v1/orders", testToken, fiber.Map{
		"symbol": "TCS", "orderType": "BUY", "orderStyle": "LIMIT", "quantity": 1, "price": 3500,
	})

	var data struct {
		Orders []models.Order `json:"orders"`
		Count  int            `json:"count"`
	}

	_, env := doRequest(t, app, http.MethodGet, "/api/v1/orders", testToken, nil)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Count != 2 {
		t.Fatalf("expected 2 orders, got %d", data.Count)
	}

	_, env = doRequest(t, app, http.MethodGet, "/api/v1/orders?status=PLACED", testToken, nil)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Count != 1 || data.Orders[0].OrderStyle != models.OrderStyleLimit {
		t.Errorf("status filter: %+v", data)
	}

	// Exact-match filter: lowercase does not match the stored value.
	_, env = doRequest(t, app, http.MethodGet, "/api/v1/orders?status=placed", testToken, nil)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Count != 0 {
		t.Errorf("lowercase status should match nothing, got %d", data.Count)
	}
}

func TestOrderScopedToOwner(t *testing.T) {
	app, store := newTestApp(t)

	foreign := models.Order{
		OrderID: "ORD-foreign", UserID: "USER002", Symbol: "TCS",
		Exchange: models.ExchangeNSE, OrderType: models.OrderTypeBuy,
		OrderStyle: models.OrderStyleLimit, Quantity: 1, Status: models.OrderStatusPlaced,
	}
	store.CreateOrder(foreign)

	status, env := doRequest(t, app, http.MethodGet, "/api/v1/orders/ORD-foreign", testToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("foreign order: got %d, want 404", status)
	}
	if env.Error == nil || env.Error.Message != "Order not found" {
		t.Errorf("foreign order must look like not-found, got %+v", env)
	}
}

func TestTradeEndpoints(t *testing.T) {
	app, store := newTestApp(t)

	doRequest(t, app, http.MethodPost, "/api/v1/orders", testToken, fiber.Map{
		"symbol": "INFY", "orderType": "SELL", "orderStyle": "MARKET", "quantity": 5,
	})

	var data struct {
		Trades []models.Trade `json:"trades"`
		Count  int            `json:"count"`
	}
	_, env := doRequest(t, app, http.MethodGet, "/api/v1/trades", testToken, nil)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Count != 1 || data.Trades[0].TransactionType != models.OrderTypeSell {
		t.Fatalf("unexpected trades: %+v", data)
	}

	status, _ := doRequest(t, app, http.MethodGet, "/api/v1/trades/"+data.Trades[0].TradeID, testToken, nil)
	if status != http.StatusOK {
		t.Errorf("get trade: got %d, want 200", status)
	}

	store.CreateTrade(models.Trade{TradeID: "TRD-foreign", UserID: "USER002"})
	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/trades/TRD-foreign", testToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("foreign trade: got %d, want 404", status)
	}
}

func TestPortfolioEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	var data struct {
		Holdings []models.EnrichedHolding `json:"holdings"`
		Summary  models.PortfolioSummary  `json:"summary"`
	}
	status, env := doRequest(t, app, http.MethodGet, "/api/v1/portfolio", testToken, nil)
	if status != http.StatusOK {
		t.Fatalf("portfolio: got %d, want 200", status)
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Holdings) != 3 {
		t.Fatalf("expected 3 holdings, got %d", len(data.Holdings))
	}
	if !data.Summary.TotalInvestment.Equal(dec("65500.00")) {
		t.Errorf("totalInvestment: got %s, want 65500.00", data.Summary.TotalInvestment)
	}

	// Symbol lookup is case-insensitive.
	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/portfolio/reliance", testToken, nil)
	if status != http.StatusOK {
		t.Errorf("get holding by symbol: got %d, want 200", status)
	}
	status, env = doRequest(t, app, http.MethodGet, "/api/v1/portfolio/ITC", testToken, nil)
	if status != http.StatusNotFound || env.Error == nil || env.Error.Message != "Holding not found for this symbol" {
		t.Errorf("missing holding: status %d env %+v", status, env)
	}
}

func TestRepeatedGetsAreIdempotent(t *testing.T) {
	app, _ := newTestApp(t)

	_, env := doRequest(t, app, http.MethodPost, "/api/v1/orders", testToken, fiber.Map{
		"symbol": "RELIANCE", "orderType": "BUY", "orderStyle": "MARKET", "quantity": 2,
	})
	var created struct {
		Order models.Order `json:"order"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	_, first := doRequest(t, app, http.MethodGet, "/api/v1/orders/"+created.Order.OrderID, testToken, nil)
	_, second := doRequest(t, app, http.MethodGet, "/api/v1/orders/"+created.Order.OrderID, testToken, nil)
	if !bytes.Equal(first.Data, second.Data) {
		t.Error("repeated GETs returned different payloads")
	}
}

func TestLoginIssuesUsableSessionToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := doRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "demo", "password": "demo123",
	})
	if status != http.StatusOK || !env.Success {
		t.Fatalf("login: status %d env %+v", status, env)
	}
	var data struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Token == "" || data.UserID != testUser {
		t.Fatalf("bad login payload: %+v", data)
	}

	// The session token works wherever the static token does.
	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/portfolio", data.Token, nil)
	if status != http.StatusOK {
		t.Errorf("session token rejected: got %d, want 200", status)
	}

	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "demo", "password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("bad password: got %d, want 401", status)
	}
}

func TestUnknownRouteEnvelope(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := doRequest(t, app, http.MethodGet, "/api/v1/nope", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("got %d, want 404", status)
	}
	if env.Success || env.Error == nil || env.Error.Message != "Route not found" {
		t.Errorf("bad envelope: %+v", env)
	}
}
