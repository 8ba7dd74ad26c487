package polymarket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	return client, srv
}

func TestGetMarket(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/markets/market1", r.URL.Path)
		w.Write([]byte(`{
			"event_id": "event1",
			"question": "Will it rain tomorrow?",
			"yes_price": 0.6,
			"no_price": 0.4,
			"liquidity": 15000,
			"volume_24h": 42000
		}`))
	})
	defer srv.Close()

	market, err := client.GetMarket(context.Background(), "market1")
	require.NoError(t, err)
	assert.Equal(t, "market1", market.ID)
	assert.Equal(t, "event1", market.EventID)
	assert.Equal(t, "Will it rain tomorrow?", market.Question)
	assert.InDelta(t, 0.6, market.YesPrice, 1e-9)
	assert.InDelta(t, 15000.0, market.Liquidity, 1e-9)
}

func TestGetOrderBook(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orderbook/market1", r.URL.Path)
		w.Write([]byte(`{
			"bids": [{"price": 0.48, "size": 100}, {"price": 0.46, "size": 250}],
			"asks": [{"price": 0.52, "size": 80}]
		}`))
	})
	defer srv.Close()

	book, err := client.GetOrderBook(context.Background(), "market1")
	require.NoError(t, err)
	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 1)
	assert.InDelta(t, 0.48, book.Bids[0].Price, 1e-9)
	assert.InDelta(t, 0.52, book.Asks[0].Price, 1e-9)
	assert.InDelta(t, 80.0, book.Asks[0].Size, 1e-9)
}

func TestGetBalance(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/balance/0xme", r.URL.Path)
		w.Write([]byte(`{"balance": 1234.56}`))
	})
	defer srv.Close()

	balance, err := client.GetBalance(context.Background(), "0xme")
	require.NoError(t, err)
	assert.InDelta(t, 1234.56, balance, 1e-9)
}

func TestGetTrades(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trades", r.URL.Path)
		assert.Equal(t, "0xwhale", r.URL.Query().Get("wallet"))
		assert.Equal(t, "1700000000", r.URL.Query().Get("since"))
		w.Write([]byte(`[{
			"wallet": "0xwhale",
			"event_id": "event1",
			"market_id": "market1",
			"side": "BUY",
			"shares": 100,
			"price": 0.5,
			"timestamp": 1700000100,
			"tx_hash": "0xabc"
		}]`))
	})
	defer srv.Close()

	trades, err := client.GetTrades(context.Background(), "0xwhale", 1700000000)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, types.SideBuy, trades[0].Side)
	assert.Equal(t, int64(1700000100), trades[0].Timestamp)
}

// TestPlaceOrder tests the order wire format: auth header, price presence
// for limit-style orders, and price omission at market
func TestPlaceOrder(t *testing.T) {
	var got placeOrderRequest
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"order_id": "o1", "status": "filled", "filled_shares": 50, "avg_fill_price": 0.51}`))
	})
	defer srv.Close()

	resp, err := client.PlaceOrder(context.Background(), types.OrderRequest{
		MarketID:      "market1",
		Side:          types.SideBuy,
		Shares:        50,
		Price:         0.5,
		OrderType:     types.OrderTypeFAK,
		ClientOrderID: "cid-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", resp.OrderID)
	assert.Equal(t, types.OrderStatusFilled, resp.Status)
	assert.InDelta(t, 50.0, resp.FilledShares, 1e-9)

	assert.Equal(t, "market1", got.MarketID)
	assert.Equal(t, "BUY", got.Side)
	assert.Equal(t, "FAK", got.Type)
	assert.Equal(t, "cid-1", got.ClientOrderID)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 0.5, *got.Price, 1e-9)
}

func TestPlaceOrder_MarketOmitsPrice(t *testing.T) {
	var got placeOrderRequest
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"order_id": "o1", "status": "filled"}`))
	})
	defer srv.Close()

	_, err := client.PlaceOrder(context.Background(), types.OrderRequest{
		MarketID:  "market1",
		Side:      types.SideSell,
		Shares:    50,
		OrderType: types.OrderTypeMarket,
	})
	require.NoError(t, err)
	assert.Nil(t, got.Price)
}

// TestAPIErrors tests status-code classification for the retry layer
func TestAPIErrors(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	})
	defer srv.Close()

	_, err := client.GetBalance(context.Background(), "0xme")
	require.Error(t, err)
	assert.True(t, IsRetryableError(err))
	assert.False(t, IsAuthenticationError(err))
	assert.Contains(t, err.Error(), "rate limited")
}

func TestAPIErrors_Authentication(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid api key"}`))
	})
	defer srv.Close()

	_, err := client.PlaceOrder(context.Background(), types.OrderRequest{MarketID: "m"})
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	assert.False(t, IsRetryableError(err))
}

func TestAPIErrors_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.GetBalance(context.Background(), "0xme")
	require.Error(t, err)
	assert.True(t, IsRetryableError(err))
}

func TestAPIErrors_MalformedBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{truncated`))
	})
	defer srv.Close()

	_, err := client.GetBalance(context.Background(), "0xme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response")
}
