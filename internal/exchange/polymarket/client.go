package polymarket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

// Client is a thin REST client for the Polymarket trading API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Config holds the configuration for the Polymarket client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a new Polymarket REST client
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
	}
}

// GetMarket fetches a fresh snapshot for a market
func (c *Client) GetMarket(ctx context.Context, marketID string) (*types.Market, error) {
	var resp marketResponse
	if err := c.get(ctx, "/markets/"+url.PathEscape(marketID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch market %s: %w", marketID, err)
	}

	return &types.Market{
		ID:        marketID,
		EventID:   resp.EventID,
		Question:  resp.Question,
		YesPrice:  resp.YesPrice,
		NoPrice:   resp.NoPrice,
		Liquidity: resp.Liquidity,
		Volume24h: resp.Volume24h,
	}, nil
}

// GetOrderBook fetches both sides of a market's book, best price first
func (c *Client) GetOrderBook(ctx context.Context, marketID string) (*types.OrderBook, error) {
	var resp orderBookResponse
	if err := c.get(ctx, "/orderbook/"+url.PathEscape(marketID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch orderbook %s: %w", marketID, err)
	}

	book := &types.OrderBook{
		Bids: make([]types.PriceLevel, 0, len(resp.Bids)),
		Asks: make([]types.PriceLevel, 0, len(resp.Asks)),
	}
	for _, lvl := range resp.Bids {
		book.Bids = append(book.Bids, types.PriceLevel{Price: lvl.Price, Size: lvl.Size})
	}
	for _, lvl := range resp.Asks {
		book.Asks = append(book.Asks, types.PriceLevel{Price: lvl.Price, Size: lvl.Size})
	}
	return book, nil
}

// GetBalance fetches the USDC balance of a wallet
func (c *Client) GetBalance(ctx context.Context, wallet string) (float64, error) {
	var resp balanceResponse
	if err := c.get(ctx, "/balance/"+url.PathEscape(wallet), nil, &resp); err != nil {
		return 0, fmt.Errorf("failed to fetch balance for %s: %w", wallet, err)
	}
	return resp.Balance, nil
}

// GetTrades fetches trades made by a wallet since the given unix timestamp
func (c *Client) GetTrades(ctx context.Context, wallet string, since int64) ([]types.Trade, error) {
	query := url.Values{}
	query.Set("wallet", wallet)
	query.Set("since", strconv.FormatInt(since, 10))

	var resp []tradeResponse
	if err := c.get(ctx, "/trades", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch trades for %s: %w", wallet, err)
	}

	trades := make([]types.Trade, 0, len(resp))
	for _, item := range resp {
		trades = append(trades, types.Trade{
			Wallet:    item.Wallet,
			EventID:   item.EventID,
			MarketID:  item.MarketID,
			Side:      types.TradeSide(item.Side),
			Shares:    item.Shares,
			Price:     item.Price,
			Timestamp: item.Timestamp,
			TxHash:    item.TxHash,
		})
	}
	return trades, nil
}

// PlaceOrder submits an order through the trading API
func (c *Client) PlaceOrder(ctx context.Context, req types.OrderRequest) (*types.OrderResponse, error) {
	body := placeOrderRequest{
		MarketID:      req.MarketID,
		Side:          string(req.Side),
		Shares:        req.Shares,
		Type:          string(req.OrderType),
		ClientOrderID: req.ClientOrderID,
	}
	if req.Price > 0 {
		body.Price = &req.Price
	}

	var resp placeOrderResponse
	if err := c.post(ctx, "/orders", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	return &types.OrderResponse{
		OrderID:      resp.OrderID,
		Status:       types.OrderStatus(resp.Status),
		FilledShares: resp.FilledShares,
		AvgFillPrice: resp.AvgFillPrice,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error(), Transport: true}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: err.Error(), Transport: true}
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("malformed response: %v", err)}
		}
	}
	return nil
}
