package polymarket

// Wire models for the Polymarket REST API.

type marketResponse struct {
	EventID   string  `json:"event_id"`
	Question  string  `json:"question"`
	YesPrice  float64 `json:"yes_price"`
	NoPrice   float64 `json:"no_price"`
	Liquidity float64 `json:"liquidity"`
	Volume24h float64 `json:"volume_24h"`
}

type priceLevelResponse struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

type orderBookResponse struct {
	Bids []priceLevelResponse `json:"bids"`
	Asks []priceLevelResponse `json:"asks"`
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

type tradeResponse struct {
	Wallet    string  `json:"wallet"`
	EventID   string  `json:"event_id"`
	MarketID  string  `json:"market_id"`
	Side      string  `json:"side"`
	Shares    float64 `json:"shares"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
	TxHash    string  `json:"tx_hash"`
}

type placeOrderRequest struct {
	MarketID      string   `json:"market_id"`
	Side          string   `json:"side"`
	Shares        float64  `json:"shares"`
	Price         *float64 `json:"price,omitempty"`
	Type          string   `json:"type"`
	ClientOrderID string   `json:"client_order_id,omitempty"`
}

type placeOrderResponse struct {
	OrderID      string  `json:"order_id"`
	Status       string  `json:"status"`
	FilledShares float64 `json:"filled_shares"`
	AvgFillPrice float64 `json:"avg_fill_price"`
}

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
