package types

// TradeSide represents the direction of a trade
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Opposite returns the side that closes a position opened on this side
func (s TradeSide) Opposite() TradeSide {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Trade represents an observed trade made by a tracked wallet
type Trade struct {
	Wallet    string    `json:"wallet"`
	EventID   string    `json:"event_id"`
	MarketID  string    `json:"market_id"`
	Side      TradeSide `json:"side"`
	Shares    float64   `json:"shares"`
	Price     float64   `json:"price"`
	Timestamp int64     `json:"timestamp"`
	TxHash    string    `json:"tx_hash,omitempty"`
}

// SizeUSD returns the notional value of the observed trade
func (t Trade) SizeUSD() float64 {
	return t.Shares * t.Price
}

// Market is a point-in-time snapshot of a Polymarket market.
// Snapshots are fetched fresh per decision and never cached.
type Market struct {
	ID        string  `json:"id"`
	EventID   string  `json:"event_id"`
	Question  string  `json:"question"`
	YesPrice  float64 `json:"yes_price"`
	NoPrice   float64 `json:"no_price"`
	Liquidity float64 `json:"liquidity"`
	Volume24h float64 `json:"volume_24h"`
}

// PriceLevel is one level of an order book side
type PriceLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderBook holds both sides of a market's book, best price first
type OrderBook struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
}

// OrderType represents the type of an order
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeFAK    OrderType = "FAK" // Fill-And-Kill
	OrderTypeGTD    OrderType = "GTD" // Good-Till-Date
)

// OrderStatus represents the exchange-reported status of an order
type OrderStatus string

const (
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusRejected        OrderStatus = "rejected"
	OrderStatusPending         OrderStatus = "pending"
)

// IsSuccess reports whether the order got (at least partially) executed
func (s OrderStatus) IsSuccess() bool {
	return s == OrderStatusFilled || s == OrderStatusPartiallyFilled
}

// IsTerminal reports whether the exchange adjudicated the order and
// resubmitting it would duplicate intent
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRejected
}

// OrderRequest holds parameters for placing an order.
// Price == 0 means no explicit price (market order).
type OrderRequest struct {
	MarketID      string    `json:"market_id"`
	Side          TradeSide `json:"side"`
	Shares        float64   `json:"shares"`
	Price         float64   `json:"price,omitempty"`
	OrderType     OrderType `json:"type"`
	ClientOrderID string    `json:"client_order_id,omitempty"`
}

// OrderResponse is the exchange's answer to a placed order
type OrderResponse struct {
	OrderID      string      `json:"order_id"`
	Status       OrderStatus `json:"status"`
	FilledShares float64     `json:"filled_shares"`
	AvgFillPrice float64     `json:"avg_fill_price"`
}

// CircuitBreakerState is a snapshot of the risk manager's breaker state
type CircuitBreakerState struct {
	ConsecutiveErrors int     `json:"consecutive_errors"`
	TradesToday       int     `json:"trades_today"`
	VolumeToday       float64 `json:"volume_today"`
	IsTripped         bool    `json:"is_tripped"`
	TripReason        string  `json:"trip_reason,omitempty"`
}

// Position represents a held position to be managed or unwound
type Position struct {
	MarketID     string    `json:"market_id"`
	Side         TradeSide `json:"side"`
	Shares       float64   `json:"shares"`
	AvgPrice     float64   `json:"avg_price"`
	CurrentPrice float64   `json:"current_price"`
	PnL          float64   `json:"pnl"`
	Timestamp    int64     `json:"timestamp"`
}
