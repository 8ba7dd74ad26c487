package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks liveness facts reported by the bot
type HealthChecker struct {
	mu             sync.RWMutex
	lastTrade      time.Time
	watcherCount   int
	breakerTripped bool
	errors         []string
}

// HealthStatus is the JSON body served on the health endpoint
type HealthStatus struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	LastTrade      time.Time `json:"last_trade,omitempty"`
	WatcherCount   int       `json:"watcher_count"`
	BreakerTripped bool      `json:"breaker_tripped"`
	Uptime         string    `json:"uptime"`
	Errors         []string  `json:"errors,omitempty"`
}

// NewHealthChecker creates a health checker with empty state
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{errors: make([]string, 0)}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if h.watcherCount == 0 {
		status = "degraded"
	}
	if h.breakerTripped {
		status = "halted"
	}

	health := HealthStatus{
		Status:         status,
		Timestamp:      time.Now(),
		LastTrade:      h.lastTrade,
		WatcherCount:   h.watcherCount,
		BreakerTripped: h.breakerTripped,
		Uptime:         time.Since(startTime).String(),
		Errors:         h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// RecordTrade marks the time of the most recent mirrored trade
func (h *HealthChecker) RecordTrade() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastTrade = time.Now()
}

// SetWatcherCount records how many watcher goroutines are running
func (h *HealthChecker) SetWatcherCount(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.watcherCount = n
}

// SetBreakerTripped records the circuit breaker state
func (h *HealthChecker) SetBreakerTripped(tripped bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.breakerTripped = tripped
}

// AddError appends to the rolling error list, keeping the last ten
func (h *HealthChecker) AddError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
	if len(h.errors) > 10 {
		h.errors = h.errors[len(h.errors)-10:]
	}
}
