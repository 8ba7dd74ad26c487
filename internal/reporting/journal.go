package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

// Entry is one executed mirror trade as recorded by the journal
type Entry struct {
	Time         time.Time
	SourceWallet string
	EventID      string
	MarketID     string
	Question     string
	Side         types.TradeSide
	SizeUSD      float64
	Shares       float64
	OrderID      string
	FilledShares float64
	AvgFillPrice float64
}

// Journal accumulates executed trades and exports them as an Excel
// workbook, one file per UTC day.
type Journal struct {
	dir string

	mu      sync.Mutex
	entries []Entry
}

// NewJournal creates a journal writing into dir
func NewJournal(dir string) *Journal {
	return &Journal{dir: dir}
}

// Record appends an executed trade
func (j *Journal) Record(entry Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

// Len returns the number of recorded trades
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// Flush writes all recorded trades to an Excel workbook named after day and
// clears the in-memory buffer. A journal with no entries writes nothing.
func (j *Journal) Flush(day time.Time) (string, error) {
	j.mu.Lock()
	entries := j.entries
	j.entries = nil
	j.mu.Unlock()

	if len(entries) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(j.dir, fmt.Sprintf("mirror_trades_%s.xlsx", day.UTC().Format("2006-01-02")))
	if err := writeWorkbook(path, entries); err != nil {
		return "", err
	}
	return path, nil
}

func writeWorkbook(path string, entries []Entry) error {
	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Trades"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	header := []interface{}{
		"Time (UTC)", "Source Wallet", "Event", "Market", "Question",
		"Side", "Size USD", "Shares", "Order ID", "Filled Shares", "Avg Fill Price",
	}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return err
	}
	if err := fx.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, e := range entries {
		row := []interface{}{
			e.Time.UTC().Format("2006-01-02 15:04:05"),
			e.SourceWallet,
			e.EventID,
			e.MarketID,
			e.Question,
			string(e.Side),
			e.SizeUSD,
			e.Shares,
			e.OrderID,
			e.FilledShares,
			e.AvgFillPrice,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}
