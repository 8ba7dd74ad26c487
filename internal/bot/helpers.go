package bot

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// printStartupInfo renders the configuration tables shown once at startup
func (b *Bot) printStartupInfo() {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("MIRROR BOT INITIALIZATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"👛 Your Wallet", shortWallet(b.cfg.YourWallet)},
		{"🐋 Tracked Wallets", fmt.Sprintf("%d", len(b.cfg.WalletsToTrack))},
		{"🏪 Exchange API", b.cfg.PolymarketAPI},
		{"📡 Feed", b.cfg.WSURL},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 50, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()

	t = table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("RISK & SIZING CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📐 Sizing Mode", string(b.cfg.SizingMode)},
		{"💵 Fixed Stake", fmt.Sprintf("$%.2f", b.cfg.FixedStake)},
		{"📊 Stake Range", fmt.Sprintf("$%.2f - $%.2f", b.cfg.MinStake, b.cfg.MaxStake)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"🛑 Max Event Exposure", fmt.Sprintf("$%.2f", b.cfg.MaxExposurePerEvent)},
		{"🛑 Max Daily Volume", fmt.Sprintf("$%.2f", b.cfg.MaxDailyVolume)},
		{"💧 Min Liquidity", fmt.Sprintf("$%.2f", b.cfg.MinLiquidity)},
		{"💧 Min Depth", fmt.Sprintf("$%.2f", b.cfg.CBMinDepthUSD)},
		{"⚡ Breaker Trigger", fmt.Sprintf("%d consecutive errors", b.cfg.CBConsecutiveTrigger)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"🔄 Retry Attempts", fmt.Sprintf("%d", b.cfg.RetryAttempts)},
		{"⏱  Retry Delay", b.cfg.RetryDelay.String()},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, WidthMax: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}
