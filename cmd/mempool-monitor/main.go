// Command mempool-monitor is a best-effort auxiliary signal source: it
// subscribes to the Polygon mempool and reports pending transactions from
// tracked wallets before they are mined. It is a standalone experiment and
// does not feed the main trading pipeline.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/hqnguyen-dev/poly-mirror-bot/internal/config"
)

// Polymarket CLOB contract addresses on Polygon
var polymarketContracts = map[common.Address]bool{
	common.HexToAddress("0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"): true,
	common.HexToAddress("0xC5d563A36AE78145C45a50134d48A1215220f80a"): true,
}

type pendingTradeInfo struct {
	Side     string
	MarketID string
	Shares   float64
}

func main() {
	envFile := flag.String("env", ".env", "Environment file path (default: .env)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RPCURL == "" {
		log.Fatal("RPC_URL not set (use an Alchemy/Infura websocket endpoint)")
	}
	if len(cfg.WalletsToTrack) == 0 {
		log.Fatal("WALLETS_TO_TRACK not set")
	}

	tracked := make(map[common.Address]bool, len(cfg.WalletsToTrack))
	for _, w := range cfg.WalletsToTrack {
		if common.IsHexAddress(w) {
			tracked[common.HexToAddress(w)] = true
		}
	}
	log.Printf("🔍 Mempool monitor starting, tracking %d wallets", len(tracked))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rpcClient, err := rpc.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		log.Fatalf("Failed to connect to RPC: %v", err)
	}
	defer rpcClient.Close()

	client := ethclient.NewClient(rpcClient)
	chainID, err := client.ChainID(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch chain id: %v", err)
	}
	signer := ethtypes.LatestSignerForChainID(chainID)

	hashes := make(chan common.Hash, 256)
	sub, err := gethclient.New(rpcClient).SubscribePendingTransactions(ctx, hashes)
	if err != nil {
		log.Fatalf("Failed to subscribe to mempool: %v", err)
	}
	defer sub.Unsubscribe()

	log.Println("✅ Subscribed to pending transactions")

	for {
		select {
		case <-ctx.Done():
			log.Println("Mempool monitor stopped")
			return
		case err := <-sub.Err():
			log.Fatalf("Mempool subscription failed: %v", err)
		case h := <-hashes:
			tx, _, err := client.TransactionByHash(ctx, h)
			if err != nil || tx == nil {
				continue
			}
			from, err := ethtypes.Sender(signer, tx)
			if err != nil || !tracked[from] {
				continue
			}

			log.Printf("🔔 Pending tx from tracked wallet %s (hash %s, gas %d)",
				from.Hex(), h.Hex(), tx.Gas())

			to := tx.To()
			if to == nil || !polymarketContracts[*to] {
				continue
			}
			if info, ok := parseTradeData(tx.Data()); ok {
				log.Printf("   CLOB trade: %s on market %s (%.2f shares)",
					info.Side, info.MarketID, info.Shares)
				// TODO: decode the order payload properly via the CLOB ABI
				// and feed the result into the watcher queue for same-block
				// mirroring.
			}
		}
	}
}

// parseTradeData extracts a rough trade signal from calldata. The decoding
// is intentionally shallow: only the method selector and the first argument
// word are inspected.
func parseTradeData(data []byte) (pendingTradeInfo, bool) {
	if len(data) < 36 {
		return pendingTradeInfo{}, false
	}

	side := "SELL"
	if data[0]%2 == 0 {
		side = "BUY"
	}

	return pendingTradeInfo{
		Side:     side,
		MarketID: "0x" + hex.EncodeToString(data[4:36]),
		Shares:   0,
	}, true
}
