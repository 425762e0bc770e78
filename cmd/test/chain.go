package main

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"plug-explorer/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	blockEvery  = 3 * time.Second
	keptBlocks  = 20
	hashLetters = 64
)

type mockBlock struct {
	Hash    string `json:"hash"`
	BlockID int64  `json:"block_id"`
	Time    int64  `json:"time"`
	Address string `json:"address"`
	TxNum   int    `json:"tx_num"`
	TxFee   string `json:"tx_fee"`
}

// mockChain produces a block every few seconds and derives the aggregate
// endpoints from what it has produced.
type mockChain struct {
	envelope string
	failRate float64

	mu       sync.RWMutex
	blocks   []mockBlock
	totalTx  int64
	maxAvg   decimal.Decimal
	price    decimal.Decimal
	lastDiff decimal.Decimal
}

// -----------------------------------------------------------------------------

func newMockChain(envelope string, failRate float64) *mockChain {
	c := &mockChain{
		envelope: envelope,
		failRate: failRate,
		price:    decimal.RequireFromString("0.8500"),
	}
	for i := 0; i < keptBlocks; i++ {
		c.mine(time.Now().Add(-time.Duration(keptBlocks-i) * blockEvery))
	}
	return c
}

// -----------------------------------------------------------------------------

func (c *mockChain) run() {
	ticker := time.NewTicker(blockEvery)
	defer ticker.Stop()
	for now := range ticker.C {
		c.mine(now)
	}
}

// -----------------------------------------------------------------------------

func (c *mockChain) mine(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	height := int64(1)
	if len(c.blocks) > 0 {
		height = c.blocks[0].BlockID + 1
	}
	txNum := rand.Intn(40)
	block := mockBlock{
		Hash:    hexString(hashLetters),
		BlockID: height,
		Time:    at.Unix(),
		Address: "plug" + utils.RandomString(30),
		TxNum:   txNum,
		TxFee:   decimal.NewFromInt(int64(txNum)).Mul(decimal.RequireFromString("0.0001")).String(),
	}

	c.blocks = append([]mockBlock{block}, c.blocks...)
	if len(c.blocks) > keptBlocks {
		c.blocks = c.blocks[:keptBlocks]
	}
	c.totalTx += int64(txNum)

	if avg := c.avgTx(); avg.GreaterThan(c.maxAvg) {
		c.maxAvg = avg
	}

	drift := decimal.NewFromFloat(rand.Float64()*0.02 - 0.01)
	next := c.price.Mul(decimal.NewFromInt(1).Add(drift)).Round(4)
	c.lastDiff = drift
	c.price = next
}

func (c *mockChain) avgTx() decimal.Decimal {
	if len(c.blocks) == 0 {
		return decimal.Zero
	}
	sum := 0
	for _, b := range c.blocks {
		sum += b.TxNum
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(c.blocks)))).Round(2)
}

// -----------------------------------------------------------------------------

func (c *mockChain) register(engine *gin.Engine) {
	engine.GET("/blockchain", func(ctx *gin.Context) {
		c.mu.RLock()
		out := append([]mockBlock(nil), c.blocks...)
		c.mu.RUnlock()
		c.reply(ctx, out)
	})

	engine.GET("/info", func(ctx *gin.Context) {
		c.mu.RLock()
		defer c.mu.RUnlock()
		latest := c.blocks[0]
		avg := c.avgTx()
		ratio := decimal.Zero
		if c.maxAvg.IsPositive() {
			ratio = avg.Div(c.maxAvg).Round(4)
		}
		c.reply(ctx, gin.H{
			"block_num":    latest.BlockID,
			"avg_tx":       avg.String(),
			"max_avg_tx":   c.maxAvg.String(),
			"tx_nums":      latest.TxNum,
			"ratio":        ratio.String(),
			"total_tx_num": c.totalTx,
		})
	})

	engine.GET("/num_unconfirmed_txs", func(ctx *gin.Context) {
		c.reply(ctx, rand.Intn(200))
	})

	engine.GET("/coin_info", func(ctx *gin.Context) {
		c.mu.RLock()
		defer c.mu.RUnlock()
		supply := decimal.NewFromInt(1_000_000_000)
		staking := decimal.NewFromInt(412_345_678)
		c.reply(ctx, gin.H{
			"price":             c.price.String(),
			"price_drift_ratio": c.lastDiff.Round(4).String(),
			"total_price":       c.price.Mul(supply).Round(0).String(),
			"supply":            supply.String(),
			"staking":           staking.String(),
			"staking_ratio":     staking.Div(supply).Round(4).String(),
		})
	})
}

// -----------------------------------------------------------------------------

func (c *mockChain) reply(ctx *gin.Context, data interface{}) {
	if c.failRate > 0 && rand.Float64() < c.failRate {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "injected failure"})
		return
	}

	switch c.envelope {
	case "status":
		ctx.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": data})
	case "none":
		ctx.JSON(http.StatusOK, data)
	default:
		ctx.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
}

// -----------------------------------------------------------------------------

func hexString(n int) string {
	const digits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}
