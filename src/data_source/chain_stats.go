package datasource

import (
	"context"
	"sync"

	"plug-explorer/src/helpers"
	"plug-explorer/src/interfaces"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
	"plug-explorer/src/store"
)

const (
	InfoPath            = "/info"
	UnconfirmedTxsPath  = "/num_unconfirmed_txs"
	CoinInfoPath        = "/coin_info"
	chainStatsEndpoints = 3
)

// ChainStatsPoller fetches /info, /num_unconfirmed_txs and /coin_info together and
// merges whatever subset succeeded.
type ChainStatsPoller struct {
	timerLoop
	Network interfaces.INetworkManager
	Store   *store.HomeStore
	Errors  *helpers.ErrorHandler
}

// -----------------------------------------------------------------------------

func NewChainStatsPoller(opts Options, netMgr interfaces.INetworkManager, homeStore *store.HomeStore, errs *helpers.ErrorHandler, log *logger.Logger) *ChainStatsPoller {
	opts = opts.withDefaults()
	if errs == nil {
		errs = helpers.NewErrorHandler(log)
	}
	p := &ChainStatsPoller{
		Network: netMgr,
		Store:   homeStore,
		Errors:  errs,
	}
	p.timerLoop = timerLoop{
		name:     "chain_stats",
		warmup:   opts.Warmup,
		interval: opts.Interval,
		Logger:   log,
		tick:     p.fetchAndMerge,
	}
	return p
}

// -----------------------------------------------------------------------------

func (p *ChainStatsPoller) fetchAndMerge(ctx context.Context) {
	paths := [chainStatsEndpoints]string{InfoPath, UnconfirmedTxsPath, CoinInfoPath}
	var results [chainStatsEndpoints]models.MResult

	// Wait for all three to settle, whatever their outcome.
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			results[i] = p.Network.Get(ctx, path, nil)
		}(i, path)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return
	}

	info, unconfirmed, coin := results[0], results[1], results[2]

	if patch, err := UnconfirmedPatch(unconfirmed); err != nil {
		p.Errors.Drop(err, "num_unconfirmed_txs")
	} else {
		p.Store.Merge(patch)
	}

	if patch, err := CoinPatch(coin); err != nil {
		p.Errors.Drop(err, "coin_info")
	} else {
		p.Store.Merge(patch)
	}

	if patch, err := InfoPatch(info); err != nil {
		p.Errors.Drop(err, "info")
	} else {
		p.Store.Merge(patch)
	}
}

// -----------------------------------------------------------------------------

func UnconfirmedPatch(res models.MResult) (models.MHomePatch, error) {
	if !res.Success() {
		return models.MHomePatch{}, res.Err
	}
	var count models.Scalar
	if err := res.Decode(&count); err != nil {
		return models.MHomePatch{}, err
	}
	return models.MHomePatch{PendingBlockVolume: models.String(count.String())}, nil
}

// -----------------------------------------------------------------------------

func CoinPatch(res models.MResult) (models.MHomePatch, error) {
	if !res.Success() {
		return models.MHomePatch{}, res.Err
	}
	var coin models.MCoinInfo
	if err := res.Decode(&coin); err != nil {
		return models.MHomePatch{}, err
	}
	return models.MHomePatch{
		Price:          models.String(coin.Price.String()),
		PriceRate:      models.Float(coin.PriceDriftRatio.Float()),
		MarkValue:      models.String(coin.TotalPrice.String()),
		AllTokenVolume: models.String(coin.Supply.String()),
		AllPledge:      models.String(coin.Staking.String()),
		PledgeRate:     models.Float(coin.StakingRatio.Float()),
	}, nil
}

// -----------------------------------------------------------------------------

func InfoPatch(res models.MResult) (models.MHomePatch, error) {
	if !res.Success() {
		return models.MHomePatch{}, res.Err
	}
	var info models.MChainInfo
	if err := res.Decode(&info); err != nil {
		return models.MHomePatch{}, err
	}
	return models.MHomePatch{
		BlockHeight:         models.String(info.BlockNum.String()),
		NowVolume:           models.String(info.AvgTx.String()),
		HistoryMaxVolume:    models.String(info.MaxAvgTx.String()),
		NewBlockTransaction: models.String(info.TxNums.String()),
		TransactionRate:     models.Float(info.Ratio.Float()),
		TransactionVolume:   models.String(info.TotalTxNum.String()),
	}, nil
}
