package datasource

import (
	"context"
	"net/http"
	"sync"

	"plug-explorer/src/helpers"
	"plug-explorer/src/interfaces"
	"plug-explorer/src/logger"
	"plug-explorer/src/models"
	"plug-explorer/src/store"
	"plug-explorer/src/utils"
)

const BlockListPath = "/blockchain"

// BlockListPoller fetches the latest blocks and merges {blockListTable, blockHeight}.
type BlockListPoller struct {
	timerLoop
	Network interfaces.INetworkManager
	Store   *store.HomeStore
	Errors  *helpers.ErrorHandler
	size    int

	keysMu   sync.Mutex
	prevKeys []string
}

// -----------------------------------------------------------------------------

func NewBlockListPoller(opts Options, netMgr interfaces.INetworkManager, homeStore *store.HomeStore, errs *helpers.ErrorHandler, log *logger.Logger) *BlockListPoller {
	opts = opts.withDefaults()
	if errs == nil {
		errs = helpers.NewErrorHandler(log)
	}
	p := &BlockListPoller{
		Network: netMgr,
		Store:   homeStore,
		Errors:  errs,
		size:    opts.BlockListSize,
	}
	p.timerLoop = timerLoop{
		name:     "block_list",
		warmup:   opts.Warmup,
		interval: opts.Interval,
		Logger:   log,
		tick:     p.fetchAndMerge,
	}
	return p
}

// -----------------------------------------------------------------------------

func (p *BlockListPoller) fetchAndMerge(ctx context.Context) {
	res := p.Network.Get(ctx, BlockListPath, nil)

	// Completions after unmount are discarded.
	if ctx.Err() != nil {
		return
	}

	if !res.Success() || res.Status != http.StatusOK {
		p.Errors.Drop(res.Err, p.name)
		return
	}

	var blocks []models.MBlock
	if err := res.Decode(&blocks); err != nil {
		p.Errors.Drop(err, p.name)
		return
	}

	rows := BuildBlockTable(blocks, p.size)
	patch := models.MHomePatch{BlockListTable: rows}
	if len(blocks) > 0 {
		patch.BlockHeight = models.String(blocks[0].BlockID.String())
	}
	p.Store.Merge(patch)
	p.releaseKeys(rows)
}

// -----------------------------------------------------------------------------

// releaseKeys returns the previous table's keys to the id registry.
func (p *BlockListPoller) releaseKeys(rows []models.MTableRow) {
	keys := TableKeys(rows)

	p.keysMu.Lock()
	old := p.prevKeys
	p.prevKeys = keys
	p.keysMu.Unlock()

	utils.DelOnlyID(old...)
}

// -----------------------------------------------------------------------------

// BuildBlockTable maps at most size blocks, in order, to keyed table rows.
func BuildBlockTable(blocks []models.MBlock, size int) []models.MTableRow {
	if size > 0 && len(blocks) > size {
		blocks = blocks[:size]
	}

	rows := make([]models.MTableRow, 0, len(blocks))
	for _, block := range blocks {
		hash := block.Hash.String()
		blockLink := "./block/" + hash
		rows = append(rows, models.MTableRow{
			Key: utils.GetOnlyID(),
			Value: []models.MTableCell{
				{Key: utils.GetOnlyID(), Value: block.BlockID.String(), Link: blockLink},
				{Key: utils.GetOnlyID(), Value: utils.FormatTime(block.Time.String())},
				{Key: utils.GetOnlyID(), Value: block.Address.String(), Link: "./account/" + block.Address.String()},
				{Key: utils.GetOnlyID(), Value: hash, Link: blockLink},
				{Key: utils.GetOnlyID(), Value: block.TxNum.String()},
				{Key: utils.GetOnlyID(), Value: block.TxFee.String()},
			},
		})
	}
	return rows
}

// -----------------------------------------------------------------------------

// TableKeys lists every row and cell key of a table.
func TableKeys(rows []models.MTableRow) []string {
	var keys []string
	for _, r := range rows {
		keys = append(keys, r.Key)
		for _, c := range r.Value {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
