package models

// -----------------------------------------------------------------------------
// Home page snapshot (latest known aggregate state)
// -----------------------------------------------------------------------------

// MTableCell is one keyed cell of the block list table. Link is empty for plain cells.
type MTableCell struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Link  string `json:"link,omitempty"`
}

// MTableRow is one keyed row of the block list table.
type MTableRow struct {
	Key   string       `json:"key"`
	Value []MTableCell `json:"value"`
}

type MHomeSnapshot struct {
	BlockHeight         string      `json:"blockHeight"`
	TransactionVolume   string      `json:"transactionVolume"`
	PendingBlockVolume  string      `json:"pendingBlockVolume"`
	NewBlockTransaction string      `json:"newBlockTransaction"`
	TransactionRate     float64     `json:"transactionRate"`
	Price               string      `json:"price"`
	PriceRate           float64     `json:"priceRate"`
	MarkValue           string      `json:"markValue"`
	AllTokenVolume      string      `json:"allTokenVolume"`
	AllPledge           string      `json:"allPledge"`
	PledgeRate          float64     `json:"pledgeRate"`
	NowVolume           string      `json:"nowVolume"`
	HistoryMaxVolume    string      `json:"historyMaxVolume"`
	BlockListTable      []MTableRow `json:"blockListTable"`
}

// NewHomeSnapshot returns a snapshot with every field set to its empty default.
func NewHomeSnapshot() MHomeSnapshot {
	return MHomeSnapshot{BlockListTable: []MTableRow{}}
}

// MHomePatch is a partial snapshot. Nil fields are absent and leave the target untouched.
type MHomePatch struct {
	BlockHeight         *string
	TransactionVolume   *string
	PendingBlockVolume  *string
	NewBlockTransaction *string
	TransactionRate     *float64
	Price               *string
	PriceRate           *float64
	MarkValue           *string
	AllTokenVolume      *string
	AllPledge           *string
	PledgeRate          *float64
	NowVolume           *string
	HistoryMaxVolume    *string
	BlockListTable      []MTableRow // nil = absent, empty = clear the table
}

// Apply returns s with every present field of p written over it.
func (p MHomePatch) Apply(s MHomeSnapshot) MHomeSnapshot {
	setString(&s.BlockHeight, p.BlockHeight)
	setString(&s.TransactionVolume, p.TransactionVolume)
	setString(&s.PendingBlockVolume, p.PendingBlockVolume)
	setString(&s.NewBlockTransaction, p.NewBlockTransaction)
	setFloat(&s.TransactionRate, p.TransactionRate)
	setString(&s.Price, p.Price)
	setFloat(&s.PriceRate, p.PriceRate)
	setString(&s.MarkValue, p.MarkValue)
	setString(&s.AllTokenVolume, p.AllTokenVolume)
	setString(&s.AllPledge, p.AllPledge)
	setFloat(&s.PledgeRate, p.PledgeRate)
	setString(&s.NowVolume, p.NowVolume)
	setString(&s.HistoryMaxVolume, p.HistoryMaxVolume)
	if p.BlockListTable != nil {
		s.BlockListTable = p.BlockListTable
	}
	return s
}

// IsEmpty reports whether the patch carries no field at all.
func (p MHomePatch) IsEmpty() bool {
	return p.BlockHeight == nil && p.TransactionVolume == nil && p.PendingBlockVolume == nil &&
		p.NewBlockTransaction == nil && p.TransactionRate == nil && p.Price == nil &&
		p.PriceRate == nil && p.MarkValue == nil && p.AllTokenVolume == nil &&
		p.AllPledge == nil && p.PledgeRate == nil && p.NowVolume == nil &&
		p.HistoryMaxVolume == nil && p.BlockListTable == nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// String and Float build patch fields inline.
func String(v string) *string { return &v }

func Float(v float64) *float64 { return &v }
