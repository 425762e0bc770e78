package models

// MChainView feeds the chain summary panel.
type MChainView struct {
	BlockHeight         string  `json:"blockHeight"`
	TransactionVolume   string  `json:"transactionVolume"`
	PendingBlockVolume  string  `json:"pendingBlockVolume"`
	NewBlockTransaction string  `json:"newBlockTransaction"`
	TransactionRate     float64 `json:"transactionRate"`
}

// MNewsView feeds the market panel.
type MNewsView struct {
	Price            string  `json:"price"`
	PriceRate        float64 `json:"priceRate"`
	MarkValue        string  `json:"markValue"`
	AllTokenVolume   string  `json:"allTokenVolume"`
	AllPledge        string  `json:"allPledge"`
	PledgeRate       float64 `json:"pledgeRate"`
	NowVolume        string  `json:"nowVolume"`
	HistoryMaxVolume string  `json:"historyMaxVolume"`
}

func (s MHomeSnapshot) ChainView() MChainView {
	return MChainView{
		BlockHeight:         s.BlockHeight,
		TransactionVolume:   s.TransactionVolume,
		PendingBlockVolume:  s.PendingBlockVolume,
		NewBlockTransaction: s.NewBlockTransaction,
		TransactionRate:     s.TransactionRate,
	}
}

func (s MHomeSnapshot) NewsView() MNewsView {
	return MNewsView{
		Price:            s.Price,
		PriceRate:        s.PriceRate,
		MarkValue:        s.MarkValue,
		AllTokenVolume:   s.AllTokenVolume,
		AllPledge:        s.AllPledge,
		PledgeRate:       s.PledgeRate,
		NowVolume:        s.NowVolume,
		HistoryMaxVolume: s.HistoryMaxVolume,
	}
}
