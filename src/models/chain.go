package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// Backend payloads (/blockchain, /info, /num_unconfirmed_txs, /coin_info)
// -----------------------------------------------------------------------------

// Scalar holds the text of a JSON scalar regardless of whether the backend sent it
// as a number or a string. null decodes to "".
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	*s = Scalar(data)
	return nil
}

func (s Scalar) String() string { return string(s) }

// Float parses the scalar as a float. Unparsable text and non-finite values
// ("NaN", "Inf") yield 0, since the snapshot must always encode as JSON.
func (s Scalar) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// MBlock is one row of /blockchain.
type MBlock struct {
	Hash    Scalar `json:"hash"`
	BlockID Scalar `json:"block_id"`
	Time    Scalar `json:"time"`
	Address Scalar `json:"address"`
	TxNum   Scalar `json:"tx_num"`
	TxFee   Scalar `json:"tx_fee"`
}

// MChainInfo is the /info payload.
type MChainInfo struct {
	BlockNum   Scalar `json:"block_num"`
	AvgTx      Scalar `json:"avg_tx"`
	MaxAvgTx   Scalar `json:"max_avg_tx"`
	TxNums     Scalar `json:"tx_nums"`
	Ratio      Scalar `json:"ratio"`
	TotalTxNum Scalar `json:"total_tx_num"`
}

// MCoinInfo is the /coin_info payload.
type MCoinInfo struct {
	Price           Scalar `json:"price"`
	PriceDriftRatio Scalar `json:"price_drift_ratio"`
	TotalPrice      Scalar `json:"total_price"`
	Supply          Scalar `json:"supply"`
	Staking         Scalar `json:"staking"`
	StakingRatio    Scalar `json:"staking_ratio"`
}
