package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// PortfolioStatus is the self-reported state of a ledger entry
type PortfolioStatus string

const (
	PortfolioStatusApplied  PortfolioStatus = "APPLIED"
	PortfolioStatusAllotted PortfolioStatus = "ALLOTTED"
	PortfolioStatusSold     PortfolioStatus = "SOLD"
)

// PortfolioTransaction is one user-authored ledger entry
type PortfolioTransaction struct {
	ID             FlexString          `json:"id"`
	IPOName        string              `json:"ipo_name"`
	InvestedAmount decimal.Decimal     `json:"invested_amount"`
	Quantity       OptionalNumber      `json:"quantity"`
	Status         string              `json:"status"`
	SellAmount     decimal.NullDecimal `json:"sell_amount"`
	ReportedProfit decimal.NullDecimal `json:"profit_loss"`
	CreatedAt      FlexString          `json:"created_at"`
}

// UnmarshalJSON implements json.Unmarshaler. Malformed amounts decode as absent
// (invested as zero) instead of failing the whole portfolio.
func (t *PortfolioTransaction) UnmarshalJSON(data []byte) error {
	type plain PortfolioTransaction
	var wire struct {
		plain
		InvestedAmount json.RawMessage `json:"invested_amount"`
		SellAmount     json.RawMessage `json:"sell_amount"`
		ReportedProfit json.RawMessage `json:"profit_loss"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*t = PortfolioTransaction(wire.plain)
	t.InvestedAmount, _ = ParseLooseAmount(wire.InvestedAmount)
	t.SellAmount = looseNullAmount(wire.SellAmount)
	t.ReportedProfit = looseNullAmount(wire.ReportedProfit)
	return nil
}

// IsSold reports whether the entry has been closed out
func (t PortfolioTransaction) IsSold() bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), string(PortfolioStatusSold))
}

// ProfitLoss is defined only for SOLD entries. The server figure wins when present,
// otherwise it is sell amount minus invested amount.
func (t PortfolioTransaction) ProfitLoss() decimal.NullDecimal {
	if !t.IsSold() {
		return decimal.NullDecimal{}
	}
	if t.ReportedProfit.Valid {
		return t.ReportedProfit
	}
	if t.SellAmount.Valid {
		return decimal.NewNullDecimal(t.SellAmount.Decimal.Sub(t.InvestedAmount))
	}
	return decimal.NullDecimal{}
}

// PortfolioSummary is the server-computed aggregate
type PortfolioSummary struct {
	TotalInvested decimal.Decimal `json:"total_invested"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}

// UnmarshalJSON implements json.Unmarshaler. Malformed totals decode as zero.
func (s *PortfolioSummary) UnmarshalJSON(data []byte) error {
	var wire struct {
		TotalInvested json.RawMessage `json:"total_invested"`
		TotalProfit   json.RawMessage `json:"total_profit"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	s.TotalInvested, _ = ParseLooseAmount(wire.TotalInvested)
	s.TotalProfit, _ = ParseLooseAmount(wire.TotalProfit)
	return nil
}

// Portfolio is the response of the portfolio endpoint
type Portfolio struct {
	Items   []PortfolioTransaction `json:"items"`
	Summary PortfolioSummary       `json:"summary"`
}

// PortfolioTransactionRequest is the payload submitted for a new ledger entry
type PortfolioTransactionRequest struct {
	UserID         string   `json:"user_id" validate:"required"`
	ClientRef      string   `json:"client_ref"`
	IPOName        string   `json:"ipo_name" validate:"required,max=200"`
	InvestedAmount float64  `json:"invested_amount" validate:"gt=0"`
	Quantity       int      `json:"quantity" validate:"gt=0"`
	Status         string   `json:"status" validate:"required,oneof=APPLIED ALLOTTED SOLD"`
	SellAmount     *float64 `json:"sell_amount,omitempty" validate:"omitnil,gte=0"`
}

// Ack is a generic success/message response
type Ack struct {
	Success bool       `json:"success"`
	Message FlexString `json:"message"`
	ID      FlexString `json:"id,omitempty"`
}
