package models

// BuybackOffer is one row of the buyback feed. Status is free text.
type BuybackOffer struct {
	ID           FlexString     `json:"id"`
	CompanyName  string         `json:"company_name"`
	Status       string         `json:"status"`
	BuybackPrice OptionalNumber `json:"buyback_price"`
	MarketPrice  OptionalNumber `json:"current_market_price"`
	IssueSize    FlexString     `json:"issue_size"`
	Shares       FlexString     `json:"shares"`
	RecordDate   FlexString     `json:"record_date"`
	OpenDate     FlexString     `json:"open_date"`
	CloseDate    FlexString     `json:"close_date"`
}

// BuybackPage is the response of the buyback list endpoint
type BuybackPage struct {
	Buybacks []BuybackOffer `json:"buybacks"`
}

// BuybackPhase is the coarse classification of a buyback's free-text status
type BuybackPhase string

const (
	BuybackPhaseActive  BuybackPhase = "active"
	BuybackPhasePending BuybackPhase = "pending"
	BuybackPhaseDone    BuybackPhase = "done"
	BuybackPhaseUnknown BuybackPhase = "unknown"
)

// Broker is display metadata for a stock broker
type Broker struct {
	ID          FlexString     `json:"id"`
	Name        string         `json:"name"`
	LogoURL     FlexString     `json:"logo_url"`
	Description FlexString     `json:"description"`
	Rating      OptionalNumber `json:"rating"`
	Categories  []string       `json:"categories"`
	Featured    bool           `json:"featured"`
	WebsiteURL  FlexString     `json:"website_url"`
}
