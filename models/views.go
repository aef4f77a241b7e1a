package models

import "github.com/shopspring/decimal"

// Display fallbacks for absent or malformed fields
const (
	DisplayNotAvailable = "N/A"
	DisplayTBA          = "TBA"
	DisplayMissing      = "-"
)

// PercentageSource tells where a GMP percentage came from
type PercentageSource string

const (
	PercentageComputed PercentageSource = "computed"
	PercentageEmbedded PercentageSource = "embedded"
	PercentageNone     PercentageSource = "none"
)

// GMPStats is the derived grey-market view of one listing
type GMPStats struct {
	Premium               decimal.Decimal  `json:"premium"`
	PremiumText           string           `json:"premium_text"`
	PercentageValue       float64          `json:"percentage_value"`
	Percentage            string           `json:"percentage"`
	PercentageSource      PercentageSource `json:"percentage_source"`
	EstimatedListingPrice decimal.Decimal  `json:"estimated_listing_price"`
	EstimatedListing      string           `json:"estimated_listing"`
	IsHot                 bool             `json:"is_hot"`
}

// TimelineStep is one classified lifecycle milestone
type TimelineStep struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Icon    string `json:"icon"`
	Reached bool   `json:"reached"`
}

// TimelineView is a timeline plus its progress indicator
type TimelineView struct {
	Steps       []TimelineStep `json:"steps"`
	Progress    float64        `json:"progress"`
	ActiveIndex int            `json:"active_index"`
}

// StatusStyle is the presentational treatment of an IPO status
type StatusStyle struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Tone   string `json:"tone"`
}

// IPOCard is the list-row view of a listing
type IPOCard struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	RawName     string      `json:"raw_name"`
	Board       string      `json:"board"`
	Status      StatusStyle `json:"status"`
	PriceBand   string      `json:"price_band"`
	LotSize     string      `json:"lot_size"`
	IssueSize   string      `json:"issue_size"`
	OpenDate    string      `json:"open_date"`
	CloseDate   string      `json:"close_date"`
	ListingDate string      `json:"listing_date"`
	GMP         GMPStats    `json:"gmp"`
	LogoURL     string      `json:"logo_url,omitempty"`
}

// SubscriptionRow is a subscription record joined with its application count
type SubscriptionRow struct {
	Category     string `json:"category"`
	Subscription string `json:"subscription"`
	Applied      string `json:"applied"`
	Matched      bool   `json:"matched"`
}

// IPODetailView is the details screen view of a listing
type IPODetailView struct {
	Card            IPOCard              `json:"card"`
	About           string               `json:"about"`
	Timeline        TimelineView         `json:"timeline"`
	BasicDetails    KeyValueList         `json:"basic_details"`
	OfferStructure  KeyValueList         `json:"offer_structure"`
	LotDistribution []LotDistributionRow `json:"lot_distribution"`
	Reservations    []ReservationRow     `json:"reservations"`
	LeadManagers    []string             `json:"lead_managers"`
	Documents       []Document           `json:"documents"`
	Subscriptions   []SubscriptionRow    `json:"subscriptions"`
}

// BuybackCard is the list-row view of a buyback offer
type BuybackCard struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	RawStatus    string       `json:"raw_status"`
	Phase        BuybackPhase `json:"phase"`
	BuybackPrice string       `json:"buyback_price"`
	MarketPrice  string       `json:"market_price"`
	Premium      string       `json:"premium"`
	PremiumPct   string       `json:"premium_percentage"`
	IssueSize    string       `json:"issue_size"`
	Shares       string       `json:"shares"`
	RecordDate   string       `json:"record_date"`
}

// PortfolioEntryView is a ledger entry with derived profit/loss text
type PortfolioEntryView struct {
	ID         string `json:"id"`
	IPOName    string `json:"ipo_name"`
	Invested   string `json:"invested"`
	Quantity   int    `json:"quantity"`
	Status     string `json:"status"`
	ProfitLoss string `json:"profit_loss"`
}

// PortfolioView is the rendered portfolio screen
type PortfolioView struct {
	Entries       []PortfolioEntryView `json:"entries"`
	TotalInvested string               `json:"total_invested"`
	TotalProfit   string               `json:"total_profit"`
}

// HomeView is the dashboard assembled from several feeds
type HomeView struct {
	Open      []IPOCard `json:"open"`
	Upcoming  []IPOCard `json:"upcoming"`
	GMPTrends []IPOCard `json:"gmp_trends"`
}
