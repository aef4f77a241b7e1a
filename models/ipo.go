package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// IPOStatus is the lifecycle status reported by the market API
type IPOStatus string

const (
	IPOStatusOpen     IPOStatus = "OPEN"
	IPOStatusUpcoming IPOStatus = "UPCOMING"
	IPOStatusClosed   IPOStatus = "CLOSED"
	IPOStatusListed   IPOStatus = "LISTED"
)

// ParseIPOStatus normalizes case and reports whether the value is one of the four known statuses
func ParseIPOStatus(raw string) (IPOStatus, bool) {
	status := IPOStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case IPOStatusOpen, IPOStatusUpcoming, IPOStatusClosed, IPOStatusListed:
		return status, true
	}
	return status, false
}

// IPOListing is one row of the IPO and GMP feeds
type IPOListing struct {
	ID            FlexString     `json:"id"`
	Name          string         `json:"name"`
	IsSME         bool           `json:"is_sme"`
	Status        string         `json:"status"`
	PriceBandLow  OptionalNumber `json:"price_band_low"`
	PriceBandHigh OptionalNumber `json:"price_band_high"`
	LotSize       OptionalNumber `json:"lot_size"`
	IssueSize     FlexString     `json:"issue_size"`
	GMP           FlexString     `json:"gmp"`
	OpenDate      FlexString     `json:"open_date"`
	CloseDate     FlexString     `json:"close_date"`
	AllotmentDate FlexString     `json:"allotment_date"`
	ListingDate   FlexString     `json:"listing_date"`
	LogoURL       FlexString     `json:"logo_url"`
}

// PriceBandUpper returns the upper bound, or 0 when the band is not announced
func (l IPOListing) PriceBandUpper() float64 {
	return l.PriceBandHigh.Or(0)
}

// HasValidPriceBand reports whether both bounds are present and ordered
func (l IPOListing) HasValidPriceBand() bool {
	return l.PriceBandLow.Valid && l.PriceBandHigh.Valid && l.PriceBandHigh.Value >= l.PriceBandLow.Value
}

// Milestones returns the four lifecycle milestones in real-world order
func (l IPOListing) Milestones() []Milestone {
	return []Milestone{
		{Title: "Open", DateRaw: l.OpenDate.String(), Icon: "calendar-open"},
		{Title: "Close", DateRaw: l.CloseDate.String(), Icon: "calendar-close"},
		{Title: "Allotment", DateRaw: l.AllotmentDate.String(), Icon: "clipboard-check"},
		{Title: "Listing", DateRaw: l.ListingDate.String(), Icon: "trending-up"},
	}
}

// IPOListPage is the response of the IPO and GMP list endpoints
type IPOListPage struct {
	IPOs []IPOListing `json:"ipos"`
}

// SubscriptionRecord is the subscription multiple for one investor category
type SubscriptionRecord struct {
	Category     string         `json:"category"`
	Subscription OptionalNumber `json:"subscription_times"`
}

// ApplicationBreakupRecord is the applied count for one investor category.
// Category labels come from a different feed than SubscriptionRecord.
type ApplicationBreakupRecord struct {
	Category string     `json:"category"`
	Applied  FlexString `json:"applied"`
}

// AppliedCount parses the applied figure, ignoring thousands separators
func (r ApplicationBreakupRecord) AppliedCount() (int64, bool) {
	value, ok := ParseLooseNumber(r.Applied.String())
	if !ok {
		return 0, false
	}
	return int64(value), true
}

// LotDistributionRow is one row of the retail/HNI lot table
type LotDistributionRow struct {
	Application FlexString     `json:"application"`
	Lots        OptionalNumber `json:"lots"`
	Shares      OptionalNumber `json:"shares"`
	Amount      OptionalNumber `json:"amount"`
}

// ReservationRow is one row of the quota table
type ReservationRow struct {
	Category      FlexString `json:"category"`
	SharesOffered FlexString `json:"shares_offered"`
	Percentage    FlexString `json:"percentage"`
}

// LeadManager accepts either a bare name or an object with a name
type LeadManager struct {
	Name string `json:"name"`
}

// UnmarshalJSON implements json.Unmarshaler
func (m *LeadManager) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var object struct {
			Name FlexString `json:"name"`
		}
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return err
		}
		m.Name = object.Name.String()
		return nil
	}
	var name FlexString
	if err := name.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	m.Name = name.String()
	return nil
}

// Document is a downloadable offer document
type Document struct {
	Title FlexString `json:"title"`
	URL   FlexString `json:"url"`
}

// IPODetails is the response of the IPO details endpoint
type IPODetails struct {
	IPOListing
	About              FlexString                 `json:"about"`
	BasicDetails       KeyValueList               `json:"basic_details"`
	OfferStructure     KeyValueList               `json:"offer_structure"`
	LotDistribution    []LotDistributionRow       `json:"lot_distribution"`
	Reservations       []ReservationRow           `json:"reservations"`
	LeadManagers       []LeadManager              `json:"lead_managers"`
	Documents          []Document                 `json:"documents"`
	Subscriptions      []SubscriptionRecord       `json:"subscription"`
	ApplicationBreakup []ApplicationBreakupRecord `json:"application_breakup"`
}

// Milestone is one raw lifecycle date before classification
type Milestone struct {
	Title   string
	DateRaw string
	Icon    string
}
