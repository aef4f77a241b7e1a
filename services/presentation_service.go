package services

import (
	"strings"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/shopspring/decimal"
)

// PresentationService turns market API records into display-ready views. Absent or
// malformed fields render as fallbacks and never fail.
type PresentationService struct {
	formatter *shared.CurrencyFormatter
	gmp       *GMPDeriver
	clock     shared.Clock
}

// NewPresentationService creates a presentation service. nil arguments use the en-IN
// formatter and the system clock.
func NewPresentationService(formatter *shared.CurrencyFormatter, clock shared.Clock) *PresentationService {
	if formatter == nil {
		formatter = shared.DefaultCurrencyFormatter()
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &PresentationService{
		formatter: formatter,
		gmp:       NewGMPDeriver(formatter),
		clock:     clock,
	}
}

// IPOCard renders a list row
func (p *PresentationService) IPOCard(listing models.IPOListing) models.IPOCard {
	board := "Mainboard"
	if listing.IsSME {
		board = "SME"
	}

	lotSize := models.DisplayNotAvailable
	if listing.LotSize.Valid && listing.LotSize.Value > 0 {
		lotSize = p.formatter.FormatNumber(listing.LotSize.Value)
	}

	return models.IPOCard{
		ID:          listing.ID.String(),
		Name:        NormalizeCompanyName(listing.Name),
		RawName:     listing.Name,
		Board:       board,
		Status:      StyleForStatus(listing.Status),
		PriceBand:   p.PriceBand(listing),
		LotSize:     lotSize,
		IssueSize:   listing.IssueSize.Or(models.DisplayNotAvailable),
		OpenDate:    FormatDisplayDate(listing.OpenDate.String()),
		CloseDate:   FormatDisplayDate(listing.CloseDate.String()),
		ListingDate: FormatDisplayDate(listing.ListingDate.String()),
		GMP:         p.gmp.Derive(listing.GMP.String(), listing.PriceBandUpper()),
		LogoURL:     listing.LogoURL.String(),
	}
}

// IPOCards renders a page of list rows
func (p *PresentationService) IPOCards(listings []models.IPOListing) []models.IPOCard {
	cards := make([]models.IPOCard, 0, len(listings))
	for _, listing := range listings {
		cards = append(cards, p.IPOCard(listing))
	}
	return cards
}

// PriceBand renders "₹95 - ₹100", a single bound, or "TBA"
func (p *PresentationService) PriceBand(listing models.IPOListing) string {
	low, high := listing.PriceBandLow, listing.PriceBandHigh
	switch {
	case listing.HasValidPriceBand() && low.Value != high.Value && low.Value > 0:
		return p.formatter.Format(low.Value) + " - " + p.formatter.Format(high.Value)
	case high.Valid && high.Value > 0:
		return p.formatter.Format(high.Value)
	case low.Valid && low.Value > 0:
		return p.formatter.Format(low.Value)
	}
	return models.DisplayTBA
}

// IPODetailView renders the details screen
func (p *PresentationService) IPODetailView(details models.IPODetails) models.IPODetailView {
	view := models.IPODetailView{
		Card:            p.IPOCard(details.IPOListing),
		About:           PlainText(details.About.String()),
		Timeline:        BuildTimelineView(details.Milestones(), p.clock),
		BasicDetails:    details.BasicDetails,
		OfferStructure:  details.OfferStructure,
		LotDistribution: details.LotDistribution,
		Reservations:    details.Reservations,
		Subscriptions:   p.SubscriptionRows(details.Subscriptions, details.ApplicationBreakup),
	}

	for _, manager := range details.LeadManagers {
		if name := strings.TrimSpace(manager.Name); name != "" {
			view.LeadManagers = append(view.LeadManagers, name)
		}
	}
	for _, document := range details.Documents {
		if !document.URL.IsBlank() {
			view.Documents = append(view.Documents, document)
		}
	}

	return view
}

// SubscriptionRows joins each subscription record with its reconciled application count
func (p *PresentationService) SubscriptionRows(subscriptions []models.SubscriptionRecord, breakup []models.ApplicationBreakupRecord) []models.SubscriptionRow {
	rows := make([]models.SubscriptionRow, 0, len(subscriptions))
	for _, record := range subscriptions {
		row := models.SubscriptionRow{
			Category:     strings.TrimSpace(record.Category),
			Subscription: models.DisplayMissing,
			Applied:      models.DisplayMissing,
		}
		if record.Subscription.Valid {
			row.Subscription = p.formatter.FormatNumber(record.Subscription.Value) + "x"
		}

		if match := ReconcileCategory(record.Category, breakup); match != nil {
			row.Matched = true
			if count, ok := match.AppliedCount(); ok {
				row.Applied = p.formatter.FormatNumber(float64(count))
			} else {
				row.Applied = match.Applied.Or(models.DisplayMissing)
			}
		}

		rows = append(rows, row)
	}
	return rows
}

// BuybackCard renders a buyback row with its premium over the market price
func (p *PresentationService) BuybackCard(offer models.BuybackOffer) models.BuybackCard {
	card := models.BuybackCard{
		ID:           offer.ID.String(),
		Name:         NormalizeCompanyName(offer.CompanyName),
		RawStatus:    strings.TrimSpace(offer.Status),
		Phase:        ClassifyBuybackStatus(offer.Status),
		BuybackPrice: p.formatter.Format(offer.BuybackPrice.Or(0)),
		MarketPrice:  p.formatter.Format(offer.MarketPrice.Or(0)),
		Premium:      models.DisplayMissing,
		PremiumPct:   models.DisplayMissing,
		IssueSize:    offer.IssueSize.Or(models.DisplayNotAvailable),
		Shares:       offer.Shares.Or(models.DisplayNotAvailable),
		RecordDate:   FormatDisplayDate(offer.RecordDate.String()),
	}

	if offer.BuybackPrice.Valid && offer.MarketPrice.Valid {
		buyback := decimal.NewFromFloat(offer.BuybackPrice.Value)
		market := decimal.NewFromFloat(offer.MarketPrice.Value)
		premium := buyback.Sub(market)
		card.Premium = p.formatter.FormatSigned(premium)
		if market.IsPositive() {
			pct := premium.Div(market).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
			card.PremiumPct = shared.FormatPercentage(pct)
		}
	}

	return card
}

// BuybackCards renders a page of buyback rows
func (p *PresentationService) BuybackCards(offers []models.BuybackOffer) []models.BuybackCard {
	cards := make([]models.BuybackCard, 0, len(offers))
	for _, offer := range offers {
		cards = append(cards, p.BuybackCard(offer))
	}
	return cards
}

// PortfolioView renders the ledger. Totals come from the server summary unless it is
// empty while entries exist.
func (p *PresentationService) PortfolioView(portfolio *models.Portfolio) models.PortfolioView {
	view := models.PortfolioView{
		Entries:       []models.PortfolioEntryView{},
		TotalInvested: p.formatter.FormatDecimal(decimal.Zero),
		TotalProfit:   p.formatter.FormatSigned(decimal.Zero),
	}
	if portfolio == nil {
		return view
	}

	invested := decimal.Zero
	profit := decimal.Zero
	for _, item := range portfolio.Items {
		entry := models.PortfolioEntryView{
			ID:         item.ID.String(),
			IPOName:    NormalizeCompanyName(item.IPOName),
			Invested:   p.formatter.FormatDecimal(item.InvestedAmount),
			Quantity:   item.Quantity.Int(),
			Status:     strings.ToUpper(strings.TrimSpace(item.Status)),
			ProfitLoss: models.DisplayMissing,
		}
		if pl := item.ProfitLoss(); pl.Valid {
			entry.ProfitLoss = p.formatter.FormatSigned(pl.Decimal)
			profit = profit.Add(pl.Decimal)
		}
		invested = invested.Add(item.InvestedAmount)
		view.Entries = append(view.Entries, entry)
	}

	summary := portfolio.Summary
	if summary.TotalInvested.IsZero() && summary.TotalProfit.IsZero() && len(portfolio.Items) > 0 {
		summary = models.PortfolioSummary{TotalInvested: invested, TotalProfit: profit}
	}
	view.TotalInvested = p.formatter.FormatDecimal(summary.TotalInvested)
	view.TotalProfit = p.formatter.FormatSigned(summary.TotalProfit)
	return view
}
