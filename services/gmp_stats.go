package services

import (
	"regexp"
	"strconv"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/shopspring/decimal"
)

// HotGMPThreshold is the percentage above which a listing is flagged hot
const HotGMPThreshold = 50.0

var embeddedPercentagePattern = regexp.MustCompile(`\(\s*([-+]?\d+(?:\.\d+)?)\s*%\s*\)`)

// GMPDeriver computes grey-market statistics with a configurable currency formatter
type GMPDeriver struct {
	formatter *shared.CurrencyFormatter
}

// NewGMPDeriver creates a deriver; a nil formatter uses the en-IN rupee formatter
func NewGMPDeriver(formatter *shared.CurrencyFormatter) *GMPDeriver {
	if formatter == nil {
		formatter = shared.DefaultCurrencyFormatter()
	}
	return &GMPDeriver{formatter: formatter}
}

var defaultGMPDeriver = NewGMPDeriver(nil)

// DeriveGMPStats derives GMP statistics with the default formatter
func DeriveGMPStats(premiumRaw string, priceBandUpper float64) models.GMPStats {
	return defaultGMPDeriver.Derive(premiumRaw, priceBandUpper)
}

// Derive computes premium percentage and estimated listing price.
//
// The premium is the first number in premiumRaw (0 when absent). With a positive upper
// bound the percentage is premium/upper*100 rounded to 2 places, unless premiumRaw
// embeds "(<n>%)", which takes precedence. A non-positive upper bound yields "0%" and
// a zero estimate.
func (d *GMPDeriver) Derive(premiumRaw string, priceBandUpper float64) models.GMPStats {
	premiumValue, _ := extractNumeric(stripEmbeddedPercentage(premiumRaw))
	premium := decimal.NewFromFloat(premiumValue)

	stats := models.GMPStats{
		Premium:               premium,
		PremiumText:           d.formatter.FormatSigned(premium),
		Percentage:            shared.FormatPercentage(0),
		PercentageSource:      models.PercentageNone,
		EstimatedListingPrice: decimal.Zero,
		EstimatedListing:      d.formatter.FormatDecimal(decimal.Zero),
	}

	if !(priceBandUpper > 0) {
		return stats
	}

	upper := decimal.NewFromFloat(priceBandUpper)
	stats.EstimatedListingPrice = upper.Add(premium)
	stats.EstimatedListing = d.formatter.FormatDecimal(stats.EstimatedListingPrice)

	percentage := premium.Div(upper).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	stats.PercentageSource = models.PercentageComputed

	if embedded, ok := parseEmbeddedPercentage(premiumRaw); ok {
		percentage = embedded
		stats.PercentageSource = models.PercentageEmbedded
	}

	stats.PercentageValue = percentage
	stats.Percentage = shared.FormatPercentage(percentage)
	stats.IsHot = percentage > HotGMPThreshold
	return stats
}

// parseEmbeddedPercentage finds a self-reported "(67.1%)" figure in a raw premium
func parseEmbeddedPercentage(premiumRaw string) (float64, bool) {
	match := embeddedPercentagePattern.FindStringSubmatch(premiumRaw)
	if len(match) < 2 {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// stripEmbeddedPercentage removes the parenthetical so its digits are not read as the premium
func stripEmbeddedPercentage(premiumRaw string) string {
	return embeddedPercentagePattern.ReplaceAllString(premiumRaw, " ")
}
