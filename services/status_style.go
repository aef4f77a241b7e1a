package services

import (
	"strings"

	"github.com/fenilmodi00/ipo-companion/models"
)

// Display tones
const (
	ToneSuccess = "success"
	ToneInfo    = "info"
	ToneMuted   = "muted"
	ToneAccent  = "accent"
	ToneNeutral = "neutral"
)

var statusStyles = map[models.IPOStatus]models.StatusStyle{
	models.IPOStatusOpen:     {Status: string(models.IPOStatusOpen), Label: "Open", Tone: ToneSuccess},
	models.IPOStatusUpcoming: {Status: string(models.IPOStatusUpcoming), Label: "Upcoming", Tone: ToneInfo},
	models.IPOStatusClosed:   {Status: string(models.IPOStatusClosed), Label: "Closed", Tone: ToneMuted},
	models.IPOStatusListed:   {Status: string(models.IPOStatusListed), Label: "Listed", Tone: ToneAccent},
}

// StyleForStatus returns the style of an IPO status. Unknown values get a neutral
// style labelled with the raw text ("N/A" when blank).
func StyleForStatus(status string) models.StatusStyle {
	parsed, ok := models.ParseIPOStatus(status)
	if ok {
		return statusStyles[parsed]
	}

	label := strings.TrimSpace(status)
	if label == "" {
		label = models.DisplayNotAvailable
	}
	return models.StatusStyle{Status: string(parsed), Label: label, Tone: ToneNeutral}
}

// ClassifyBuybackStatus maps a free-text buyback status onto a phase.
// "closes" and "closed" are checked before "open", so "Reopened, closed early" is done.
func ClassifyBuybackStatus(status string) models.BuybackPhase {
	text := strings.ToLower(status)

	switch {
	case strings.Contains(text, "closes"):
		return models.BuybackPhaseActive
	case strings.Contains(text, "closed"):
		return models.BuybackPhaseDone
	case strings.Contains(text, "open"):
		return models.BuybackPhaseActive
	case strings.Contains(text, "upcoming"), strings.Contains(text, "starts"):
		return models.BuybackPhasePending
	}

	return models.BuybackPhaseUnknown
}
