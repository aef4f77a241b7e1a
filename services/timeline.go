package services

import (
	"time"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
)

// BuildTimeline classifies each milestone as reached or not against the clock's
// current day. Unparseable dates (including "TBA") are never reached and keep their
// raw text. Output order matches input order.
func BuildTimeline(milestones []models.Milestone, clock shared.Clock) []models.TimelineStep {
	if clock == nil {
		clock = shared.SystemClock{}
	}

	year, month, day := clock.Now().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	steps := make([]models.TimelineStep, 0, len(milestones))
	for _, milestone := range milestones {
		step := models.TimelineStep{
			Title: milestone.Title,
			Date:  milestone.DateRaw,
			Icon:  milestone.Icon,
		}

		if date := ParseDate(milestone.DateRaw); date != nil {
			step.Date = date.Format("02 Jan 2006")
			step.Reached = !date.After(today)
		}

		steps = append(steps, step)
	}

	return steps
}

// TimelineProgress returns the fraction of reached steps and the index of the last
// reached one (-1 when none is reached)
func TimelineProgress(steps []models.TimelineStep) (float64, int) {
	if len(steps) == 0 {
		return 0, -1
	}

	reached := 0
	active := -1
	for i, step := range steps {
		if step.Reached {
			reached++
			active = i
		}
	}

	return float64(reached) / float64(len(steps)), active
}

// BuildTimelineView bundles the timeline with its progress indicator
func BuildTimelineView(milestones []models.Milestone, clock shared.Clock) models.TimelineView {
	steps := BuildTimeline(milestones, clock)
	progress, active := TimelineProgress(steps)
	return models.TimelineView{
		Steps:       steps,
		Progress:    progress,
		ActiveIndex: active,
	}
}
