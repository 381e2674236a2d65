package directions

import "strings"

// Display defaults for transit steps with incomplete provider metadata.
const (
	defaultTransitColor     = "#1A73E8"
	defaultTransitTextColor = "#FFFFFF"
	placeholderDeparture    = "Departure Stop"
	placeholderArrival      = "Arrival Stop"

	// walkPolylineSeparator joins the geometries of merged walking
	// micro-steps. Rendering decodes per raw segment, so true stitching is
	// not needed.
	walkPolylineSeparator = "|"
)

// walkAccumulator collects consecutive walking micro-steps until a
// non-walking step or end of input flushes it as one consolidated step.
type walkAccumulator struct {
	distanceMeters int
	seconds        int
	polyline       string
}

func (w *walkAccumulator) add(step RawStep) {
	w.distanceMeters += step.DistanceMeters
	w.seconds += step.Duration.Seconds
	if step.Polyline != "" {
		if w.polyline != "" {
			w.polyline += walkPolylineSeparator + step.Polyline
		} else {
			w.polyline = step.Polyline
		}
	}
}

func (w *walkAccumulator) flush() NormalizedStep {
	return NormalizedStep{
		Kind:            StepWalk,
		Mode:            "walking",
		DurationSeconds: w.seconds,
		DurationText:    FormatDuration(w.seconds),
		DistanceText:    FormatDistance(w.distanceMeters),
		Polyline:        w.polyline,
	}
}

// ConsolidateSteps flattens the raw legs into an ordered list of
// human-meaningful steps. Consecutive walking steps merge into one; transit
// steps are emitted individually with display fields derived from their
// metadata; any other mode passes through as a generic step. The output never
// has more steps than the input.
func ConsolidateSteps(legs []RawLeg) []NormalizedStep {
	var steps []NormalizedStep
	var walk *walkAccumulator

	flushWalk := func() {
		if walk != nil {
			steps = append(steps, walk.flush())
			walk = nil
		}
	}

	for _, leg := range legs {
		for _, step := range leg.Steps {
			switch step.TravelMode {
			case ModeTransit:
				flushWalk()
				steps = append(steps, transitStep(step))

			case ModeWalking:
				if walk == nil {
					walk = &walkAccumulator{}
				}
				walk.add(step)

			default:
				flushWalk()
				steps = append(steps, NormalizedStep{
					Kind:            StepOther,
					Mode:            step.TravelMode,
					DurationSeconds: step.Duration.Seconds,
					DurationText:    durationText(step),
					DistanceText:    FormatDistance(step.DistanceMeters),
					Polyline:        step.Polyline,
				})
			}
		}
	}

	flushWalk()
	return steps
}

// transitStep derives the display fields for one transit step.
func transitStep(step RawStep) NormalizedStep {
	info := &TransitInfo{
		DepartureStop: placeholderDeparture,
		ArrivalStop:   placeholderArrival,
		Color:         defaultTransitColor,
		TextColor:     defaultTransitTextColor,
	}
	mode := "transit"

	if details := step.Transit; details != nil {
		info.Line = details.Line.ShortName
		if info.Line == "" {
			info.Line = details.Line.Name
		}
		info.Headsign = details.Headsign
		info.Agency = details.Line.Agency
		info.NumStops = details.NumStops
		info.DepartureTime = details.DepartureTime
		info.ArrivalTime = details.ArrivalTime

		if details.Line.Color != "" {
			info.Color = details.Line.Color
		}
		if details.Line.TextColor != "" {
			info.TextColor = details.Line.TextColor
		}

		if details.Line.Vehicle != "" {
			mode = strings.ToLower(details.Line.Vehicle)
		}

		// Real stop names only when both ends are known; a single named end
		// with an anonymous counterpart reads worse than two placeholders.
		if details.DepartureStop != nil && details.ArrivalStop != nil {
			info.DepartureStop = details.DepartureStop.Name
			info.ArrivalStop = details.ArrivalStop.Name
		}
		if details.DepartureStop != nil && details.DepartureStop.Location != nil {
			loc := *details.DepartureStop.Location
			info.DepartureLocation = &loc
		}
		if details.ArrivalStop != nil && details.ArrivalStop.Location != nil {
			loc := *details.ArrivalStop.Location
			info.ArrivalLocation = &loc
		}
	}

	return NormalizedStep{
		Kind:            StepTransit,
		Mode:            mode,
		DurationSeconds: step.Duration.Seconds,
		DurationText:    durationText(step),
		DistanceText:    FormatDistance(step.DistanceMeters),
		Polyline:        step.Polyline,
		Transit:         info,
	}
}

func durationText(step RawStep) string {
	if step.Duration.Text != "" {
		return step.Duration.Text
	}
	return FormatDuration(step.Duration.Seconds)
}
