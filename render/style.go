package render

import (
	"image/color"
)

var (
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow    = color.RGBA{R: 255, G: 255, A: 255}
	Gray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	Red       = color.RGBA{R: 255, A: 255}
	Green     = color.RGBA{G: 128, A: 255}
	Blue      = color.RGBA{B: 255, A: 255}
	Orange    = color.RGBA{R: 255, G: 165, A: 255}
	LightBlue = color.RGBA{R: 173, G: 216, B: 230, A: 255}
	DarkBlue  = color.RGBA{B: 139, A: 255}
)

// WithAlpha returns c with its alpha channel replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

var laneMarkStyles = map[string]Style{
	"SOLID_WHITE":         {LineColor: White, LineWidth: 3},
	"DASHED_WHITE":        {LineColor: White, LineWidth: 2},
	"SOLID_YELLOW":        {LineColor: Yellow, LineWidth: 3},
	"DASHED_YELLOW":       {LineColor: Yellow, LineWidth: 2},
	"DOUBLE_SOLID_YELLOW": {LineColor: Yellow, LineWidth: 4},
	"SOLID_DASH_YELLOW":   {LineColor: Yellow, LineWidth: 3},
	"DASH_SOLID_YELLOW":   {LineColor: Yellow, LineWidth: 3},
	"NONE":                {LineColor: Gray, LineWidth: 1},
}

// LaneMarkStyle falls back to the NONE style for unknown mark types.
func LaneMarkStyle(markType string) Style {
	if s, ok := laneMarkStyles[markType]; ok {
		return s
	}
	return laneMarkStyles["NONE"]
}

// LaneTypeColor is the legend colour of a lane type.
func LaneTypeColor(laneType string) color.RGBA {
	switch laneType {
	case "BIKE":
		return Green
	case "BUS":
		return Orange
	case "PEDESTRIAN":
		return Red
	}
	return Blue
}

var (
	CrossingStyle = Style{LineColor: Yellow, LineWidth: 4}
	DrivableStyle = Style{LineColor: DarkBlue, LineWidth: 2, FillColor: LightBlue, Fill: true, Outline: true}

	// ReferenceAreaStyle and AttemptAreaStyle draw reference-point placements.
	ReferenceAreaStyle = Style{LineColor: Red, LineWidth: 3, FillColor: WithAlpha(Blue, 150), Fill: true, Outline: true}
	AttemptAreaStyle   = Style{LineColor: Yellow, LineWidth: 2, FillColor: WithAlpha(Green, 120), Fill: true, Outline: true}

	LandmarkStyle = Style{IconScale: 1.2}

	// CoverageStyle draws S2 cells holding scenarios.
	CoverageStyle = Style{LineColor: Orange, LineWidth: 1, FillColor: WithAlpha(Orange, 90), Fill: true, Outline: true}
)

// SplitColor colours trajectories by dataset split.
func SplitColor(split string) color.RGBA {
	switch split {
	case "train":
		return Red
	case "val":
		return Green
	}
	return Blue
}

// TrajectoryStyle is a width 2 line in the split colour.
func TrajectoryStyle(split string) Style {
	return Style{LineColor: SplitColor(split), LineWidth: 2}
}
