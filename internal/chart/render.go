package chart

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
)

const (
	defaultWidth  = 1024
	defaultHeight = 512

	// Longer labels crowd each other out under the bars.
	maxLabelRunes = 24
)

// ErrNoTallies is returned when there is nothing to draw.
var ErrNoTallies = errors.New("no tallies to render")

// Renderer draws vote tallies as a PNG bar chart.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a renderer with the default canvas size.
func NewRenderer() *Renderer {
	return &Renderer{width: defaultWidth, height: defaultHeight}
}

// Render writes a PNG bar chart of the tallies, one bar per option in
// slice order. All-zero tallies still produce a chart with an empty
// zero-to-one scale.
func (r *Renderer) Render(w io.Writer, title string, tallies []Tally) error {
	if len(tallies) == 0 {
		return ErrNoTallies
	}

	top := 0
	for _, t := range tallies {
		if t.Votes > top {
			top = t.Votes
		}
	}
	if top < 1 {
		top = 1
	}

	bars := make([]gochart.Value, len(tallies))
	for i, t := range tallies {
		bars[i] = gochart.Value{
			Value: float64(t.Votes),
			Label: truncateLabel(t.Label),
		}
	}

	graph := gochart.BarChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		BarWidth:     64,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(roundUp(top, tickStep(top)))},
			Ticks: voteTicks(top),
		},
		Bars: bars,
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// voteTicks builds whole-number ticks from zero up to the first step
// multiple covering the highest tally. Vote counts are integers, so
// fractional auto-generated ticks would only mislead.
func voteTicks(top int) []gochart.Tick {
	step := tickStep(top)
	var ticks []gochart.Tick
	for v := 0; v <= roundUp(top, step); v += step {
		ticks = append(ticks, gochart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks
}

// tickStep picks 1, 2, 5, 10, 20, ... so the axis carries at most
// around eight ticks.
func tickStep(top int) int {
	step := 1
	for top/step > 8 {
		switch {
		case top/(step*2) <= 8:
			step *= 2
		case top/(step*5) <= 8:
			step *= 5
		default:
			step *= 10
		}
	}
	return step
}

func roundUp(n, step int) int {
	if n%step == 0 {
		return n
	}
	return (n/step + 1) * step
}

func truncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLabelRunes {
		return s
	}
	return string(runes[:maxLabelRunes-1]) + "…"
}
