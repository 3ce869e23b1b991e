// Package histogram renders labeled frequency pairs as a bar chart
// image. It is a pure sink: nothing downstream consumes its output.
package histogram

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fourscore/scoresv/query"
)

// Save renders the successions as a bar chart and writes it to path
// (the extension picks the format, typically .png).
func Save(successions []query.Succession, title, path string) error {
	if len(successions) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	values := make(plotter.Values, len(successions))
	labels := make([]string, len(successions))
	for i, s := range successions {
		values[i] = float64(s.Count)
		label := s.Label
		if label == "" {
			label = "rest"
		}
		labels[i] = label
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Chord type"
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("building bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}
