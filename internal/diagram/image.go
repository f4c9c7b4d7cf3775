package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gorcf/internal/capacity"
)

// DemandPoint is one (P, M) demand pair overlaid on a capacity plot.
type DemandPoint struct {
	P float64 // kN, compression positive
	M float64 // kN·m
}

// SaveEnvelopePlot draws the P-M capacity boundary with the demand points
// on top. The extension picks the format (.png, .svg, .pdf; default .png).
func SaveEnvelopePlot(env capacity.Envelope, demands []DemandPoint, path string) error {
	if len(env.Points) == 0 {
		return fmt.Errorf("envelope has no control points")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("P-M Interaction %s, As = %.0f mm²", env.Section.Name(), env.AsTotal)
	p.X.Label.Text = "M (kN·m)"
	p.Y.Label.Text = "P (kN)"

	boundary := make(plotter.XYs, len(env.Points))
	for i, pt := range env.Points {
		boundary[i] = plotter.XY{X: pt.M, Y: pt.P}
	}
	line, err := plotter.NewLine(boundary)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	p.Add(line)
	p.Legend.Add("capacity", line)

	// Zero-axial reference: the pure-flexure crossing.
	zero, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: env.PureFlexureMoment(), Y: 0},
	})
	if err != nil {
		return err
	}
	zero.LineStyle.Width = vg.Points(1)
	zero.LineStyle.Color = color.Gray{Y: 128}
	zero.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(zero)

	bal := env.BalancedPoint()
	balPt, err := plotter.NewScatter(plotter.XYs{{X: bal.M, Y: bal.P}})
	if err != nil {
		return err
	}
	balPt.GlyphStyle.Color = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	balPt.GlyphStyle.Radius = vg.Points(4)
	balPt.GlyphStyle.Shape = draw.RingGlyph{}
	p.Add(balPt)

	balLabel, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: bal.M, Y: bal.P}},
		Labels: []string{"balanced"},
	})
	if err != nil {
		return err
	}
	p.Add(balLabel)

	if len(demands) > 0 {
		pts := make(plotter.XYs, len(demands))
		for i, d := range demands {
			pts[i] = plotter.XY{X: d.M, Y: d.P}
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = color.RGBA{R: 200, G: 0, B: 0, A: 255}
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add("demand", scatter)
	}

	return savePlot(p, 8*vg.Inch, 6*vg.Inch, path)
}

// SaveConvergencePlot draws the running best cost per generation.
func SaveConvergencePlot(history []float64, path string) error {
	if len(history) == 0 {
		return fmt.Errorf("convergence history is empty")
	}

	p := plot.New()
	p.Title.Text = "Cost Convergence"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Best cost (¥)"

	pts := make(plotter.XYs, len(history))
	for i, c := range history {
		pts[i] = plotter.XY{X: float64(i + 1), Y: c}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	p.Add(line)

	final, err := plotter.NewScatter(plotter.XYs{pts[len(pts)-1]})
	if err != nil {
		return err
	}
	final.GlyphStyle.Color = color.RGBA{R: 200, G: 0, B: 0, A: 255}
	final.GlyphStyle.Radius = vg.Points(4)
	final.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(final)

	return savePlot(p, 8*vg.Inch, 5*vg.Inch, path)
}

// savePlot writes the figure, creating parent directories, defaulting the
// format to PNG when the extension names no supported one.
func savePlot(p *plot.Plot, w, h vg.Length, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create plot directory: %w", err)
		}
	}
	switch filepath.Ext(path) {
	case ".png", ".svg", ".pdf":
		return p.Save(w, h, path)
	default:
		return p.Save(w, h, path+".png")
	}
}
