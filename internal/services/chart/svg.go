package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"StockTrend/internal/domain/models"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// RenderSVG draws spec as an SVG document. Zero width or height falls back to
// the spec's size in inches.
func RenderSVG(spec models.ChartSpec, width, height vg.Length) ([]byte, error) {
	if width <= 0 {
		width = vg.Length(spec.WidthInches) * vg.Inch
	}
	if height <= 0 {
		height = vg.Length(spec.HeightInches) * vg.Inch
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("chart: invalid size %vx%v", width, height)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	if spec.XTickRotation != 0 {
		p.X.Tick.Label.Rotation = spec.XTickRotation * math.Pi / 180
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for _, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i].X = float64(pt.Date.Unix())
			xys[i].Y = pt.Value
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("chart series %q: %w", s.Name, err)
		}
		c := parseColor(s.Color)
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(s.LineWidth)
		if s.Dashed {
			line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		}

		if s.Markers {
			points.Shape = draw.CircleGlyph{}
			points.Color = c
			points.Radius = vg.Points(s.MarkerSize / 2)
			p.Add(line, points)
			if spec.Legend {
				p.Legend.Add(s.Name, line, points)
			}
			continue
		}
		p.Add(line)
		if spec.Legend {
			p.Legend.Add(s.Name, line)
		}
	}

	wt, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return nil, fmt.Errorf("chart writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart render: %w", err)
	}
	return buf.Bytes(), nil
}

// parseColor accepts #rrggbb; anything else renders black.
func parseColor(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.Black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
