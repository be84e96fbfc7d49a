package export

import (
	"bytes"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/sells-group/streetline/internal/spatial"
)

// SVGOptions parameterizes the vector drawing.
type SVGOptions struct {
	RadiusMeters float64
	CanvasPx     int     // square canvas edge, default 1000
	StrokeWidth  float64 // default 1.5
}

// RenderSVG produces a vector drawing of the projected centerlines. The
// planar frame is scaled to fit the canvas (the buffer diameter maps to the
// canvas edge) with the y axis flipped so north is up, and every matched
// record becomes one path element so the drawing stays editable street by
// street. An empty matched set yields a valid document with zero paths.
func RenderSVG(lines []spatial.ProjectedCenterline, opts SVGOptions) []byte {
	canvas := opts.CanvasPx
	if canvas <= 0 {
		canvas = 1000
	}
	strokeWidth := opts.StrokeWidth
	if strokeWidth <= 0 {
		strokeWidth = 1.5
	}

	// Scale meters to pixels: buffer diameter fills the canvas. A zero radius
	// degenerates to 1 px/m to keep the document well-formed.
	scale := 1.0
	if opts.RadiusMeters > 0 {
		scale = float64(canvas) / (2 * opts.RadiusMeters)
	}
	half := float64(canvas) / 2

	var buf bytes.Buffer
	s := svg.New(&buf)
	s.Start(canvas, canvas)
	s.Gstyle(fmt.Sprintf("fill:none;stroke:blue;stroke-width:%.2f;stroke-linecap:round", strokeWidth))
	for _, pc := range lines {
		d := pathData(pc, scale, half)
		if d == "" {
			continue
		}
		attrs := fmt.Sprintf(`id="%s"`, escapeAttr(pc.Centerline.ID))
		if pc.Centerline.Street != "" {
			attrs += fmt.Sprintf(` data-street="%s"`, escapeAttr(pc.Centerline.Street))
		}
		s.Path(d, attrs)
	}
	s.Gend()
	s.End()
	return buf.Bytes()
}

// pathData builds the path's d attribute: one M…L… subpath per geometry part,
// in canvas pixels with y growing downward.
func pathData(pc spatial.ProjectedCenterline, scale, half float64) string {
	var sb strings.Builder
	for _, part := range pc.Parts {
		if len(part) < 2 {
			continue
		}
		for i, pt := range part {
			x := half + pt.X*scale
			y := half - pt.Y*scale
			if i == 0 {
				fmt.Fprintf(&sb, "M %.2f %.2f ", x, y)
			} else {
				fmt.Fprintf(&sb, "L %.2f %.2f ", x, y)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// escapeAttr escapes a string for use inside a double-quoted XML attribute.
func escapeAttr(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}
