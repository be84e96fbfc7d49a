package export

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/streetline/internal/spatial"
)

// XLSXOptions parameterizes the spreadsheet cell-fill drawing.
type XLSXOptions struct {
	RadiusMeters float64
	GridSize     int    // square grid edge in cells, default 101
	Title        string // sheet title row, default "Street Map"
}

const streetFillColor = "FF0000FF" // blue

// RenderXLSX draws the projected centerlines into a worksheet by filling
// cells along each segment, the spreadsheet-native approximation of the SVG
// output. Lines are rasterized onto a square cell grid centered on the query
// point with Bresenham stepping.
func RenderXLSX(lines []spatial.ProjectedCenterline, opts XLSXOptions) ([]byte, error) {
	grid := opts.GridSize
	if grid <= 0 {
		grid = 101
	}
	title := opts.Title
	if title == "" {
		title = "Street Map"
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Street Map")
	if err != nil {
		return nil, eris.Wrap(err, "export: xlsx add sheet")
	}

	// Narrow columns and short rows so filled cells come out roughly square.
	sheet.SetColWidth(0, grid, 2)

	titleStyle := xlsx.NewStyle()
	titleStyle.Font = *xlsx.NewFont(14, "Verdana")
	titleStyle.Font.Bold = true
	titleStyle.ApplyFont = true
	titleCell := sheet.Cell(0, 0)
	titleCell.SetString(title)
	titleCell.SetStyle(titleStyle)
	titleCell.Merge(25, 0)

	streetStyle := xlsx.NewStyle()
	streetStyle.Fill = *xlsx.NewFill("solid", streetFillColor, streetFillColor)
	streetStyle.ApplyFill = true

	// The drawing grid starts below the title row.
	const gridTop = 1
	center := grid / 2
	// Cells per meter: the buffer diameter spans the grid.
	scale := 1.0
	if opts.RadiusMeters > 0 {
		scale = float64(grid) / (2 * opts.RadiusMeters)
	}

	fill := func(col, row int) {
		if col < 0 || col >= grid || row < 0 || row >= grid {
			return
		}
		cell := sheet.Cell(gridTop+row, col)
		cell.SetStyle(streetStyle)
	}

	for _, pc := range lines {
		for _, part := range pc.Parts {
			for i := 0; i+1 < len(part); i++ {
				x0, y0 := cellCoords(part[i], center, scale)
				x1, y1 := cellCoords(part[i+1], center, scale)
				drawLine(fill, x0, y0, x1, y1)
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "export: xlsx write")
	}
	return buf.Bytes(), nil
}

// cellCoords maps a planar point to grid cell coordinates. The y axis is
// flipped because spreadsheet rows grow downward.
func cellCoords(pt spatial.Point, center int, scale float64) (col, row int) {
	col = center + int(pt.X*scale)
	row = center - int(pt.Y*scale)
	return col, row
}

// drawLine fills cells along the segment using Bresenham's algorithm.
func drawLine(fill func(col, row int), x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}

	err := dx - dy
	x, y := x0, y0
	for {
		fill(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
