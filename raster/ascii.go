package raster

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// DefaultNoData is written as NODATA_value by WriteASCIIGrid.
const DefaultNoData = -9999

// ReadASCIIGrid parses an ESRI ASCII grid into a single-layer Grid named layer.
// Cells equal to NODATA_value become NaN.
func ReadASCIIGrid(r io.Reader, layer string) (g *Grid, err error) {
	defer errors.Recover(&err, "ReadASCIIGrid")

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	header := make(map[string]float64)
	var first string
	for sc.Scan() {
		tok := sc.Text()
		if !isHeaderKey(tok) {
			first = tok
			break
		}
		if !sc.Scan() {
			return nil, errors.NewFormatError(layer, 0, fmt.Sprintf("header key %q has no value", tok))
		}
		v, perr := strconv.ParseFloat(sc.Text(), 64)
		if perr != nil {
			return nil, errors.NewFormatError(layer, 0, fmt.Sprintf("header %q: %v", tok, perr))
		}
		header[strings.ToLower(tok)] = v
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "ReadASCIIGrid")
	}

	extent, rows, cols, noData, hasNoData, err := parseHeader(layer, header)
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, rows*cols)
	next := first
	for len(values) < rows*cols {
		if next == "" {
			if !sc.Scan() {
				break
			}
			next = sc.Text()
		}
		v, perr := strconv.ParseFloat(next, 64)
		if perr != nil {
			return nil, errors.NewFormatError(layer, 0, fmt.Sprintf("cell %d: %v", len(values), perr))
		}
		if hasNoData && v == noData {
			v = math.NaN()
		}
		values = append(values, v)
		next = ""
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "ReadASCIIGrid")
	}
	if len(values) != rows*cols {
		return nil, errors.NewFormatError(layer, 0, fmt.Sprintf("expected %d cell values, got %d", rows*cols, len(values)))
	}
	if sc.Scan() {
		return nil, errors.NewFormatError(layer, 0, "trailing data after the last cell value")
	}

	g, err = NewGrid(extent, rows, cols)
	if err != nil {
		return nil, err
	}
	if err := g.AddLayer(layer, mat.NewDense(rows, cols, values)); err != nil {
		return nil, err
	}
	return g, nil
}

func isHeaderKey(tok string) bool {
	switch strings.ToLower(tok) {
	case "ncols", "nrows", "xllcorner", "xllcenter", "yllcorner", "yllcenter", "cellsize", "nodata_value":
		return true
	}
	return false
}

func parseHeader(source string, h map[string]float64) (spatial.Extent, int, int, float64, bool, error) {
	for _, key := range []string{"ncols", "nrows", "cellsize"} {
		if _, ok := h[key]; !ok {
			return spatial.Extent{}, 0, 0, 0, false, errors.NewFormatError(source, 0, "missing header "+key)
		}
	}
	cols, rows, cs := int(h["ncols"]), int(h["nrows"]), h["cellsize"]
	if cols <= 0 || rows <= 0 || float64(cols) != h["ncols"] || float64(rows) != h["nrows"] {
		return spatial.Extent{}, 0, 0, 0, false, errors.NewFormatError(source, 0, "ncols and nrows must be positive integers")
	}
	if !(cs > 0) {
		return spatial.Extent{}, 0, 0, 0, false, errors.NewFormatError(source, 0, "cellsize must be positive")
	}

	var minLon, minLat float64
	switch {
	case hasKey(h, "xllcorner"):
		minLon = h["xllcorner"]
	case hasKey(h, "xllcenter"):
		minLon = h["xllcenter"] - cs/2
	default:
		return spatial.Extent{}, 0, 0, 0, false, errors.NewFormatError(source, 0, "missing header xllcorner or xllcenter")
	}
	switch {
	case hasKey(h, "yllcorner"):
		minLat = h["yllcorner"]
	case hasKey(h, "yllcenter"):
		minLat = h["yllcenter"] - cs/2
	default:
		return spatial.Extent{}, 0, 0, 0, false, errors.NewFormatError(source, 0, "missing header yllcorner or yllcenter")
	}

	extent, err := spatial.NewExtent(minLon, minLon+float64(cols)*cs, minLat, minLat+float64(rows)*cs)
	if err != nil {
		return spatial.Extent{}, 0, 0, 0, false, errors.Wrapf(err, "%s: grid extent", source)
	}
	noData, hasNoData := h["nodata_value"]
	return extent, rows, cols, noData, hasNoData, nil
}

func hasKey(h map[string]float64, k string) bool {
	_, ok := h[k]
	return ok
}

// WriteASCIIGrid writes one layer of g as an ESRI ASCII grid. Cells must be
// square; NaN is written as DefaultNoData.
func WriteASCIIGrid(w io.Writer, g *Grid, layer string) error {
	values, ok := g.Layer(layer)
	if !ok {
		return errors.NewInvalidParameterError("WriteASCIIGrid", "layer", "no such layer", layer)
	}
	cs := g.CellWidth()
	if math.Abs(cs-g.CellHeight()) > AlignTolerance {
		return errors.NewInvalidParameterError("WriteASCIIGrid", "cellsize", "ASCII grids need square cells",
			fmt.Sprintf("%gx%g", g.CellWidth(), g.CellHeight()))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\nnrows %d\nxllcorner %s\nyllcorner %s\ncellsize %s\nNODATA_value %d\n",
		g.Cols, g.Rows, formatFloat(g.Extent.MinLon), formatFloat(g.Extent.MinLat), formatFloat(cs), DefaultNoData)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if c > 0 {
				bw.WriteByte(' ')
			}
			v := values.At(r, c)
			if math.IsNaN(v) {
				bw.WriteString(strconv.Itoa(DefaultNoData))
			} else {
				bw.WriteString(formatFloat(v))
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
