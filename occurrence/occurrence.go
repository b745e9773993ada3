// Package occurrence loads and prepares presence records: CSV parsing,
// ordered union of record groups, and one-per-cell spatial thinning.
package occurrence

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/raster"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// Columns names the longitude and latitude header fields. Empty fields fall
// back to the default aliases.
type Columns struct {
	Lon string
	Lat string
}

var (
	lonAliases = []string{"lon", "longitude", "decimallongitude", "x"}
	latAliases = []string{"lat", "latitude", "decimallatitude", "y"}
)

// ReadCSV reads occurrence points from a CSV file with a header row.
// Header matching is case-insensitive. Rows with an empty coordinate are
// skipped; unparsable values are FormatErrors and out-of-range coordinates
// InvalidParameterErrors, both naming the 1-based line.
func ReadCSV(r io.Reader, cols Columns) ([]spatial.Point, error) {
	const op = "occurrence.ReadCSV"

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	if err != nil {
		return nil, errors.NewFormatError(op, 1, err.Error())
	}

	lonIdx, err := findColumn(header, cols.Lon, lonAliases)
	if err != nil {
		return nil, err
	}
	latIdx, err := findColumn(header, cols.Lat, latAliases)
	if err != nil {
		return nil, err
	}

	var points []spatial.Point
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewFormatError(op, line, err.Error())
		}
		if lonIdx >= len(rec) || latIdx >= len(rec) {
			return nil, errors.NewFormatError(op, line, fmt.Sprintf("expected at least %d fields, got %d", max(lonIdx, latIdx)+1, len(rec)))
		}
		lonStr, latStr := strings.TrimSpace(rec[lonIdx]), strings.TrimSpace(rec[latIdx])
		if lonStr == "" || latStr == "" {
			continue
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, errors.NewFormatError(op, line, fmt.Sprintf("longitude %q is not a number", lonStr))
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, errors.NewFormatError(op, line, fmt.Sprintf("latitude %q is not a number", latStr))
		}
		p := spatial.Point{lon, lat}
		if err := spatial.ValidatePoint(fmt.Sprintf("%s: line %d", op, line), p); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func findColumn(header []string, want string, aliases []string) (int, error) {
	names := aliases
	if want != "" {
		names = []string{strings.ToLower(want)}
	}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, n := range names {
			if h == n {
				return i, nil
			}
		}
	}
	return 0, errors.NewFormatError("occurrence.ReadCSV", 1, fmt.Sprintf("no column matching %v in header %v", names, header))
}

// Union concatenates groups in order, dropping exact duplicate coordinates.
// The first occurrence of a coordinate keeps its position.
func Union(groups ...[]spatial.Point) []spatial.Point {
	seen := make(map[spatial.Point]struct{})
	var out []spatial.Point
	for _, g := range groups {
		for _, p := range g {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// ThinByCell keeps the first point that falls in each grid cell. Points off
// the grid are dropped.
func ThinByCell(points []spatial.Point, grid *raster.Grid) []spatial.Point {
	seen := make(map[int]struct{}, len(points))
	var out []spatial.Point
	for _, p := range points {
		r, c, ok := grid.CellOf(p)
		if !ok {
			continue
		}
		idx := grid.Index(r, c)
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, p)
	}
	return out
}
