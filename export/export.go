// Package export writes background point sets and extracted covariates as
// GeoJSON or CSV.
package export

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/background"
	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

// FeatureCollection converts a point set to GeoJSON. Each feature carries its
// index; the collection carries mode, requested count and any shortfall as
// foreign members.
func FeatureCollection(ps *background.PointSet) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, p := range ps.Points {
		f := geojson.NewFeature(p)
		f.Properties["index"] = i
		fc.Append(f)
	}
	fc.ExtraMembers = geojson.Properties{
		"mode":      ps.Mode,
		"requested": ps.Requested,
		"returned":  ps.Len(),
	}
	if ps.Warning != nil {
		fc.ExtraMembers["shortfall"] = ps.Warning.Shortfall()
		fc.ExtraMembers["warning"] = ps.Warning.Error()
	}
	return fc
}

// WriteGeoJSON writes ps as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, ps *background.PointSet) error {
	data, err := FeatureCollection(ps).MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "export: encode geojson")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "export: write geojson")
	}
	return nil
}

// WriteCSV writes one "lon,lat" row per point after a header row.
func WriteCSV(w io.Writer, points []spatial.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"lon", "lat"}); err != nil {
		return errors.Wrap(err, "export: write csv")
	}
	for _, p := range points {
		if err := cw.Write([]string{formatFloat(p.X()), formatFloat(p.Y())}); err != nil {
			return errors.Wrap(err, "export: write csv")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "export: write csv")
}

// WriteCovariatesCSV writes points with their covariate values, one column
// per layer. values must have one row per point and one column per layer
// (as returned by raster.Grid.Extract). NaN is written as "NA".
func WriteCovariatesCSV(w io.Writer, points []spatial.Point, layers []string, values mat.Matrix) error {
	rows, cols := values.Dims()
	if rows != len(points) || cols != len(layers) {
		return errors.NewInvalidParameterError("export.WriteCovariatesCSV", "values",
			"shape must be len(points) x len(layers)", strconv.Itoa(rows)+"x"+strconv.Itoa(cols))
	}

	cw := csv.NewWriter(w)
	header := append([]string{"lon", "lat"}, layers...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "export: write csv")
	}
	record := make([]string, len(header))
	for i, p := range points {
		record[0], record[1] = formatFloat(p.X()), formatFloat(p.Y())
		for j := 0; j < cols; j++ {
			v := values.At(i, j)
			if math.IsNaN(v) {
				record[2+j] = "NA"
			} else {
				record[2+j] = formatFloat(v)
			}
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "export: write csv")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "export: write csv")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
