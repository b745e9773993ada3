package export

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sdmgo/background"
	"github.com/YuminosukeSato/sdmgo/pkg/errors"
	"github.com/YuminosukeSato/sdmgo/spatial"
)

func TestWriteGeoJSON(t *testing.T) {
	ps := &background.PointSet{
		Points:    []spatial.Point{{1.5, -2}, {3, 4.25}},
		Requested: 3,
		Mode:      background.ModeTargetedGroup,
		Warning:   errors.NewPartialSampleWarning(background.ModeTargetedGroup, 3, 2, ""),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, ps))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, spatial.Point{1.5, -2}, fc.Features[0].Point())
	assert.Equal(t, spatial.Point{3, 4.25}, fc.Features[1].Point())
	assert.Equal(t, 1.0, fc.Features[1].Properties["index"])

	assert.Equal(t, "targeted_group", fc.ExtraMembers["mode"])
	assert.Equal(t, 3.0, fc.ExtraMembers["requested"])
	assert.Equal(t, 1.0, fc.ExtraMembers["shortfall"])
}

func TestWriteGeoJSONNoWarning(t *testing.T) {
	ps := &background.PointSet{Points: []spatial.Point{{0, 0}}, Requested: 1, Mode: background.ModeRandom}
	fc := FeatureCollection(ps)
	_, ok := fc.ExtraMembers["shortfall"]
	assert.False(t, ok)
	assert.Equal(t, 1, fc.ExtraMembers["returned"])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []spatial.Point{{1.5, -2}, {10, 0.125}}))
	assert.Equal(t, "lon,lat\n1.5,-2\n10,0.125\n", buf.String())
}

func TestWriteCovariatesCSV(t *testing.T) {
	points := []spatial.Point{{0.5, 0.5}, {9, 9}}
	values := mat.NewDense(2, 2, []float64{12.5, 300, math.NaN(), math.NaN()})

	var buf bytes.Buffer
	require.NoError(t, WriteCovariatesCSV(&buf, points, []string{"temp", "rain"}, values))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"lon,lat,temp,rain",
		"0.5,0.5,12.5,300",
		"9,9,NA,NA",
	}, lines)

	err := WriteCovariatesCSV(&buf, points, []string{"temp"}, values)
	var paramErr *errors.InvalidParameterError
	assert.True(t, errors.As(err, &paramErr))
}
