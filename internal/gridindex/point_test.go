package gridindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointDataset() *fakeDataset {
	ds := newFakeDataset().
		add("time", []float64{0, 1, 2}, attrs{"units": "days since 1900-01-01"}).
		add("latitude", []float64{-35.25}, attrs{"standard_name": "latitude"}).
		add("lon", []float32{149.25}, attrs{"standard_name": "longitude"}).
		add("tas", [][][]float32{{{280}}, {{281}}, {{282}}}, attrs{}, "time", "latitude", "lon")
	ds.global = attrs{"title": "site forcing"}
	return ds
}

func TestSetPoint(t *testing.T) {
	src := pointDataset()
	dst := &fakeSink{}

	changes, err := SetPoint(src, dst, -33.5, 150.5)
	require.NoError(t, err)
	assert.Equal(t, []PointChange{
		{Name: "latitude", Old: -35.25, New: -33.5},
		{Name: "lon", Old: 149.25, New: 150.5},
	}, changes)

	assert.Equal(t, []string{"time", "latitude", "lon", "tas"}, dst.order)
	assert.Equal(t, []float64{-33.5}, dst.vars["latitude"].Values)
	assert.Equal(t, []float32{150.5}, dst.vars["lon"].Values)
	assert.Equal(t, src.vars["tas"].Values, dst.vars["tas"].Values)
	assert.Equal(t, src.vars["lon"].Attributes, dst.vars["lon"].Attributes)
	assert.Equal(t, src.global, dst.global)
	// the source is left untouched
	assert.Equal(t, []float64{-35.25}, src.vars["latitude"].Values)
}

func TestSetPointPrefersShortName(t *testing.T) {
	src := newFakeDataset().
		add("latitude", []float64{1}, attrs{}).
		add("lat", []float64{2}, attrs{}).
		add("longitude", []float64{3}, attrs{})
	dst := &fakeSink{}
	changes, err := SetPoint(src, dst, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "lat", changes[0].Name)
	assert.Equal(t, "longitude", changes[1].Name)
	assert.Equal(t, []float64{1}, dst.vars["latitude"].Values)
	assert.Nil(t, dst.global)
}

func TestSetPointErrors(t *testing.T) {
	tests := map[string]struct {
		ds            *fakeDataset
		errorContains string
	}{
		"missing latitude": {
			ds:            newFakeDataset().add("lon", []float64{1}, attrs{}),
			errorContains: "variable lat does not exist",
		},
		"missing longitude": {
			ds:            newFakeDataset().add("lat", []float64{1}, attrs{}),
			errorContains: "variable lon does not exist",
		},
		"two dimensions": {
			ds: newFakeDataset().
				add("lat", [][]float64{{1}}, attrs{}, "y", "x").
				add("lon", []float64{1}, attrs{}),
			errorContains: "variable lat has 2 dimensions (expected 1)",
		},
		"dimension longer than one": {
			ds: newFakeDataset().
				add("lat", []float64{1}, attrs{}).
				add("lon", []float64{1, 2}, attrs{}),
			errorContains: "length of dimension lon is 2 (expected 1)",
		},
		"integer coordinate": {
			ds: newFakeDataset().
				add("lat", []int32{1}, attrs{}).
				add("lon", []float64{1}, attrs{}),
			errorContains: "unsupported type",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dst := &fakeSink{}
			_, err := SetPoint(tc.ds, dst, 1, 2)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
			assert.Empty(t, dst.order)
		})
	}
}

func TestKind(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]struct {
		header        string
		expected      netcdf.FileKind
		errorExpected bool
	}{
		"classic":       {header: "CDF\x01rest", expected: netcdf.KindCDF},
		"64-bit offset": {header: "CDF\x02rest", expected: netcdf.KindCDF},
		"hdf5":          {header: "\x89HDF\r\n", expected: netcdf.KindHDF5},
		"text":          {header: "150.5 -33.2\n", errorExpected: true},
		"short":         {header: "CD", errorExpected: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(tc.header), 0o644))
			kind, err := Kind(path)
			if tc.errorExpected {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, kind)
		})
	}
}

func TestSetPointFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.nc")
	w, err := netcdf.OpenWriter(path, netcdf.KindCDF)
	require.NoError(t, err)
	src := pointDataset()
	for _, name := range src.order {
		require.NoError(t, w.AddVar(name, *src.vars[name]))
	}
	require.NoError(t, w.Close())

	changes, err := SetPointFile(path, -33.5, 150.5)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	nc, err := Open(path)
	require.NoError(t, err)
	defer nc.Close()
	lat, err := ReadAxis(nc, "latitude")
	require.NoError(t, err)
	assert.Equal(t, []float64{-33.5}, lat.Values)
	lon, err := ReadAxis(nc, "lon")
	require.NoError(t, err)
	assert.Equal(t, []float64{150.5}, lon.Values)
	assert.True(t, lon.Single)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSetPointFileLeavesFileOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.nc")
	w, err := netcdf.OpenWriter(path, netcdf.KindCDF)
	require.NoError(t, err)
	require.NoError(t, w.AddVar("lat", *newFakeDataset().add("lat", []float64{1, 2}, attrs{}).vars["lat"]))
	require.NoError(t, w.AddVar("lon", *newFakeDataset().add("lon", []float64{3}, attrs{}).vars["lon"]))
	require.NoError(t, w.Close())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = SetPointFile(path, 0, 0)
	assert.Error(t, err)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
