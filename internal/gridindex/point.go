package gridindex

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

var (
	// PointLatitudeNames are tried, in order, for a single-point latitude.
	PointLatitudeNames = []string{"lat", "latitude"}
	// PointLongitudeNames are tried, in order, for a single-point longitude.
	PointLongitudeNames = []string{"lon", "longitude"}
)

// Source is a dataset that can be copied whole, including global attributes.
type Source interface {
	Dataset
	Attributes() api.AttributeMap
}

// Sink receives a copied dataset.
type Sink interface {
	AddAttributes(attrs api.AttributeMap) error
	AddVar(name string, vr api.Variable) error
}

// PointChange is one coordinate rewritten by SetPoint.
type PointChange struct {
	Name string
	Old  float64
	New  float64
}

type pointUpdate struct {
	names []string
	value float64
}

// SetPoint copies src to dst, replacing the value of the one-element
// latitude and longitude variables.
func SetPoint(src Source, dst Sink, lat, lon float64) ([]PointChange, error) {
	replaced := make(map[string]api.Variable)
	changes := make([]PointChange, 0, 2)
	for _, u := range []pointUpdate{{PointLatitudeNames, lat}, {PointLongitudeNames, lon}} {
		name, err := FindByName(src, u.names...)
		if err != nil {
			return nil, err
		}
		v, err := src.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("unable to read variable %s: %s", name, err)
		}
		if len(v.Dimensions) != 1 {
			return nil, fmt.Errorf("variable %s has %d dimensions (expected 1)", name, len(v.Dimensions))
		}
		values := reflect.ValueOf(v.Values)
		if values.Kind() != reflect.Slice || values.Len() != 1 {
			return nil, fmt.Errorf("length of dimension %s is %d (expected 1)", v.Dimensions[0], lengthOf(values))
		}
		change := PointChange{Name: name, New: u.value}
		updated := *v
		switch old := v.Values.(type) {
		case []float64:
			change.Old = old[0]
			updated.Values = []float64{u.value}
		case []float32:
			change.Old = float64(old[0])
			updated.Values = []float32{float32(u.value)}
		default:
			return nil, fmt.Errorf("variable %s has unsupported type %T", name, v.Values)
		}
		replaced[name] = updated
		changes = append(changes, change)
	}

	if attrs := src.Attributes(); attrs != nil && len(attrs.Keys()) > 0 {
		if err := dst.AddAttributes(attrs); err != nil {
			return nil, fmt.Errorf("unable to write global attributes: %s", err)
		}
	}
	for _, name := range src.ListVariables() {
		v, ok := replaced[name]
		if !ok {
			original, err := src.GetVariable(name)
			if err != nil {
				return nil, fmt.Errorf("unable to read variable %s: %s", name, err)
			}
			v = *original
		}
		if err := dst.AddVar(name, v); err != nil {
			return nil, fmt.Errorf("unable to write variable %s: %s", name, err)
		}
	}
	return changes, nil
}

func lengthOf(v reflect.Value) int {
	if v.Kind() != reflect.Slice {
		return 0
	}
	return v.Len()
}

// Kind reports whether the file at path is classic CDF or HDF5 based.
func Kind(path string) (netcdf.FileKind, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("unable to open dataset '%s': %w", path, err)
	}
	defer f.Close()
	magic := make([]byte, 4)
	if _, err = io.ReadFull(f, magic); err != nil {
		return 0, fmt.Errorf("unable to read header of '%s': %s", path, err)
	}
	switch {
	case bytes.HasPrefix(magic, []byte("CDF")):
		return netcdf.KindCDF, nil
	case bytes.Equal(magic, []byte("\x89HDF")):
		return netcdf.KindHDF5, nil
	}
	return 0, fmt.Errorf("'%s' is not a NetCDF file", path)
}

// SetPointFile rewrites the NetCDF file at path with a new single-point
// latitude and longitude. The file is replaced only once fully written.
func SetPointFile(path string, lat, lon float64) ([]PointChange, error) {
	kind, err := Kind(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary file: %s", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	os.Remove(tmpPath)

	changes, err := copyWithPoint(path, tmpPath, kind, lat, lon)
	if err == nil {
		err = os.Chmod(tmpPath, info.Mode().Perm())
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	return changes, nil
}

func copyWithPoint(path, tmpPath string, kind netcdf.FileKind, lat, lon float64) ([]PointChange, error) {
	src, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open dataset '%s': %w", path, err)
	}
	defer src.Close()
	dst, err := netcdf.OpenWriter(tmpPath, kind)
	if err != nil {
		return nil, fmt.Errorf("unable to create '%s': %s", tmpPath, err)
	}
	changes, err := SetPoint(src, dst, lat, lon)
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("unable to write '%s': %s", tmpPath, cerr)
	}
	return changes, err
}
