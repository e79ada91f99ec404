// Package gridindex maps gridlist coordinates onto array indices of the
// coordinate variables in a gridded NetCDF dataset.
package gridindex

import (
	"errors"
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

const (
	// AttrStandardName is the CF attribute naming a variable's physical quantity.
	AttrStandardName = "standard_name"

	StandardNameLongitude = "longitude"
	StandardNameLatitude  = "latitude"
)

// ErrVariableNotFound is returned when no variable matches a lookup.
var ErrVariableNotFound = errors.New("variable not found")

var (
	// LongitudeNames are the variable names tried, in order, for longitude.
	LongitudeNames = []string{"longitude", "lon"}
	// LatitudeNames are the variable names tried, in order, for latitude.
	LatitudeNames = []string{"latitude", "lat"}
)

// Dataset is the subset of a NetCDF group used for coordinate lookups.
// GetVariable loads the variable's data, GetVarGetter does not.
type Dataset interface {
	ListVariables() []string
	GetVariable(name string) (*api.Variable, error)
	GetVarGetter(name string) (api.VarGetter, error)
}

// File is an open NetCDF dataset.
type File interface {
	Dataset
	Close()
}

// Open opens a classic or HDF5 based NetCDF file for reading.
func Open(path string) (File, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open dataset '%s': %w", path, err)
	}
	return nc, nil
}

// FindByStandardName returns the name of the first variable, in dataset
// order, whose standard_name attribute equals standardName.
func FindByStandardName(ds Dataset, standardName string) (string, error) {
	for _, name := range ds.ListVariables() {
		vg, err := ds.GetVarGetter(name)
		if err != nil || vg == nil {
			continue
		}
		attributes := vg.Attributes()
		if attributes == nil {
			continue
		}
		value, ok := attributes.Get(AttrStandardName)
		if !ok {
			continue
		}
		if s, ok := value.(string); ok && s == standardName {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: no variable has %s '%s'", ErrVariableNotFound, AttrStandardName, standardName)
}

// FindByName returns the first of names that is a variable of ds.
func FindByName(ds Dataset, names ...string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no variable names given", ErrVariableNotFound)
	}
	present := make(map[string]bool)
	for _, name := range ds.ListVariables() {
		present[name] = true
	}
	for _, name := range names {
		if present[name] {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: variable %s does not exist", ErrVariableNotFound, names[0])
}

// Axis is a one-dimensional coordinate variable.
type Axis struct {
	Name   string
	Values []float64
	// Single is set when the variable is stored in single precision.
	Single bool
}

// ReadAxis reads the one-dimensional numeric variable called name.
func ReadAxis(ds Dataset, name string) (*Axis, error) {
	v, err := ds.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %s", ErrVariableNotFound, name, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrVariableNotFound, name)
	}
	if len(v.Dimensions) > 1 {
		return nil, fmt.Errorf("variable '%s' has %d dimensions (expected 1)", name, len(v.Dimensions))
	}
	axis := &Axis{Name: name}
	switch values := v.Values.(type) {
	case []float64:
		axis.Values = values
	case []float32:
		axis.Single = true
		axis.Values = widen(values)
	case []int8:
		axis.Values = widen(values)
	case []int16:
		axis.Values = widen(values)
	case []int32:
		axis.Values = widen(values)
	case []int64:
		axis.Values = widen(values)
	case []uint8:
		axis.Values = widen(values)
	case []uint16:
		axis.Values = widen(values)
	case []uint32:
		axis.Values = widen(values)
	case []uint64:
		axis.Values = widen(values)
	default:
		return nil, fmt.Errorf("variable '%s' has unsupported type %T", name, v.Values)
	}
	return axis, nil
}

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32
}

func widen[T number](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// IndexOf returns the position of the first value exactly equal to needle,
// or -1 when there is none. Callers must check for -1.
func IndexOf(needle float64, haystack []float64) int {
	for i, v := range haystack {
		if v == needle {
			return i
		}
	}
	return -1
}

// Index looks up a gridlist value, rounded to the axis' storage precision.
func (a *Axis) Index(value float64) int {
	if a.Single {
		value = float64(float32(value))
	}
	return IndexOf(value, a.Values)
}
