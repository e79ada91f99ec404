package gridindex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrMalformedLine is returned for a gridlist line with fewer than two fields.
	ErrMalformedLine = errors.New("malformed gridlist line")
	// ErrNoMatch is returned in strict mode when a coordinate is absent from the dataset.
	ErrNoMatch = errors.New("coordinate not found in dataset")
)

// Lookup selects how the coordinate variables are located in a dataset.
type Lookup string

const (
	LookupStandardName Lookup = "standard_name"
	LookupName         Lookup = "name"
)

// Stats counts what a resolver has processed.
type Stats struct {
	Points    int
	LonMisses int
	LatMisses int
}

// Resolver maps gridlist records onto longitude and latitude indices.
type Resolver struct {
	lon    *Axis
	lat    *Axis
	strict bool
	stats  Stats
	entry  *log.Entry
}

// NewResolver -
func NewResolver(ds Dataset, lookup Lookup, strict bool, entry *log.Entry) (*Resolver, error) {
	var lonName, latName string
	var err error
	switch lookup {
	case LookupStandardName:
		if lonName, err = FindByStandardName(ds, StandardNameLongitude); err != nil {
			return nil, err
		}
		if latName, err = FindByStandardName(ds, StandardNameLatitude); err != nil {
			return nil, err
		}
	case LookupName:
		if lonName, err = FindByName(ds, LongitudeNames...); err != nil {
			return nil, err
		}
		if latName, err = FindByName(ds, LatitudeNames...); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported lookup '%s'", lookup)
	}
	lon, err := ReadAxis(ds, lonName)
	if err != nil {
		return nil, err
	}
	lat, err := ReadAxis(ds, latName)
	if err != nil {
		return nil, err
	}
	entry.WithFields(log.Fields{
		"lon_var": lon.Name,
		"lon_len": len(lon.Values),
		"lat_var": lat.Name,
		"lat_len": len(lat.Values),
	}).Debugf("coordinate variables located")
	return &Resolver{lon: lon, lat: lat, strict: strict, entry: entry}, nil
}

// Stats returns the counters accumulated by Resolve.
func (r *Resolver) Stats() Stats {
	return r.stats
}

// Resolve reads gridlist records from in and writes "<ilon> <ilat>" lines to
// out. It stops at the first malformed record.
func (r *Resolver) Resolve(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return fmt.Errorf("%w: line %d: expected '<lon> <lat>', got '%s'", ErrMalformedLine, lineNo, line)
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: invalid longitude '%s'", ErrMalformedLine, lineNo, fields[0])
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: invalid latitude '%s'", ErrMalformedLine, lineNo, fields[1])
		}
		ilon, ilat, err := r.resolvePoint(lineNo, lon, lat)
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintf(out, "%d %d\n", ilon, ilat); err != nil {
			return fmt.Errorf("unable to write output: %s", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("unable to read gridlist: %s", err)
	}
	return nil
}

func (r *Resolver) resolvePoint(lineNo int, lon, lat float64) (int, int, error) {
	r.stats.Points++
	ilon := r.lon.Index(lon)
	ilat := r.lat.Index(lat)
	if ilon < 0 {
		r.stats.LonMisses++
		if r.strict {
			return 0, 0, fmt.Errorf("%w: line %d: longitude %v", ErrNoMatch, lineNo, lon)
		}
		r.entry.Warnf("line %d: longitude %v not found in '%s'", lineNo, lon, r.lon.Name)
	}
	if ilat < 0 {
		r.stats.LatMisses++
		if r.strict {
			return 0, 0, fmt.Errorf("%w: line %d: latitude %v", ErrNoMatch, lineNo, lat)
		}
		r.entry.Warnf("line %d: latitude %v not found in '%s'", lineNo, lat, r.lat.Name)
	}
	return ilon, ilat, nil
}
