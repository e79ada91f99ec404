package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/common/version"
	log "github.com/sirupsen/logrus"

	"github.com/hol430/gadi-scripts/internal/config"
	"github.com/hol430/gadi-scripts/internal/gridindex"
	"github.com/hol430/gadi-scripts/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		configFile string
		logLevel   string
		logJSON    bool
		lat, lon   float64
		filename   string
	)
	exitCode := -1
	app := kingpin.New("nc-set-point", "Set the latitude and longitude of a single-point NetCDF file.")
	app.HelpFlag.Short('h')
	app.Version(version.Print("nc-set-point"))
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)
	app.Terminate(func(code int) {
		if exitCode < 0 {
			exitCode = code
		}
	})
	app.Flag("config", "Configuration file path").PlaceHolder("PATH").StringVar(&configFile)
	app.Flag("log.level", "Log level, one of [debug, info, warn, error].").EnumVar(&logLevel, logging.Levels...)
	app.Flag("log.json", "Log in json format.").BoolVar(&logJSON)
	app.Arg("latitude", "New latitude.").Required().Float64Var(&lat)
	app.Arg("longitude", "New longitude.").Required().Float64Var(&lon)
	app.Arg("file", "NetCDF file, rewritten in place.").Required().StringVar(&filename)

	args = escapeNegativeNumbers(args)
	_, err := app.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintln(stderr, fmt.Errorf("failed to parse commandline arguments: %w", err))
		app.Usage(args)
		return 1
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logJSON {
		cfg.Log.JSON = true
	}
	if err = logging.Setup(stderr, cfg.Log.Level, cfg.Log.JSON); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	entry := log.WithField("file", filename)
	entry.Debugf("latitude = %.2f, longitude = %.2f", lat, lon)
	changes, err := gridindex.SetPointFile(filename, lat, lon)
	if err != nil {
		entry.Error(err)
		return 1
	}
	for _, c := range changes {
		entry.Infof("changing %s from %.2f to %.2f", c.Name, c.Old, c.New)
	}
	return 0
}

// escapeNegativeNumbers ends flag parsing before the first negative number
// so that southern latitudes and western longitudes are read as arguments.
func escapeNegativeNumbers(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		if _, err := strconv.ParseFloat(arg, 64); err == nil {
			escaped := make([]string, 0, len(args)+1)
			escaped = append(escaped, args[:i]...)
			escaped = append(escaped, "--")
			return append(escaped, args[i:]...)
		}
	}
	return args
}
