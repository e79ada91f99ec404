package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/common/version"
	log "github.com/sirupsen/logrus"

	"github.com/hol430/gadi-scripts/internal/config"
	"github.com/hol430/gadi-scripts/internal/gridindex"
	"github.com/hol430/gadi-scripts/internal/logging"
	"github.com/hol430/gadi-scripts/internal/metrics"
)

type options struct {
	gridlist  string
	dataset   string
	lookup    string
	strict    bool
	textfile  string
	namespace string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		opts       options
		configFile string
		logLevel   string
		logJSON    bool
	)
	exitCode := -1
	app := kingpin.New("grid-resolver", "Print the longitude and latitude indices in a NetCDF dataset of every point in a gridlist.")
	app.HelpFlag.Short('h')
	app.Version(version.Print("grid-resolver"))
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
	app.Flag("lookup", "Locate coordinate variables by their standard_name attribute or by variable name.").
		Default(string(gridindex.LookupStandardName)).
		EnumVar(&opts.lookup, string(gridindex.LookupStandardName), string(gridindex.LookupName))
	app.Flag("strict", "Fail when a coordinate has no exact match instead of printing -1.").BoolVar(&opts.strict)
	app.Flag("metrics.textfile", "Write run metrics to this node exporter textfile.").PlaceHolder("PATH").StringVar(&opts.textfile)
	app.Arg("gridlist", "Gridlist file, one '<lon> <lat>' record per line.").Required().StringVar(&opts.gridlist)
	app.Arg("file.nc", "NetCDF dataset.").Required().StringVar(&opts.dataset)

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
	if opts.textfile == "" {
		opts.textfile = cfg.Metrics.Textfile
	}
	opts.namespace = cfg.Metrics.Namespace

	nc, err := gridindex.Open(opts.dataset)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer nc.Close()
	if err = resolve(&opts, nc, stdout); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func resolve(opts *options, ds gridindex.Dataset, out io.Writer) error {
	entry := log.WithFields(log.Fields{
		"gridlist": opts.gridlist,
		"dataset":  opts.dataset,
	})
	reporter := metrics.NewResolverReporter(namespaceOrDefault(opts.namespace))

	resolver, err := gridindex.NewResolver(ds, gridindex.Lookup(opts.lookup), opts.strict, entry)
	if err != nil {
		return err
	}
	gl, err := os.Open(opts.gridlist)
	if err != nil {
		return fmt.Errorf("unable to open gridlist: %s", err)
	}
	defer gl.Close()

	err = resolver.Resolve(gl, out)
	stats := resolver.Stats()
	entry.Debugf("resolved %d points (%d longitude misses, %d latitude misses)", stats.Points, stats.LonMisses, stats.LatMisses)
	if err != nil {
		return err
	}
	if opts.textfile != "" {
		reporter.RecordGridlist(stats.Points, stats.LonMisses, stats.LatMisses)
		if err = reporter.WriteTextfile(opts.textfile); err != nil {
			return err
		}
		entry.Infof("metrics written to '%s'", opts.textfile)
	}
	return nil
}

func namespaceOrDefault(namespace string) string {
	if namespace == "" {
		return config.DefaultNamespace
	}
	return namespace
}
