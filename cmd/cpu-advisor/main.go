package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/common/version"
	log "github.com/sirupsen/logrus"

	"github.com/hol430/gadi-scripts/internal/balance"
	"github.com/hol430/gadi-scripts/internal/config"
	"github.com/hol430/gadi-scripts/internal/logging"
	"github.com/hol430/gadi-scripts/internal/metrics"
	"github.com/hol430/gadi-scripts/internal/queue"
)

type options struct {
	gridcells     int
	queueName     string
	queuesFile    string
	maxMultiplier int
	top           int
	details       bool
	textfile      string
	namespace     string
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
	app := kingpin.New("cpu-advisor", "Recommend CPU counts that minimise idle CPUs when distributing gridcells across nodes of a queue.")
	app.HelpFlag.Short('h')
	app.Version(version.Print("cpu-advisor"))
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
	app.Flag("queues", "YAML queue definitions replacing the built-in gadi queues.").PlaceHolder("PATH").StringVar(&opts.queuesFile)
	app.Flag("max-multiplier", "Largest node multiple to consider (default: one CPU per gridcell).").IntVar(&opts.maxMultiplier)
	app.Flag("top", "Only print the best N configurations, 0 prints all.").Default("0").IntVar(&opts.top)
	app.Flag("details", "Add node count, walltime limit and charge rate columns.").BoolVar(&opts.details)
	app.Flag("metrics.textfile", "Write run metrics to this node exporter textfile.").PlaceHolder("PATH").StringVar(&opts.textfile)
	app.Arg("ngridcells", "Number of gridcells.").Required().IntVar(&opts.gridcells)
	app.Arg("queue", "Job submission queue.").Required().StringVar(&opts.queueName)

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
	if opts.queuesFile == "" {
		opts.queuesFile = cfg.QueuesFile
	}
	if opts.textfile == "" {
		opts.textfile = cfg.Metrics.Textfile
	}
	opts.namespace = cfg.Metrics.Namespace

	if err = advise(&opts, stdout); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func loadRegistry(path string) (*queue.Registry, error) {
	if path == "" {
		return queue.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open queue file: %s", err)
	}
	defer f.Close()
	return queue.LoadRegistry(f)
}

func advise(opts *options, out io.Writer) error {
	entry := log.WithFields(log.Fields{
		"queue":     opts.queueName,
		"gridcells": opts.gridcells,
	})
	namespace := opts.namespace
	if namespace == "" {
		namespace = config.DefaultNamespace
	}
	reporter := metrics.NewAdvisorReporter(namespace)

	if opts.gridcells <= 0 {
		return fmt.Errorf("number of gridcells must be positive, got %d", opts.gridcells)
	}
	registry, err := loadRegistry(opts.queuesFile)
	if err != nil {
		return err
	}
	q, err := registry.Get(opts.queueName)
	if err != nil {
		return err
	}

	maxMultiplier := opts.maxMultiplier
	if maxMultiplier <= 0 {
		maxMultiplier = balance.MaxMultiplier(opts.gridcells, q.CPUsPerNode())
	}
	entry.Debugf("evaluating %d multiples of %d CPUs", maxMultiplier, q.CPUsPerNode())

	candidates, err := balance.FindOptimal(opts.gridcells, q.CPUsPerNode(), maxMultiplier)
	if err != nil {
		return err
	}
	report := &balance.Report{
		Gridcells:  opts.gridcells,
		Queue:      q,
		Candidates: candidates,
		Top:        opts.top,
		Details:    opts.details,
	}
	if err = report.Write(out); err != nil {
		return fmt.Errorf("unable to write report: %s", err)
	}

	if opts.textfile != "" {
		best := candidates[0]
		reporter.RecordCandidates(len(candidates), best.Imbalance, balance.Efficiency(opts.gridcells, best.Imbalance))
		if err = reporter.WriteTextfile(opts.textfile); err != nil {
			return err
		}
		entry.Infof("metrics written to '%s'", opts.textfile)
	}
	return nil
}
