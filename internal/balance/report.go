package balance

import (
	"fmt"
	"io"
	"strconv"

	"github.com/hol430/gadi-scripts/internal/queue"
)

const footer = "Imbalance is the number of CPUs left idle at the end of the job while the remaining CPUs run one extra gridcell. This assumes that all gridcells take an equal amount of time to complete."

// Report renders a ranked candidate table.
type Report struct {
	Gridcells  int
	Queue      *queue.Queue
	Candidates []Candidate
	// Top limits the number of rows written, 0 means all.
	Top int
	// Details adds node count, walltime limit and charge columns.
	Details bool
}

func (r *Report) rows() []Candidate {
	if r.Top > 0 && r.Top < len(r.Candidates) {
		return r.Candidates[:r.Top]
	}
	return r.Candidates
}

// Write -
func (r *Report) Write(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("Optimal CPU configurations for N=%d gridcells and M=%d CPUs per node:\n", r.Gridcells, r.Queue.CPUsPerNode())
	if r.Details {
		ew.printf(" CPUs | Imbalance | Efficiency | Nodes | Walltime (h) |    SU/h\n")
		ew.printf("------+-----------+------------+-------+--------------+--------\n")
	} else {
		ew.printf(" CPUs | Imbalance | Efficiency\n")
		ew.printf("------+-----------+-----------\n")
	}
	for _, c := range r.rows() {
		efficiency := Efficiency(r.Gridcells, c.Imbalance)
		if !r.Details {
			ew.printf("%5d | %9d | %9.2f%%\n", c.CPUs, c.Imbalance, efficiency)
			continue
		}
		walltime := "-"
		if hours, err := r.Queue.WalltimeLimit(c.CPUs); err == nil {
			walltime = strconv.Itoa(hours)
		}
		ew.printf("%5d | %9d | %9.2f%% | %5d | %12s | %7.2f\n",
			c.CPUs, c.Imbalance, efficiency, r.Queue.Nodes(c.CPUs), walltime, r.Queue.ChargePerHour(c.CPUs))
	}
	ew.printf("%s\n", footer)
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
