package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownQueue is returned when no queue matches the requested name.
	ErrUnknownQueue = errors.New("unknown queue")
	// ErrCPUCountOutOfRange is returned when a CPU count exceeds every walltime tier.
	ErrCPUCountOutOfRange = errors.New("cpu count out of range")
)

// WalltimeTier allows jobs using up to MaxCPUs CPUs to run for at most Hours.
type WalltimeTier struct {
	Hours   int `yaml:"hours"`
	MaxCPUs int `yaml:"max_cpus"`
}

// Queue describes the properties of a single job submission queue.
type Queue struct {
	name        string
	cpusPerNode int
	memPerNode  float64
	chargeRate  float64
	tiers       []WalltimeTier
}

// New - tiers must be sorted ascending by MaxCPUs
func New(name string, chargeRate float64, cpusPerNode int, memPerNode float64, tiers []WalltimeTier) *Queue {
	copied := make([]WalltimeTier, len(tiers))
	copy(copied, tiers)
	return &Queue{
		name:        name,
		cpusPerNode: cpusPerNode,
		memPerNode:  memPerNode,
		chargeRate:  chargeRate,
		tiers:       copied,
	}
}

func (q *Queue) Name() string        { return q.name }
func (q *Queue) CPUsPerNode() int    { return q.cpusPerNode }
func (q *Queue) MemPerNode() float64 { return q.memPerNode }
func (q *Queue) ChargeRate() float64 { return q.chargeRate }

// WalltimeTiers returns a copy of the queue's tiers.
func (q *Queue) WalltimeTiers() []WalltimeTier {
	tiers := make([]WalltimeTier, len(q.tiers))
	copy(tiers, q.tiers)
	return tiers
}

// WalltimeLimit returns the maximum walltime in hours allowed for a job
// in this queue using ncpu CPUs.
func (q *Queue) WalltimeLimit(ncpu int) (int, error) {
	highest := 0
	for _, tier := range q.tiers {
		if ncpu <= tier.MaxCPUs {
			return tier.Hours, nil
		}
		highest = tier.MaxCPUs
	}
	return 0, fmt.Errorf("%w: cpu count of %d exceeds the maximum %d in queue %s", ErrCPUCountOutOfRange, ncpu, highest, q.name)
}

// MaxCPUs is the largest CPU count accepted by any tier.
func (q *Queue) MaxCPUs() int {
	if len(q.tiers) == 0 {
		return 0
	}
	return q.tiers[len(q.tiers)-1].MaxCPUs
}

// Nodes returns the number of whole nodes occupied by ncpu CPUs.
func (q *Queue) Nodes(ncpu int) int {
	return (ncpu + q.cpusPerNode - 1) / q.cpusPerNode
}

// ChargePerHour returns the service units charged per walltime hour.
func (q *Queue) ChargePerHour(ncpu int) float64 {
	return float64(ncpu) * q.chargeRate
}

// Registry is an immutable, ordered set of queues keyed by name.
type Registry struct {
	queues []*Queue
	byName map[string]*Queue
}

// NewRegistry -
func NewRegistry(queues ...*Queue) (*Registry, error) {
	r := &Registry{
		queues: make([]*Queue, 0, len(queues)),
		byName: make(map[string]*Queue, len(queues)),
	}
	for _, q := range queues {
		if _, ok := r.byName[q.name]; ok {
			return nil, fmt.Errorf("duplicate queue '%s'", q.name)
		}
		r.queues = append(r.queues, q)
		r.byName[q.name] = q
	}
	return r, nil
}

// Get returns the queue with the given name.
func (r *Registry) Get(name string) (*Queue, error) {
	q, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownQueue, name)
	}
	return q, nil
}

// Names returns queue names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.queues))
	for _, q := range r.queues {
		names = append(names, q.name)
	}
	return names
}
