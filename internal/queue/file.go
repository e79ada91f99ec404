package queue

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

type queueConfig struct {
	Name           string         `yaml:"name"`
	CPUsPerNode    int            `yaml:"cpus_per_node"`
	MemPerNode     float64        `yaml:"mem_per_node"`
	ChargeRate     float64        `yaml:"charge_rate"`
	WalltimeLimits []WalltimeTier `yaml:"walltime_limits"`
}

type fileConfig struct {
	Queues []queueConfig `yaml:"queues"`
}

func (c *queueConfig) validate() error {
	if len(c.Name) == 0 {
		return fmt.Errorf("missing mandatory key name")
	}
	if c.CPUsPerNode <= 0 {
		return fmt.Errorf("missing or non-positive key 'cpus_per_node'")
	}
	if c.MemPerNode <= 0 {
		return fmt.Errorf("missing or non-positive key 'mem_per_node'")
	}
	if c.ChargeRate <= 0 {
		return fmt.Errorf("missing or non-positive key 'charge_rate'")
	}
	if len(c.WalltimeLimits) == 0 {
		return fmt.Errorf("missing mandatory key walltime_limits")
	}
	prev := 0
	for i, tier := range c.WalltimeLimits {
		if tier.Hours <= 0 {
			return fmt.Errorf("walltime_limits[%d]: non-positive hours %d", i, tier.Hours)
		}
		if tier.MaxCPUs <= prev {
			return fmt.Errorf("walltime_limits[%d]: max_cpus %d must be greater than %d", i, tier.MaxCPUs, prev)
		}
		prev = tier.MaxCPUs
	}
	return nil
}

// LoadRegistry - Creates and validates a registry from a yaml queue file
func LoadRegistry(file io.Reader) (*Registry, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read queue file: %s", err)
	}
	config := fileConfig{}
	if err = yaml.UnmarshalStrict(content, &config); err != nil {
		return nil, fmt.Errorf("unable to parse queue file: %s", err)
	}
	if len(config.Queues) == 0 {
		return nil, fmt.Errorf("queue file defines no queues")
	}
	queues := make([]*Queue, 0, len(config.Queues))
	for i := range config.Queues {
		c := &config.Queues[i]
		if err = c.validate(); err != nil {
			return nil, fmt.Errorf("invalid queue #%d '%s': %s", i, c.Name, err)
		}
		queues = append(queues, New(c.Name, c.ChargeRate, c.CPUsPerNode, c.MemPerNode, c.WalltimeLimits))
	}
	return NewRegistry(queues...)
}
