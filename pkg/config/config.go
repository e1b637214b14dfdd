package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDelegateThreshold = 1024
	DefaultRestartThreshold  = 0.01
	DefaultEdgeFactor        = 16
	DefaultScale             = 10
)

type Config struct {
	Job     Job        `yaml:"job"`
	Graph   GraphInput `yaml:"graph"`
	Network Network    `yaml:"network"`
}

type Job struct {
	Peers             int     `yaml:"peers"`
	DelegateThreshold uint32  `yaml:"delegate_threshold"`
	RestartThreshold  float64 `yaml:"restart_threshold"`
	MetricsAddr       string  `yaml:"metrics_addr,omitempty"`
}

type GraphInput struct {
	Input string `yaml:"input"`
	Path  string `yaml:"path,omitempty"`
	RMAT  RMAT   `yaml:"rmat,omitempty"`
}

type RMAT struct {
	Scale      uint32 `yaml:"scale"`
	EdgeFactor uint64 `yaml:"edge_factor"`
}

type Network struct {
	Rank  int    `yaml:"rank"`
	Peers []Peer `yaml:"peers"`
}

type Peer struct {
	Rank    int    `yaml:"rank"`
	Address string `yaml:"address"`
}

// PeerAddresses returns the peer table ordered by rank.
func (n Network) PeerAddresses() ([]string, error) {
	addrs := make([]string, len(n.Peers))
	seen := make(map[int]bool)
	for _, p := range n.Peers {
		if p.Rank < 0 || p.Rank >= len(n.Peers) {
			return nil, fmt.Errorf("peer rank %d out of range [0,%d)", p.Rank, len(n.Peers))
		}
		if seen[p.Rank] {
			return nil, fmt.Errorf("duplicate peer rank %d", p.Rank)
		}
		seen[p.Rank] = true
		addrs[p.Rank] = p.Address
	}
	return addrs, nil
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

func LoadConfigFromEnv() *Config {
	cfg := defaultConfig()
	cfg.Job.Peers = getEnvInt("PEERS", cfg.Job.Peers)
	cfg.Job.DelegateThreshold = uint32(getEnvInt("DELEGATE_THRESHOLD", int(cfg.Job.DelegateThreshold)))
	cfg.Job.RestartThreshold = getEnvFloat("RESTART_THRESHOLD", cfg.Job.RestartThreshold)
	cfg.Job.MetricsAddr = getEnv("METRICS_ADDR", cfg.Job.MetricsAddr)
	cfg.Graph.Input = getEnv("GRAPH_INPUT", cfg.Graph.Input)
	cfg.Graph.Path = getEnv("GRAPH_PATH", cfg.Graph.Path)
	cfg.Graph.RMAT.Scale = uint32(getEnvInt("RMAT_SCALE", int(cfg.Graph.RMAT.Scale)))
	cfg.Graph.RMAT.EdgeFactor = uint64(getEnvInt("RMAT_EDGE_FACTOR", int(cfg.Graph.RMAT.EdgeFactor)))
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Job: Job{
			Peers:             1,
			DelegateThreshold: DefaultDelegateThreshold,
			RestartThreshold:  DefaultRestartThreshold,
		},
		Graph: GraphInput{
			Input: "rmat",
			RMAT: RMAT{
				Scale:      DefaultScale,
				EdgeFactor: DefaultEdgeFactor,
			},
		},
	}
}

func (c *Config) Validate() error {
	if c.Job.Peers <= 0 {
		return fmt.Errorf("job.peers must be positive, got %d", c.Job.Peers)
	}
	if c.Job.RestartThreshold <= 0 || c.Job.RestartThreshold >= 1 {
		return fmt.Errorf("job.restart_threshold must be in (0,1), got %g", c.Job.RestartThreshold)
	}
	switch c.Graph.Input {
	case "file":
		if c.Graph.Path == "" {
			return fmt.Errorf("graph.path is required for file input")
		}
	case "rmat":
		if c.Graph.RMAT.Scale == 0 {
			return fmt.Errorf("graph.rmat.scale is required for rmat input")
		}
	default:
		return fmt.Errorf("graph.input must be \"file\" or \"rmat\", got %q", c.Graph.Input)
	}
	if len(c.Network.Peers) > 0 && len(c.Network.Peers) != c.Job.Peers {
		return fmt.Errorf("network.peers lists %d entries for %d job peers", len(c.Network.Peers), c.Job.Peers)
	}
	if len(c.Network.Peers) > 0 {
		if c.Network.Rank < 0 || c.Network.Rank >= c.Job.Peers {
			return fmt.Errorf("network.rank %d out of range [0,%d)", c.Network.Rank, c.Job.Peers)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
