package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/distributed-ktruss/pkg/cluster"
	"github.com/distributed-ktruss/pkg/config"
	"github.com/distributed-ktruss/pkg/graph"
	"github.com/distributed-ktruss/pkg/graphio"
	"github.com/distributed-ktruss/pkg/ktruss"
	"github.com/distributed-ktruss/pkg/rmat"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file (YAML)")
	)
	flag.Parse()

	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Printf("Failed to load config: %v", err)
			os.Exit(1)
		}
		log.Printf("Loaded configuration from %s", *configPath)
	} else {
		log.Printf("No configuration file provided")
		os.Exit(1)
	}

	if len(cfg.Network.Peers) == 0 {
		log.Printf("network.peers is required; use the standalone binary for single-process runs")
		os.Exit(1)
	}
	addrs, err := cfg.Network.PeerAddresses()
	if err != nil {
		log.Fatalf("Invalid peer table: %v", err)
	}
	rank := cfg.Network.Rank
	jobID := uuid.New().String()
	log.Printf("[job %s] Starting rank %d of %d on %s", jobID, rank, cfg.Job.Peers, addrs[rank])

	if cfg.Job.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Job.MetricsAddr, mux); err != nil {
				log.Printf("Metrics endpoint failed: %v", err)
			}
		}()
	}

	edges, err := loadEdges(cfg)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}

	comm, err := cluster.NewTCPComm(rank, addrs)
	if err != nil {
		log.Fatalf("Failed to join peer group: %v", err)
	}
	defer comm.Close()

	g := graph.Build(edges, rank, cfg.Job.Peers, cfg.Job.DelegateThreshold)
	if rank == 0 {
		log.Printf("[job %s] Graph ready: %d vertices, %d edges, %d delegates",
			jobID, g.NumVertices(), g.NumEdges(), g.NumDelegates())
	}

	res, err := ktruss.NewEngine(g, comm, ktruss.Options{
		RestartThreshold: cfg.Job.RestartThreshold,
	}).Run()
	if err != nil {
		log.Fatalf("[job %s] k-truss failed: %v", jobID, err)
	}

	if rank == 0 {
		fmt.Printf("max k with non-empty truss = %d\n", res.FinalK)
	}
}

// loadEdges builds the full input on every node: either the configured
// edge-list file (each node needs a copy) or the deterministic RMAT
// stream, which every node can regenerate identically.
func loadEdges(cfg *config.Config) ([]graph.Edge, error) {
	if cfg.Graph.Input == "file" {
		return graphio.ReadEdgeList(cfg.Graph.Path)
	}
	return rmat.Graph500Edges(cfg.Graph.RMAT.Scale, cfg.Graph.RMAT.EdgeFactor, cfg.Job.Peers), nil
}
