package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/distributed-ktruss/pkg/cluster"
	"github.com/distributed-ktruss/pkg/graph"
	"github.com/distributed-ktruss/pkg/graphio"
	"github.com/distributed-ktruss/pkg/ktruss"
	"github.com/distributed-ktruss/pkg/rmat"
)

func main() {
	var (
		peers             = flag.Int("peers", 4, "number of in-process peers")
		input             = flag.String("input", "", "edge list file; generates an RMAT graph when empty")
		scale             = flag.Int("scale", 10, "RMAT scale (vertices = 2^scale)")
		edgeFactor        = flag.Int("edge-factor", rmat.DefaultEdgeFactor, "RMAT edges per vertex")
		delegateThreshold = flag.Int("delegate-threshold", 1024, "degree at which a vertex becomes a delegate; 0 disables")
		dump              = flag.String("dump", "", "also write the input edge list to this path")
	)
	flag.Parse()

	if *peers <= 0 {
		log.Printf("peers must be positive, got %d", *peers)
		os.Exit(1)
	}

	jobID := uuid.New().String()

	var edges []graph.Edge
	var err error
	if *input != "" {
		edges, err = graphio.ReadEdgeList(*input)
		if err != nil {
			log.Fatalf("Failed to load graph: %v", err)
		}
		log.Printf("[job %s] Loaded %d edges from %s", jobID, len(edges), *input)
	} else {
		edges = rmat.Graph500Edges(uint32(*scale), uint64(*edgeFactor), *peers)
		log.Printf("[job %s] Generated RMAT scale %d: %d edges", jobID, *scale, len(edges))
	}
	if *dump != "" {
		if err := graphio.WriteEdgeList(*dump, edges); err != nil {
			log.Fatalf("Failed to dump edge list: %v", err)
		}
	}

	group := cluster.NewLocalGroup(*peers)
	defer group.Close()

	results := make([]*ktruss.Result, *peers)
	errs := make([]error, *peers)

	var wg sync.WaitGroup
	for rank := 0; rank < *peers; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			g := graph.Build(edges, rank, *peers, uint32(*delegateThreshold))
			if rank == 0 {
				log.Printf("[job %s] Graph ready: %d vertices, %d edges, %d delegates",
					jobID, g.NumVertices(), g.NumEdges(), g.NumDelegates())
			}
			results[rank], errs[rank] = ktruss.NewEngine(g, group.Comm(rank), ktruss.Options{}).Run()
		}(rank)
	}
	wg.Wait()

	for rank, err := range errs {
		if err != nil {
			log.Fatalf("[job %s] Peer %d failed: %v", jobID, rank, err)
		}
	}

	fmt.Printf("max k with non-empty truss = %d\n", results[0].FinalK)
}
