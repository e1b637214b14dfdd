// Package ktruss computes the k-truss decomposition of a distributed
// undirected graph: for every k ≥ 3 it reports how many edges survive
// in the maximal subgraph where each edge closes at least k-2
// triangles, stopping when nothing survives.
package ktruss

import (
	"log"
	"os"
	"time"

	"github.com/tidwall/btree"

	"github.com/distributed-ktruss/pkg/graph"
	"github.com/distributed-ktruss/pkg/metrics"
	"github.com/distributed-ktruss/pkg/vertexdata"
	"github.com/distributed-ktruss/pkg/visitor"
)

// DOGEdge is the per-edge state of the degree-oriented directed graph,
// stored at the edge's source vertex. TargetDegree is frozen at build
// time; TriCount is reset before every counting sweep.
type DOGEdge struct {
	TargetDegree uint32
	TriCount     uint32
}

type Options struct {
	// RestartThreshold is the fraction of remaining edges a bin may
	// delete before the engine resets every triangle counter and
	// recounts from the first bin.
	RestartThreshold float64
}

// KCount is one line of the decomposition: the edges surviving at k.
type KCount struct {
	K           int
	EdgesRemain uint64
}

// Result collects what the run observed. Identical on every rank except
// Elapsed, which is the rank's own wall time.
type Result struct {
	FinalK   int
	PerK     []KCount
	DOGEdges uint64
	Elapsed  time.Duration
}

// Engine runs one rank's share of the decomposition. All methods are
// called from the peer's single goroutine; the only cross-rank effects
// go through the visitor queue and the collectives.
type Engine struct {
	g    *graph.Graph
	comm visitor.Comm
	q    *visitor.Queue
	opts Options

	progress *log.Logger

	alive       *vertexdata.Data[bool]
	core2Degree *vertexdata.Data[uint32]
	dogAdj      *vertexdata.Data[*btree.Map[uint64, *DOGEdge]]
	dogInDegree *vertexdata.Data[uint32]
	dogRound    *vertexdata.Data[uint32]

	wedgeCount    uint64
	triangleCount uint64

	// Global edges entering the current k iteration (the DOG edge count
	// for the first k); the base of the restart fraction.
	edgesRemain uint64
}

func NewEngine(g *graph.Graph, comm visitor.Comm, opts Options) *Engine {
	if opts.RestartThreshold == 0 {
		opts.RestartThreshold = 0.01
	}
	return &Engine{
		g:           g,
		comm:        comm,
		q:           visitor.NewQueue(g, comm),
		opts:        opts,
		progress:    log.New(os.Stdout, "", log.LstdFlags),
		alive:       vertexdata.NewWithDefault("core2_alive", true),
		core2Degree: vertexdata.New[uint32]("core2_degree"),
		dogAdj:      vertexdata.New[*btree.Map[uint64, *DOGEdge]]("dog_adj"),
		dogInDegree: vertexdata.New[uint32]("dog_in_degree"),
		dogRound:    vertexdata.NewWithDefault[uint32]("dog_round", 1),
	}
}

// KTruss is the engine entry point: it runs the full decomposition and
// returns the largest k whose truss was non-empty.
func KTruss(g *graph.Graph, comm visitor.Comm) (uint64, error) {
	res, err := NewEngine(g, comm, Options{}).Run()
	if err != nil {
		return 0, err
	}
	return uint64(res.FinalK), nil
}

// Run executes the full decomposition on this rank.
func (e *Engine) Run() (*Result, error) {
	totalStart := time.Now()
	res := &Result{}

	start := time.Now()
	if err := e.reduceTo2Core(); err != nil {
		return nil, err
	}
	e.logf("2Core time = %v", time.Since(start))

	start = time.Now()
	if err := e.buildDOG(); err != nil {
		return nil, err
	}
	e.logf("Directed 2Core time = %v", time.Since(start))

	dogEdges, err := e.comm.AllReduce(visitor.ReduceSum, e.localDOGEdges())
	if err != nil {
		return nil, err
	}
	res.DOGEdges = dogEdges
	e.edgesRemain = dogEdges
	e.logf("global_core2_directed_edge_count = %d", dogEdges)

	maxOut, maxDeg := e.localMaxDegrees()
	if maxOut, err = e.comm.AllReduce(visitor.ReduceMax, maxOut); err != nil {
		return nil, err
	}
	if maxDeg, err = e.comm.AllReduce(visitor.ReduceMax, maxDeg); err != nil {
		return nil, err
	}
	e.logf("Largest DOD out degree = %d", maxOut)
	e.logf("Largest orig degree = %d", maxDeg)

	// The 2-core state fed the DOG build and is not read again.
	e.alive.Reset()
	e.core2Degree.Reset()

	k := 3
	for {
		kStart := time.Now()
		metrics.CurrentK.Set(float64(k))
		e.logf("Starting ktruss k = %d", k)

		bins, err := e.scheduleRounds()
		if err != nil {
			return nil, err
		}

		remain, err := e.countAndPrune(k, bins)
		if err != nil {
			return nil, err
		}
		e.edgesRemain = remain
		metrics.EdgesRemaining.Set(float64(remain))
		metrics.KDuration.Observe(time.Since(kStart).Seconds())
		e.logf("K = %d global_edges_remain = %d TIME = %v", k, remain, time.Since(kStart))
		res.PerK = append(res.PerK, KCount{K: k, EdgesRemain: remain})
		if remain == 0 {
			break
		}
		res.FinalK = k

		k++
		localRemain := e.pruneForNextK(k)
		if e.edgesRemain, err = e.comm.AllReduce(visitor.ReduceSum, localRemain); err != nil {
			return nil, err
		}
	}

	res.Elapsed = time.Since(totalStart)
	e.logf("TOTAL KTRUSS TIME = %v", res.Elapsed)
	return res, nil
}

// countAndPrune processes the bins of one k iteration: count triangles
// seeded from each bin, prune that bin's sources, and either advance or
// reset all counters and start over, depending on how much was deleted.
// Returns the global surviving-edge count.
func (e *Engine) countAndPrune(k int, bins [][]graph.Locator) (uint64, error) {
	var localRemain uint64
	for bin := 0; bin < len(bins); {
		sources := bins[bin]

		e.wedgeCount = 0
		e.triangleCount = 0
		if err := e.q.RunTraversalFrom(&wedgeProgram{e: e}, sources); err != nil {
			return 0, err
		}

		localDeleted, localKept := e.pruneSources(sources, k)
		localRemain += localKept

		binDeleted, err := e.comm.AllReduce(visitor.ReduceSum, localDeleted)
		if err != nil {
			return 0, err
		}
		metrics.EdgesDeleted.Add(float64(localDeleted))

		if binDeleted == 0 ||
			(float64(binDeleted) < e.opts.RestartThreshold*float64(e.edgesRemain) && bin < len(bins)-1) {
			bin++
			continue
		}

		// Too much fell out: downstream counts are suspect, recount
		// everything from the first bin.
		e.resetTriangleCounts()
		localRemain = 0
		bin = 0
		metrics.Restarts.Inc()
		e.logf("Restarting -- Deleted %d edges", binDeleted)
	}
	return e.comm.AllReduce(visitor.ReduceSum, localRemain)
}

// pruneSources erases from each source's adjacency every edge whose
// count fell short of k-2. Returns deleted and kept edge counts.
func (e *Engine) pruneSources(sources []graph.Locator, k int) (deleted, kept uint64) {
	threshold := uint32(k - 2)
	for _, src := range sources {
		adj := e.adj(src)
		if adj == nil {
			continue
		}
		var doomed []uint64
		adj.Scan(func(label uint64, edge *DOGEdge) bool {
			if edge.TriCount < threshold {
				doomed = append(doomed, label)
			} else {
				kept++
			}
			return true
		})
		for _, label := range doomed {
			adj.Delete(label)
			deleted++
		}
	}
	return deleted, kept
}

// pruneForNextK removes every directed edge that cannot survive the
// next k and zeroes the counters of those that can. Returns the local
// surviving-edge count.
func (e *Engine) pruneForNextK(k int) uint64 {
	threshold := uint32(k - 2)
	var kept uint64
	e.eachStored(func(v graph.Locator) {
		adj := e.adj(v)
		if adj == nil {
			return
		}
		var doomed []uint64
		adj.Scan(func(label uint64, edge *DOGEdge) bool {
			if edge.TriCount < threshold {
				doomed = append(doomed, label)
			} else {
				edge.TriCount = 0
				kept++
			}
			return true
		})
		for _, label := range doomed {
			adj.Delete(label)
		}
		metrics.EdgesDeleted.Add(float64(len(doomed)))
	})
	return kept
}

func (e *Engine) resetTriangleCounts() {
	e.eachStored(func(v graph.Locator) {
		adj := e.adj(v)
		if adj == nil {
			return
		}
		adj.Scan(func(label uint64, edge *DOGEdge) bool {
			edge.TriCount = 0
			return true
		})
	})
}

// adj returns v's directed adjacency, or nil if it has none.
func (e *Engine) adj(v graph.Locator) *btree.Map[uint64, *DOGEdge] {
	return e.dogAdj.Get(v)
}

// ensureAdj returns v's directed adjacency, creating it on first use.
func (e *Engine) ensureAdj(v graph.Locator) *btree.Map[uint64, *DOGEdge] {
	adj := e.dogAdj.Get(v)
	if adj == nil {
		adj = &btree.Map[uint64, *DOGEdge]{}
		e.dogAdj.Set(v, adj)
	}
	return adj
}

// eachStored visits every vertex whose state lives on this rank: owned
// ordinary vertices and mastered delegates.
func (e *Engine) eachStored(fn func(v graph.Locator)) {
	for _, v := range e.g.Vertices() {
		fn(v)
	}
	for _, v := range e.g.Controllers() {
		fn(v)
	}
}

func (e *Engine) localDOGEdges() uint64 {
	var n uint64
	e.eachStored(func(v graph.Locator) {
		if adj := e.adj(v); adj != nil {
			n += uint64(adj.Len())
		}
	})
	return n
}

func (e *Engine) localMaxDegrees() (maxOut, maxDeg uint64) {
	e.eachStored(func(v graph.Locator) {
		if adj := e.adj(v); adj != nil && uint64(adj.Len()) > maxOut {
			maxOut = uint64(adj.Len())
		}
		if d := uint64(e.g.Degree(v)); d > maxDeg {
			maxDeg = d
		}
	})
	return maxOut, maxDeg
}

// logf emits a progress line on rank 0 only.
func (e *Engine) logf(format string, args ...any) {
	if e.comm.Rank() == 0 {
		e.progress.Printf(format, args...)
	}
}

// errorf reports a counting inconsistency; the sweep carries on, the
// numbers are suspect.
func (e *Engine) errorf(format string, args ...any) {
	log.Printf(format, args...)
}

// fatalf aborts the job on an internal invariant violation.
func (e *Engine) fatalf(format string, args ...any) {
	log.Fatalf(format, args...)
}
