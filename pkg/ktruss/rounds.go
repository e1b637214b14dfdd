package ktruss

import (
	"math/bits"
	"sort"

	"github.com/distributed-ktruss/pkg/graph"
	"github.com/distributed-ktruss/pkg/visitor"
)

// scheduleRounds recomputes the wave order for the current shape of the
// DOG: an in-degree pass, a longest-path round assignment, then a
// repack of the local sources into logarithmic bins. The returned slice
// has the same length on every rank (bins a rank has no sources for are
// empty), so ranks stay in lockstep through the bin loop.
func (e *Engine) scheduleRounds() ([][]graph.Locator, error) {
	e.dogInDegree.Reset()
	e.dogRound.Reset()

	if err := e.q.RunTraversal(&inDegreeProgram{e: e}); err != nil {
		return nil, err
	}

	e.eachStored(func(v graph.Locator) {
		if e.dogInDegree.Get(v) == 0 {
			e.dogRound.Set(v, 0)
		}
	})

	if err := e.q.RunTraversal(&roundProgram{e: e}); err != nil {
		return nil, err
	}

	// Rounds come out of the propagation one high: sources finish at 1.
	// Shift everything down so sources sit in round 0, find the local
	// maximum, and bucket sources by round.
	var localMax uint64
	byRound := make(map[uint32][]graph.Locator)
	e.eachStored(func(v graph.Locator) {
		round := e.dogRound.Get(v) - 1
		e.dogRound.Set(v, round)
		if uint64(round) > localMax {
			localMax = uint64(round)
		}
		if adj := e.adj(v); adj != nil && adj.Len() > 0 {
			byRound[round] = append(byRound[round], v)
		}
	})

	maxRound, err := e.comm.AllReduce(visitor.ReduceMax, localMax)
	if err != nil {
		return nil, err
	}
	e.logf("global_max_round = %d", maxRound)

	numBins := bits.Len64(maxRound)
	if numBins == 0 {
		numBins = 1
	}
	bins := make([][]graph.Locator, numBins)
	for round, sources := range byRound {
		bins[binFor(round)] = append(bins[binFor(round)], sources...)
	}
	for _, bin := range bins {
		sort.Slice(bin, func(i, j int) bool { return bin[i].Less(bin[j]) })
	}
	return bins, nil
}

// binFor maps a round to its power-of-two bin; rounds 0 and 1 share
// bin 0.
func binFor(round uint32) int {
	if round == 0 {
		return 0
	}
	return bits.Len32(round) - 1
}

// inDegreeProgram counts, for every DOG vertex, how many directed edges
// terminate at it. The count doubles as the countdown of the round
// pass.
type inDegreeProgram struct {
	e *Engine
}

func (p *inDegreeProgram) InitVisit(q *visitor.Queue, v visitor.Visitor) bool {
	e := p.e
	adj := e.adj(v.Target)
	if adj == nil {
		return false
	}
	adj.Scan(func(label uint64, edge *DOGEdge) bool {
		q.Visit(visitor.Visitor{Target: e.g.LocatorForLabel(label), From: v.Target})
		return true
	})
	return false
}

func (p *inDegreeProgram) PreVisit(v visitor.Visitor) bool {
	e := p.e
	e.dogInDegree.Set(v.Target, e.dogInDegree.Get(v.Target)+1)
	return false
}

func (p *inDegreeProgram) Visit(q *visitor.Queue, v visitor.Visitor) bool {
	p.e.fatalf("in-degree pass: unexpected full delivery at vertex %d", p.e.g.LocatorToLabel(v.Target))
	return false
}

// roundProgram assigns each DOG vertex the length of the longest
// directed path into it. Sources announce round 1; every vertex tracks
// the maximum announcement, and when its last in-edge has reported it
// bumps the maximum by one and announces downstream. The binning shift
// later turns the 1-based values into path lengths.
type roundProgram struct {
	e *Engine
}

func (p *roundProgram) InitVisit(q *visitor.Queue, v visitor.Visitor) bool {
	e := p.e
	if e.dogInDegree.Get(v.Target) != 0 {
		return false
	}
	if e.dogRound.Get(v.Target) != 0 {
		return false
	}
	e.dogRound.Set(v.Target, 1)
	p.announce(q, v.Target, 1)
	return false
}

func (p *roundProgram) PreVisit(v visitor.Visitor) bool {
	e := p.e
	countdown := e.dogInDegree.Get(v.Target)
	if countdown == 0 {
		e.errorf("round pass: announcement after countdown expired at vertex %d", e.g.LocatorToLabel(v.Target))
	}
	if v.Round > e.dogRound.Get(v.Target) {
		e.dogRound.Set(v.Target, v.Round)
	}
	countdown--
	e.dogInDegree.Set(v.Target, countdown)
	if countdown == 0 {
		e.dogRound.Set(v.Target, e.dogRound.Get(v.Target)+1)
		return true
	}
	return false
}

func (p *roundProgram) Visit(q *visitor.Queue, v visitor.Visitor) bool {
	e := p.e
	if e.dogInDegree.Get(v.Target) != 0 {
		e.errorf("round pass: finalised vertex %d still expects in-edges", e.g.LocatorToLabel(v.Target))
	}
	p.announce(q, v.Target, e.dogRound.Get(v.Target))
	return false
}

func (p *roundProgram) announce(q *visitor.Queue, from graph.Locator, round uint32) {
	e := p.e
	adj := e.adj(from)
	if adj == nil {
		return
	}
	adj.Scan(func(label uint64, edge *DOGEdge) bool {
		q.Visit(visitor.Visitor{Target: e.g.LocatorForLabel(label), From: from, Round: round})
		return true
	})
}

var (
	_ visitor.Program = (*inDegreeProgram)(nil)
	_ visitor.Program = (*roundProgram)(nil)
)
