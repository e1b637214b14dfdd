package cluster

import (
	"sync"
	"testing"

	"github.com/distributed-ktruss/pkg/visitor"
)

func TestLocalGroupAllReduce(t *testing.T) {
	const peers = 4
	group := NewLocalGroup(peers)
	defer group.Close()

	cases := []struct {
		op     visitor.ReduceOp
		values []uint64
		want   uint64
	}{
		{visitor.ReduceSum, []uint64{1, 2, 3, 4}, 10},
		{visitor.ReduceMax, []uint64{7, 2, 9, 4}, 9},
		{visitor.ReduceMin, []uint64{7, 2, 9, 4}, 2},
	}

	for _, tc := range cases {
		results := make([]uint64, peers)
		errs := make([]error, peers)
		var wg sync.WaitGroup
		for rank := 0; rank < peers; rank++ {
			wg.Add(1)
			go func(rank int) {
				defer wg.Done()
				results[rank], errs[rank] = group.Comm(rank).AllReduce(tc.op, tc.values[rank])
			}(rank)
		}
		wg.Wait()
		for rank := 0; rank < peers; rank++ {
			if errs[rank] != nil {
				t.Fatalf("%v rank %d: %v", tc.op, rank, errs[rank])
			}
			if results[rank] != tc.want {
				t.Fatalf("%v rank %d: got %d, want %d", tc.op, rank, results[rank], tc.want)
			}
		}
	}
}

func TestLocalGroupRepeatedCollectives(t *testing.T) {
	const peers = 3
	const rounds = 50
	group := NewLocalGroup(peers)
	defer group.Close()

	errs := make([]error, peers)
	var wg sync.WaitGroup
	for rank := 0; rank < peers; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			comm := group.Comm(rank)
			for i := 0; i < rounds; i++ {
				got, err := comm.AllReduce(visitor.ReduceSum, uint64(i))
				if err != nil {
					errs[rank] = err
					return
				}
				if got != uint64(i*peers) {
					t.Errorf("rank %d round %d: got %d, want %d", rank, i, got, i*peers)
					return
				}
			}
		}(rank)
	}
	wg.Wait()
	for rank, err := range errs {
		if err != nil {
			t.Fatalf("rank %d: %v", rank, err)
		}
	}
}

func TestLocalGroupSendRecv(t *testing.T) {
	group := NewLocalGroup(2)
	defer group.Close()

	sender := group.Comm(0)
	receiver := group.Comm(1)

	if _, ok := receiver.TryRecv(); ok {
		t.Fatal("unexpected message before send")
	}
	if err := sender.Send(1, visitor.Visitor{Round: 42}); err != nil {
		t.Fatalf("send: %v", err)
	}
	v, ok := receiver.TryRecv()
	if !ok || v.Round != 42 {
		t.Fatalf("recv: got (%v, %v)", v.Round, ok)
	}
	if err := sender.Send(9, visitor.Visitor{}); err != visitor.ErrUnknownPeer {
		t.Fatalf("send to bogus rank: %v", err)
	}
}
