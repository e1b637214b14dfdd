package cluster

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/distributed-ktruss/pkg/graph"
	"github.com/distributed-ktruss/pkg/visitor"
)

func TestEnvelopeJSONSerialization(t *testing.T) {
	probe := &visitor.Visitor{
		Target: graph.Locator{Label: 17, Owner: 1},
		From:   graph.Locator{Label: 3, Owner: 0, Delegate: true},
		Check:  graph.Locator{Label: 29, Owner: 2},
		Close:  true,
	}

	testCases := []struct {
		name     string
		envelope Envelope
	}{
		{
			name: "visitor",
			envelope: Envelope{
				Kind:    KindVisitor,
				From:    0,
				Visitor: probe,
			},
		},
		{
			name: "visitorWithRoundAndDegree",
			envelope: Envelope{
				Kind: KindVisitor,
				From: 2,
				Visitor: &visitor.Visitor{
					Target: graph.Locator{Label: 8, Owner: 0},
					From:   graph.Locator{Label: 5, Owner: 1},
					Round:  4,
					Degree: 12,
					Init:   true,
				},
			},
		},
		{
			name: "reduce",
			envelope: Envelope{
				Kind:  KindReduce,
				From:  3,
				Seq:   12,
				Op:    "max",
				Value: 99,
			},
		},
		{
			name: "reduceResult",
			envelope: Envelope{
				Kind:  KindReduceResult,
				From:  0,
				Seq:   12,
				Value: 104,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(&tc.envelope)
			if err != nil {
				t.Fatalf("Failed to marshal %s: %v", tc.name, err)
			}

			var restored Envelope
			if err := json.Unmarshal(data, &restored); err != nil {
				t.Fatalf("Failed to unmarshal %s: %v", tc.name, err)
			}

			if !reflect.DeepEqual(restored, tc.envelope) {
				t.Fatalf("Round trip changed %s:\n got  %+v\n want %+v", tc.name, restored, tc.envelope)
			}
		})
	}
}
