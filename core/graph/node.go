package graph

import (
	"fmt"

	"github.com/kilianp07/kitflow/core/model"
)

// NodeKind distinguishes the states a kit can occupy at a location, plus
// the two singleton terminals.
type NodeKind int

const (
	// KindAvailable marks stock sitting at an airport, loadable now.
	KindAvailable NodeKind = iota
	// KindProcessing marks stock that has just arrived and is frozen until
	// its processing delay elapses.
	KindProcessing
	// KindSource and KindSink are the flow terminals. They carry no
	// location, time or kit class.
	KindSource
	KindSink
)

func (k NodeKind) String() string {
	switch k {
	case KindAvailable:
		return "available"
	case KindProcessing:
		return "processing"
	case KindSource:
		return "source"
	case KindSink:
		return "sink"
	default:
		return "unknown"
	}
}

// NodeKey is the composite identity of a node: the graph never contains two
// distinct nodes with the same key.
type NodeKey struct {
	Location string // airport code
	Time     int    // hours relative to the current planning instant
	Kind     NodeKind
	Kit      model.KitType
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%s@%d/%s/%s", k.Location, k.Time, k.Kind, k.Kit)
}

// NodeID is a stable integer handle into the node arena, used in place of
// string keys in adjacency and flow bookkeeping.
type NodeID int32

// Node is one entry of the arena.
type Node struct {
	ID  NodeID
	Key NodeKey
}
