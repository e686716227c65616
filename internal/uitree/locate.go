package uitree

import (
	"errors"
	"fmt"
)

// Strategies a Match can come from.
const (
	ViaText       = "text"
	ViaResourceID = "resource-id"
)

// ErrNotFound means no element matched either strategy. Callers must treat
// it as fatal rather than guessing a coordinate.
var ErrNotFound = errors.New("element not found")

// Match is a located tap target.
type Match struct {
	Node  *Node
	Rect  Rect
	Point Point
	Via   string
}

// Locate finds the tap target: the first element whose text equals text
// exactly, else the first element whose resource-id equals fallbackID.
// Search is depth-first in document order; the fallback is consulted only
// when no text match exists anywhere in the tree. A matched element whose
// bounds cannot be parsed is an error, not a skip.
func Locate(h *Hierarchy, text, fallbackID string) (Match, error) {
	if text != "" {
		if n := findFirst(h.Nodes, func(n *Node) bool { return n.Text == text }); n != nil {
			return matchNode(n, ViaText)
		}
	}
	if fallbackID != "" {
		if n := findFirst(h.Nodes, func(n *Node) bool { return n.ResourceID == fallbackID }); n != nil {
			return matchNode(n, ViaResourceID)
		}
	}
	return Match{}, fmt.Errorf("%w: no element with text %q or resource-id %q", ErrNotFound, text, fallbackID)
}

func matchNode(n *Node, via string) (Match, error) {
	r, err := ParseBounds(n.Bounds)
	if err != nil {
		return Match{}, err
	}
	return Match{Node: n, Rect: r, Point: r.Center(), Via: via}, nil
}

// findFirst walks nodes depth-first and returns the first node satisfying pred.
func findFirst(nodes []Node, pred func(*Node) bool) *Node {
	for i := range nodes {
		if pred(&nodes[i]) {
			return &nodes[i]
		}
		if n := findFirst(nodes[i].Nodes, pred); n != nil {
			return n
		}
	}
	return nil
}
