// Package mcts implements the Monte Carlo tree search driver: UCB1
// selection, expansion from a pre-sorted untried-move stack, simulation
// (an initializer, optionally gated by a simulation policy), backprop,
// and pruning against the global best (spec §4.E).
package mcts

import (
	"math"
	"math/rand"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
)

// Move is a single (vertex, color) tree-edge label.
type Move struct {
	V int
	C int32
}

// Node is one position in the search tree. parent is a weak back
// pointer: Node never owns its parent, only its children.
type Node struct {
	parent   *Node
	move     Move
	children []*Node
	untried  []Move // sorted (score desc, color desc); pop from the front
	visits   int32
	valueSum float64
	depth    int32
	pruned   bool
	posScore int32 // Assignment.Score() immediately after move was applied
}

// NewRoot returns the root node with the given untried-move stack
// (typically the move list for the first vertex to color).
func NewRoot(untried []Move) *Node {
	return &Node{untried: untried}
}

// IsTerminal reports whether the node has no untried moves left to
// expand (it may still have children already created).
func (n *Node) IsTerminal() bool { return len(n.untried) == 0 }

// IsLeaf reports whether the node has never been expanded into any
// child.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// AverageValue returns the mean backpropagated leaf score, or +Inf for
// an unvisited node. ucb1 does not read it for unvisited children: it
// scores them +Inf itself, so they are always preferred first.
func (n *Node) AverageValue() float64 {
	if n.visits == 0 {
		return math.Inf(1)
	}
	return n.valueSum / float64(n.visits)
}

// ucb1 computes the selection score described in spec §4.E: exploitation
// term normalized by the best known score, plus an exploration term
// scaled by coeffExploExploi.
func ucb1(child *Node, parentVisits int32, bestKnownScore int32, c float64) float64 {
	if child.visits == 0 {
		return math.Inf(1)
	}
	avg := child.AverageValue()
	exploit := (float64(bestKnownScore) - avg) / float64(bestKnownScore)
	explore := c * math.Sqrt(math.Log(float64(parentVisits))/float64(child.visits))
	return exploit + explore
}

// selectChild returns the child maximizing UCB1, ties broken uniformly.
func selectChild(n *Node, rng *rand.Rand, bestKnownScore int32, c float64) *Node {
	var candidates []*Node
	var best float64 = math.Inf(-1)
	for _, ch := range n.children {
		if ch.pruned {
			continue
		}
		score := ucb1(ch, n.visits, bestKnownScore, c)
		if score > best {
			best = score
			candidates = candidates[:0]
			candidates = append(candidates, ch)
		} else if score == best {
			candidates = append(candidates, ch)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[rng.Intn(len(candidates))]
}

// expand pops the front untried move, applies it to a, and attaches the
// resulting child with an empty untried-move stack. The caller fills in
// child.untried once it knows which vertex the new position should
// branch on next (SetUntried).
func (n *Node) expand(a *assignment.Assignment) *Node {
	m := n.untried[0]
	n.untried = n.untried[1:]

	child := &Node{
		parent: n,
		move:   m,
		depth:  n.depth + 1,
	}
	n.children = append(n.children, child)
	a.AddTo(m.V, m.C)
	child.posScore = a.Score()
	return child
}

// SetUntried installs the untried-move stack computed for n's position.
func (n *Node) SetUntried(moves []Move) { n.untried = moves }

// Move returns the (vertex, color) edge leading into n.
func (n *Node) Move() Move { return n.move }

// backpropagate adds the leaf score into every ancestor's running sum
// and increments visit counts, walking up to the root.
func backpropagate(leaf *Node, score int32) {
	for node := leaf; node != nil; node = node.parent {
		node.visits++
		node.valueSum += float64(score)
	}
}

// cleanGraph recursively drops any node whose incoming move leads to a
// position scoring at least newBest (they can never produce an
// improvement), and recurses into survivors.
func cleanGraph(n *Node, newBest int32) {
	kept := n.children[:0]
	for _, ch := range n.children {
		if ch.posScore >= newBest {
			ch.pruned = true
			continue
		}
		cleanGraph(ch, newBest)
		kept = append(kept, ch)
	}
	n.children = kept
}
