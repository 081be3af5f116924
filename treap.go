/*
Copyright © 2018 the geomkernel authors.
This file is part of geomkernel.

geomkernel is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

geomkernel is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with geomkernel.  If not, see <http://www.gnu.org/licenses/>.
*/

package geometry

import (
	"fmt"
	"math"
	"math/rand"
)

// NodeID is the index of a node in the node arena of a Treap.
type NodeID int

// TreapID identifies one of the logical trees sharing a Treap's node arena.
type TreapID int

const (
	// NullNode is the handle of a missing node.
	NullNode NodeID = -1

	// DefaultTreap denotes the implicit default tree of a Treap. It is
	// created on first use.
	DefaultTreap TreapID = -1
)

// DefaultSeed seeds the priority generator of new treaps.
const DefaultSeed = 124234251

// maxPriority is assigned to a node that is being deleted so that it
// sinks to a leaf. Random priorities are always smaller.
const maxPriority = math.MaxInt32

// Comparator decides the order of elements in a Treap. Compare returns
// a negative number if element sorts before the element stored at node,
// a positive number if it sorts after, and zero if the two are equal.
type Comparator interface {
	Compare(t *Treap, element int, node NodeID) int
}

// ComparatorNotifier may be implemented by a Comparator that keeps state
// keyed by node, so that the state is kept consistent as the tree
// changes.
type ComparatorNotifier interface {
	// OnDelete is called before node is removed from the tree.
	OnDelete(t *Treap, node NodeID)
	// OnSet is called before the element stored at node is replaced.
	OnSet(t *Treap, node NodeID)
	// OnEndSearch is called when Search finds no match for element.
	OnEndSearch(t *Treap, element int)
	// OnAddUniqueFailed is called when a unique insert collides with the
	// element stored at node.
	OnAddUniqueFailed(t *Treap, node NodeID)
}

// NopNotifier implements ComparatorNotifier with no-op methods. Embed it
// to override only some of the notifications.
type NopNotifier struct{}

// OnDelete does nothing.
func (NopNotifier) OnDelete(*Treap, NodeID) {}

// OnSet does nothing.
func (NopNotifier) OnSet(*Treap, NodeID) {}

// OnEndSearch does nothing.
func (NopNotifier) OnEndSearch(*Treap, int) {}

// OnAddUniqueFailed does nothing.
func (NopNotifier) OnAddUniqueFailed(*Treap, NodeID) {}

// MonikerComparator compares a query value that is not itself an element
// (for example a coordinate) with the element stored at node. It returns
// a negative number if the query sorts before the node.
type MonikerComparator interface {
	CompareMoniker(t *Treap, node NodeID) int
}

type treapNode struct {
	left, right, parent NodeID
	prev, next          NodeID
	element             int
	priority            int32
}

type treapHeader struct {
	root, first, last NodeID
	duplicate         NodeID
	size              int
	data              int
	live              bool
}

// Treap is a randomized binary search tree whose nodes are also threaded
// on a doubly linked list in sorted order, so that the first, last, next
// and previous elements are available in constant time. Any number of
// logical trees can share the node arena. All ordering decisions are
// delegated to the Comparator.
//
// A Treap is not safe for concurrent use.
type Treap struct {
	nodes      []treapNode
	freeNodes  []NodeID
	treaps     []treapHeader
	freeTreaps []TreapID
	defTreap   TreapID

	comparator Comparator
	notifier   ComparatorNotifier
	rnd        *rand.Rand
	balancing  bool
}

// NewTreap returns an empty treap that orders its elements with c.
func NewTreap(c Comparator) *Treap {
	t := &Treap{
		defTreap:  -1,
		rnd:       rand.New(rand.NewSource(DefaultSeed)),
		balancing: true,
	}
	t.SetComparator(c)
	return t
}

// SetComparator replaces the comparator. If c implements
// ComparatorNotifier it receives the structural notifications.
func (t *Treap) SetComparator(c Comparator) {
	t.comparator = c
	t.notifier, _ = c.(ComparatorNotifier)
}

// Comparator returns the current comparator.
func (t *Treap) Comparator() Comparator { return t.comparator }

// SetSeed reseeds the priority generator.
func (t *Treap) SetSeed(seed int64) { t.rnd.Seed(seed) }

// DisableBalancing switches deletion to the cheaper unbalanced mode,
// for callers that delete nodes in an order that never degrades the tree
// (for example in sweep order) and never search after bulk deletions.
func (t *Treap) DisableBalancing() { t.balancing = false }

// SetCapacity preallocates room for n nodes.
func (t *Treap) SetCapacity(n int) {
	if n > cap(t.nodes) {
		nodes := make([]treapNode, len(t.nodes), n)
		copy(nodes, t.nodes)
		t.nodes = nodes
	}
}

// CreateTreap adds a new empty logical tree and returns its handle. data
// is stored in the tree header for the caller's bookkeeping.
func (t *Treap) CreateTreap(data int) TreapID {
	h := treapHeader{
		root:      NullNode,
		first:     NullNode,
		last:      NullNode,
		duplicate: NullNode,
		data:      data,
		live:      true,
	}
	if k := len(t.freeTreaps); k > 0 {
		id := t.freeTreaps[k-1]
		t.freeTreaps = t.freeTreaps[:k-1]
		t.treaps[id] = h
		return id
	}
	t.treaps = append(t.treaps, h)
	return TreapID(len(t.treaps) - 1)
}

// DeleteTreap releases every node of tree and the tree itself.
func (t *Treap) DeleteTreap(tree TreapID) {
	tr := t.resolve(tree)
	for n := t.treaps[tr].first; n != NullNode; {
		next := t.nodes[n].next
		t.freeNode(n)
		n = next
	}
	t.treaps[tr] = treapHeader{}
	t.freeTreaps = append(t.freeTreaps, tr)
	if tr == t.defTreap {
		t.defTreap = -1
	}
}

// Clear releases every node and every logical tree. Node handles obtained
// before Clear must not be used afterwards.
func (t *Treap) Clear() {
	t.nodes = t.nodes[:0]
	t.freeNodes = t.freeNodes[:0]
	t.treaps = t.treaps[:0]
	t.freeTreaps = t.freeTreaps[:0]
	t.defTreap = -1
}

// resolve maps DefaultTreap to the default tree, creating it if needed.
func (t *Treap) resolve(tree TreapID) TreapID {
	if tree != DefaultTreap {
		if int(tree) >= len(t.treaps) || !t.treaps[tree].live {
			panic(fmt.Errorf("geometry: invalid treap handle %d", tree))
		}
		return tree
	}
	if t.defTreap == -1 {
		t.defTreap = t.CreateTreap(-1)
	}
	return t.defTreap
}

// AddElement inserts element into tree and returns the new node. Equal
// elements are inserted after the existing ones.
func (t *Treap) AddElement(element int, tree TreapID) NodeID {
	return t.insert(element, false, tree)
}

// AddUniqueElement inserts element into tree unless an equal element is
// already present. In that case it records the existing node as the
// tree's duplicate element, notifies the comparator and returns NullNode.
func (t *Treap) AddUniqueElement(element int, tree TreapID) NodeID {
	return t.insert(element, true, tree)
}

func (t *Treap) insert(element int, unique bool, tree TreapID) NodeID {
	tr := t.resolve(tree)
	t.treaps[tr].duplicate = NullNode
	cur := t.treaps[tr].root
	if cur == NullNode {
		return t.insertRoot(tr, element)
	}
	for {
		cmp := t.comparator.Compare(t, element, cur)
		if cmp < 0 {
			if l := t.nodes[cur].left; l != NullNode {
				cur = l
				continue
			}
			n := t.newNode(element)
			t.nodes[cur].left = n
			t.nodes[n].parent = cur
			t.finishInsert(tr, n, cur)
			return n
		}
		if unique && cmp == 0 {
			t.rejectDuplicate(tr, cur)
			return NullNode
		}
		if r := t.nodes[cur].right; r != NullNode {
			cur = r
			continue
		}
		before := t.nodes[cur].next
		n := t.newNode(element)
		t.nodes[cur].right = n
		t.nodes[n].parent = cur
		t.finishInsert(tr, n, before)
		return n
	}
}

// AddBiggestElement appends element after the current last element of
// tree without calling the comparator. The caller guarantees that element
// sorts after every element in the tree.
func (t *Treap) AddBiggestElement(element int, tree TreapID) NodeID {
	tr := t.resolve(tree)
	last := t.treaps[tr].last
	if last == NullNode {
		return t.insertRoot(tr, element)
	}
	n := t.newNode(element)
	t.nodes[last].right = n
	t.nodes[n].parent = last
	t.finishInsert(tr, n, NullNode)
	return n
}

// AddElementAtPosition inserts element into the gap between the adjacent
// nodes prev and next, either of which may be NullNode at the ends of the
// tree. If callCompare is false the placement is trusted and the
// comparator is not called. Otherwise element is compared with the two
// neighbors only, and when unique is set an equal neighbor rejects the
// insert the same way AddUniqueElement does.
func (t *Treap) AddElementAtPosition(prev, next NodeID, element int, unique, callCompare bool, tree TreapID) NodeID {
	tr := t.resolve(tree)
	t.treaps[tr].duplicate = NullNode
	if t.treaps[tr].root == NullNode {
		if prev != NullNode || next != NullNode {
			panic("geometry: AddElementAtPosition: neighbors given for an empty tree")
		}
		return t.insertRoot(tr, element)
	}
	if prev == NullNode && next == NullNode {
		panic("geometry: AddElementAtPosition: no position given")
	}

	if callCompare {
		cmpNext, cmpPrev := -1, 1
		if next != NullNode {
			cmpNext = t.comparator.Compare(t, element, next)
		}
		if prev != NullNode {
			cmpPrev = t.comparator.Compare(t, element, prev)
		}
		if unique && (cmpNext == 0 || cmpPrev == 0) {
			dup := next
			if cmpNext != 0 {
				dup = prev
			}
			t.rejectDuplicate(tr, dup)
			return NullNode
		}
	}

	// The new node becomes either the left child of next (or the rightmost
	// node of next's left subtree, which ends at prev) or the right child
	// of prev (or the leftmost node of its right subtree, ending at next).
	cur, goLeft := prev, false
	if next != NullNode && (prev == NullNode || t.rnd.Intn(2) == 0) {
		cur, goLeft = next, true
	}
	for first := true; ; first = false {
		if goLeft {
			l := t.nodes[cur].left
			if l == NullNode {
				n := t.newNode(element)
				t.nodes[cur].left = n
				t.nodes[n].parent = cur
				t.finishInsert(tr, n, cur)
				return n
			}
			cur = l
		} else {
			r := t.nodes[cur].right
			if r == NullNode {
				before := t.nodes[cur].next
				n := t.newNode(element)
				t.nodes[cur].right = n
				t.nodes[n].parent = cur
				t.finishInsert(tr, n, before)
				return n
			}
			cur = r
		}
		if first {
			goLeft = !goLeft
		}
	}
}

func (t *Treap) insertRoot(tr TreapID, element int) NodeID {
	n := t.newNode(element)
	t.treaps[tr].root = n
	t.linkBefore(tr, n, NullNode)
	return n
}

func (t *Treap) finishInsert(tr TreapID, n, before NodeID) {
	t.bubbleUp(tr, n)
	t.linkBefore(tr, n, before)
}

func (t *Treap) rejectDuplicate(tr TreapID, dup NodeID) {
	t.treaps[tr].duplicate = dup
	if t.notifier != nil {
		t.notifier.OnAddUniqueFailed(t, dup)
	}
}

// DeleteNode removes node from tree. The comparator is notified first.
func (t *Treap) DeleteNode(node NodeID, tree TreapID) {
	if t.notifier != nil {
		t.notifier.OnDelete(t, node)
	}
	tr := t.resolve(tree)
	if t.balancing {
		t.balancedDelete(tr, node)
	} else {
		t.unbalancedDelete(tr, node)
	}
	t.unlink(tr, node)
	t.freeNode(node)
}

// balancedDelete gives n the largest priority and rotates it down to a
// leaf, which keeps the heap order of the remaining nodes, and then cuts
// it off.
func (t *Treap) balancedDelete(tr TreapID, n NodeID) {
	t.nodes[n].priority = maxPriority
	for {
		l, r := t.nodes[n].left, t.nodes[n].right
		if l == NullNode && r == NullNode {
			break
		}
		if r == NullNode || (l != NullNode && t.nodes[l].priority < t.nodes[r].priority) {
			t.rotateWithLeftChild(tr, n)
		} else {
			t.rotateWithRightChild(tr, n)
		}
	}
	t.replaceChild(tr, t.nodes[n].parent, n, NullNode)
}

// unbalancedDelete removes n without restoring the heap order. A node
// with two children first trades places with its successor or
// predecessor, chosen at random, so that it has at most one child.
func (t *Treap) unbalancedDelete(tr TreapID, n NodeID) {
	if t.nodes[n].left != NullNode && t.nodes[n].right != NullNode {
		s := t.nodes[n].next
		if t.rnd.Intn(2) == 0 {
			s = t.nodes[n].prev
		}
		t.swapPositions(tr, n, s)
	}
	child := t.nodes[n].left
	if child == NullNode {
		child = t.nodes[n].right
	}
	p := t.nodes[n].parent
	if child != NullNode {
		t.nodes[child].parent = p
	}
	t.replaceChild(tr, p, n, child)
}

// swapPositions exchanges the places of a and b in the tree. Elements stay
// with their nodes, so node handles held by callers remain valid.
func (t *Treap) swapPositions(tr TreapID, a, b NodeID) {
	na, nb := t.nodes[a], t.nodes[b]
	other := func(x NodeID) NodeID {
		switch x {
		case a:
			return b
		case b:
			return a
		}
		return x
	}
	if nb.parent != a {
		t.replaceChild(tr, nb.parent, b, a)
	}
	if na.parent != b {
		t.replaceChild(tr, na.parent, a, b)
	}
	t.nodes[a].left, t.nodes[a].right, t.nodes[a].parent = other(nb.left), other(nb.right), other(nb.parent)
	t.nodes[b].left, t.nodes[b].right, t.nodes[b].parent = other(na.left), other(na.right), other(na.parent)
	t.nodes[a].priority, t.nodes[b].priority = nb.priority, na.priority
	for _, m := range [2]NodeID{a, b} {
		if c := t.nodes[m].left; c != NullNode {
			t.nodes[c].parent = m
		}
		if c := t.nodes[m].right; c != NullNode {
			t.nodes[c].parent = m
		}
	}
}

// replaceChild makes nw take the place of old under parent p, or at the
// root when p is NullNode.
func (t *Treap) replaceChild(tr TreapID, p, old, nw NodeID) {
	switch {
	case p == NullNode:
		t.treaps[tr].root = nw
	case t.nodes[p].left == old:
		t.nodes[p].left = nw
	case t.nodes[p].right == old:
		t.nodes[p].right = nw
	default:
		panic("geometry: corrupt treap: parent does not reference child")
	}
}

func (t *Treap) bubbleUp(tr TreapID, n NodeID) {
	for {
		p := t.nodes[n].parent
		if p == NullNode || t.nodes[p].priority <= t.nodes[n].priority {
			return
		}
		if t.nodes[p].left == n {
			t.rotateWithLeftChild(tr, p)
		} else {
			t.rotateWithRightChild(tr, p)
		}
	}
}

// rotateWithLeftChild lifts the left child of n into n's place.
func (t *Treap) rotateWithLeftChild(tr TreapID, n NodeID) {
	l := t.nodes[n].left
	p := t.nodes[n].parent
	lr := t.nodes[l].right
	t.nodes[n].left = lr
	if lr != NullNode {
		t.nodes[lr].parent = n
	}
	t.nodes[l].right = n
	t.nodes[n].parent = l
	t.nodes[l].parent = p
	t.replaceChild(tr, p, n, l)
}

// rotateWithRightChild lifts the right child of n into n's place.
func (t *Treap) rotateWithRightChild(tr TreapID, n NodeID) {
	r := t.nodes[n].right
	p := t.nodes[n].parent
	rl := t.nodes[r].left
	t.nodes[n].right = rl
	if rl != NullNode {
		t.nodes[rl].parent = n
	}
	t.nodes[r].left = n
	t.nodes[n].parent = r
	t.nodes[r].parent = p
	t.replaceChild(tr, p, n, r)
}

// linkBefore threads n on the order list in front of before, or at the
// end when before is NullNode.
func (t *Treap) linkBefore(tr TreapID, n, before NodeID) {
	h := &t.treaps[tr]
	var prev NodeID
	if before == NullNode {
		prev = h.last
		h.last = n
	} else {
		prev = t.nodes[before].prev
		t.nodes[before].prev = n
	}
	t.nodes[n].prev = prev
	t.nodes[n].next = before
	if prev == NullNode {
		h.first = n
	} else {
		t.nodes[prev].next = n
	}
	h.size++
}

func (t *Treap) unlink(tr TreapID, n NodeID) {
	h := &t.treaps[tr]
	prev, next := t.nodes[n].prev, t.nodes[n].next
	if prev == NullNode {
		h.first = next
	} else {
		t.nodes[prev].next = next
	}
	if next == NullNode {
		h.last = prev
	} else {
		t.nodes[next].prev = prev
	}
	h.size--
}

func (t *Treap) newNode(element int) NodeID {
	var n NodeID
	if k := len(t.freeNodes); k > 0 {
		n = t.freeNodes[k-1]
		t.freeNodes = t.freeNodes[:k-1]
	} else {
		n = NodeID(len(t.nodes))
		t.nodes = append(t.nodes, treapNode{})
	}
	t.nodes[n] = treapNode{
		left:     NullNode,
		right:    NullNode,
		parent:   NullNode,
		prev:     NullNode,
		next:     NullNode,
		element:  element,
		priority: t.rnd.Int31n(maxPriority),
	}
	return n
}

func (t *Treap) freeNode(n NodeID) {
	t.nodes[n] = treapNode{left: NullNode, right: NullNode, parent: NullNode, prev: NullNode, next: NullNode}
	t.freeNodes = append(t.freeNodes, n)
}

// Search returns the node holding an element equal to element, or
// NullNode. An unsuccessful search notifies the comparator.
func (t *Treap) Search(element int, tree TreapID) NodeID {
	cur := t.treaps[t.resolve(tree)].root
	for cur != NullNode {
		cmp := t.comparator.Compare(t, element, cur)
		switch {
		case cmp == 0:
			return cur
		case cmp < 0:
			cur = t.nodes[cur].left
		default:
			cur = t.nodes[cur].right
		}
	}
	if t.notifier != nil {
		t.notifier.OnEndSearch(t, element)
	}
	return NullNode
}

// SearchLowerBound returns a node equal to the moniker if there is one,
// and otherwise the last node that sorts before it (NullNode if none).
func (t *Treap) SearchLowerBound(m MonikerComparator, tree TreapID) NodeID {
	bound := NullNode
	cur := t.treaps[t.resolve(tree)].root
	for cur != NullNode {
		cmp := m.CompareMoniker(t, cur)
		switch {
		case cmp == 0:
			return cur
		case cmp < 0:
			cur = t.nodes[cur].left
		default:
			bound = cur
			cur = t.nodes[cur].right
		}
	}
	return bound
}

// SearchUpperBound returns a node equal to the moniker if there is one,
// and otherwise the first node that sorts after it (NullNode if none).
func (t *Treap) SearchUpperBound(m MonikerComparator, tree TreapID) NodeID {
	bound := NullNode
	cur := t.treaps[t.resolve(tree)].root
	for cur != NullNode {
		cmp := m.CompareMoniker(t, cur)
		switch {
		case cmp == 0:
			return cur
		case cmp < 0:
			bound = cur
			cur = t.nodes[cur].left
		default:
			cur = t.nodes[cur].right
		}
	}
	return bound
}

// SetElement replaces the element stored at node. The new element must
// sort at the same position. The comparator is notified first.
func (t *Treap) SetElement(node NodeID, element int) {
	if t.notifier != nil {
		t.notifier.OnSet(t, node)
	}
	t.nodes[node].element = element
}

// Element returns the element stored at node.
func (t *Treap) Element(node NodeID) int { return t.nodes[node].element }

// Left returns the left child of node.
func (t *Treap) Left(node NodeID) NodeID { return t.nodes[node].left }

// Right returns the right child of node.
func (t *Treap) Right(node NodeID) NodeID { return t.nodes[node].right }

// Parent returns the parent of node.
func (t *Treap) Parent(node NodeID) NodeID { return t.nodes[node].parent }

// Next returns the node following node in sorted order.
func (t *Treap) Next(node NodeID) NodeID { return t.nodes[node].next }

// Prev returns the node preceding node in sorted order.
func (t *Treap) Prev(node NodeID) NodeID { return t.nodes[node].prev }

// Priority returns the heap priority of node.
func (t *Treap) Priority(node NodeID) int32 { return t.nodes[node].priority }

// Root returns the root node of tree.
func (t *Treap) Root(tree TreapID) NodeID { return t.treaps[t.resolve(tree)].root }

// First returns the smallest node of tree.
func (t *Treap) First(tree TreapID) NodeID { return t.treaps[t.resolve(tree)].first }

// Last returns the largest node of tree.
func (t *Treap) Last(tree TreapID) NodeID { return t.treaps[t.resolve(tree)].last }

// Size returns the number of nodes in tree.
func (t *Treap) Size(tree TreapID) int { return t.treaps[t.resolve(tree)].size }

// DuplicateElement returns the node that rejected the last unique insert
// into tree, or NullNode.
func (t *Treap) DuplicateElement(tree TreapID) NodeID {
	return t.treaps[t.resolve(tree)].duplicate
}

// TreapData returns the caller data stored with tree.
func (t *Treap) TreapData(tree TreapID) int { return t.treaps[t.resolve(tree)].data }

// SetTreapData stores caller data with tree.
func (t *Treap) SetTreapData(tree TreapID, data int) { t.treaps[t.resolve(tree)].data = data }

// MaxDepth returns the number of nodes on the longest root-to-leaf path.
func (t *Treap) MaxDepth(tree TreapID) int {
	root := t.treaps[t.resolve(tree)].root
	if root == NullNode {
		return 0
	}
	type item struct {
		n     NodeID
		depth int
	}
	max := 0
	stack := []item{{root, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.depth > max {
			max = it.depth
		}
		if l := t.nodes[it.n].left; l != NullNode {
			stack = append(stack, item{l, it.depth + 1})
		}
		if r := t.nodes[it.n].right; r != NullNode {
			stack = append(stack, item{r, it.depth + 1})
		}
	}
	return max
}
