package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Region locates a run of sibling nodes by a child-index path from a root.
// It stays valid across edits that only touch the run itself, which is
// what a linear history guarantees when the run is revisited.
type Region struct {
	Path  []int // from the root to the container
	Index int   // first node of the run
	Count int   // number of nodes in the run

	siblings int // container child count when the region was opened
}

// NewRegion opens a region over the siblings first..last below root.
func NewRegion(root, first, last *html.Node) (*Region, error) {
	if first.Parent == nil || first.Parent != last.Parent {
		return nil, fmt.Errorf("region: nodes are not siblings")
	}
	container := first.Parent
	p := Path(root, container)
	if p == nil && container != root {
		return nil, fmt.Errorf("region: container outside root")
	}
	r := &Region{
		Path:     p,
		Index:    Index(first),
		Count:    Index(last) - Index(first) + 1,
		siblings: ChildCount(container),
	}
	return r, nil
}

// Snapshot deep-copies the nodes currently in the run.
func (r *Region) Snapshot(root *html.Node) []*html.Node {
	nodes, err := r.Nodes(root)
	if err != nil {
		return nil
	}
	out := make([]*html.Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

// Seal records how many nodes replaced the run after an edit, from the
// change in the container's child count.
func (r *Region) Seal(root *html.Node) error {
	c, err := r.Container(root)
	if err != nil {
		return err
	}
	r.Count += ChildCount(c) - r.siblings
	if r.Count < 0 {
		r.Count = 0
	}
	r.siblings = ChildCount(c)
	return nil
}

// Container resolves the region's parent node.
func (r *Region) Container(root *html.Node) (*html.Node, error) {
	return Resolve(root, r.Path)
}

// Nodes returns the live nodes of the run.
func (r *Region) Nodes(root *html.Node) ([]*html.Node, error) {
	c, err := r.Container(root)
	if err != nil {
		return nil, err
	}
	if r.Index+r.Count > ChildCount(c) {
		return nil, fmt.Errorf("region: run [%d,%d) out of %d children: %w",
			r.Index, r.Index+r.Count, ChildCount(c), ErrNoPosition)
	}
	out := make([]*html.Node, 0, r.Count)
	for n, i := ChildAt(c, r.Index), 0; n != nil && i < r.Count; n, i = n.NextSibling, i+1 {
		out = append(out, n)
	}
	return out, nil
}

// Replace swaps the live run for nodes and returns the detached old run.
// The region then covers the new nodes.
func (r *Region) Replace(root *html.Node, nodes []*html.Node) ([]*html.Node, error) {
	old, err := r.Nodes(root)
	if err != nil {
		return nil, err
	}
	c, _ := r.Container(root)
	ref := ChildAt(c, r.Index+r.Count)
	for _, n := range old {
		c.RemoveChild(n)
	}
	for _, n := range nodes {
		Detach(n)
		c.InsertBefore(n, ref)
	}
	r.Count = len(nodes)
	r.siblings = ChildCount(c)
	return old, nil
}

// Clone copies the region's location.
func (r *Region) Clone() *Region {
	c := *r
	c.Path = append([]int(nil), r.Path...)
	return &c
}
