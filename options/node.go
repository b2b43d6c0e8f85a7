package options

import "github.com/reoring/gviz"

// node addresses a sub-tree of a bag by key prefix without materializing it,
// so reading through a facade never creates empty option objects.
type node struct {
	bag    *gviz.Bag
	prefix string
}

func (n node) key(k string) string {
	if n.prefix == "" {
		return k
	}
	return n.prefix + "." + k
}

func (n node) child(k string) node { return node{bag: n.bag, prefix: n.key(k)} }

// Bag returns the live bag at the node, or nil when nothing was written yet.
func (n node) Bag() *gviz.Bag {
	if n.prefix == "" {
		return n.bag
	}
	return n.bag.GetObject(n.prefix)
}
