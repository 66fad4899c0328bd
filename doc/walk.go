package doc

// Reducer folds an accumulator over visited nodes. It receives every
// node, not only leaves, and must return the next accumulator value.
type Reducer[A any] func(acc A, node *Node, path Path) A

// Walk visits every node in the tree exactly once, depth first: the root
// with an empty path, then object values in key insertion order and array
// elements in index order. The accumulator threads left to right through
// the reducer. Walk never mutates the tree.
func Walk[A any](y *Node, r Reducer[A], acc A) A {
	return walkAt(y, nil, r, acc)
}

func walkAt[A any](y *Node, p Path, r Reducer[A], acc A) A {
	acc = r(acc, y, p)
	switch y.Kind {
	case ObjectKind:
		for i, k := range y.Keys {
			acc = walkAt(y.Values[i], p.Child(Field(k)), r, acc)
		}
	case ArrayKind:
		for i, v := range y.Values {
			acc = walkAt(v, p.Child(Index(i)), r, acc)
		}
	}
	return acc
}
