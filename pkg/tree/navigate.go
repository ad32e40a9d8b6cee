package tree

import "strings"

// DefaultSeparator 是 FullPath 在未指定分隔符时使用的分隔符。
const DefaultSeparator = " / "

// ID 返回节点记录的 id。
func (n *Node[T]) ID() string {
	return n.Record.TreeID()
}

// Parent 返回父节点，根节点返回 nil。
func (n *Node[T]) Parent() *Node[T] {
	return n.parent
}

// IsLeaf 判断节点是否没有子节点。
func (n *Node[T]) IsLeaf() bool {
	return len(n.Children) == 0
}

// Depth 返回节点到根的跳数，根节点为 0。
// 遍历步数超过建树时的记录数即认为结构中存在环。
func (n *Node[T]) Depth() (int, error) {
	depth := 0
	for cur := n.parent; cur != nil; cur = cur.parent {
		depth++
		if depth > n.bound {
			return 0, &CycleDetectedError{ID: n.ID()}
		}
	}
	return depth, nil
}

// Ancestors 返回从根到父节点的祖先链，不含节点本身。
func (n *Node[T]) Ancestors() ([]*Node[T], error) {
	var chain []*Node[T]
	for cur := n.parent; cur != nil; cur = cur.parent {
		if len(chain) >= n.bound {
			return nil, &CycleDetectedError{ID: n.ID()}
		}
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// FullPath 用 sep 拼接从根到当前节点（含）的名称。
func (n *Node[T]) FullPath(sep string) (string, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	ancestors, err := n.Ancestors()
	if err != nil {
		return "", err
	}
	labels := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		labels = append(labels, a.Record.TreeLabel())
	}
	labels = append(labels, n.Record.TreeLabel())
	return strings.Join(labels, sep), nil
}

// DescendantIDs 以先序返回所有后代的 id，不含节点本身。
func (n *Node[T]) DescendantIDs() []string {
	ids := []string{}
	for _, c := range n.Children {
		c.walk(func(d *Node[T]) bool {
			ids = append(ids, d.ID())
			return true
		})
	}
	return ids
}

// Height 返回以该节点为根的子树高度，叶子节点为 0。
func (n *Node[T]) Height() int {
	h := 0
	for _, c := range n.Children {
		if ch := c.Height() + 1; ch > h {
			h = ch
		}
	}
	return h
}
