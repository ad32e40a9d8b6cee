// Package tree 提供了把扁平的父子记录组装成森林、并在其上做查询和结构校验的通用工具。
// 部门、权限、商品分类共用这一套逻辑。
package tree

import (
	"cmp"
	"slices"

	"go.uber.org/multierr"
)

// Record 是可以参与建树的扁平记录。
// TreeParentID 返回空字符串表示根节点。
type Record interface {
	TreeID() string
	TreeParentID() string
	TreeSortOrder() int
	TreeLabel() string
}

// Options 控制建树行为。
type Options struct {
	// Strict 为 true 时，父节点缺失的记录会导致 OrphanRecordError；否则提升为根节点。
	Strict bool
}

// Node 是内存中的树节点。parent 只用于向上遍历，不参与生命周期管理。
type Node[T Record] struct {
	Record   T
	Children []*Node[T]

	parent *Node[T]
	bound  int
}

// Forest 是按排序规则排列好的根节点集合，外加一个 id 索引。
type Forest[T Record] struct {
	Roots []*Node[T]
	index map[string]*Node[T]
}

// Build 把一组记录组装成森林。输入不会被修改。
func Build[T Record](records []T, opts Options) (*Forest[T], error) {
	index := make(map[string]*Node[T], len(records))
	order := make([]*Node[T], 0, len(records))
	for _, rec := range records {
		id := rec.TreeID()
		if _, ok := index[id]; ok {
			return nil, &DuplicateIDError{ID: id}
		}
		n := &Node[T]{Record: rec, Children: []*Node[T]{}, bound: len(records)}
		index[id] = n
		order = append(order, n)
	}

	var roots []*Node[T]
	var orphanErr error
	for _, n := range order {
		pid := n.Record.TreeParentID()
		if pid == "" {
			roots = append(roots, n)
			continue
		}
		parent, ok := index[pid]
		if !ok {
			if opts.Strict {
				orphanErr = multierr.Append(orphanErr, &OrphanRecordError{ID: n.Record.TreeID(), ParentID: pid})
				continue
			}
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
		n.parent = parent
	}
	if orphanErr != nil {
		return nil, orphanErr
	}

	for _, n := range order {
		sortNodes(n.Children)
	}
	sortNodes(roots)

	f := &Forest[T]{Roots: roots, index: index}
	if f.reachable() != len(order) {
		for _, n := range order {
			if !n.rooted() {
				return nil, &CycleDetectedError{ID: n.Record.TreeID()}
			}
		}
	}
	return f, nil
}

func sortNodes[T Record](nodes []*Node[T]) {
	slices.SortStableFunc(nodes, func(a, b *Node[T]) int {
		return cmp.Compare(a.Record.TreeSortOrder(), b.Record.TreeSortOrder())
	})
}

// reachable 统计从根节点出发能访问到的节点数。
func (f *Forest[T]) reachable() int {
	count := 0
	f.Walk(func(*Node[T]) bool {
		count++
		return true
	})
	return count
}

// rooted 判断节点沿父链能否在 bound 步内走到根节点。
func (n *Node[T]) rooted() bool {
	cur := n
	for i := 0; i <= n.bound; i++ {
		if cur.parent == nil {
			return true
		}
		cur = cur.parent
	}
	return false
}

// Find 按 id 查找节点。
func (f *Forest[T]) Find(id string) (*Node[T], bool) {
	n, ok := f.index[id]
	return n, ok
}

// Len 返回森林中的节点总数。
func (f *Forest[T]) Len() int {
	return len(f.index)
}

// Walk 以先序遍历访问所有节点，fn 返回 false 时跳过该节点的子树。
func (f *Forest[T]) Walk(fn func(*Node[T]) bool) {
	for _, root := range f.Roots {
		root.walk(fn)
	}
}

func (n *Node[T]) walk(fn func(*Node[T]) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn)
	}
}
