package tree

import "fmt"

// DuplicateIDError 表示输入记录中出现了重复的 ID。
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("tree: duplicate id %q", e.ID)
}

// OrphanRecordError 表示记录声明的父节点不在本次构建的记录集合中（仅严格模式）。
type OrphanRecordError struct {
	ID       string
	ParentID string
}

func (e *OrphanRecordError) Error() string {
	return fmt.Sprintf("tree: record %q references missing parent %q", e.ID, e.ParentID)
}

// CycleDetectedError 表示在已构建的结构中发现了环，通常意味着数据已损坏。
type CycleDetectedError struct {
	ID string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("tree: cycle detected at %q", e.ID)
}

// SelfParentError 表示试图把节点设置为它自己的父节点。
type SelfParentError struct {
	ID string
}

func (e *SelfParentError) Error() string {
	return fmt.Sprintf("tree: %q cannot be its own parent", e.ID)
}

// CycleError 表示新的父节点是当前节点的后代，移动后会形成环。
type CycleError struct {
	ID       string
	ParentID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("tree: moving %q under its descendant %q would create a cycle", e.ID, e.ParentID)
}

// HasChildrenError 表示节点仍有子节点，不能删除。
type HasChildrenError struct {
	ID    string
	Count int64
}

func (e *HasChildrenError) Error() string {
	return fmt.Sprintf("tree: %q still has %d children", e.ID, e.Count)
}

// InUseError 表示节点仍被其他实体引用（部门下有用户、分类下有商品等）。
type InUseError struct {
	ID    string
	Kind  string
	Count int64
}

func (e *InUseError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("tree: %q is still referenced %d times", e.ID, e.Count)
	}
	return fmt.Sprintf("tree: %q is still referenced by %d %s", e.ID, e.Count, e.Kind)
}

// DepthExceededError 表示挂载后层级会超过允许的最大深度。
type DepthExceededError struct {
	Depth    int
	MaxDepth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("tree: depth %d exceeds max depth %d", e.Depth, e.MaxDepth)
}
