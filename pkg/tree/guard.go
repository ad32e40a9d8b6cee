package tree

import "slices"

// ValidateNewParent 校验把 node 挂到 proposedParentID 下是否合法。
// proposedParentID 为空表示移动到根，总是合法。
func ValidateNewParent[T Record](node *Node[T], proposedParentID string) error {
	if proposedParentID == "" {
		return nil
	}
	if proposedParentID == node.ID() {
		return &SelfParentError{ID: node.ID()}
	}
	if slices.Contains(node.DescendantIDs(), proposedParentID) {
		return &CycleError{ID: node.ID(), ParentID: proposedParentID}
	}
	return nil
}

// ValidateDeletable 校验节点能否删除。引用来源由调用方统计，kind 仅用于错误信息。
func ValidateDeletable(id string, childCount, externalReferenceCount int64, kind string) error {
	if childCount > 0 {
		return &HasChildrenError{ID: id, Count: childCount}
	}
	if externalReferenceCount > 0 {
		return &InUseError{ID: id, Kind: kind, Count: externalReferenceCount}
	}
	return nil
}

// ValidateDepth 校验挂在父节点下后层数是否超过 maxDepth。
// proposedParentDepth 按层数计：新建根节点传 0，挂到根节点下传 1，即 Depth()+1。
// maxDepth <= 0 表示不限制。
func ValidateDepth(proposedParentDepth, maxDepth int) error {
	if maxDepth <= 0 {
		return nil
	}
	if proposedParentDepth+1 > maxDepth {
		return &DepthExceededError{Depth: proposedParentDepth + 1, MaxDepth: maxDepth}
	}
	return nil
}
