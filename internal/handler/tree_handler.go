package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/model"
)

// treeReader 是三种层级实体共有的只读操作。
type treeReader[T any, N any] interface {
	Tree(ctx context.Context, filter model.TreeFilter) ([]N, error)
	List(ctx context.Context, filter model.TreeFilter) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Path(ctx context.Context, id string) (string, error)
	DescendantIDs(ctx context.Context, id string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// treeHandler 实现层级实体共有的路由：树、列表、详情、路径、后代与删除。
type treeHandler[T any, N any] struct {
	kind string
	svc  treeReader[T, N]
}

func (h treeHandler[T, N]) filter(c *gin.Context) (model.TreeFilter, bool) {
	status, valid := optionalStatus(c)
	if !valid {
		return model.TreeFilter{}, false
	}
	return model.TreeFilter{Name: c.Query("name"), Status: status}, true
}

// Tree 返回树形结构，支持 name、status 过滤。
func (h treeHandler[T, N]) Tree(c *gin.Context) {
	f, valid := h.filter(c)
	if !valid {
		return
	}
	nodes, err := h.svc.Tree(c.Request.Context(), f)
	if err != nil {
		fail(c, h.kind+" Tree", err)
		return
	}
	ok(c, nodes)
}

// List 返回扁平列表。
func (h treeHandler[T, N]) List(c *gin.Context) {
	f, valid := h.filter(c)
	if !valid {
		return
	}
	rows, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		fail(c, h.kind+" List", err)
		return
	}
	ok(c, rows)
}

func (h treeHandler[T, N]) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.kind+" Get", err)
		return
	}
	ok(c, rec)
}

// Path 返回从根到节点的完整名称路径。
func (h treeHandler[T, N]) Path(c *gin.Context) {
	id := c.Param("id")
	p, err := h.svc.Path(c.Request.Context(), id)
	if err != nil {
		fail(c, h.kind+" Path", err)
		return
	}
	ok(c, gin.H{"id": id, "path": p})
}

// Descendants 返回所有后代 id，先序。
func (h treeHandler[T, N]) Descendants(c *gin.Context) {
	ids, err := h.svc.DescendantIDs(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.kind+" Descendants", err)
		return
	}
	ok(c, ids)
}

func (h treeHandler[T, N]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.kind+" Delete", err)
		return
	}
	ok(c, nil)
}
