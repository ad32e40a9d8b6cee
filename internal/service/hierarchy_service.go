package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/tree"
)

// ReferenceCounter 统计节点被外部实体引用的次数，tx 为执行删除的事务。
type ReferenceCounter func(ctx context.Context, tx *gorm.DB, id string) (int64, error)

// HierarchyOptions 描述一种层级实体的规则。
type HierarchyOptions struct {
	// Kind 是实体名称，仅用于日志，例如 "department"。
	Kind string
	// RefKind 描述引用来源，用于删除被拒绝时的提示，例如 "users"。
	RefKind   string
	Strict    bool
	MaxDepth  int
	Separator string
}

// NewHierarchyOptions 根据配置生成 HierarchyOptions。
func NewHierarchyOptions(kind, refKind string, cfg config.TreeKindConfig) HierarchyOptions {
	sep := cfg.Separator
	if sep == "" {
		sep = tree.DefaultSeparator
	}
	return HierarchyOptions{
		Kind:      kind,
		RefKind:   refKind,
		Strict:    cfg.Strict,
		MaxDepth:  cfg.MaxDepth,
		Separator: sep,
	}
}

// Hierarchy 是部门、权限、分类共用的层级服务。
// 每次读取都从数据库重新建树；每次写入都在同一事务内重新读取、建树、校验后再写。
type Hierarchy[T tree.Record] struct {
	db   *gorm.DB
	repo repository.TreeRepository[T]
	refs ReferenceCounter
	opts HierarchyOptions
}

// NewHierarchy 创建层级服务。refs 可以为 nil，表示该实体没有外部引用。
func NewHierarchy[T tree.Record](db *gorm.DB, repo repository.TreeRepository[T], refs ReferenceCounter, opts HierarchyOptions) *Hierarchy[T] {
	return &Hierarchy[T]{db: db, repo: repo, refs: refs, opts: opts}
}

// Options 返回当前实体的层级规则。
func (h *Hierarchy[T]) Options() HierarchyOptions {
	return h.opts
}

// Forest 读取记录并建树。严格模式只作用于不带过滤条件的读取，
// 因为按名称或状态过滤本身就会让部分节点失去父节点。
func (h *Hierarchy[T]) Forest(ctx context.Context, filter model.TreeFilter) (*tree.Forest[T], error) {
	rows, err := h.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	f, err := tree.Build(rows, tree.Options{Strict: h.opts.Strict && filter.IsZero()})
	if err != nil {
		log.Errorf("[%s] 构建层级结构失败: %v", h.opts.Kind, err)
		return nil, err
	}
	return f, nil
}

// List 返回扁平的记录列表。
func (h *Hierarchy[T]) List(ctx context.Context, filter model.TreeFilter) ([]T, error) {
	return h.repo.FindAll(ctx, filter)
}

// Get 根据 id 查找记录。
func (h *Hierarchy[T]) Get(ctx context.Context, id string) (*T, error) {
	rec, err := h.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return rec, err
}

// node 在完整的森林中定位一个节点。
func (h *Hierarchy[T]) node(ctx context.Context, id string) (*tree.Node[T], error) {
	f, err := h.Forest(ctx, model.TreeFilter{})
	if err != nil {
		return nil, err
	}
	n, ok := f.Find(id)
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

// Path 返回从根到节点的完整名称路径。
func (h *Hierarchy[T]) Path(ctx context.Context, id string) (string, error) {
	n, err := h.node(ctx, id)
	if err != nil {
		return "", err
	}
	return n.FullPath(h.opts.Separator)
}

// Paths 批量计算节点路径，不存在的 id 不会出现在结果中。
func (h *Hierarchy[T]) Paths(ctx context.Context, ids []string) (map[string]string, error) {
	f, err := h.Forest(ctx, model.TreeFilter{})
	if err != nil {
		return nil, err
	}
	paths := make(map[string]string, len(ids))
	for _, id := range ids {
		n, ok := f.Find(id)
		if !ok {
			continue
		}
		p, err := n.FullPath(h.opts.Separator)
		if err != nil {
			return nil, err
		}
		paths[id] = p
	}
	return paths, nil
}

// DescendantIDs 返回节点所有后代的 id（不含自身）。
func (h *Hierarchy[T]) DescendantIDs(ctx context.Context, id string) ([]string, error) {
	n, err := h.node(ctx, id)
	if err != nil {
		return nil, err
	}
	return n.DescendantIDs(), nil
}

// SubtreeIDs 返回节点自身及所有后代的 id，常用于 "包含下级" 的查询。
func (h *Hierarchy[T]) SubtreeIDs(ctx context.Context, id string) ([]string, error) {
	n, err := h.node(ctx, id)
	if err != nil {
		return nil, err
	}
	return append([]string{id}, n.DescendantIDs()...), nil
}

// Create 在事务内校验父节点与层数后插入记录。
func (h *Hierarchy[T]) Create(ctx context.Context, rec *T) error {
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := h.repo.WithTx(tx)
		f, err := h.lockedForest(ctx, repo, h.opts.Strict)
		if err != nil {
			return err
		}
		if _, exists := f.Find((*rec).TreeID()); exists {
			return ErrAlreadyExists
		}

		parentLevel := 0
		if pid := (*rec).TreeParentID(); pid != "" {
			parent, ok := f.Find(pid)
			if !ok {
				return ErrParentNotFound
			}
			d, err := parent.Depth()
			if err != nil {
				return err
			}
			parentLevel = d + 1
		}
		if err := tree.ValidateDepth(parentLevel, h.opts.MaxDepth); err != nil {
			return err
		}
		return repo.Create(ctx, rec)
	})
}

// Update 在事务内保存记录。父节点变化时重新校验自挂载、环和层数。
func (h *Hierarchy[T]) Update(ctx context.Context, rec *T) error {
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := h.repo.WithTx(tx)
		f, err := h.lockedForest(ctx, repo, h.opts.Strict)
		if err != nil {
			return err
		}
		n, ok := f.Find((*rec).TreeID())
		if !ok {
			return ErrNotFound
		}

		newParent := (*rec).TreeParentID()
		if newParent != n.Record.TreeParentID() {
			if err := tree.ValidateNewParent(n, newParent); err != nil {
				return err
			}
			parentLevel := 0
			if newParent != "" {
				parent, ok := f.Find(newParent)
				if !ok {
					return ErrParentNotFound
				}
				d, err := parent.Depth()
				if err != nil {
					return err
				}
				parentLevel = d + 1
			}
			// 整棵子树随节点一起移动，最深的后代也不能超过层数限制
			if err := tree.ValidateDepth(parentLevel+n.Height(), h.opts.MaxDepth); err != nil {
				return err
			}
			log.Infof("[%s] 节点 %s 从 %q 移动到 %q", h.opts.Kind, n.ID(), n.Record.TreeParentID(), newParent)
		}
		return repo.Update(ctx, rec)
	})
}

// Delete 在事务内确认节点没有子节点且未被引用后删除。
// 与 Create、Update 一样先锁住整张表再检查，避免并发插入的子节点变成孤儿。
func (h *Hierarchy[T]) Delete(ctx context.Context, id string) error {
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := h.repo.WithTx(tx)
		// 删除不走严格模式，已有的孤儿记录也能被清理
		f, err := h.lockedForest(ctx, repo, false)
		if err != nil {
			return err
		}
		if _, ok := f.Find(id); !ok {
			return ErrNotFound
		}
		children, err := repo.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		var refs int64
		if h.refs != nil {
			if refs, err = h.refs(ctx, tx, id); err != nil {
				return fmt.Errorf("统计 %s 引用失败: %w", h.opts.Kind, err)
			}
		}
		if err := tree.ValidateDeletable(id, children, refs, h.opts.RefKind); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// lockedForest 在事务中加锁读取全部记录并建树。
func (h *Hierarchy[T]) lockedForest(ctx context.Context, repo repository.TreeRepository[T], strict bool) (*tree.Forest[T], error) {
	rows, err := repo.FindAllForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Build(rows, tree.Options{Strict: strict})
}

// mapForest 把节点递归转换成各实体自己的视图类型。
func mapForest[T tree.Record, V any](nodes []*tree.Node[T], fn func(n *tree.Node[T], children []V) V) []V {
	out := make([]V, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, fn(n, mapForest(n.Children, fn)))
	}
	return out
}

// parentPtr 把空字符串转换为 NULL 父节点。
func parentPtr(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// statusOrDefault 返回请求中的状态，未提供时默认为启用。
func statusOrDefault(status *int8) (int8, error) {
	if status == nil {
		return model.StatusEnabled, nil
	}
	if *status != model.StatusEnabled && *status != model.StatusDisabled {
		return 0, ErrInvalidArgument
	}
	return *status, nil
}
