package service

import (
	"context"

	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/tasks"
)

// CatalogEventPublisher 发布商品目录变更事件，由 Kafka 实现。
type CatalogEventPublisher interface {
	Publish(ctx context.Context, event tasks.CatalogEvent) error
}

// publishEvent 发送事件。发送失败只记录日志，数据库写入已经提交，索引由定时重建兜底。
func publishEvent(ctx context.Context, pub CatalogEventPublisher, event tasks.CatalogEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warnf("发布目录事件失败: type=%s key=%s err=%v", event.Type, event.Key(), err)
	}
}
