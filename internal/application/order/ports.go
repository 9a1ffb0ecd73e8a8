package order

import (
	"context"
	"time"
)

// Transactor 事务执行器
// 教学要点:
// 1. 下单/取消的全部数据库操作必须在一个all-or-nothing事务内,
//    任何一步失败都不允许留下"扣了库存但没有订单"之类的中间态
// 2. 用例依赖这个单方法接口而非具体的TxManager,
//    生产环境由mysql.TxManager实现,单元测试用内存假实现
type Transactor interface {
	// Transaction 执行事务
	// fn返回error时整体回滚,返回nil时提交;
	// fn内的Repository操作通过ctx共享同一事务
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderCache 订单缓存(Cache-Aside)
// 说明:缓存的是订单详情的序列化结果,未命中回源数据库;
// 订单状态变更时删除缓存,宁可穿透不可读旧
type OrderCache interface {
	// GetOrder 获取订单缓存(未命中返回空串,不报错)
	GetOrder(ctx context.Context, orderID uint) (string, error)

	// SetOrder 设置订单缓存
	SetOrder(ctx context.Context, orderID uint, orderJSON string, ttl time.Duration) error

	// DeleteOrder 删除订单缓存
	DeleteOrder(ctx context.Context, orderID uint) error
}

// OrderEvent 订单生命周期事件
type OrderEvent struct {
	OrderID  uint   `json:"order_id"`
	OrderNo  string `json:"order_no"`
	MemberID uint   `json:"member_id"`
	Total    int64  `json:"total"`
	Status   string `json:"status"`
	OccurAt  string `json:"occur_at"`
}

// EventPublisher 订单事件发布接口
// 设计说明:
// 1. 事件在事务提交后发布(best-effort),发布失败不影响订单结果——
//    消息中间件故障绝不能拖垮下单主链路
// 2. 基础设施层实现:RabbitMQ发布者外面套一层熔断器
type EventPublisher interface {
	// PublishOrderPlaced 发布下单成功事件
	PublishOrderPlaced(ctx context.Context, event OrderEvent) error

	// PublishOrderCancelled 发布订单取消事件
	PublishOrderCancelled(ctx context.Context, event OrderEvent) error
}
