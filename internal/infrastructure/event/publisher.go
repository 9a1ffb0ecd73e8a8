package event

import (
	"context"
	"log"
	"time"

	appOrder "github.com/xiebiao/eshop/internal/application/order"
	"github.com/xiebiao/eshop/pkg/circuitbreaker"
	"github.com/xiebiao/eshop/pkg/metrics"
	"github.com/xiebiao/eshop/pkg/mq"
)

// 路由键定义
// 命名规范:实体.动作
const (
	RoutingKeyOrderPlaced    = "order.placed"
	RoutingKeyOrderCancelled = "order.cancelled"
)

// Publisher 订单事件发布器(RabbitMQ + 熔断器)
// 设计说明:
// 1. 事件发布在事务提交之后,best-effort:发布失败只记日志,
//    绝不把MQ故障传导回下单/取消主链路
// 2. 熔断器防止MQ宕机时每个请求都卡在连接超时上——
//    连续失败后快速失败,超时窗口后半开探测恢复
// 3. 发布指标按exchange+routing_key维度上报
type Publisher struct {
	mq       *mq.Publisher
	breaker  *circuitbreaker.CircuitBreaker
	exchange string
}

// NewPublisher 创建订单事件发布器
func NewPublisher(mqPublisher *mq.Publisher, exchange string) *Publisher {
	breaker := circuitbreaker.NewCircuitBreaker("order-events", circuitbreaker.Config{
		MaxRequests: 2,                // 半开状态最多2个探测请求
		Interval:    60 * time.Second, // 关闭状态下统计窗口
		Timeout:     30 * time.Second, // 打开后30秒进入半开
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			// 连续失败5次触发熔断
			return counts.ConsecutiveFailures >= 5
		},
	})

	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("[事件发布] 熔断器[%s]状态变更: %s -> %s", name, from, to)
		metrics.SetGaugeVec(metrics.CircuitBreakerState,
			map[string]string{"name": name}, float64(to))
	})

	return &Publisher{
		mq:       mqPublisher,
		breaker:  breaker,
		exchange: exchange,
	}
}

// PublishOrderPlaced 发布下单成功事件
func (p *Publisher) PublishOrderPlaced(ctx context.Context, event appOrder.OrderEvent) error {
	return p.publish(ctx, RoutingKeyOrderPlaced, event)
}

// PublishOrderCancelled 发布订单取消事件
func (p *Publisher) PublishOrderCancelled(ctx context.Context, event appOrder.OrderEvent) error {
	return p.publish(ctx, RoutingKeyOrderCancelled, event)
}

// publish 经由熔断器发布事件
func (p *Publisher) publish(ctx context.Context, routingKey string, event appOrder.OrderEvent) error {
	err := p.breaker.Execute(func() error {
		return p.mq.Publish(ctx, routingKey, event)
	})

	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests,
		map[string]string{"name": "order-events", "result": result})

	if err != nil {
		return err
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal,
		map[string]string{"exchange": p.exchange, "routing_key": routingKey})
	return nil
}

// NoopPublisher 空实现(MQ未启用时注入)
// 说明:用例层无感知,事件直接丢弃
type NoopPublisher struct{}

// NewNoopPublisher 创建空发布器
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// PublishOrderPlaced 丢弃下单事件
func (p *NoopPublisher) PublishOrderPlaced(ctx context.Context, event appOrder.OrderEvent) error {
	return nil
}

// PublishOrderCancelled 丢弃取消事件
func (p *NoopPublisher) PublishOrderCancelled(ctx context.Context, event appOrder.OrderEvent) error {
	return nil
}
