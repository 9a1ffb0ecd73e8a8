package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// OrderCache 订单缓存(Cache-Aside)
// 教学要点:
// 1. 热点订单(刚下单的)查询频繁,缓存详情的JSON序列化结果
// 2. 未命中回源数据库后写回,TTL平衡命中率与新鲜度
// 3. 订单状态变更(取消)时删除缓存,宁可穿透不可读旧
type OrderCache struct {
	client *redis.Client
}

// NewOrderCache 创建订单缓存
func NewOrderCache(client *redis.Client) *OrderCache {
	return &OrderCache{client: client}
}

// orderCacheKey 生成订单缓存键
// Key命名规范:模块:实体:ID,如 order:detail:123
func orderCacheKey(orderID uint) string {
	return fmt.Sprintf("order:detail:%d", orderID)
}

// GetOrder 获取订单缓存
// 教学要点:Key不存在时返回空串而非错误——
// 未命中是正常路径,调用方据此回源数据库
func (c *OrderCache) GetOrder(ctx context.Context, orderID uint) (string, error) {
	val, err := c.client.Get(ctx, orderCacheKey(orderID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", apperrors.Wrap(err, "获取订单缓存失败")
	}

	return val, nil
}

// SetOrder 设置订单缓存
// 教学要点:SET key value EX ttl是原子操作,
// 不会出现"写了值但没设过期时间"的永久缓存
func (c *OrderCache) SetOrder(ctx context.Context, orderID uint, orderJSON string, ttl time.Duration) error {
	if err := c.client.Set(ctx, orderCacheKey(orderID), orderJSON, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "设置订单缓存失败")
	}

	return nil
}

// DeleteOrder 删除订单缓存
// 订单取消等状态变更后调用,下次查询重新加载最新数据
func (c *OrderCache) DeleteOrder(ctx context.Context, orderID uint) error {
	if err := c.client.Del(ctx, orderCacheKey(orderID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除订单缓存失败")
	}

	return nil
}
