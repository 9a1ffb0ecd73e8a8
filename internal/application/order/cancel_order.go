package order

import (
	"context"
	"log"

	"github.com/xiebiao/eshop/internal/domain/item"
	"github.com/xiebiao/eshop/internal/domain/order"
)

// CancelOrderUseCase 取消订单用例
// 教学要点:下单的逆流程
// 授权检查 → 状态守卫 → 状态变更 → 恢复库存 → 配送复位,
// 全部在一个事务内完成
type CancelOrderUseCase struct {
	orderRepo order.Repository
	itemRepo  item.Repository
	tx        Transactor
	events    EventPublisher
	cache     OrderCache
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	itemRepo item.Repository,
	tx Transactor,
	events EventPublisher,
	cache OrderCache,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		tx:        tx,
		events:    events,
		cache:     cache,
	}
}

// CancelOrderRequest 取消订单请求DTO
type CancelOrderRequest struct {
	OrderID   uint            // 订单ID
	Principal order.Principal // 请求主体(会员身份+管理能力)
}

// CancelOrderResponse 取消订单响应DTO
type CancelOrderResponse struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
	Status  string `json:"status"`
}

// Execute 执行取消订单用例
// 教学要点:
// 1. 订单必须在事务内用行锁加载(LockByID)——两个并发取消
//    (双击)必须串行化,后到的那个看到"已取消"被状态守卫拦下,
//    否则库存会被恢复两次;并发的配送推进同理
// 2. 落盘用条件流转(状态仍为取消前的值才生效),是行锁之外的
//    第二道防线,0行命中报状态错误
// 3. 库存恢复(增加)永不失败,但仍放在同一事务里:
//    崩溃在恢复循环中间时,不会出现"恢复了一半库存"的可见状态
// 4. 取消不幂等:对已取消订单再次取消返回状态错误,且不做任何库存变更
func (uc *CancelOrderUseCase) Execute(ctx context.Context, req CancelOrderRequest) (*CancelOrderResponse, error) {
	var result *order.Order
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 事务内加行锁加载订单(含明细与配送的当前状态)
		o, err := uc.orderRepo.LockByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		prevStatus := o.Status

		// 2. 聚合执行取消:授权 → 状态守卫 → 状态变更+配送复位
		// 任何一道闸门失败都直接返回,库存不动
		if err := o.Cancel(req.Principal); err != nil {
			return err
		}

		// 3. 按明细恢复库存(聚合保证每条明细只恢复一次)
		for i := range o.Items {
			if err := uc.itemRepo.UpdateStock(txCtx, o.Items[i].ItemID, o.Items[i].Quantity); err != nil {
				return err // 整体回滚
			}
		}

		// 4. 条件落盘:状态必须仍是取消前读到的值
		if err := uc.orderRepo.Update(txCtx, o, prevStatus); err != nil {
			return err
		}

		result = o
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 事务提交后:删除缓存、发布事件(均为best-effort)
	if uc.cache != nil {
		if delErr := uc.cache.DeleteOrder(ctx, result.ID); delErr != nil {
			log.Printf("删除订单缓存失败: order_id=%d, err=%v", result.ID, delErr)
		}
	}
	if pubErr := uc.events.PublishOrderCancelled(ctx, newOrderEvent(result)); pubErr != nil {
		log.Printf("发布取消事件失败: order_no=%s, err=%v", result.OrderNo, pubErr)
	}

	return &CancelOrderResponse{
		OrderID: result.ID,
		OrderNo: result.OrderNo,
		Status:  result.Status.String(),
	}, nil
}
