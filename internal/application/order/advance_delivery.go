package order

import (
	"context"
	"log"

	"github.com/xiebiao/eshop/internal/domain/order"
)

// AdvanceDeliveryUseCase 配送状态推进用例(仓库/快递回传)
// 说明:配送只能单步向前(待处理→备货→发货→送达),
// 已取消的订单不再推进;推进到发货后订单即不可取消
type AdvanceDeliveryUseCase struct {
	orderRepo  order.Repository
	transactor Transactor
	cache      OrderCache
}

// NewAdvanceDeliveryUseCase 创建配送推进用例
func NewAdvanceDeliveryUseCase(
	orderRepo order.Repository,
	transactor Transactor,
	cache OrderCache,
) *AdvanceDeliveryUseCase {
	return &AdvanceDeliveryUseCase{
		orderRepo:  orderRepo,
		transactor: transactor,
		cache:      cache,
	}
}

// AdvanceDeliveryResponse 配送推进响应DTO
type AdvanceDeliveryResponse struct {
	OrderID        uint   `json:"order_id"`
	DeliveryStatus string `json:"delivery_status"`
}

// Execute 推进配送状态一步
// 教学要点:读取-判断-写入放在一个事务里,且订单用行锁加载——
// 与并发取消竞争时,后拿到锁的一方看到对方提交后的状态;
// 落盘是从旧状态到新状态的条件流转,并发抢先时报状态错误
func (uc *AdvanceDeliveryUseCase) Execute(ctx context.Context, orderID uint) (*AdvanceDeliveryResponse, error) {
	var status order.DeliveryStatus

	err := uc.transactor.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.LockByID(txCtx, orderID)
		if err != nil {
			return err
		}
		prev := o.Delivery.Status

		if err := o.AdvanceDelivery(); err != nil {
			return err
		}

		status = o.Delivery.Status
		return uc.orderRepo.UpdateDeliveryStatus(txCtx, orderID, prev, status)
	})
	if err != nil {
		return nil, err
	}

	// 配送状态变了,缓存里的详情作废(best-effort)
	if uc.cache != nil {
		if err := uc.cache.DeleteOrder(ctx, orderID); err != nil {
			log.Printf("[配送推进] 删除订单缓存失败 orderID=%d: %v", orderID, err)
		}
	}

	return &AdvanceDeliveryResponse{
		OrderID:        orderID,
		DeliveryStatus: status.String(),
	}, nil
}
