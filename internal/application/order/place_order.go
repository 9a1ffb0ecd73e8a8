package order

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/eshop/internal/domain/item"
	"github.com/xiebiao/eshop/internal/domain/member"
	"github.com/xiebiao/eshop/internal/domain/order"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// PlaceOrderUseCase 下单用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制(防超卖)、价格快照、配送创建
type PlaceOrderUseCase struct {
	orderRepo  order.Repository
	itemRepo   item.Repository
	memberRepo member.Repository
	tx         Transactor
	events     EventPublisher
}

// NewPlaceOrderUseCase 创建下单用例
func NewPlaceOrderUseCase(
	orderRepo order.Repository,
	itemRepo item.Repository,
	memberRepo member.Repository,
	tx Transactor,
	events EventPublisher,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		orderRepo:  orderRepo,
		itemRepo:   itemRepo,
		memberRepo: memberRepo,
		tx:         tx,
		events:     events,
	}
}

// PlaceOrderRequest 下单请求DTO
type PlaceOrderRequest struct {
	MemberID      uint                // 买家会员ID(从JWT中提取)
	Items         []PlaceOrderItem    // 订单明细
	Address       *order.Address      // 收货地址(nil表示使用会员默认地址)
	PaymentMethod order.PaymentMethod // 支付方式
}

// PlaceOrderItem 下单明细项
type PlaceOrderItem struct {
	ItemID   uint // 商品ID
	Quantity int  // 购买数量
}

// PlaceOrderResponse 下单响应DTO
type PlaceOrderResponse struct {
	OrderID   uint   `json:"order_id"`
	OrderNo   string `json:"order_no"`
	Total     int64  `json:"total"`
	TotalYuan string `json:"total_yuan"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行下单用例
// 教学重点:防止超卖的完整流程
//
// 核心问题:库存超卖
// 场景:商品库存10个,100个请求并发下单
// 错误实现:先查库存、再判断、再扣减——100个请求都能通过判断,超卖90个
//
// 正确实现:悲观锁 + 条件更新双保险
//  1. SELECT FOR UPDATE锁定库存行(同一商品的扣减严格串行)
//  2. 锁内检查库存并创建订单明细(检查与明细创建是一个操作)
//  3. UPDATE ... WHERE stock - ? >= 0 落盘扣减(负库存兜底)
//  4. 创建配送、订单并持久化
//  5. COMMIT释放锁;任何一步失败整体回滚,库存分毫不少
//
// 调用方取消/超时:事务内所有操作携带ctx,取消发生在COMMIT前
// 则整体回滚,不会留下已扣减的库存
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	// 1. 参数校验
	if len(req.Items) == 0 {
		return nil, order.ErrEmptyOrderItems
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
	}
	if !req.PaymentMethod.IsValid() {
		return nil, order.ErrInvalidPaymentMethod
	}

	var result *order.Order
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:解析会员
		// ========================================
		m, err := uc.memberRepo.FindByID(txCtx, req.MemberID)
		if err != nil {
			return err
		}

		// ========================================
		// 步骤2:逐商品锁行、创建明细、落盘扣减
		// ========================================
		// LockByID执行:SELECT * FROM items WHERE id = ? FOR UPDATE
		// 其他事务必须等待当前事务COMMIT或ROLLBACK后才能扣同一商品
		lines := make([]order.OrderItem, 0, len(req.Items))
		for _, reqItem := range req.Items {
			it, err := uc.itemRepo.LockByID(txCtx, reqItem.ItemID)
			if err != nil {
				if apperrors.IsCode(err, apperrors.ErrCodeItemNotFound) {
					// 错误信息指明缺失的商品ID
					return apperrors.Newf(apperrors.ErrCodeItemNotFound, "商品[%d]不存在", reqItem.ItemID)
				}
				return err
			}

			// 明细工厂:快照价格+扣减库存是同一个操作
			// 库存不足时传播携带商品ID/数量上下文的错误
			line, err := order.NewOrderItem(it, reqItem.Quantity)
			if err != nil {
				return err
			}

			// 落盘扣减(条件更新兜底,绝不产生负库存)
			if err := uc.itemRepo.UpdateStock(txCtx, reqItem.ItemID, -reqItem.Quantity); err != nil {
				return err
			}

			lines = append(lines, *line)
		}

		// ========================================
		// 步骤3:创建配送(地址快照)
		// ========================================
		addr := resolveAddress(req.Address, m)
		delivery := order.NewDelivery(addr)

		// ========================================
		// 步骤4:创建订单聚合
		// ========================================
		orderNo := order.GenerateOrderNo()
		newOrder, err := order.NewOrder(orderNo, req.MemberID, lines, delivery, req.PaymentMethod)
		if err != nil {
			return err
		}

		// 调用方已取消则在COMMIT前中止,整体回滚
		if err := txCtx.Err(); err != nil {
			return apperrors.Wrap(err, "下单已中止")
		}

		// ========================================
		// 步骤5:持久化订单(含明细与配送)
		// ========================================
		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		result = newOrder
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 事务提交后发布事件(best-effort,失败只记日志)
	if pubErr := uc.events.PublishOrderPlaced(ctx, newOrderEvent(result)); pubErr != nil {
		log.Printf("发布下单事件失败: order_no=%s, err=%v", result.OrderNo, pubErr)
	}

	total := result.TotalPrice()
	return &PlaceOrderResponse{
		OrderID:   result.ID,
		OrderNo:   result.OrderNo,
		Total:     total.Amount(),
		TotalYuan: total.Yuan(),
		Status:    result.Status.String(),
		CreatedAt: result.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// resolveAddress 解析收货地址:指定地址优先,否则使用会员默认地址
func resolveAddress(override *order.Address, m *member.Member) order.Address {
	if override != nil {
		return *override
	}
	return order.Address{
		City:    m.Address.City,
		Street:  m.Address.Street,
		Zipcode: m.Address.Zipcode,
	}
}

// newOrderEvent 从订单聚合构造事件载荷
func newOrderEvent(o *order.Order) OrderEvent {
	return OrderEvent{
		OrderID:  o.ID,
		OrderNo:  o.OrderNo,
		MemberID: o.MemberID,
		Total:    o.TotalPrice().Amount(),
		Status:   o.Status.String(),
		OccurAt:  time.Now().Format(time.RFC3339),
	}
}
