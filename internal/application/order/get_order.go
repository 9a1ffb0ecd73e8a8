package order

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/xiebiao/eshop/internal/domain/order"
)

// 订单详情缓存TTL
// 刚下单的订单是查询热点,5分钟在命中率和数据新鲜度之间取平衡
const orderCacheTTL = 5 * time.Minute

// GetOrderUseCase 查询订单详情用例(Cache-Aside)
type GetOrderUseCase struct {
	orderRepo order.Repository
	cache     OrderCache
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository, cache OrderCache) *GetOrderUseCase {
	return &GetOrderUseCase{
		orderRepo: orderRepo,
		cache:     cache,
	}
}

// OrderLineDetail 订单明细DTO
type OrderLineDetail struct {
	ItemID    uint   `json:"item_id"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	PriceYuan string `json:"price_yuan"`
	Subtotal  int64  `json:"subtotal"`
}

// DeliveryDetail 配送信息DTO
type DeliveryDetail struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
	Status  string `json:"status"`
}

// OrderDetailResponse 订单详情响应DTO
type OrderDetailResponse struct {
	OrderID   uint              `json:"order_id"`
	OrderNo   string            `json:"order_no"`
	MemberID  uint              `json:"member_id"`
	Total     int64             `json:"total"`
	TotalYuan string            `json:"total_yuan"`
	Status    string            `json:"status"`
	Items     []OrderLineDetail `json:"items"`
	Delivery  DeliveryDetail    `json:"delivery"`
	CreatedAt string            `json:"created_at"`
}

// Execute 查询订单详情
// 流程:查缓存 → 未命中查库(预加载明细与配送) → 授权检查 → 回填缓存
// 授权:订单所有者本人或管理员可见
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID uint, p order.Principal) (*OrderDetailResponse, error) {
	// 1. 查缓存(缓存故障降级为直接查库,不报错)
	if uc.cache != nil {
		if cached, err := uc.cache.GetOrder(ctx, orderID); err == nil && cached != "" {
			var resp OrderDetailResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				// 缓存命中也要做授权检查
				if resp.MemberID == p.MemberID || p.Admin {
					return &resp, nil
				}
				return nil, order.ErrOrderAccessForbidden
			}
		}
	}

	// 2. 回源数据库(一次取全:订单+明细+配送)
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 3. 授权检查
	if !o.IsOwnedBy(p.MemberID) && !p.Admin {
		return nil, order.ErrOrderAccessForbidden
	}

	resp := toOrderDetail(o)

	// 4. 回填缓存(best-effort)
	if uc.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if setErr := uc.cache.SetOrder(ctx, orderID, string(data), orderCacheTTL); setErr != nil {
				log.Printf("回填订单缓存失败: order_id=%d, err=%v", orderID, setErr)
			}
		}
	}

	return resp, nil
}

// toOrderDetail 聚合 → 详情DTO
func toOrderDetail(o *order.Order) *OrderDetailResponse {
	items := make([]OrderLineDetail, len(o.Items))
	for i, line := range o.Items {
		items[i] = OrderLineDetail{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			Price:     line.Price.Amount(),
			PriceYuan: line.Price.Yuan(),
			Subtotal:  line.Subtotal().Amount(),
		}
	}

	total := o.TotalPrice()
	return &OrderDetailResponse{
		OrderID:   o.ID,
		OrderNo:   o.OrderNo,
		MemberID:  o.MemberID,
		Total:     total.Amount(),
		TotalYuan: total.Yuan(),
		Status:    o.Status.String(),
		Items:     items,
		Delivery: DeliveryDetail{
			City:    o.Delivery.Address.City,
			Street:  o.Delivery.Address.Street,
			Zipcode: o.Delivery.Address.Zipcode,
			Status:  o.Delivery.Status.String(),
		},
		CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ListOrdersUseCase 查询会员订单列表用例
// 说明:列表数据量大、访问分散,不走缓存
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// Execute 分页查询会员自己的订单
func (uc *ListOrdersUseCase) Execute(ctx context.Context, memberID uint, page, pageSize int) ([]*OrderDetailResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	orders, total, err := uc.orderRepo.ListByMemberID(ctx, memberID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	list := make([]*OrderDetailResponse, len(orders))
	for i, o := range orders {
		list[i] = toOrderDetail(o)
	}
	return list, total, nil
}
