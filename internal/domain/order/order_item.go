package order

import (
	"github.com/xiebiao/eshop/internal/domain/item"
	"github.com/xiebiao/eshop/internal/domain/money"
)

// OrderItem 订单明细项
// 教学要点:
// 1. 不是独立聚合根,必须通过Order访问
// 2. Price字段记录"下单时的单价"(历史价格快照),创建后不可变,
//    商家改价不影响既有订单金额
// 3. 不直接持有Item对象,只保存ItemID(避免跨聚合引用)
type OrderItem struct {
	ID       uint
	OrderID  uint        // 所属订单ID
	ItemID   uint        // 商品ID
	Quantity int         // 购买数量
	Price    money.Money // 下单时的单价快照(分)
}

// NewOrderItem 创建订单明细(工厂方法,带扣库存副作用)
// 教学要点:这是一个刻意的副作用工厂——
// 1. 读取商品当前价格作为快照
// 2. 同一操作内扣减商品库存(库存不足则整体失败)
// 3. "检查库存"和"创建明细"不拆成两步,避免两步之间被并发穿插
// 订单明细存在 ⟺ 创建那一刻库存确实够扣
func NewOrderItem(it *item.Item, quantity int) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	// 扣减库存:失败时传播库存不足错误,不产生明细
	if err := it.DecreaseStock(quantity); err != nil {
		return nil, err
	}

	return &OrderItem{
		ItemID:   it.ID,
		Quantity: quantity,
		Price:    it.Price, // 价格快照
	}, nil
}

// Cancel 取消明细,恢复商品库存
// 幂等性由调用方(Order聚合)保证:同一明细绝不重复恢复
//
// 说明:这是与NewOrderItem对称的内存聚合契约(创建扣多少,取消还多少)。
// 持久化路径不经过它——取消用例在事务里直接按Quantity做增量库存更新,
// 不把整个Item读出来再写回
func (oi *OrderItem) Cancel(it *item.Item) error {
	return it.IncreaseStock(oi.Quantity)
}

// Subtotal 明细小计 = 快照单价 × 数量
func (oi *OrderItem) Subtotal() money.Money {
	return oi.Price.Multiply(oi.Quantity)
}
