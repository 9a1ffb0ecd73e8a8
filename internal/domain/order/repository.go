package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
// 3. 提供多种"读取形态"——预加载明细/配送 vs 只读订单行,
//    这是存储层的性能关注点,无论哪种形态返回的逻辑数据一致
type Repository interface {
	// Create 创建订单(包含明细与配送)
	// 教学要点:订单、明细、配送必须在同一事务中创建
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(预加载明细与配送,渲染详情页一次取全)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// LockByID 根据ID查找订单并对订单行加锁(SELECT ... FOR UPDATE)
	// 取消、配送推进这类"读取-判断-写入"的事务必须用它加载订单,
	// 把同一订单上的并发修改串行化——两个并发取消不能都看到"已下单"
	LockByID(ctx context.Context, id uint) (*Order, error)

	// FindSummaryByID 根据ID查找订单(只读订单行,不加载关联)
	// 用于只需要状态/金额判断的场景,避免不必要的JOIN
	FindSummaryByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单(预加载明细与配送)
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// Update 更新订单状态(同时落盘配送状态)
	// 条件流转:只在数据库中的状态仍为from时生效,
	// 0行命中视为并发冲突,返回状态错误——行锁之外的第二道防线
	Update(ctx context.Context, order *Order, from OrderStatus) error

	// UpdateDeliveryStatus 单独更新配送状态(快递回传场景)
	// 同样是条件流转:数据库中的配送状态必须仍为from
	UpdateDeliveryStatus(ctx context.Context, orderID uint, from, to DeliveryStatus) error

	// ListByMemberID 查询会员的订单列表(预加载明细,分页)
	ListByMemberID(ctx context.Context, memberID uint, page, pageSize int) ([]*Order, int64, error)
}
