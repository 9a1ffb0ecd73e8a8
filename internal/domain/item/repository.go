package item

import (
	"context"
)

// Repository 商品仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 库存相关方法必须支持事务(通过context传递事务DB)
// 3. 同一商品的库存变更必须串行化:
//    - 下单路径:LockByID(行锁) + UpdateStock(条件更新)
//    - 补货路径:CompareAndSetStock(乐观锁,冲突返回ErrStockConflict)
type Repository interface {
	// Create 创建商品
	Create(ctx context.Context, item *Item) error

	// FindByID 根据ID查找商品
	FindByID(ctx context.Context, id uint) (*Item, error)

	// LockByID 悲观锁查询商品(SELECT FOR UPDATE)
	// 用于下单流程锁定库存行,锁在事务COMMIT/ROLLBACK时释放
	LockByID(ctx context.Context, id uint) (*Item, error)

	// Update 更新商品信息(不含库存)
	Update(ctx context.Context, item *Item) error

	// UpdateStock 原子更新库存
	// delta为正数表示增加,负数表示减少
	// 内部条件更新保证stock不为负,不足时返回库存不足错误
	UpdateStock(ctx context.Context, id uint, delta int) error

	// CompareAndSetStock 乐观锁更新库存
	// 仅当version匹配时写入newStock并递增版本号;
	// 版本不匹配(并发修改)返回ErrStockConflict,由调用方有限次重试
	CompareAndSetStock(ctx context.Context, id uint, version int64, newStock int) error

	// List 分页查询商品列表
	List(ctx context.Context, params ListParams) ([]*Item, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(商品名称)
	Kind     Kind   // 商品类型过滤(空值表示全部)
	SortBy   string // 排序字段(price_asc, price_desc, created_at_desc)
}
