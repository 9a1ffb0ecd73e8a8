package item

import (
	"time"

	"github.com/xiebiao/eshop/internal/domain/money"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// Kind 商品类型
// 设计说明:
// 1. 不使用继承,以"基础记录+类型标签+类型专属字段"表达商品子类
// 2. 核心下单流程对所有类型一视同仁(只关心Price和Stock)
// 3. 需要类型专属行为时,按Kind显式分发
type Kind string

const (
	KindBook  Kind = "book"  // 图书
	KindAlbum Kind = "album" // 唱片
	KindDvd   Kind = "dvd"   // DVD
)

// IsValid 判断商品类型是否合法
func (k Kind) IsValid() bool {
	switch k {
	case KindBook, KindAlbum, KindDvd:
		return true
	default:
		return false
	}
}

// Item 商品实体(聚合根)——订单核心中的"库存账本"
// 设计说明:
// 1. Stock是下单与取消流程共享的热点数据,只允许通过
//    DecreaseStock/IncreaseStock变更,任何操作后不允许为负
// 2. Version用于补货路径的乐观锁(读版本→条件写,冲突重试)
// 3. 下单路径使用数据库行锁(SELECT FOR UPDATE),见Repository.LockByID
type Item struct {
	ID        uint
	Name      string      // 商品名称
	Price     money.Money // 单价(分)
	Stock     int         // 库存数量,任何操作后>=0
	Version   int64       // 乐观锁版本号
	Kind      Kind        // 商品类型
	Detail    Detail      // 类型专属字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detail 类型专属字段(随Kind取用)
// 教学要点:sum type的Go表达——共享的结构里按Kind只填对应字段
type Detail struct {
	// KindBook
	ISBN   string
	Author string

	// KindAlbum
	Artist string

	// KindDvd
	Director string
}

// NewItem 创建新商品(工厂方法)
func NewItem(name string, price money.Money, stock int, kind Kind, detail Detail) (*Item, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "商品名称不能为空")
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	now := time.Now()
	return &Item{
		Name:      name,
		Price:     price,
		Stock:     stock,
		Kind:      kind,
		Detail:    detail,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// DecreaseStock 扣减库存(用于订单行创建)
// 业务规则:
// 1. 数量必须>0
// 2. 扣减后库存不能为负数;不足时整体失败,不做部分扣减
// 3. 失败信息携带商品ID、需求量和当前库存,便于调用方提示用户
func (i *Item) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.Stock < quantity {
		return NewInsufficientStockError(i.ID, quantity, i.Stock)
	}
	i.Stock -= quantity
	i.UpdatedAt = time.Now()
	return nil
}

// IncreaseStock 增加库存(用于订单取消恢复、补货)
// 说明:增加永远成功,这是取消流程可以做到全量恢复的前提
func (i *Item) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	i.Stock += quantity
	i.UpdatedAt = time.Now()
	return nil
}

// UpdatePrice 更新价格(领域行为)
// 注意:历史订单保存下单时的价格快照,改价不影响既有订单
func (i *Item) UpdatePrice(newPrice money.Money) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	i.Price = newPrice
	i.UpdatedAt = time.Now()
	return nil
}
