package order

import (
	"time"
)

// DeliveryStatus 配送状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 状态值1-4递增,只允许单步向前流转
type DeliveryStatus int

const (
	DeliveryStatusPending    DeliveryStatus = 1 // 待处理
	DeliveryStatusReady      DeliveryStatus = 2 // 备货完成
	DeliveryStatusDispatched DeliveryStatus = 3 // 已发货
	DeliveryStatusCompleted  DeliveryStatus = 4 // 已送达
)

// String 实现Stringer接口(方便日志输出)
func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusPending:
		return "待处理"
	case DeliveryStatusReady:
		return "备货完成"
	case DeliveryStatusDispatched:
		return "已发货"
	case DeliveryStatusCompleted:
		return "已送达"
	default:
		return "未知状态"
	}
}

// Address 收货地址快照
// 说明:下单时从会员地址(或指定地址)复制,之后会员改地址不影响本单
type Address struct {
	City    string
	Street  string
	Zipcode string
}

// Delivery 配送实体
// 设计说明:
// 1. 与Order是1:1关系,随订单一起创建,归订单独占
// 2. 状态只能通过Advance()单步向前;回退到Pending只允许发生在
//    订单取消流程中(Order.Cancel内部调用resetForCancellation)
// 3. 快递回传(发货/送达)属于外部协作方,核心只保证取消时
//    读取的是配送的当前状态而非缓存值
type Delivery struct {
	ID        uint
	OrderID   uint    // 所属订单ID
	Address   Address // 收货地址快照
	Status    DeliveryStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDelivery 创建配送记录(工厂方法)
// 初始状态固定为Pending
func NewDelivery(address Address) *Delivery {
	now := time.Now()
	return &Delivery{
		Address:   address,
		Status:    DeliveryStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance 配送状态单步向前流转
// Pending → Ready → Dispatched → Completed
// 已送达后不允许再流转
func (d *Delivery) Advance() error {
	if d.Status >= DeliveryStatusCompleted {
		return ErrDeliveryCompleted
	}
	d.Status++
	d.UpdatedAt = time.Now()
	return nil
}

// IsShipped 是否已发货(已发货或已送达)
// 取消流程的状态守卫依据此判断
func (d *Delivery) IsShipped() bool {
	return d.Status == DeliveryStatusDispatched || d.Status == DeliveryStatusCompleted
}

// resetForCancellation 取消订单时强制回到Pending
// 注意:仅允许Order.Cancel调用,外部不得直接回退配送状态
func (d *Delivery) resetForCancellation() {
	d.Status = DeliveryStatusPending
	d.UpdatedAt = time.Now()
}
