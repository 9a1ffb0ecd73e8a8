package order

import (
	"time"

	"github.com/xiebiao/eshop/internal/domain/money"
)

// OrderStatus 订单状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 取消是状态变更而非删除,订单数据永远保留
type OrderStatus int

const (
	OrderStatusPlaced          OrderStatus = 1 // 已下单
	OrderStatusAwaitingPayment OrderStatus = 2 // 待支付(转账类支付方式)
	OrderStatusCancelled       OrderStatus = 3 // 已取消
)

// String 实现Stringer接口(方便日志输出)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPlaced:
		return "已下单"
	case OrderStatusAwaitingPayment:
		return "待支付"
	case OrderStatusCancelled:
		return "已取消"
	default:
		return "未知状态"
	}
}

// PaymentMethod 支付方式
// 说明:支付网关对接不在本核心范围内,这里只作为不透明的枚举输入,
// 唯一影响是转账类方式下单后进入"待支付"状态
type PaymentMethod int

const (
	PaymentMethodCard         PaymentMethod = 1 // 银行卡
	PaymentMethodBankTransfer PaymentMethod = 2 // 银行转账(延迟到账)
	PaymentMethodCash         PaymentMethod = 3 // 货到付款
)

// IsDeferred 是否为延迟到账的支付方式
func (p PaymentMethod) IsDeferred() bool {
	return p == PaymentMethodBankTransfer
}

// IsValid 判断支付方式是否合法
func (p PaymentMethod) IsValid() bool {
	return p >= PaymentMethodCard && p <= PaymentMethodCash
}

// Principal 请求主体(授权上下文)
// 说明:由接口层从认证信息中提取后传入,核心只消费
// "会员身份 + 是否具备管理能力"两个事实
type Principal struct {
	MemberID uint
	Admin    bool
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,OrderItem和Delivery是聚合内子实体,
//    外部不得绕过Order直接修改它们
// 2. 总金额不做冗余存储,读取时按明细快照实时计算
// 3. MemberID是跨聚合引用,只存ID不持有对象
type Order struct {
	ID            uint
	OrderNo       string      // 订单号(业务主键,全局唯一)
	MemberID      uint        // 买家会员ID
	Items         []OrderItem // 订单明细(聚合内子实体,至少1条)
	Delivery      Delivery    // 配送信息(1:1,随订单创建)
	PaymentMethod PaymentMethod
	Status        OrderStatus
	CreatedAt     time.Time // 下单时间
	UpdatedAt     time.Time
}

// NewOrder 创建新订单(工厂方法)
// 业务规则:
// 1. 明细不能为空
// 2. 转账类支付方式初始状态为"待支付",否则为"已下单"
// 3. 明细和配送在此被绑定到订单聚合
func NewOrder(orderNo string, memberID uint, items []OrderItem, delivery *Delivery, paymentMethod PaymentMethod) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrderItems
	}
	if !paymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	status := OrderStatusPlaced
	if paymentMethod.IsDeferred() {
		status = OrderStatusAwaitingPayment
	}

	now := time.Now()
	return &Order{
		OrderNo:       orderNo,
		MemberID:      memberID,
		Items:         items,
		Delivery:      *delivery,
		PaymentMethod: paymentMethod,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// TotalPrice 订单总金额
// 教学要点:按明细快照实时计算,不缓存、不冗余存储——
// 改价攻击和缓存不一致在这里没有生存空间
func (o *Order) TotalPrice() money.Money {
	total := money.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定会员
func (o *Order) IsOwnedBy(memberID uint) bool {
	return o.MemberID == memberID
}

// CanBeCancelledBy 取消授权检查
// 规则:订单所有者本人,或具备管理能力的主体
func (o *Order) CanBeCancelledBy(p Principal) bool {
	return o.IsOwnedBy(p.MemberID) || p.Admin
}

// Cancel 取消订单(领域行为)
// 教学重点:取消的三道闸门
//  1. 授权:非本人且非管理员 → ErrCancelForbidden
//  2. 状态守卫:已取消的订单不能再取消;配送已发货或已送达的
//     订单不能走此路径取消(读取配送的当前状态判断)
//  3. 通过后:状态→已取消,配送回到Pending
//
// 库存恢复:聚合只持有ItemID不持有Item对象,恢复动作由应用层
// 在同一事务内按明细逐一执行(增加库存永不失败,事务保证
// 崩溃时不会出现恢复一半的库存)
func (o *Order) Cancel(p Principal) error {
	// 1. 授权检查
	if !o.CanBeCancelledBy(p) {
		return ErrCancelForbidden
	}

	// 2. 状态守卫
	if o.Status == OrderStatusCancelled {
		return ErrAlreadyCancelled
	}
	if o.Delivery.IsShipped() {
		return ErrAlreadyShipped
	}

	// 3. 状态变更
	o.Status = OrderStatusCancelled
	o.Delivery.resetForCancellation()
	o.UpdatedAt = time.Now()
	return nil
}

// ConfirmPayment 支付确认(待支付 → 已下单)
// 说明:支付网关回调属于外部协作方,核心只提供状态流转
func (o *Order) ConfirmPayment() error {
	if o.Status != OrderStatusAwaitingPayment {
		return ErrInvalidStatusTransition
	}
	o.Status = OrderStatusPlaced
	o.UpdatedAt = time.Now()
	return nil
}

// AdvanceDelivery 配送状态向前流转(领域行为)
// 业务规则:已取消的订单不再推进配送
func (o *Order) AdvanceDelivery() error {
	if o.Status == OrderStatusCancelled {
		return ErrInvalidStatusTransition
	}
	return o.Delivery.Advance()
}
