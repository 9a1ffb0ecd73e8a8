package dto

// PlaceOrderRequest HTTP下单请求
// 说明:address为空时使用会员注册时的默认地址
type PlaceOrderRequest struct {
	Items         []PlaceOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod int                     `json:"payment_method" binding:"required,min=1,max=3" example:"1"` // 1银行卡 2银行转账 3货到付款
	Address       *AddressRequest         `json:"address" binding:"omitempty"`
}

// PlaceOrderItemRequest 下单明细项
type PlaceOrderItemRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999"`
}

// AddressRequest 收货地址
type AddressRequest struct {
	City    string `json:"city" binding:"required,max=50" example:"北京"`
	Street  string `json:"street" binding:"required,max=200" example:"中关村大街1号"`
	Zipcode string `json:"zipcode" binding:"omitempty,max=20" example:"100080"`
}

// PlaceOrderResponse HTTP下单响应
type PlaceOrderResponse struct {
	OrderID   uint   `json:"order_id" example:"1"`
	OrderNo   string `json:"order_no" example:"ORD1767225600123456"`
	Total     int64  `json:"total" example:"11800"`
	TotalYuan string `json:"total_yuan" example:"118.00"`
	Status    string `json:"status" example:"已下单"`
	CreatedAt string `json:"created_at" example:"2026-01-15 10:30:00"`
}

// OrderLineResponse HTTP订单明细项
type OrderLineResponse struct {
	ItemID    uint   `json:"item_id" example:"1"`
	Quantity  int    `json:"quantity" example:"2"`
	Price     int64  `json:"price" example:"5900"` // 下单时单价快照(分)
	PriceYuan string `json:"price_yuan" example:"59.00"`
	Subtotal  int64  `json:"subtotal" example:"11800"`
}

// DeliveryResponse HTTP配送信息
type DeliveryResponse struct {
	City    string `json:"city" example:"北京"`
	Street  string `json:"street" example:"中关村大街1号"`
	Zipcode string `json:"zipcode" example:"100080"`
	Status  string `json:"status" example:"待处理"`
}

// OrderDetailResponse HTTP订单详情响应
type OrderDetailResponse struct {
	OrderID   uint                `json:"order_id" example:"1"`
	OrderNo   string              `json:"order_no" example:"ORD1767225600123456"`
	Total     int64               `json:"total" example:"11800"`
	TotalYuan string              `json:"total_yuan" example:"118.00"`
	Status    string              `json:"status" example:"已下单"`
	Items     []OrderLineResponse `json:"items"`
	Delivery  DeliveryResponse    `json:"delivery"`
	CreatedAt string              `json:"created_at" example:"2026-01-15 10:30:00"`
}

// CancelOrderResponse HTTP取消订单响应
type CancelOrderResponse struct {
	OrderID uint   `json:"order_id" example:"1"`
	OrderNo string `json:"order_no" example:"ORD1767225600123456"`
	Status  string `json:"status" example:"已取消"`
}

// AdvanceDeliveryResponse HTTP配送推进响应
type AdvanceDeliveryResponse struct {
	OrderID        uint   `json:"order_id" example:"1"`
	DeliveryStatus string `json:"delivery_status" example:"已发货"`
}

// ListOrdersRequest HTTP订单列表请求
type ListOrdersRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
