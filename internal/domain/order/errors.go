package order

import (
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrEmptyOrderItems 订单明细不能为空
	ErrEmptyOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidPaymentMethod 支付方式不合法
	ErrInvalidPaymentMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "支付方式不合法")

	// ErrCancelForbidden 无权取消此订单(非本人且非管理员)
	ErrCancelForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权取消此订单")

	// ErrOrderAccessForbidden 无权查看此订单(非本人且非管理员)
	ErrOrderAccessForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权查看此订单")

	// ErrAlreadyCancelled 订单已取消,不能重复取消
	ErrAlreadyCancelled = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单已取消")

	// ErrAlreadyShipped 订单已发货/已送达,不能取消
	ErrAlreadyShipped = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单已发货，不能取消")

	// ErrInvalidStatusTransition 非法的状态流转
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrDeliveryCompleted 配送已送达,不能再流转
	ErrDeliveryCompleted = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "配送已送达")
)
