package item

import (
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrItemNotFound 商品不存在
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeItemNotFound, "商品不存在")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInvalidKind 无效的商品类型
	ErrInvalidKind = apperrors.New(apperrors.ErrCodeInvalidParams, "商品类型不合法")

	// ErrInsufficientStock 库存不足(通用,不带上下文)
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrStockConflict 乐观锁版本冲突
	ErrStockConflict = apperrors.ErrStockConflict
)

// NewInsufficientStockError 构造携带上下文的库存不足错误
// 错误信息包含:商品ID、需求数量、当前库存(调用方可据此提示用户调整数量)
func NewInsufficientStockError(itemID uint, requested, available int) error {
	return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
		"商品[%d]库存不足,需要:%d,当前库存:%d", itemID, requested, available)
}
