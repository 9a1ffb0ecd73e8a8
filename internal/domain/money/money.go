package money

import (
	"fmt"

	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// Money 定点货币金额（单位：分，1元=100分）
// 设计说明:
// 1. 使用int64存储最小货币单位,避免浮点数精度问题
// 2. 价格、订单金额一旦落库均不允许为负数
// 3. 值类型,按值比较相等
type Money int64

// Zero 零金额
const Zero Money = 0

// New 创建金额
// 业务规则:金额不允许为负数
func New(amount int64) (Money, error) {
	if amount < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidParams, "金额不能为负数")
	}
	return Money(amount), nil
}

// Add 加法
func (m Money) Add(other Money) Money {
	return m + other
}

// Multiply 乘以数量（用于 单价 × 购买数量）
func (m Money) Multiply(quantity int) Money {
	return m * Money(quantity)
}

// Amount 返回分为单位的整数金额
func (m Money) Amount() int64 {
	return int64(m)
}

// IsNegative 是否为负数
func (m Money) IsNegative() bool {
	return m < 0
}

// Yuan 格式化为元（用于展示层，如"267.00"）
func (m Money) Yuan() string {
	return fmt.Sprintf("%.2f", float64(m)/100.0)
}
