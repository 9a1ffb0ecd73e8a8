package item

import (
	"context"

	"github.com/xiebiao/eshop/internal/domain/item"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// 乐观锁冲突时的重试上限
// 补货/盘点是低频操作,3次重试足以吸收偶发冲突;
// 持续冲突说明有异常流量,直接把冲突暴露给调用方
const maxRetries = 3

// AdjustStockUseCase 库存调整用例(补货/盘点)
// 教学要点:乐观锁的使用场景
//
// 下单扣库存走悲观锁(SELECT FOR UPDATE),因为冲突是常态;
// 补货场景冲突罕见,乐观锁避免了加锁开销:
// 1. 读取商品当前库存和版本号
// 2. 计算新库存
// 3. CompareAndSetStock:仅当版本号未变时写入
// 4. 版本号已变(有人并发改过)则重读重试,最多3次
type AdjustStockUseCase struct {
	itemRepo item.Repository
}

// NewAdjustStockUseCase 创建库存调整用例
func NewAdjustStockUseCase(itemRepo item.Repository) *AdjustStockUseCase {
	return &AdjustStockUseCase{itemRepo: itemRepo}
}

// AdjustStockRequest 库存调整请求DTO
type AdjustStockRequest struct {
	ItemID uint // 商品ID
	Delta  int  // 调整量(正数补货,负数盘亏核减)
}

// AdjustStockResponse 库存调整响应DTO
type AdjustStockResponse struct {
	ItemID uint `json:"item_id"`
	Stock  int  `json:"stock"` // 调整后库存
}

// Execute 执行库存调整
// 边界:核减不允许把库存调成负数
func (uc *AdjustStockUseCase) Execute(ctx context.Context, req AdjustStockRequest) (*AdjustStockResponse, error) {
	if req.Delta == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "调整量不能为0")
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		it, err := uc.itemRepo.FindByID(ctx, req.ItemID)
		if err != nil {
			return nil, err
		}

		newStock := it.Stock + req.Delta
		if newStock < 0 {
			return nil, item.NewInsufficientStockError(req.ItemID, -req.Delta, it.Stock)
		}

		err = uc.itemRepo.CompareAndSetStock(ctx, req.ItemID, it.Version, newStock)
		if err == nil {
			return &AdjustStockResponse{ItemID: req.ItemID, Stock: newStock}, nil
		}
		if !apperrors.IsCode(err, apperrors.ErrCodeStockConflict) {
			return nil, err
		}
		// 版本冲突:重读最新库存后重试
		lastErr = err
	}

	return nil, lastErr
}
