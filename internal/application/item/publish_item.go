package item

import (
	"context"

	"github.com/xiebiao/eshop/internal/domain/item"
	"github.com/xiebiao/eshop/internal/domain/money"
)

// PublishItemUseCase 商品上架用例
// 设计说明:
// 1. 应用层负责用例编排,输入输出使用DTO,与HTTP层解耦
// 2. 业务规则校验(价格范围、类型专属字段)由领域服务负责
type PublishItemUseCase struct {
	itemService item.Service
}

// NewPublishItemUseCase 创建上架用例
func NewPublishItemUseCase(itemService item.Service) *PublishItemUseCase {
	return &PublishItemUseCase{
		itemService: itemService,
	}
}

// PublishItemRequest 上架请求DTO
type PublishItemRequest struct {
	Name     string // 商品名称
	Price    int64  // 单价(分)
	Stock    int    // 初始库存
	Kind     string // 商品类型(book/album/dvd)
	ISBN     string // 图书:ISBN号
	Author   string // 图书:作者
	Artist   string // 唱片:艺术家
	Director string // DVD:导演
}

// PublishItemResponse 上架响应DTO
type PublishItemResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"` // 单价(分)
	PriceYuan string `json:"price_yuan"`
	Stock     int    `json:"stock"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行上架用例
func (uc *PublishItemUseCase) Execute(ctx context.Context, req PublishItemRequest) (*PublishItemResponse, error) {
	it, err := uc.itemService.PublishItem(
		ctx,
		req.Name,
		money.Money(req.Price),
		req.Stock,
		item.Kind(req.Kind),
		item.Detail{
			ISBN:     req.ISBN,
			Author:   req.Author,
			Artist:   req.Artist,
			Director: req.Director,
		},
	)
	if err != nil {
		return nil, err
	}

	return &PublishItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Price:     it.Price.Amount(),
		PriceYuan: it.Price.Yuan(),
		Stock:     it.Stock,
		Kind:      string(it.Kind),
		CreatedAt: it.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
