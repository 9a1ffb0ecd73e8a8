package item

import (
	"context"

	"github.com/xiebiao/eshop/internal/domain/item"
)

// ListItemsUseCase 商品列表查询用例
// 设计说明:
// 1. 支持分页、关键词搜索、类型过滤、排序
// 2. 列表项不返回类型专属明细字段(减少数据传输量)
type ListItemsUseCase struct {
	itemService item.Service
}

// NewListItemsUseCase 创建列表查询用例
func NewListItemsUseCase(itemService item.Service) *ListItemsUseCase {
	return &ListItemsUseCase{
		itemService: itemService,
	}
}

// ListItemsRequest 列表查询请求DTO
type ListItemsRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(商品名称)
	Kind     string // 商品类型过滤(空表示全部)
	SortBy   string // 排序方式(price_asc, price_desc, created_at_desc)
}

// ItemListItem 列表项DTO
type ItemListItem struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"` // 单价(分)
	PriceYuan string `json:"price_yuan"`
	Stock     int    `json:"stock"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

// ListItemsResponse 列表查询响应DTO
type ListItemsResponse struct {
	List       []ItemListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行列表查询用例
func (uc *ListItemsUseCase) Execute(ctx context.Context, req ListItemsRequest) (*ListItemsResponse, error) {
	// 分页参数兜底
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	items, total, err := uc.itemService.ListItems(ctx, item.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Kind:     item.Kind(req.Kind),
		SortBy:   req.SortBy,
	})
	if err != nil {
		return nil, err
	}

	list := make([]ItemListItem, len(items))
	for i, it := range items {
		list[i] = ItemListItem{
			ID:        it.ID,
			Name:      it.Name,
			Price:     it.Price.Amount(),
			PriceYuan: it.Price.Yuan(),
			Stock:     it.Stock,
			Kind:      string(it.Kind),
			CreatedAt: it.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize > 0 {
		totalPages++
	}

	return &ListItemsResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
