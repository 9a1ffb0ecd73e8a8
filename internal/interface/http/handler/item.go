package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appitem "github.com/xiebiao/eshop/internal/application/item"
	"github.com/xiebiao/eshop/internal/interface/http/dto"
	"github.com/xiebiao/eshop/pkg/response"
)

// ItemHandler 商品HTTP处理器
type ItemHandler struct {
	publishItemUseCase *appitem.PublishItemUseCase
	listItemsUseCase   *appitem.ListItemsUseCase
	adjustStockUseCase *appitem.AdjustStockUseCase
}

// NewItemHandler 创建商品处理器
func NewItemHandler(
	publishItemUseCase *appitem.PublishItemUseCase,
	listItemsUseCase *appitem.ListItemsUseCase,
	adjustStockUseCase *appitem.AdjustStockUseCase,
) *ItemHandler {
	return &ItemHandler{
		publishItemUseCase: publishItemUseCase,
		listItemsUseCase:   listItemsUseCase,
		adjustStockUseCase: adjustStockUseCase,
	}
}

// PublishItem 上架商品
// @Summary      上架商品
// @Description  运营上架商品(图书/唱片/DVD),按kind填写类型专属字段
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishItemRequest true "商品信息"
// @Success      200 {object} response.Response{data=dto.ItemResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "无管理权限"
// @Router       /api/v1/items [post]
func (h *ItemHandler) PublishItem(c *gin.Context) {
	var req dto.PublishItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.publishItemUseCase.Execute(c.Request.Context(), appitem.PublishItemRequest{
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		Kind:     req.Kind,
		ISBN:     req.ISBN,
		Author:   req.Author,
		Artist:   req.Artist,
		Director: req.Director,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.ItemResponse{
		ID:        result.ID,
		Name:      result.Name,
		Price:     result.Price,
		PriceYuan: result.PriceYuan,
		Stock:     result.Stock,
		Kind:      result.Kind,
		CreatedAt: result.CreatedAt,
	})
}

// ListItems 查询商品列表
// @Summary      商品列表
// @Description  分页查询商品,支持关键词搜索、类型过滤和排序
// @Tags         商品
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词"
// @Param        kind query string false "商品类型" Enums(book, album, dvd)
// @Param        sort_by query string false "排序" Enums(price_asc, price_desc, created_at_desc)
// @Success      200 {object} response.Response{data=dto.ListItemsResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	// 学习要点:Query参数用ShouldBindQuery绑定form tag
	var req dto.ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listItemsUseCase.Execute(c.Request.Context(), appitem.ListItemsRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Kind:     req.Kind,
		SortBy:   req.SortBy,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.ItemListItem, len(result.List))
	for i, it := range result.List {
		list[i] = dto.ItemListItem{
			ID:        it.ID,
			Name:      it.Name,
			Price:     it.Price,
			PriceYuan: it.PriceYuan,
			Stock:     it.Stock,
			Kind:      it.Kind,
			CreatedAt: it.CreatedAt,
		}
	}

	response.Success(c, &dto.ListItemsResponse{
		List:       list,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

// AdjustStock 调整库存
// @Summary      调整库存
// @Description  补货(正数)或盘亏核减(负数),乐观锁防并发覆盖,核减不允许把库存调成负数
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.AdjustStockRequest true "调整量"
// @Success      200 {object} response.Response{data=dto.AdjustStockResponse}
// @Failure      400 {object} response.Response "参数错误或库存不足"
// @Failure      403 {object} response.Response "无管理权限"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/items/{id}/stock [put]
func (h *ItemHandler) AdjustStock(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "商品ID格式错误")
		return
	}

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.adjustStockUseCase.Execute(c.Request.Context(), appitem.AdjustStockRequest{
		ItemID: uint(itemID),
		Delta:  req.Delta,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.AdjustStockResponse{
		ItemID: result.ItemID,
		Stock:  result.Stock,
	})
}
