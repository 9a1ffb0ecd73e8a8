package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/eshop/internal/application/order"
	"github.com/xiebiao/eshop/internal/domain/order"
	"github.com/xiebiao/eshop/internal/interface/http/dto"
	"github.com/xiebiao/eshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
	"github.com/xiebiao/eshop/pkg/metrics"
	"github.com/xiebiao/eshop/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	placeOrderUseCase      *apporder.PlaceOrderUseCase
	cancelOrderUseCase     *apporder.CancelOrderUseCase
	getOrderUseCase        *apporder.GetOrderUseCase
	listOrdersUseCase      *apporder.ListOrdersUseCase
	advanceDeliveryUseCase *apporder.AdvanceDeliveryUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	placeOrderUseCase *apporder.PlaceOrderUseCase,
	cancelOrderUseCase *apporder.CancelOrderUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
	listOrdersUseCase *apporder.ListOrdersUseCase,
	advanceDeliveryUseCase *apporder.AdvanceDeliveryUseCase,
) *OrderHandler {
	return &OrderHandler{
		placeOrderUseCase:      placeOrderUseCase,
		cancelOrderUseCase:     cancelOrderUseCase,
		getOrderUseCase:        getOrderUseCase,
		listOrdersUseCase:      listOrdersUseCase,
		advanceDeliveryUseCase: advanceDeliveryUseCase,
	}
}

// PlaceOrder 下单
// @Summary      下单
// @Description  会员下单购买商品（需要登录），悲观锁+条件更新防止超卖
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PlaceOrderRequest true "订单信息"
// @Success      200 {object} response.Response{data=dto.PlaceOrderResponse} "下单成功"
// @Failure      400 {object} response.Response "参数错误或库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/orders [post]
//
// 教学说明:防超卖的核心链路在应用层用例中,这里只做三件事:
// 绑定参数、提取当前会员、上报下单指标
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 获取当前登录会员ID
	memberID := middleware.MustGetMemberID(c)

	// 3. 转换为应用层DTO
	items := make([]apporder.PlaceOrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = apporder.PlaceOrderItem{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
		}
	}

	var addr *order.Address
	if req.Address != nil {
		addr = &order.Address{
			City:    req.Address.City,
			Street:  req.Address.Street,
			Zipcode: req.Address.Zipcode,
		}
	}

	// 4. 调用应用层用例
	start := time.Now()
	result, err := h.placeOrderUseCase.Execute(c.Request.Context(), apporder.PlaceOrderRequest{
		MemberID:      memberID,
		Items:         items,
		Address:       addr,
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
	})
	metrics.OrderPlacementDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.IncCounterVec(metrics.OrdersFailedTotal,
			map[string]string{"reason": placeFailureReason(err)})
		response.Error(c, err)
		return
	}

	metrics.OrdersPlacedTotal.Inc()

	// 5. 构建HTTP响应
	response.Success(c, &dto.PlaceOrderResponse{
		OrderID:   result.OrderID,
		OrderNo:   result.OrderNo,
		Total:     result.Total,
		TotalYuan: result.TotalYuan,
		Status:    result.Status,
		CreatedAt: result.CreatedAt,
	})
}

// GetOrder 查询订单详情
// @Summary      订单详情
// @Description  查询订单详情(本人或管理员可见),热点订单走Redis缓存
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderDetailResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "无权查看此订单"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "订单ID格式错误")
		return
	}

	result, err := h.getOrderUseCase.Execute(c.Request.Context(), uint(orderID), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderDetailDTO(result))
}

// ListOrders 查询我的订单列表
// @Summary      我的订单
// @Description  分页查询当前会员的订单列表
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response "订单列表"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	memberID := middleware.MustGetMemberID(c)

	list, total, err := h.listOrdersUseCase.Execute(c.Request.Context(), memberID, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	orders := make([]*dto.OrderDetailResponse, len(list))
	for i, o := range list {
		orders[i] = toOrderDetailDTO(o)
	}

	response.SuccessWithPage(c, orders, total, req.Page, req.PageSize)
}

// CancelOrder 取消订单
// @Summary      取消订单
// @Description  取消订单并恢复库存(本人或管理员);已取消/已发货的订单不能取消
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.CancelOrderResponse} "取消成功"
// @Failure      400 {object} response.Response "订单状态不允许取消"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "无权取消此订单"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "订单ID格式错误")
		return
	}

	result, err := h.cancelOrderUseCase.Execute(c.Request.Context(), apporder.CancelOrderRequest{
		OrderID:   uint(orderID),
		Principal: middleware.GetPrincipal(c),
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	metrics.OrdersCancelledTotal.Inc()

	response.Success(c, &dto.CancelOrderResponse{
		OrderID: result.OrderID,
		OrderNo: result.OrderNo,
		Status:  result.Status,
	})
}

// AdvanceDelivery 推进配送状态
// @Summary      推进配送
// @Description  仓库/快递回传,配送状态单步向前(待处理→备货→发货→送达)
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.AdvanceDeliveryResponse}
// @Failure      400 {object} response.Response "配送状态不允许推进"
// @Failure      403 {object} response.Response "无管理权限"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id}/delivery/advance [post]
func (h *OrderHandler) AdvanceDelivery(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40900, "订单ID格式错误")
		return
	}

	result, err := h.advanceDeliveryUseCase.Execute(c.Request.Context(), uint(orderID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.AdvanceDeliveryResponse{
		OrderID:        result.OrderID,
		DeliveryStatus: result.DeliveryStatus,
	})
}

// toOrderDetailDTO 应用层订单详情 → HTTP层DTO
// 说明:MemberID不回传给客户端(缓存里带它只为做授权检查)
func toOrderDetailDTO(o *apporder.OrderDetailResponse) *dto.OrderDetailResponse {
	items := make([]dto.OrderLineResponse, len(o.Items))
	for i, line := range o.Items {
		items[i] = dto.OrderLineResponse{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			PriceYuan: line.PriceYuan,
			Subtotal:  line.Subtotal,
		}
	}

	return &dto.OrderDetailResponse{
		OrderID:   o.OrderID,
		OrderNo:   o.OrderNo,
		Total:     o.Total,
		TotalYuan: o.TotalYuan,
		Status:    o.Status,
		Items:     items,
		Delivery: dto.DeliveryResponse{
			City:    o.Delivery.City,
			Street:  o.Delivery.Street,
			Zipcode: o.Delivery.Zipcode,
			Status:  o.Delivery.Status,
		},
		CreatedAt: o.CreatedAt,
	}
}

// placeFailureReason 下单失败原因 → 指标标签
// 固定枚举,避免把任意错误串写进标签撑爆基数
func placeFailureReason(err error) string {
	switch {
	case apperrors.IsCode(err, apperrors.ErrCodeInsufficientStock):
		return "insufficient_stock"
	case apperrors.IsCode(err, apperrors.ErrCodeItemNotFound),
		apperrors.IsCode(err, apperrors.ErrCodeMemberNotFound):
		return "not_found"
	case apperrors.IsCode(err, apperrors.ErrCodeInvalidParams):
		return "invalid_params"
	default:
		return "internal"
	}
}
