package dto

// PublishItemRequest HTTP上架请求
// validator tag说明:
// - required: 必填字段
// - oneof: 商品类型白名单
// - 类型专属字段(isbn/author/artist/director)按kind选填,
//   领域服务会校验对应类型的必填项
type PublishItemRequest struct {
	Name     string `json:"name" binding:"required,max=200" example:"Go语言实战"`
	Price    int64  `json:"price" binding:"required,min=1,max=99999999" example:"5900"` // 价格(分),59.00元
	Stock    int    `json:"stock" binding:"min=0" example:"100"`
	Kind     string `json:"kind" binding:"required,oneof=book album dvd" example:"book"`
	ISBN     string `json:"isbn" binding:"omitempty,max=20" example:"9787115428028"`
	Author   string `json:"author" binding:"omitempty,max=100" example:"威廉·肯尼迪"`
	Artist   string `json:"artist" binding:"omitempty,max=100" example:"窦唯"`
	Director string `json:"director" binding:"omitempty,max=100" example:"姜文"`
}

// ItemResponse HTTP商品响应
type ItemResponse struct {
	ID        uint   `json:"id" example:"1"`
	Name      string `json:"name" example:"Go语言实战"`
	Price     int64  `json:"price" example:"5900"`       // 价格(分)
	PriceYuan string `json:"price_yuan" example:"59.00"` // 价格(元),方便前端显示
	Stock     int    `json:"stock" example:"100"`
	Kind      string `json:"kind" example:"book"`
	CreatedAt string `json:"created_at" example:"2026-01-15 10:30:00"`
}

// ItemListItem HTTP商品列表项
type ItemListItem struct {
	ID        uint   `json:"id" example:"1"`
	Name      string `json:"name" example:"Go语言实战"`
	Price     int64  `json:"price" example:"5900"`
	PriceYuan string `json:"price_yuan" example:"59.00"`
	Stock     int    `json:"stock" example:"100"`
	Kind      string `json:"kind" example:"book"`
	CreatedAt string `json:"created_at" example:"2026-01-15 10:30:00"`
}

// ListItemsRequest HTTP商品列表请求
type ListItemsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	Kind     string `form:"kind" binding:"omitempty,oneof=book album dvd" example:"book"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc" example:"created_at_desc"`
}

// ListItemsResponse HTTP商品列表响应
type ListItemsResponse struct {
	List       []ItemListItem `json:"list"`
	Total      int64          `json:"total" example:"100"`
	Page       int            `json:"page" example:"1"`
	PageSize   int            `json:"page_size" example:"20"`
	TotalPages int            `json:"total_pages" example:"5"`
}

// AdjustStockRequest HTTP库存调整请求
// delta为正数补货,负数盘亏核减;不允许为0
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required" example:"20"`
}

// AdjustStockResponse HTTP库存调整响应
type AdjustStockResponse struct {
	ItemID uint `json:"item_id" example:"1"`
	Stock  int  `json:"stock" example:"120"` // 调整后库存
}
