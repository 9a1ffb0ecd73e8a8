package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：集成测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析、注册登录流程）封装成可复用的函数
//
// 运行前提：
// 1. API服务已启动（默认 http://localhost:8080），否则所有测试自动跳过
// 2. 需要管理权限的测试依赖环境变量 ESHOP_TEST_ADMIN_EMAIL / ESHOP_TEST_ADMIN_PASSWORD
//    （数据库中预置的管理员账号），未设置时相关测试自动跳过

const (
	// DefaultBaseURL API基础URL，可用环境变量ESHOP_TEST_BASE_URL覆盖
	DefaultBaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// BaseURL 返回API基础URL
func BaseURL() string {
	if url := os.Getenv("ESHOP_TEST_BASE_URL"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return DefaultBaseURL
}

// RequireServer 检查API服务是否可达，不可达时跳过测试
//
// 教学说明：
// 集成测试依赖运行中的服务，本地没启动服务时应该跳过而非失败，
// 这样 go test ./... 在任何环境下都能跑通
func RequireServer(t *testing.T) {
	t.Helper()

	healthURL := strings.TrimSuffix(BaseURL(), "/api/v1") + "/ping"
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(healthURL)
	if err != nil {
		t.Skipf("API服务不可达(%s)，跳过集成测试: %v", healthURL, err)
	}
	resp.Body.Close()
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ItemData 商品响应数据
type ItemData struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	PriceYuan string `json:"price_yuan"`
	Stock     int    `json:"stock"`
	Kind      string `json:"kind"`
}

// ItemListData 商品列表响应数据
type ItemListData struct {
	List       []ItemData `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// OrderData 下单响应数据
type OrderData struct {
	OrderID   uint   `json:"order_id"`
	OrderNo   string `json:"order_no"`
	Total     int64  `json:"total"`
	TotalYuan string `json:"total_yuan"`
	Status    string `json:"status"`
}

// OrderDetailData 订单详情响应数据
type OrderDetailData struct {
	OrderID  uint   `json:"order_id"`
	OrderNo  string `json:"order_no"`
	Total    int64  `json:"total"`
	Status   string `json:"status"`
	Delivery struct {
		City   string `json:"city"`
		Street string `json:"street"`
		Status string `json:"status"`
	} `json:"delivery"`
	Items []struct {
		ItemID   uint  `json:"item_id"`
		Quantity int   `json:"quantity"`
		Price    int64 `json:"price"`
	} `json:"items"`
}

// DeliveryAdvanceData 配送推进响应数据
type DeliveryAdvanceData struct {
	OrderID        uint   `json:"order_id"`
	DeliveryStatus string `json:"delivery_status"`
}

// doJSON 发送带JSON体的请求并解析统一响应
func doJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, "POST", url, data, token)
}

// PutJSON 发送PUT请求并解析JSON响应
func PutJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return doJSON(t, "PUT", url, data, token)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return doJSON(t, "GET", url, nil, token)
}

// GenerateTestEmail 生成唯一的测试邮箱
//
// 教学说明：
// 使用纳秒时间戳确保邮箱唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// RegisterTestMember 注册测试会员并返回Token
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了注册+登录的完整流程
// 简化了测试代码，让测试更关注业务逻辑而非基础设施
func RegisterTestMember(t *testing.T, nickname string) (email string, token string) {
	t.Helper()

	email = GenerateTestEmail(nickname)
	registerReq := map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
		"city":     "北京",
		"street":   "中关村大街1号",
		"zipcode":  "100080",
	}

	registerResp := PostJSON(t, BaseURL()+"/members/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL()+"/members/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return email, loginData.AccessToken
}

// AdminToken 用预置的管理员账号登录并返回Token
//
// 教学说明：
// 商品上架、库存调整、配送推进都需要管理权限，而注册接口不会产生管理员，
// 所以管理员账号必须由部署环境预置，通过环境变量告诉测试
func AdminToken(t *testing.T) string {
	t.Helper()

	adminEmail := os.Getenv("ESHOP_TEST_ADMIN_EMAIL")
	adminPassword := os.Getenv("ESHOP_TEST_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		t.Skip("未设置ESHOP_TEST_ADMIN_EMAIL/ESHOP_TEST_ADMIN_PASSWORD，跳过需要管理权限的测试")
	}

	loginReq := map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	}

	loginResp := PostJSON(t, BaseURL()+"/members/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "管理员登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return loginData.AccessToken
}

// PublishTestItem 上架测试商品并返回商品ID
func PublishTestItem(t *testing.T, adminToken string, name string, stock int) uint {
	t.Helper()

	itemReq := map[string]interface{}{
		"name":   name,
		"author": "测试作者",
		"isbn":   fmt.Sprintf("978%010d", time.Now().UnixNano()%10000000000),
		"price":  8900, // 89.00元
		"stock":  stock,
		"kind":   "book",
	}

	itemResp := PostJSON(t, BaseURL()+"/items", itemReq, adminToken)
	require.Equal(t, 0, itemResp.Code, "商品上架失败: %s", itemResp.Message)

	var itemData ItemData
	err := json.Unmarshal(itemResp.Data, &itemData)
	require.NoError(t, err, "解析商品响应失败")

	return itemData.ID
}
