package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 教学说明：会员模块集成测试
//
// 覆盖注册、登录、登出、Token刷新的完整流程，
// 验证JWT认证和Redis会话/黑名单机制在真实服务上的行为

// TestMemberRegister 测试会员注册
func TestMemberRegister(t *testing.T) {
	RequireServer(t)

	t.Run("正常注册", func(t *testing.T) {
		email := GenerateTestEmail("register_ok")
		req := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "注册测试",
		}

		resp := PostJSON(t, BaseURL()+"/members/register", req, "")

		assert.Equal(t, 0, resp.Code, "注册应该成功: %s", resp.Message)

		var data RegisterData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析响应数据失败")

		assert.NotZero(t, data.ID, "会员ID应该大于0")
		assert.Equal(t, email, data.Email)

		t.Logf("✓ 注册成功, 会员ID: %d", data.ID)
	})

	t.Run("重复邮箱应失败", func(t *testing.T) {
		email := GenerateTestEmail("register_dup")
		req := map[string]string{
			"email":    email,
			"password": "Test1234",
			"nickname": "重复测试",
		}

		resp1 := PostJSON(t, BaseURL()+"/members/register", req, "")
		require.Equal(t, 0, resp1.Code, "第一次注册应该成功")

		resp2 := PostJSON(t, BaseURL()+"/members/register", req, "")
		assert.Equal(t, 40003, resp2.Code, "重复邮箱应该返回40003")

		t.Logf("✓ 重复邮箱正确被拒绝: %s", resp2.Message)
	})

	t.Run("弱密码应失败", func(t *testing.T) {
		req := map[string]string{
			"email":    GenerateTestEmail("weak_pwd"),
			"password": "12345678", // 纯数字
			"nickname": "弱密码测试",
		}

		resp := PostJSON(t, BaseURL()+"/members/register", req, "")

		assert.NotEqual(t, 0, resp.Code, "弱密码应该失败")

		t.Logf("✓ 弱密码正确被拒绝: %s", resp.Message)
	})

	t.Run("邮箱格式非法应失败", func(t *testing.T) {
		req := map[string]string{
			"email":    "not-an-email",
			"password": "Test1234",
			"nickname": "格式测试",
		}

		resp := PostJSON(t, BaseURL()+"/members/register", req, "")

		assert.NotEqual(t, 0, resp.Code, "非法邮箱应该失败")

		t.Logf("✓ 非法邮箱正确被拒绝: %s", resp.Message)
	})
}

// TestMemberLogin 测试会员登录
func TestMemberLogin(t *testing.T) {
	RequireServer(t)

	email, _ := RegisterTestMember(t, "login_tester")

	t.Run("正常登录", func(t *testing.T) {
		req := map[string]string{
			"email":    email,
			"password": "Test1234",
		}

		resp := PostJSON(t, BaseURL()+"/members/login", req, "")

		assert.Equal(t, 0, resp.Code, "登录应该成功: %s", resp.Message)

		var data LoginData
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err, "解析登录响应失败")

		assert.NotEmpty(t, data.AccessToken, "应该返回Access Token")
		assert.NotEmpty(t, data.RefreshToken, "应该返回Refresh Token")

		t.Logf("✓ 登录成功")
	})

	t.Run("密码错误应失败", func(t *testing.T) {
		req := map[string]string{
			"email":    email,
			"password": "WrongPwd1",
		}

		resp := PostJSON(t, BaseURL()+"/members/login", req, "")

		assert.Equal(t, 40103, resp.Code, "密码错误应该返回40103")

		t.Logf("✓ 密码错误正确被拒绝: %s", resp.Message)
	})

	t.Run("不存在的邮箱应失败", func(t *testing.T) {
		req := map[string]string{
			"email":    "nobody_" + GenerateTestEmail("none"),
			"password": "Test1234",
		}

		resp := PostJSON(t, BaseURL()+"/members/login", req, "")

		assert.NotEqual(t, 0, resp.Code, "不存在的邮箱应该失败")

		t.Logf("✓ 不存在的邮箱正确被拒绝: %s", resp.Message)
	})
}

// TestMemberLogout 测试登出（Token黑名单）
func TestMemberLogout(t *testing.T) {
	RequireServer(t)

	_, token := RegisterTestMember(t, "logout_tester")

	t.Run("登出后Token失效", func(t *testing.T) {
		logoutResp := PostJSON(t, BaseURL()+"/members/logout", nil, token)
		require.Equal(t, 0, logoutResp.Code, "登出应该成功: %s", logoutResp.Message)

		// 用已登出的Token访问受保护接口
		resp := GetJSON(t, BaseURL()+"/orders", token)
		assert.NotEqual(t, 0, resp.Code, "已登出的Token应该被拒绝")

		t.Logf("✓ 登出后Token正确失效: %s", resp.Message)
	})
}

// TestTokenRefresh 测试Token刷新
func TestTokenRefresh(t *testing.T) {
	RequireServer(t)

	email, _ := RegisterTestMember(t, "refresh_tester")

	loginResp := PostJSON(t, BaseURL()+"/members/login", map[string]string{
		"email":    email,
		"password": "Test1234",
	}, "")
	require.Equal(t, 0, loginResp.Code)

	var loginData LoginData
	require.NoError(t, json.Unmarshal(loginResp.Data, &loginData))

	t.Run("用RefreshToken换取新AccessToken", func(t *testing.T) {
		req := map[string]string{
			"refresh_token": loginData.RefreshToken,
		}

		resp := PostJSON(t, BaseURL()+"/members/refresh", req, "")

		assert.Equal(t, 0, resp.Code, "刷新应该成功: %s", resp.Message)

		var data struct {
			AccessToken string `json:"access_token"`
			ExpiresIn   int64  `json:"expires_in"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotEmpty(t, data.AccessToken, "应该返回新的Access Token")
		assert.Greater(t, data.ExpiresIn, int64(0), "有效期应该大于0")

		t.Logf("✓ Token刷新成功, 有效期%d秒", data.ExpiresIn)
	})

	t.Run("伪造Token刷新应失败", func(t *testing.T) {
		req := map[string]string{
			"refresh_token": "not.a.jwt",
		}

		resp := PostJSON(t, BaseURL()+"/members/refresh", req, "")

		assert.Equal(t, 40101, resp.Code, "伪造Token应该返回40101")

		t.Logf("✓ 伪造Token正确被拒绝: %s", resp.Message)
	})
}
