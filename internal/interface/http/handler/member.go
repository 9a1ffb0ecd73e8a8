package handler

import (
	"github.com/gin-gonic/gin"

	appmember "github.com/xiebiao/eshop/internal/application/member"
	"github.com/xiebiao/eshop/internal/interface/http/dto"
	"github.com/xiebiao/eshop/internal/interface/http/middleware"
	"github.com/xiebiao/eshop/pkg/jwt"
	"github.com/xiebiao/eshop/pkg/response"
)

// MemberHandler 会员HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
// 3. 使用依赖注入，便于测试
type MemberHandler struct {
	registerUseCase *appmember.RegisterUseCase
	loginUseCase    *appmember.LoginUseCase
	logoutUseCase   *appmember.LogoutUseCase
	jwtManager      *jwt.Manager
}

// NewMemberHandler 创建会员处理器
func NewMemberHandler(
	registerUseCase *appmember.RegisterUseCase,
	loginUseCase *appmember.LoginUseCase,
	logoutUseCase *appmember.LogoutUseCase,
	jwtManager *jwt.Manager,
) *MemberHandler {
	return &MemberHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		jwtManager:      jwtManager,
	}
}

// Register 会员注册
// @Summary      会员注册
// @Description  创建新会员账号,可选填默认收货地址
// @Tags         会员
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.MemberResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/members/register [post]
func (h *MemberHandler) Register(c *gin.Context) {
	// 1. 绑定并验证参数
	// 学习要点：Gin的ShouldBindJSON会自动校验binding tag
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.registerUseCase.Execute(c.Request.Context(), appmember.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
		City:     req.City,
		Street:   req.Street,
		Zipcode:  req.Zipcode,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应
	response.Success(c, &dto.MemberResponse{
		ID:       result.ID,
		Email:    result.Email,
		Nickname: result.Nickname,
	})
}

// Login 会员登录
// @Summary      会员登录
// @Description  验证邮箱密码，返回JWT Token
// @Tags         会员
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=dto.LoginResponse} "登录成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/v1/members/login [post]
func (h *MemberHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appmember.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoginResponse{
		Member: dto.MemberInfo{
			ID:       result.Member.ID,
			Email:    result.Member.Email,
			Nickname: result.Member.Nickname,
			IsAdmin:  result.Member.IsAdmin,
		},
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	})
}

// Logout 会员登出
// @Summary      会员登出
// @Description  删除会话并把当前Token加入黑名单
// @Tags         会员
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/members/logout [post]
func (h *MemberHandler) Logout(c *gin.Context) {
	memberID := middleware.MustGetMemberID(c)
	accessToken := middleware.GetAccessToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), memberID, accessToken); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "登出成功", nil)
}

// RefreshToken 刷新Access Token
// @Summary      刷新Token
// @Description  使用Refresh Token换取新的Access Token
// @Tags         会员
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshTokenRequest true "刷新信息"
// @Success      200 {object} response.Response{data=dto.RefreshTokenResponse} "刷新成功"
// @Failure      401 {object} response.Response "Refresh Token无效或已过期"
// @Router       /api/v1/members/refresh [post]
func (h *MemberHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	accessToken, err := h.jwtManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.RefreshTokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(h.jwtManager.AccessTokenTTL().Seconds()),
	})
}
