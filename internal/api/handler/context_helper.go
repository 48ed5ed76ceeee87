package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/service"
	"github.com/yuktaemrith12/ConnectEd/pkg/response"
)

// MustGetCaller 从 Gin 上下文中提取 JWT 中间件注入的调用方身份。
// 缺少 user_id 或 role 时写入 401 响应并返回 false，调用方应直接 return。
// 角色是否为管理员由 Service 层判定。
func MustGetCaller(c *gin.Context) (dto.Caller, bool) {
	userID, ok := contextString(c, "user_id")
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return dto.Caller{}, false
	}
	role, ok := contextString(c, "role")
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return dto.Caller{}, false
	}
	return dto.Caller{UserID: userID, Role: role}, true
}

// rejectBinding 请求参数绑定失败时的响应；非管理员先得到 403，授权错误不因参数错误而被掩盖
func rejectBinding(c *gin.Context, caller dto.Caller, msg string) {
	if !caller.IsAdmin() {
		handleError(c, service.ErrAdminOnly)
		return
	}
	response.BadRequest(c, codeValidation, msg)
}

func contextString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
