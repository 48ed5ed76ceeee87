package dto

// 角色
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Caller 已由认证服务校验过的调用方身份
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin 是否为管理员
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
