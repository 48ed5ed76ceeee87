package dto

// ── 课时模块 DTO ──

// CreateSlotRequest 创建课时请求
type CreateSlotRequest struct {
	ClassID   string  `json:"class_id"    binding:"required"`
	DayOfWeek int     `json:"day_of_week" binding:"required,min=1,max=5"`
	PeriodNo  int     `json:"period_no"   binding:"required,min=1"`
	StartTime string  `json:"start_time"  binding:"required,clock"` // "09:00"
	EndTime   string  `json:"end_time"    binding:"required,clock"` // "10:00"
	SubjectID string  `json:"subject_id"  binding:"required"`
	TeacherID *string `json:"teacher_id"`
}

// UpdateSlotRequest 更新课时请求（部分更新）
// 字段为 nil 表示保持不变；teacher_id 传空字符串表示取消教师
type UpdateSlotRequest struct {
	DayOfWeek *int    `json:"day_of_week" binding:"omitempty,min=1,max=5"`
	PeriodNo  *int    `json:"period_no"   binding:"omitempty,min=1"`
	StartTime *string `json:"start_time"  binding:"omitempty,clock"`
	EndTime   *string `json:"end_time"    binding:"omitempty,clock"`
	SubjectID *string `json:"subject_id"  binding:"omitempty,min=1"`
	TeacherID *string `json:"teacher_id"`
}

// SlotResponse 课时信息响应
type SlotResponse struct {
	ID          string  `json:"id"`
	ClassID     string  `json:"class_id"`
	DayOfWeek   int     `json:"day_of_week"`
	PeriodNo    int     `json:"period_no"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name,omitempty"`
	TeacherID   *string `json:"teacher_id"`
	TeacherName *string `json:"teacher_name"`
}
