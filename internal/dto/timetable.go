package dto

// ── 课表查询 DTO ──

// DayBlock 某一工作日的课时列表
type DayBlock struct {
	DayOfWeek int            `json:"day_of_week"`
	DayLabel  string         `json:"day_label"`
	Slots     []SlotResponse `json:"slots"`
}

// TimetableResponse 班级周课表（固定包含周一至周五）
type TimetableResponse struct {
	ClassID       string     `json:"class_id"`
	ClassName     string     `json:"class_name"`
	Days          []DayBlock `json:"days"`
	ConflictCount int        `json:"conflict_count"`
}

// ConflictSlot 冲突课时的摘要
type ConflictSlot struct {
	ID        string  `json:"id"`
	ClassID   string  `json:"class_id"`
	ClassName string  `json:"class_name,omitempty"`
	DayOfWeek int     `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	TeacherID *string `json:"teacher_id"`
}

// ConflictPair 一对互相冲突的课时；Slot 属于被查询的班级
type ConflictPair struct {
	Slot         ConflictSlot `json:"slot"`
	ConflictWith ConflictSlot `json:"conflict_with"`
	OverlapStart string       `json:"overlap_start"`
	OverlapEnd   string       `json:"overlap_end"`
}

// ConflictsResponse 班级冲突诊断结果
type ConflictsResponse struct {
	ClassID   string         `json:"class_id"`
	Count     int            `json:"count"`
	Conflicts []ConflictPair `json:"conflicts"`
}

// ExportRequest 课表导出参数
type ExportRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=xlsx ics"`
}

// ConflictDetail 写入被拒绝时返回给调用方的冲突信息
// 由数据库约束兜底拦截时 ConflictWith 为空
type ConflictDetail struct {
	ConflictWith *ConflictSlot `json:"conflict_with"`
	OverlapStart string        `json:"overlap_start,omitempty"`
	OverlapEnd   string        `json:"overlap_end,omitempty"`
}
