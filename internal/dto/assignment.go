package dto

// ── 分配模块 DTO ──

// ReplaceClassTeachersRequest 整体替换班级教师集合；空列表表示清空
type ReplaceClassTeachersRequest struct {
	TeacherIDs []string `json:"teacher_ids" binding:"omitempty,dive,required"`
}

// AssignStudentsRequest 将学生分配到班级（覆盖原所属班级）
type AssignStudentsRequest struct {
	StudentIDs []string `json:"student_ids" binding:"omitempty,dive,required"`
}

// AssignResponse 分配结果
type AssignResponse struct {
	ClassID  string `json:"class_id"`
	Assigned int    `json:"assigned"`
}
