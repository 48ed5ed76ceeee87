package dto

// ── 花名册只读 DTO ──

// SubjectResponse 科目
type SubjectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeacherResponse 教师（含所属科目）
type TeacherResponse struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name,omitempty"`
}

// StudentResponse 学生（含所属班级）
type StudentResponse struct {
	ID        string  `json:"id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	ClassID   *string `json:"class_id"`
	ClassName *string `json:"class_name"`
}

// ClassResponse 班级列表项
type ClassResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	StudentsCount int      `json:"students_count"`
	TeachersCount int      `json:"teachers_count"`
	Subjects      []string `json:"subjects"`
}
