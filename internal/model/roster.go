package model

import "time"

// Subject 科目表，对应 subjects（参考数据，由外部维护）
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// Teacher 教师表，对应 teachers
// 每位教师有且只有一个所属科目
type Teacher struct {
	TeacherID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	FullName  string `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Email     string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	SubjectID string `gorm:"type:uuid;not null"                             json:"subject_id"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// Class 班级表，对应 classes
type Class struct {
	ClassID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	Name    string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	BaseModel
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }

// Student 学生表，对应 students
// 同一时刻至多属于一个班级，分班为覆盖写
type Student struct {
	StudentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	FullName  string  `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Email     string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	ClassID   *string `gorm:"type:uuid;index"                                json:"class_id,omitempty"`
	IsActive  bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Class *Class `gorm:"foreignKey:ClassID;references:ClassID" json:"class,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// ClassTeacher 班级-教师关联表，对应 class_teachers（按班级整体替换）
type ClassTeacher struct {
	ClassID   string    `gorm:"type:uuid;primaryKey"               json:"class_id"`
	TeacherID string    `gorm:"type:uuid;primaryKey"               json:"teacher_id"`
	CreatedBy *string   `gorm:"type:varchar(64)"                   json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (ClassTeacher) TableName() string { return "class_teachers" }

// ClassSummary 班级列表聚合行（非表映射）
type ClassSummary struct {
	ClassID       string
	Name          string
	StudentsCount int
	TeachersCount int
	SubjectNames  []string
}
