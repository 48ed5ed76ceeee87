package model

// 工作日 1..5（周一至周五）
const (
	FirstWorkday = 1
	LastWorkday  = 5
)

// TimetableSlot 课表课时表，对应 timetable_slots
// 时间区间为左闭右开 [start_time, end_time)；teacher_id 可为空（未安排教师）
type TimetableSlot struct {
	SlotID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"slot_id"`
	ClassID   string  `gorm:"type:uuid;not null;index"                       json:"class_id"`
	DayOfWeek int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-5
	PeriodNo  int     `gorm:"type:smallint;not null"                         json:"period_no"`   // 展示用节次，不参与冲突判断
	StartTime string  `gorm:"type:time;not null"                             json:"start_time"`
	EndTime   string  `gorm:"type:time;not null"                             json:"end_time"`
	SubjectID string  `gorm:"type:uuid;not null"                             json:"subject_id"`
	TeacherID *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	AuditedModel

	// 关联
	Class   *Class   `gorm:"foreignKey:ClassID;references:ClassID"     json:"class,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (TimetableSlot) TableName() string { return "timetable_slots" }

// HasTeacher 是否已安排教师
func (s *TimetableSlot) HasTeacher() bool {
	return s.TeacherID != nil && *s.TeacherID != ""
}
