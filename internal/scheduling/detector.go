package scheduling

import (
	"sort"

	"github.com/yuktaemrith12/ConnectEd/internal/model"
)

// Candidate 待写入课时的冲突判定输入
type Candidate struct {
	DayOfWeek     int
	Window        Window
	TeacherID     string // 为空表示未安排教师，永不冲突
	ExcludeSlotID string // 编辑时排除课时自身的旧版本
}

// FindConflict 在已有课时中查找与候选课时冲突的第一个课时
// existing 可以包含任意教师、任意班级的课时，不相关的会被忽略
func FindConflict(c Candidate, existing []model.TimetableSlot) (*model.TimetableSlot, error) {
	if c.TeacherID == "" {
		return nil, nil
	}
	key := Key{TeacherID: c.TeacherID, DayOfWeek: c.DayOfWeek}
	ix := NewIndex(existing)
	for _, bad := range ix.InvalidIn(key) {
		// 同一分桶内有无法解析的课时时无法证明不冲突；自身旧版本除外
		if bad.Slot.SlotID != c.ExcludeSlotID {
			return nil, bad.Err
		}
	}
	return ix.FirstOverlap(key, c.Window, c.ExcludeSlotID), nil
}

// Pair 一对互相冲突的课时；Slot 属于被检查的班级
type Pair struct {
	Slot         *model.TimetableSlot
	ConflictWith *model.TimetableSlot
	Overlap      Window
}

// ConflictPairs 诊断指定班级的教师冲突
// slots 需包含该班级涉及教师的全部课时（跨班级）；每对冲突只报告一次。
// 时间无效的课时跳过并随结果返回，由调用方记录
func ConflictPairs(classID string, slots []model.TimetableSlot) ([]Pair, []InvalidSlot) {
	ix := NewIndex(slots)

	own := make([]*model.TimetableSlot, 0)
	windows := make(map[string]Window)
	for i := range slots {
		if slots[i].ClassID != classID || !slots[i].HasTeacher() {
			continue
		}
		w, err := SlotWindow(&slots[i])
		if err != nil {
			continue
		}
		own = append(own, &slots[i])
		windows[slots[i].SlotID] = w
	}
	sort.Slice(own, func(i, j int) bool {
		a, b := own[i], own[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if windows[a.SlotID].Start != windows[b.SlotID].Start {
			return windows[a.SlotID].Start < windows[b.SlotID].Start
		}
		return a.SlotID < b.SlotID
	})

	seen := make(map[[2]string]struct{})
	var pairs []Pair
	for _, s := range own {
		key, _ := KeyOf(s)
		w := windows[s.SlotID]
		for _, hit := range ix.Overlapping(key, w, s.SlotID) {
			pk := pairKey(s.SlotID, hit.SlotID)
			if _, dup := seen[pk]; dup {
				continue
			}
			seen[pk] = struct{}{}
			hw, _ := SlotWindow(hit) // 已进入索引，窗口有效
			pairs = append(pairs, Pair{Slot: s, ConflictWith: hit, Overlap: w.Intersection(hw)})
		}
	}
	return pairs, ix.Invalid()
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
