package scheduling

import (
	"fmt"
	"sort"

	"github.com/google/btree"

	"github.com/yuktaemrith12/ConnectEd/internal/model"
)

// Key 冲突判定的分桶键：同一教师在同一天
type Key struct {
	TeacherID string
	DayOfWeek int
}

type entry struct {
	window Window
	id     string
	slot   *model.TimetableSlot
}

// 先按开始时间，再按课时 ID 排序，保证同一开始时间的多个课时可共存
func entryLess(a, b entry) bool {
	if a.window.Start != b.window.Start {
		return a.window.Start < b.window.Start
	}
	return a.id < b.id
}

// InvalidSlot 时间窗口无法解析的课时，不进入索引
type InvalidSlot struct {
	Slot *model.TimetableSlot
	Err  error
}

// Index 按 (教师, 星期) 分桶的有序区间集合
// 未安排教师的课时不会进入索引；时间无效的课时单独记录在所属分桶下，
// 不影响其他分桶的查询
type Index struct {
	buckets map[Key]*btree.BTreeG[entry]
	invalid map[Key][]InvalidSlot
}

// NewIndex 由课时列表构建索引
func NewIndex(slots []model.TimetableSlot) *Index {
	ix := &Index{
		buckets: make(map[Key]*btree.BTreeG[entry]),
		invalid: make(map[Key][]InvalidSlot),
	}
	for i := range slots {
		_ = ix.insert(&slots[i])
	}
	return ix
}

// SlotWindow 解析课时的时间窗口
func SlotWindow(slot *model.TimetableSlot) (Window, error) {
	start, err := ClockOf(slot.StartTime)
	if err != nil {
		return Window{}, fmt.Errorf("课时 %s 开始时间无效: %w", slot.SlotID, err)
	}
	end, err := ClockOf(slot.EndTime)
	if err != nil {
		return Window{}, fmt.Errorf("课时 %s 结束时间无效: %w", slot.SlotID, err)
	}
	return NewWindow(start, end)
}

// KeyOf 课时所属分桶；未安排教师时 ok=false
func KeyOf(slot *model.TimetableSlot) (Key, bool) {
	if !slot.HasTeacher() {
		return Key{}, false
	}
	return Key{TeacherID: *slot.TeacherID, DayOfWeek: slot.DayOfWeek}, true
}

// Add 加入一个课时；同 ID 的旧版本会被替换
func (ix *Index) Add(slot *model.TimetableSlot) error {
	ix.Remove(slot.SlotID)
	return ix.insert(slot)
}

func (ix *Index) insert(slot *model.TimetableSlot) error {
	key, ok := KeyOf(slot)
	if !ok {
		return nil
	}
	w, err := SlotWindow(slot)
	if err != nil {
		ix.invalid[key] = append(ix.invalid[key], InvalidSlot{Slot: slot, Err: err})
		return err
	}

	tree, ok := ix.buckets[key]
	if !ok {
		tree = btree.NewG[entry](8, entryLess)
		ix.buckets[key] = tree
	}
	tree.ReplaceOrInsert(entry{window: w, id: slot.SlotID, slot: slot})
	return nil
}

// Remove 按 ID 移除课时
func (ix *Index) Remove(slotID string) {
	for key, bad := range ix.invalid {
		for i := range bad {
			if bad[i].Slot.SlotID == slotID {
				ix.invalid[key] = append(bad[:i:i], bad[i+1:]...)
				if len(ix.invalid[key]) == 0 {
					delete(ix.invalid, key)
				}
				return
			}
		}
	}
	for key, tree := range ix.buckets {
		var found *entry
		tree.Ascend(func(e entry) bool {
			if e.id == slotID {
				e := e
				found = &e
				return false
			}
			return true
		})
		if found != nil {
			tree.Delete(*found)
			if tree.Len() == 0 {
				delete(ix.buckets, key)
			}
			return
		}
	}
}

// Len 索引中的课时数量
func (ix *Index) Len() int {
	n := 0
	for _, tree := range ix.buckets {
		n += tree.Len()
	}
	return n
}

// InvalidIn 分桶内时间无效的课时
func (ix *Index) InvalidIn(key Key) []InvalidSlot {
	return ix.invalid[key]
}

// Invalid 全部时间无效的课时，按课时 ID 排序
func (ix *Index) Invalid() []InvalidSlot {
	var all []InvalidSlot
	for _, bad := range ix.invalid {
		all = append(all, bad...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Slot.SlotID < all[j].Slot.SlotID })
	return all
}

// Overlapping 返回分桶内与窗口重叠的课时，按开始时间升序
// 只遍历开始时间早于 w.End 的条目
func (ix *Index) Overlapping(key Key, w Window, excludeSlotID string) []*model.TimetableSlot {
	tree, ok := ix.buckets[key]
	if !ok {
		return nil
	}
	var hits []*model.TimetableSlot
	tree.AscendLessThan(entry{window: Window{Start: w.End}}, func(e entry) bool {
		if e.id != excludeSlotID && e.window.Overlaps(w) {
			hits = append(hits, e.slot)
		}
		return true
	})
	return hits
}

// FirstOverlap 返回分桶内第一个与窗口重叠的课时
func (ix *Index) FirstOverlap(key Key, w Window, excludeSlotID string) *model.TimetableSlot {
	tree, ok := ix.buckets[key]
	if !ok {
		return nil
	}
	var hit *model.TimetableSlot
	tree.AscendLessThan(entry{window: Window{Start: w.End}}, func(e entry) bool {
		if e.id != excludeSlotID && e.window.Overlaps(w) {
			hit = e.slot
			return false
		}
		return true
	})
	return hit
}
