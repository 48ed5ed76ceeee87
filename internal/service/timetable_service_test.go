package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/yuktaemrith12/ConnectEd/config"
	"github.com/yuktaemrith12/ConnectEd/internal/model"
)

func setupTestTimetableService() (TimetableService, *mockStore) {
	store := newFixtureStore()
	return NewTimetableService(store.repository(), zap.NewNop()), store
}

// putSlot 绕过写入校验直接放入课时，模拟批量导入等外部修改产生的冲突数据
// 课时 ID 为 slotID(name)
func putSlot(store *mockStore, name, classID string, day, period int, start, end, teacherID string) {
	id := slotID(name)
	slot := &model.TimetableSlot{
		SlotID:    id,
		ClassID:   classID,
		DayOfWeek: day,
		PeriodNo:  period,
		StartTime: start,
		EndTime:   end,
		SubjectID: idMath,
	}
	if teacherID != "" {
		slot.TeacherID = strPtr(teacherID)
	}
	store.slots[id] = slot
}

// ── GetTimetable 测试 ──

func TestTimetableService_GetTimetable_FiveDaysSorted(t *testing.T) {
	svc, store := setupTestTimetableService()
	putSlot(store, "a", id3A, 1, 2, "10:00:00", "11:00:00", idT1)
	putSlot(store, "b", id3A, 1, 1, "09:00:00", "10:00:00", idT1)
	putSlot(store, "c", id3A, 1, 3, "09:00:00", "09:30:00", idT2) // 同一开始时间按节次排序
	putSlot(store, "d", id3A, 4, 1, "13:00:00", "14:00:00", "")
	putSlot(store, "x", id3B, 2, 1, "09:00:00", "10:00:00", idT2)

	resp, err := svc.GetTimetable(context.Background(), admin, id3A)
	if err != nil {
		t.Fatalf("GetTimetable 应成功: %v", err)
	}
	if resp.ClassName != "Grade 3A" {
		t.Errorf("期望班级名 Grade 3A，实际 %s", resp.ClassName)
	}
	if len(resp.Days) != 5 {
		t.Fatalf("期望固定 5 天，实际 %d", len(resp.Days))
	}

	labels := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	for i, day := range resp.Days {
		if day.DayOfWeek != i+1 || day.DayLabel != labels[i] {
			t.Errorf("第 %d 天期望 %d/%s，实际 %d/%s", i, i+1, labels[i], day.DayOfWeek, day.DayLabel)
		}
		if day.Slots == nil {
			t.Errorf("%s 期望空列表而非 nil", day.DayLabel)
		}
	}

	monday := resp.Days[0].Slots
	gotOrder := []string{}
	for _, s := range monday {
		gotOrder = append(gotOrder, s.ID)
	}
	wantOrder := []string{slotID("b"), slotID("c"), slotID("a")}
	if len(gotOrder) != 3 || gotOrder[0] != wantOrder[0] || gotOrder[1] != wantOrder[1] || gotOrder[2] != wantOrder[2] {
		t.Errorf("期望周一顺序 %v，实际 %v", wantOrder, gotOrder)
	}
	if monday[0].StartTime != "09:00" {
		t.Errorf("期望时间统一为 HH:MM，实际 %s", monday[0].StartTime)
	}
	if len(resp.Days[1].Slots) != 0 || len(resp.Days[3].Slots) != 1 {
		t.Error("其他班级的课时不应出现")
	}
	if resp.ConflictCount != 0 {
		t.Errorf("期望无冲突，实际 %d", resp.ConflictCount)
	}
}

func TestTimetableService_GetTimetable_UnknownClass(t *testing.T) {
	svc, _ := setupTestTimetableService()

	if _, err := svc.GetTimetable(context.Background(), admin, idUnknown); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("期望 ErrClassNotFound，实际: %v", err)
	}
	if _, err := svc.GetTimetable(context.Background(), teacher, id3A); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("期望 ErrAdminOnly，实际: %v", err)
	}
}

// ── Conflicts 测试 ──

func TestTimetableService_Conflicts_CrossClass(t *testing.T) {
	svc, store := setupTestTimetableService()
	putSlot(store, "a1", id3A, 1, 1, "09:00:00", "10:00:00", idT1)
	putSlot(store, "b1", id3B, 1, 1, "09:30:00", "10:30:00", idT1)
	putSlot(store, "b2", id3B, 1, 2, "10:30:00", "11:30:00", idT1)
	putSlot(store, "a2", id3A, 1, 2, "09:00:00", "10:00:00", idT2)

	resp, err := svc.Conflicts(context.Background(), admin, id3A)
	if err != nil {
		t.Fatalf("Conflicts 应成功: %v", err)
	}
	if resp.Count != 1 || len(resp.Conflicts) != 1 {
		t.Fatalf("期望 1 对冲突，实际 %d", resp.Count)
	}
	pair := resp.Conflicts[0]
	if pair.Slot.ID != slotID("a1") || pair.ConflictWith.ID != slotID("b1") {
		t.Errorf("期望 a1↔b1，实际 %s↔%s", pair.Slot.ID, pair.ConflictWith.ID)
	}
	if pair.ConflictWith.ClassName != "Grade 3B" {
		t.Errorf("期望冲突方班级名 Grade 3B，实际 %s", pair.ConflictWith.ClassName)
	}
	if pair.OverlapStart != "09:30" || pair.OverlapEnd != "10:00" {
		t.Errorf("期望重叠 09:30-10:00，实际 %s-%s", pair.OverlapStart, pair.OverlapEnd)
	}

	count, err := svc.ConflictCount(context.Background(), admin, id3A)
	if err != nil || count != 1 {
		t.Errorf("期望 ConflictCount=1，实际 %d (%v)", count, err)
	}
}

func TestTimetableService_Conflicts_SameClassPairOnce(t *testing.T) {
	svc, store := setupTestTimetableService()
	putSlot(store, "a1", id3A, 2, 1, "09:00:00", "10:00:00", idT1)
	putSlot(store, "a2", id3A, 2, 2, "09:30:00", "10:30:00", idT1)

	resp, err := svc.Conflicts(context.Background(), admin, id3A)
	if err != nil {
		t.Fatalf("Conflicts 应成功: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("同班两个课时互相冲突只应报告 1 次，实际 %d", resp.Count)
	}
}

func TestTimetableService_DeleteRemovesFromResults(t *testing.T) {
	store := newFixtureStore()
	repo := store.repository()
	slots := NewSlotService(&config.TimetableConfig{}, repo, zap.NewNop())
	timetable := NewTimetableService(repo, zap.NewNop())
	ctx := context.Background()

	putSlot(store, "a1", id3A, 1, 1, "09:00:00", "10:00:00", idT1)
	putSlot(store, "b1", id3B, 1, 1, "09:30:00", "10:30:00", idT1)

	before, _ := timetable.Conflicts(ctx, admin, id3A)
	if before.Count != 1 {
		t.Fatalf("前置条件：期望 1 对冲突，实际 %d", before.Count)
	}

	if err := slots.Delete(ctx, admin, slotID("a1")); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	after, err := timetable.Conflicts(ctx, admin, id3A)
	if err != nil {
		t.Fatalf("Conflicts 应成功: %v", err)
	}
	for _, p := range after.Conflicts {
		if p.Slot.ID == slotID("a1") || p.ConflictWith.ID == slotID("a1") {
			t.Error("删除后冲突结果不应再引用 a1")
		}
	}
	tt, _ := timetable.GetTimetable(ctx, admin, id3A)
	for _, day := range tt.Days {
		for _, s := range day.Slots {
			if s.ID == slotID("a1") {
				t.Error("删除后课表不应再包含 a1")
			}
		}
	}
}

func TestTimetableService_UppercaseAndMalformedClassID(t *testing.T) {
	svc, store := setupTestTimetableService()
	putSlot(store, "a1", id3A, 1, 1, "09:00:00", "10:00:00", idT1)
	putSlot(store, "b1", id3B, 1, 1, "09:30:00", "10:30:00", idT1)
	ctx := context.Background()

	resp, err := svc.Conflicts(ctx, admin, strings.ToUpper(id3A))
	if err != nil {
		t.Fatalf("Conflicts 应成功: %v", err)
	}
	if resp.ClassID != id3A || resp.Count != 1 {
		t.Errorf("大写班级 ID 应得到同样的冲突结果，实际 %s/%d", resp.ClassID, resp.Count)
	}
	tt, err := svc.GetTimetable(ctx, admin, strings.ToUpper(id3A))
	if err != nil || tt.ConflictCount != 1 {
		t.Errorf("期望 ConflictCount=1，实际 %+v (%v)", tt, err)
	}

	store.failErr = errors.New("不应访问存储")
	if _, err := svc.GetTimetable(ctx, admin, "x"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("期望 ErrClassNotFound，实际: %v", err)
	}
	if _, err := svc.ConflictCount(ctx, admin, "3A"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("期望 ErrClassNotFound，实际: %v", err)
	}
}

// 秒级时间参与冲突诊断；时间无效的课时被跳过，不影响其余结果
func TestTimetableService_SecondsAndInvalidRows(t *testing.T) {
	svc, store := setupTestTimetableService()
	putSlot(store, "a1", id3A, 1, 1, "12:00:00", "13:00:30", idT1)
	putSlot(store, "b1", id3B, 1, 2, "13:00:00", "14:00:00", idT1)
	putSlot(store, "bad", id3A, 1, 3, "16:00:00", "15:00:00", idT1)
	ctx := context.Background()

	resp, err := svc.Conflicts(ctx, admin, id3A)
	if err != nil {
		t.Fatalf("存在无效课时时 Conflicts 仍应成功: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("期望 1 对冲突，实际 %d", resp.Count)
	}
	if p := resp.Conflicts[0]; p.OverlapStart != "13:00" || p.OverlapEnd != "13:00:30" {
		t.Errorf("期望重叠 13:00-13:00:30，实际 %s-%s", p.OverlapStart, p.OverlapEnd)
	}

	tt, err := svc.GetTimetable(ctx, admin, id3A)
	if err != nil {
		t.Fatalf("GetTimetable 应成功: %v", err)
	}
	monday := tt.Days[0].Slots
	if len(monday) != 2 {
		t.Fatalf("无效课时仍应在课表中展示，期望 2 个，实际 %d", len(monday))
	}
	if monday[0].EndTime != "13:00:30" {
		t.Errorf("期望保留秒级结束时间 13:00:30，实际 %s", monday[0].EndTime)
	}
}

func TestDayLabel(t *testing.T) {
	if DayLabel(3) != "Wednesday" {
		t.Errorf("期望 Wednesday，实际 %s", DayLabel(3))
	}
	if DayLabel(6) != "Unknown" {
		t.Errorf("期望 Unknown，实际 %s", DayLabel(6))
	}
}
