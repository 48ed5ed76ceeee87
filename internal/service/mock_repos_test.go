package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/internal/model"
	"github.com/yuktaemrith12/ConnectEd/internal/repository"
)

// mockStore 内存版花名册与课时存储，所有 mock repo 共享
// WithinTx 持有 txMu 串行执行事务，失败时回滚到事务开始前的快照
type mockStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	subjects map[string]*model.Subject
	teachers map[string]*model.Teacher
	classes  map[string]*model.Class
	students map[string]*model.Student
	links    map[string]map[string]bool // class_id → teacher_id 集合
	slots    map[string]*model.TimetableSlot

	nextID int
	// failErr 非空时所有读写都返回该错误，模拟存储不可用
	failErr error
	// lockedKeys 记录 LockTeacherDay 的调用顺序
	lockedKeys []string
}

func newMockStore() *mockStore {
	return &mockStore{
		subjects: make(map[string]*model.Subject),
		teachers: make(map[string]*model.Teacher),
		classes:  make(map[string]*model.Class),
		students: make(map[string]*model.Student),
		links:    make(map[string]map[string]bool),
		slots:    make(map[string]*model.TimetableSlot),
	}
}

func (s *mockStore) repository() *repository.Repository {
	return &repository.Repository{
		Subject:       &mockSubjectRepo{s},
		Teacher:       &mockTeacherRepo{s},
		Class:         &mockClassRepo{s},
		Student:       &mockStudentRepo{s},
		ClassTeacher:  &mockClassTeacherRepo{s},
		TimetableSlot: &mockSlotRepo{s},
		Tx:            &mockTx{s},
	}
}

// ── 测试数据构造 ──

// slotID 由名称生成确定的课时 ID，测试中按名称引用直接写入的课时
func slotID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("slot/"+name)).String()
}

func (s *mockStore) addSubject(id, name string) {
	s.subjects[id] = &model.Subject{SubjectID: id, Name: name}
}

func (s *mockStore) addTeacher(id, name, subjectID string) {
	s.teachers[id] = &model.Teacher{TeacherID: id, FullName: name, SubjectID: subjectID, IsActive: true}
}

func (s *mockStore) addClass(id, name string) {
	s.classes[id] = &model.Class{ClassID: id, Name: name}
}

func (s *mockStore) addStudent(id, name string) {
	s.students[id] = &model.Student{StudentID: id, FullName: name, IsActive: true}
}

// withRelations 模拟 Preload
func (s *mockStore) withRelations(slot *model.TimetableSlot) model.TimetableSlot {
	out := *slot
	out.Class = s.classes[slot.ClassID]
	out.Subject = s.subjects[slot.SubjectID]
	out.Teacher = nil
	if slot.TeacherID != nil {
		out.Teacher = s.teachers[*slot.TeacherID]
	}
	return out
}

func (s *mockStore) sortedSlots(keep func(*model.TimetableSlot) bool) []model.TimetableSlot {
	var result []model.TimetableSlot
	for _, slot := range s.slots {
		if keep(slot) {
			result = append(result, s.withRelations(slot))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SlotID < result[j].SlotID })
	return result
}

// ── Mock Transactor ──

type mockTx struct{ s *mockStore }

type snapshot struct {
	slots    map[string]model.TimetableSlot
	links    map[string]map[string]bool
	students map[string]model.Student
}

func (t *mockTx) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(t.s.repository()); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func (s *mockStore) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		slots:    make(map[string]model.TimetableSlot, len(s.slots)),
		links:    make(map[string]map[string]bool, len(s.links)),
		students: make(map[string]model.Student, len(s.students)),
	}
	for id, slot := range s.slots {
		snap.slots[id] = *slot
	}
	for cid, set := range s.links {
		cp := make(map[string]bool, len(set))
		for tid := range set {
			cp[tid] = true
		}
		snap.links[cid] = cp
	}
	for id, st := range s.students {
		snap.students[id] = *st
	}
	return snap
}

func (s *mockStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[string]*model.TimetableSlot, len(snap.slots))
	for id, slot := range snap.slots {
		slot := slot
		s.slots[id] = &slot
	}
	s.links = snap.links
	s.students = make(map[string]*model.Student, len(snap.students))
	for id, st := range snap.students {
		st := st
		s.students[id] = &st
	}
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct{ s *mockStore }

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.Subject
	for _, sub := range m.s.subjects {
		result = append(result, *sub)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	if sub, ok := m.s.subjects[id]; ok {
		return sub, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct{ s *mockStore }

func (m *mockTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.Teacher
	for _, t := range m.s.teachers {
		cp := *t
		cp.Subject = m.s.subjects[t.SubjectID]
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	if t, ok := m.s.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) ListByIDs(_ context.Context, ids []string) ([]model.Teacher, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.Teacher
	for _, id := range ids {
		if t, ok := m.s.teachers[id]; ok {
			result = append(result, *t)
		}
	}
	return result, nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct{ s *mockStore }

func (m *mockClassRepo) List(_ context.Context) ([]model.Class, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.Class
	for _, c := range m.s.classes {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockClassRepo) ListSummaries(ctx context.Context) ([]model.ClassSummary, error) {
	classes, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var result []model.ClassSummary
	for _, c := range classes {
		sum := model.ClassSummary{ClassID: c.ClassID, Name: c.Name, TeachersCount: len(m.s.links[c.ClassID])}
		for _, st := range m.s.students {
			if st.ClassID != nil && *st.ClassID == c.ClassID {
				sum.StudentsCount++
			}
		}
		names := make(map[string]bool)
		for _, slot := range m.s.slots {
			if slot.ClassID == c.ClassID {
				names[m.s.subjects[slot.SubjectID].Name] = true
			}
		}
		for n := range names {
			sum.SubjectNames = append(sum.SubjectNames, n)
		}
		sort.Strings(sum.SubjectNames)
		result = append(result, sum)
	}
	return result, nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.Class, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	if c, ok := m.s.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) GetForUpdate(ctx context.Context, id string) (*model.Class, error) {
	return m.GetByID(ctx, id)
}

// ── Mock StudentRepository ──

type mockStudentRepo struct{ s *mockStore }

func (m *mockStudentRepo) List(_ context.Context) ([]model.Student, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.Student
	for _, st := range m.s.students {
		cp := *st
		if st.ClassID != nil {
			cp.Class = m.s.classes[*st.ClassID]
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

func (m *mockStudentRepo) ListByClass(_ context.Context, classID string) ([]model.Student, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.Student
	for _, st := range m.s.students {
		if st.ClassID != nil && *st.ClassID == classID {
			result = append(result, *st)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

func (m *mockStudentRepo) ListByIDs(_ context.Context, ids []string) ([]model.Student, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.Student
	for _, id := range ids {
		if st, ok := m.s.students[id]; ok {
			result = append(result, *st)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) AssignToClass(_ context.Context, classID string, studentIDs []string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failErr != nil {
		return 0, m.s.failErr
	}
	var n int64
	for _, id := range studentIDs {
		if st, ok := m.s.students[id]; ok {
			cid := classID
			st.ClassID = &cid
			n++
		}
	}
	return n, nil
}

// ── Mock ClassTeacherRepository ──

type mockClassTeacherRepo struct{ s *mockStore }

func (m *mockClassTeacherRepo) ListByClass(_ context.Context, classID string) ([]model.ClassTeacher, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	var result []model.ClassTeacher
	for tid := range m.s.links[classID] {
		result = append(result, model.ClassTeacher{ClassID: classID, TeacherID: tid, Teacher: m.s.teachers[tid]})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TeacherID < result[j].TeacherID })
	return result, nil
}

func (m *mockClassTeacherRepo) ReplaceForClass(_ context.Context, classID string, teacherIDs []string, _ string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failErr != nil {
		return m.s.failErr
	}
	set := make(map[string]bool, len(teacherIDs))
	for _, tid := range teacherIDs {
		set[tid] = true
	}
	m.s.links[classID] = set
	return nil
}

func (m *mockClassTeacherRepo) CountByClass(_ context.Context, classID string) (int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return 0, m.s.failErr
	}
	return int64(len(m.s.links[classID])), nil
}

// ── Mock TimetableSlotRepository ──

type mockSlotRepo struct{ s *mockStore }

func (m *mockSlotRepo) Create(_ context.Context, slot *model.TimetableSlot) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failErr != nil {
		return m.s.failErr
	}
	m.s.nextID++
	slot.SlotID = fmt.Sprintf("00000000-0000-4000-8000-%012d", m.s.nextID)
	stored := *slot
	stored.Class, stored.Subject, stored.Teacher = nil, nil, nil
	m.s.slots[slot.SlotID] = &stored
	return nil
}

func (m *mockSlotRepo) GetByID(_ context.Context, id string) (*model.TimetableSlot, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	slot, ok := m.s.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := m.s.withRelations(slot)
	return &out, nil
}

func (m *mockSlotRepo) Update(_ context.Context, slot *model.TimetableSlot) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failErr != nil {
		return m.s.failErr
	}
	stored := *slot
	stored.Class, stored.Subject, stored.Teacher = nil, nil, nil
	m.s.slots[slot.SlotID] = &stored
	return nil
}

func (m *mockSlotRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failErr != nil {
		return m.s.failErr
	}
	if _, ok := m.s.slots[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.slots, id)
	return nil
}

func (m *mockSlotRepo) ListByClass(_ context.Context, classID string) ([]model.TimetableSlot, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	return m.s.sortedSlots(func(s *model.TimetableSlot) bool { return s.ClassID == classID }), nil
}

func (m *mockSlotRepo) ListByTeacherAndDay(_ context.Context, teacherID string, dayOfWeek int) ([]model.TimetableSlot, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	return m.s.sortedSlots(func(s *model.TimetableSlot) bool {
		return s.HasTeacher() && *s.TeacherID == teacherID && s.DayOfWeek == dayOfWeek
	}), nil
}

func (m *mockSlotRepo) ListByTeachers(_ context.Context, teacherIDs []string) ([]model.TimetableSlot, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if m.s.failErr != nil {
		return nil, m.s.failErr
	}
	want := make(map[string]bool, len(teacherIDs))
	for _, id := range teacherIDs {
		want[id] = true
	}
	return m.s.sortedSlots(func(s *model.TimetableSlot) bool {
		return s.HasTeacher() && want[*s.TeacherID]
	}), nil
}

func (m *mockSlotRepo) LockTeacherDay(_ context.Context, teacherID string, dayOfWeek int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failErr != nil {
		return m.s.failErr
	}
	m.s.lockedKeys = append(m.s.lockedKeys, fmt.Sprintf("%s:%d", teacherID, dayOfWeek))
	return nil
}
