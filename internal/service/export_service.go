package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yuktaemrith12/ConnectEd/config"
	"github.com/yuktaemrith12/ConnectEd/internal/dto"
	"github.com/yuktaemrith12/ConnectEd/internal/model"
	"github.com/yuktaemrith12/ConnectEd/internal/repository"
	"github.com/yuktaemrith12/ConnectEd/internal/scheduling"
	pkgerrors "github.com/yuktaemrith12/ConnectEd/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = pkgerrors.New(pkgerrors.KindInternal, "生成导出文件失败")
)

// ExportService 课表导出业务接口
//
// 设计说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel：行为不同的时间窗口，列为周一至周五，单元格为 "科目 (教师)"
//   - ICS：每个课时一个按周重复的事件，首次发生在学期起始周对应的工作日
type ExportService interface {
	TimetableXLSX(ctx context.Context, caller dto.Caller, classID string) (*bytes.Buffer, string, error)
	TimetableICS(ctx context.Context, caller dto.Caller, classID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.TimetableConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.TimetableConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// TimetableXLSX: 导出班级课表为 Excel
// ═══════════════════════════════════════════════════════════

func (s *exportService) TimetableXLSX(ctx context.Context, caller dto.Caller, classID string) (*bytes.Buffer, string, error) {
	class, slots, err := s.load(ctx, caller, classID)
	if err != nil {
		return nil, "", err
	}

	// 1. 收集不同的时间窗口作为行
	type rowKey struct{ start, end string }
	rowSet := make(map[rowKey]struct{})
	cells := make(map[string][]string) // "day|start|end" → 单元格内容
	for i := range slots {
		slot := &slots[i]
		rk := rowKey{displayClock(slot.StartTime), displayClock(slot.EndTime)}
		rowSet[rk] = struct{}{}
		key := fmt.Sprintf("%d|%s|%s", slot.DayOfWeek, rk.start, rk.end)
		cells[key] = append(cells[key], slotLabel(slot))
	}
	rows := make([]rowKey, 0, len(rowSet))
	for rk := range rowSet {
		rows = append(rows, rk)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].start != rows[j].start {
			return rows[i].start < rows[j].start
		}
		return rows[i].end < rows[j].end
	})

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	for day := model.FirstWorkday; day <= model.LastWorkday; day++ {
		col := colName(day)
		f.SetColWidth(sheetName, col, col, 24)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	bodyStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s Timetable", class.Name))
	f.MergeCell(sheetName, "A1", cell(colName(model.LastWorkday), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Time")
	for day := model.FirstWorkday; day <= model.LastWorkday; day++ {
		f.SetCellValue(sheetName, cell(colName(day), row), DayLabel(day))
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(model.LastWorkday), row), headerStyle)

	// 数据行
	row = 3
	for _, rk := range rows {
		f.SetCellValue(sheetName, cell("A", row), fmt.Sprintf("%s-%s", rk.start, rk.end))
		for day := model.FirstWorkday; day <= model.LastWorkday; day++ {
			key := fmt.Sprintf("%d|%s|%s", day, rk.start, rk.end)
			text := "-"
			if labels, ok := cells[key]; ok {
				text = strings.Join(labels, "\n")
			}
			f.SetCellValue(sheetName, cell(colName(day), row), text)
		}
		row++
	}
	if len(rows) > 0 {
		f.SetCellStyle(sheetName, "A3", cell(colName(model.LastWorkday), row-1), bodyStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("class_id", classID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("timetable_%s.xlsx", fileSafe(class.Name)), nil
}

// ═══════════════════════════════════════════════════════════
// TimetableICS: 导出班级课表为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) TimetableICS(ctx context.Context, caller dto.Caller, classID string) (*bytes.Buffer, string, error) {
	class, slots, err := s.load(ctx, caller, classID)
	if err != nil {
		return nil, "", err
	}

	termStart, err := s.cfg.TermStartDate()
	if err != nil {
		s.logger.Error("学期起始日期无效", zap.String("term_start", s.cfg.TermStart), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	monday := weekMonday(termStart)
	stamp := time.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ConnectEd//Timetable//EN")

	for i := range slots {
		slot := &slots[i]
		w, err := scheduling.SlotWindow(slot)
		if err != nil {
			s.logger.Error("课时时间无效，跳过导出", zap.String("slot_id", slot.SlotID), zap.Error(err))
			continue
		}
		date := monday.AddDate(0, 0, slot.DayOfWeek-1)
		start := atClock(date, w.Start)
		end := atClock(date, w.End)

		event := cal.AddEvent(fmt.Sprintf("%s@connected", slot.SlotID))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(slotLabel(slot))
		event.SetDescription(fmt.Sprintf("%s, period %d", class.Name, slot.PeriodNo))
		event.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("timetable_%s.ics", fileSafe(class.Name)), nil
}

// ── 辅助函数 ──

func (s *exportService) load(ctx context.Context, caller dto.Caller, classID string) (*model.Class, []model.TimetableSlot, error) {
	if err := authorize(caller); err != nil {
		return nil, nil, err
	}
	classID, err := canonicalID(classID, ErrClassNotFound)
	if err != nil {
		return nil, nil, err
	}
	class, err := s.repo.Class.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrClassNotFound
		}
		return nil, nil, storeFailure(s.logger, "查询班级失败", err, zap.String("class_id", classID))
	}
	slots, err := s.repo.TimetableSlot.ListByClass(ctx, classID)
	if err != nil {
		return nil, nil, storeFailure(s.logger, "查询课表失败", err, zap.String("class_id", classID))
	}
	return class, slots, nil
}

// slotLabel 单元格 / 事件标题："科目 (教师)"
func slotLabel(slot *model.TimetableSlot) string {
	subject := slot.SubjectID
	if slot.Subject != nil {
		subject = slot.Subject.Name
	}
	if slot.Teacher != nil {
		return fmt.Sprintf("%s (%s)", subject, slot.Teacher.FullName)
	}
	return subject
}

// weekMonday 返回 t 所在周的周一
func weekMonday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func atClock(date time.Time, c scheduling.Clock) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), c.Second(), 0, date.Location())
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
