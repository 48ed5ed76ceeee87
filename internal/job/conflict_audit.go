// Package job 后台定时任务。
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/yuktaemrith12/ConnectEd/config"
	"github.com/yuktaemrith12/ConnectEd/internal/dto"
)

// 巡检以系统身份调用查询服务
var systemCaller = dto.Caller{UserID: "system:conflict-audit", Role: dto.RoleAdmin}

// ClassLister 列出全部班级
type ClassLister interface {
	ListClasses(ctx context.Context, caller dto.Caller) ([]dto.ClassResponse, error)
}

// ConflictFinder 诊断单个班级的教师冲突
type ConflictFinder interface {
	Conflicts(ctx context.Context, caller dto.Caller, classID string) (*dto.ConflictsResponse, error)
}

// AuditReport 一次巡检的结果
type AuditReport struct {
	ClassesScanned int
	PairsFound     int
	Failed         int
}

// ConflictAudit 定期扫描所有班级的教师冲突
// 写入路径已保证不产生冲突，巡检用于发现批量导入等外部修改带来的冲突数据
type ConflictAudit struct {
	classes   ClassLister
	conflicts ConflictFinder
	timeout   time.Duration
	logger    *zap.Logger
}

// NewConflictAudit 创建冲突巡检任务
func NewConflictAudit(classes ClassLister, conflicts ConflictFinder, logger *zap.Logger) *ConflictAudit {
	return &ConflictAudit{
		classes:   classes,
		conflicts: conflicts,
		timeout:   5 * time.Minute,
		logger:    logger.Named("conflict_audit"),
	}
}

// RunOnce 执行一次巡检；单个班级失败不影响其他班级
func (a *ConflictAudit) RunOnce(ctx context.Context) (AuditReport, error) {
	var report AuditReport

	classes, err := a.classes.ListClasses(ctx, systemCaller)
	if err != nil {
		return report, fmt.Errorf("列出班级失败: %w", err)
	}

	for _, class := range classes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		resp, err := a.conflicts.Conflicts(ctx, systemCaller, class.ID)
		if err != nil {
			report.Failed++
			a.logger.Error("班级冲突诊断失败", zap.String("class_id", class.ID), zap.Error(err))
			continue
		}
		report.ClassesScanned++
		report.PairsFound += resp.Count
		for _, p := range resp.Conflicts {
			a.logger.Warn("发现教师冲突",
				zap.String("class_id", class.ID),
				zap.String("slot_id", p.Slot.ID),
				zap.String("conflict_with", p.ConflictWith.ID),
				zap.Int("day_of_week", p.Slot.DayOfWeek),
				zap.String("overlap", p.OverlapStart+"-"+p.OverlapEnd),
			)
		}
	}
	return report, nil
}

// Schedule 按配置注册并启动定时任务；调用方负责 Stop
func (a *ConflictAudit) Schedule(cfg *config.AuditConfig) (*cron.Cron, error) {
	cl := cronLogger{l: a.logger.Sugar()}
	c := cron.New(cron.WithChain(
		cron.Recover(cl),
		cron.SkipIfStillRunning(cl),
	))

	_, err := c.AddFunc(cfg.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		start := time.Now()
		report, err := a.RunOnce(ctx)
		if err != nil {
			a.logger.Error("冲突巡检失败", zap.Error(err))
			return
		}
		a.logger.Info("冲突巡检完成",
			zap.Int("classes_scanned", report.ClassesScanned),
			zap.Int("pairs_found", report.PairsFound),
			zap.Int("failed", report.Failed),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("注册冲突巡检任务失败 (spec=%q): %w", cfg.Spec, err)
	}

	c.Start()
	a.logger.Info("冲突巡检任务已启动", zap.String("spec", cfg.Spec))
	return c, nil
}

// cronLogger 将 cron 内部日志转接到 zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
