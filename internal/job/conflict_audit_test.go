package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yuktaemrith12/ConnectEd/config"
	"github.com/yuktaemrith12/ConnectEd/internal/dto"
)

type fakeClasses struct {
	classes []dto.ClassResponse
	err     error
}

func (f *fakeClasses) ListClasses(_ context.Context, caller dto.Caller) ([]dto.ClassResponse, error) {
	if !caller.IsAdmin() {
		return nil, errors.New("forbidden")
	}
	return f.classes, f.err
}

type fakeConflicts struct {
	byClass map[string]*dto.ConflictsResponse
	failFor string
}

func (f *fakeConflicts) Conflicts(_ context.Context, _ dto.Caller, classID string) (*dto.ConflictsResponse, error) {
	if classID == f.failFor {
		return nil, errors.New("store down")
	}
	if resp, ok := f.byClass[classID]; ok {
		return resp, nil
	}
	return &dto.ConflictsResponse{ClassID: classID}, nil
}

func TestConflictAudit_RunOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	classes := &fakeClasses{classes: []dto.ClassResponse{{ID: "3A"}, {ID: "3B"}, {ID: "3C"}}}
	conflicts := &fakeConflicts{
		byClass: map[string]*dto.ConflictsResponse{
			"3A": {
				ClassID: "3A",
				Count:   1,
				Conflicts: []dto.ConflictPair{{
					Slot:         dto.ConflictSlot{ID: "a1", DayOfWeek: 1},
					ConflictWith: dto.ConflictSlot{ID: "b1", DayOfWeek: 1},
					OverlapStart: "09:30",
					OverlapEnd:   "10:00",
				}},
			},
		},
		failFor: "3C",
	}

	audit := NewConflictAudit(classes, conflicts, zap.New(core))
	report, err := audit.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.ClassesScanned)
	assert.Equal(t, 1, report.PairsFound)
	assert.Equal(t, 1, report.Failed)

	warns := logs.FilterMessage("发现教师冲突").All()
	require.Len(t, warns, 1)
	assert.Equal(t, "a1", warns[0].ContextMap()["slot_id"])
	assert.Equal(t, "09:30-10:00", warns[0].ContextMap()["overlap"])
}

func TestConflictAudit_ListFailure(t *testing.T) {
	audit := NewConflictAudit(&fakeClasses{err: errors.New("down")}, &fakeConflicts{}, zap.NewNop())
	_, err := audit.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestConflictAudit_Cancelled(t *testing.T) {
	classes := &fakeClasses{classes: []dto.ClassResponse{{ID: "3A"}}}
	audit := NewConflictAudit(classes, &fakeConflicts{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := audit.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConflictAudit_Schedule(t *testing.T) {
	audit := NewConflictAudit(&fakeClasses{}, &fakeConflicts{}, zap.NewNop())

	_, err := audit.Schedule(&config.AuditConfig{Enabled: true, Spec: "not a spec"})
	assert.Error(t, err)

	c, err := audit.Schedule(&config.AuditConfig{Enabled: true, Spec: "@every 1h"})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
