package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type conflictErr struct{}

func (conflictErr) Error() string { return "冲突" }
func (conflictErr) Kind() Kind    { return KindConflict }

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(stderrors.New("boom")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad %s", "input")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("外层: %w", NotFound("班级不存在"))))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("外层: %w", conflictErr{})))
	assert.True(t, IsKind(Unavailable(context.DeadlineExceeded), KindUnavailable))
}

func TestError_UnwrapAndMessage(t *testing.T) {
	err := Unavailable(context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "存储服务暂不可用，请稍后重试", MessageOf(err))
	assert.Contains(t, err.Error(), "deadline exceeded")

	assert.Equal(t, "冲突", MessageOf(conflictErr{}))
	assert.Equal(t, "服务器内部错误", MessageOf(stderrors.New("raw")))
}

func TestSentinelIdentity(t *testing.T) {
	sentinel := NotFound("课时不存在")
	wrapped := fmt.Errorf("删除失败: %w", sentinel)
	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, wrapped, NotFound("课时不存在"))
}
