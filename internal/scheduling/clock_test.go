package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(570*60), c)
	assert.Equal(t, "09:30", c.String())
	assert.Equal(t, 9, c.Hour())
	assert.Equal(t, 30, c.Minute())

	for _, bad := range []string{"", "9:30", "24:00", "12:60", "12-30", "ab:cd", "09:30:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestClockOf_StorageFormats(t *testing.T) {
	c, err := ClockOf("10:05:00")
	require.NoError(t, err)
	assert.Equal(t, "10:05", c.String())

	c, err = ClockOf("10:05")
	require.NoError(t, err)
	assert.Equal(t, "10:05", c.String())

	_, err = ClockOf("1005")
	assert.Error(t, err)
	_, err = ClockOf("10:05:60")
	assert.Error(t, err)
}

func TestClockOf_KeepsSeconds(t *testing.T) {
	c, err := ClockOf("13:00:30")
	require.NoError(t, err)
	assert.Equal(t, 13, c.Hour())
	assert.Equal(t, 0, c.Minute())
	assert.Equal(t, 30, c.Second())
	assert.Equal(t, "13:00:30", c.String())

	frac, err := ClockOf("13:00:30.750000")
	require.NoError(t, err)
	assert.Equal(t, c, frac, "小数秒向下取整")

	one, _ := ParseClock("13:00")
	assert.Less(t, int(one), int(c))

	// 带秒的结束时间与整分开始的窗口仍然重叠 30 秒
	stored, err := NewWindow(mustClockOf(t, "12:00:00"), c)
	require.NoError(t, err)
	next, err := NewWindow(one, mustClockOf(t, "14:00"))
	require.NoError(t, err)
	assert.True(t, stored.Overlaps(next))
	assert.Equal(t, "13:00-13:00:30", stored.Intersection(next).String())
}

func mustClockOf(t *testing.T, v string) Clock {
	t.Helper()
	c, err := ClockOf(v)
	require.NoError(t, err)
	return c
}

func TestWindow(t *testing.T) {
	mustWindow := func(a, b string) Window {
		s, _ := ParseClock(a)
		e, _ := ParseClock(b)
		w, err := NewWindow(s, e)
		require.NoError(t, err)
		return w
	}

	_, err := NewWindow(36000, 36000)
	assert.Error(t, err, "开始等于结束")
	_, err = NewWindow(39600, 36000)
	assert.Error(t, err, "开始晚于结束")

	nine := mustWindow("09:00", "10:00")
	assert.True(t, nine.Overlaps(mustWindow("09:30", "10:30")))
	assert.True(t, nine.Overlaps(mustWindow("09:15", "09:45")), "包含关系")
	assert.False(t, nine.Overlaps(mustWindow("10:00", "11:00")), "首尾相接不冲突")
	assert.False(t, nine.Overlaps(mustWindow("08:00", "09:00")), "首尾相接不冲突")

	assert.Equal(t, "09:30-10:00", nine.Intersection(mustWindow("09:30", "10:30")).String())
}
