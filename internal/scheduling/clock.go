// Package scheduling 实现课表排课的纯计算部分：时刻解析、
// 按 (教师, 星期) 分桶的有序区间索引以及教师时段冲突判定。
//
// 本包不访问存储，输入输出均为 model.TimetableSlot，
// 事务、加锁与持久化由 service 层负责。
package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock 一天内的时刻，单位为秒（0 ~ 86399）
// 用户输入只到分钟，存储层的 TIME 列可能带秒
type Clock int

// ParseClock 严格解析用户输入的 "HH:MM"
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("时间格式必须为 HH:MM: %q", s)
	}
	return parseHMS(s[:2], s[3:], "00")
}

// ClockOf 解析存储层返回的时刻，兼容 "HH:MM"、"HH:MM:SS" 与 "HH:MM:SS.ffffff"
// 小数秒向下取整
func ClockOf(s string) (Clock, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		return parseHMS(parts[0], parts[1], "00")
	case 3:
		sec := parts[2]
		if dot := strings.IndexByte(sec, '.'); dot >= 0 {
			if _, err := strconv.Atoi(sec[dot+1:]); err != nil {
				return 0, fmt.Errorf("无法解析时刻: %q", s)
			}
			sec = sec[:dot]
		}
		return parseHMS(parts[0], parts[1], sec)
	default:
		return 0, fmt.Errorf("无法解析时刻: %q", s)
	}
}

func parseHMS(hs, ms, ss string) (Clock, error) {
	h, err := strconv.Atoi(hs)
	if err != nil || len(hs) != 2 || h < 0 || h > 23 {
		return 0, fmt.Errorf("无效的小时: %q", hs)
	}
	m, err := strconv.Atoi(ms)
	if err != nil || len(ms) != 2 || m < 0 || m > 59 {
		return 0, fmt.Errorf("无效的分钟: %q", ms)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil || len(ss) != 2 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("无效的秒: %q", ss)
	}
	return Clock(h*3600 + m*60 + sec), nil
}

// String 格式化为 "HH:MM"，带秒时为 "HH:MM:SS"
func (c Clock) String() string {
	if c.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
	}
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Hour 小时部分
func (c Clock) Hour() int { return int(c) / 3600 }

// Minute 分钟部分
func (c Clock) Minute() int { return int(c) / 60 % 60 }

// Second 秒部分
func (c Clock) Second() int { return int(c) % 60 }

// Window 左闭右开的时间窗口 [Start, End)
type Window struct {
	Start Clock
	End   Clock
}

// NewWindow 构造时间窗口，要求 start < end
func NewWindow(start, end Clock) (Window, error) {
	if start >= end {
		return Window{}, fmt.Errorf("开始时间 %s 必须早于结束时间 %s", start, end)
	}
	return Window{Start: start, End: end}, nil
}

// Overlaps 两个左闭右开区间是否相交；首尾相接不算重叠
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

// Intersection 返回两个窗口的交集，仅在 Overlaps 为 true 时有意义
func (w Window) Intersection(o Window) Window {
	start, end := w.Start, w.End
	if o.Start > start {
		start = o.Start
	}
	if o.End < end {
		end = o.End
	}
	return Window{Start: start, End: end}
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
