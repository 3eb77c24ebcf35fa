package processor

import (
	"testing"
	"time"
)

func TestDayName(t *testing.T) {
	// 2024-01-07 is a Sunday
	want := []string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}
	for i, name := range want {
		day := time.Date(2024, time.January, 7+i, 12, 0, 0, 0, time.UTC)
		if got := NewStamp(day).Day; got != name {
			t.Errorf("%s: Day = %q, want %q", day.Format("2006-01-02"), got, name)
		}
	}
}

func TestNewStampFormats(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	// 1704848700000 ms is 2024-01-10 01:05 UTC
	at := time.UnixMilli(1704848700000).In(loc)

	s := NewStamp(at)
	if s.Date != "2024-01-10" || s.Clock != "09:05" || s.Day != "星期三" {
		t.Errorf("NewStamp = %+v", s)
	}
}

func TestStyleWithoutTimeHasEmptyStamp(t *testing.T) {
	s := Style{Text: "x", Time: time.Now(), HasTime: false}
	if got := s.stamp(); got != (Stamp{}) {
		t.Errorf("stamp = %+v, want empty", got)
	}
}
