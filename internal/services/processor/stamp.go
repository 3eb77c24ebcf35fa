package processor

import "time"

var weekdayNames = [7]string{
	"星期日",
	"星期一",
	"星期二",
	"星期三",
	"星期四",
	"星期五",
	"星期六",
}

// Stamp is the formatted date/time shown in a watermark.
type Stamp struct {
	Date  string // YYYY-MM-DD
	Clock string // HH:mm
	Day   string
}

func NewStamp(t time.Time) Stamp {
	return Stamp{
		Date:  t.Format("2006-01-02"),
		Clock: t.Format("15:04"),
		Day:   DayName(t.Weekday()),
	}
}

// DayName returns the fixed label of a weekday, 0 being Sunday.
func DayName(d time.Weekday) string {
	return weekdayNames[int(d)%len(weekdayNames)]
}
