package builtins

import (
	"time"

	"github.com/deepnoodle-ai/scripthost"
	lua "github.com/yuin/gopher-lua"
)

// registerTime adds the calendar functions. Values follow the C library's
// broken-down time: months 1-12, weekdays 0-6 from Sunday and day of year
// 0-365.
func registerTime(reg *scripthost.Registry, opts Options) {
	parts := []struct {
		name string
		get  func(t time.Time) int
	}{
		{"MonthOfYear", func(t time.Time) int { return int(t.Month()) }},
		{"DayOfMonth", func(t time.Time) int { return t.Day() }},
		{"Hour", func(t time.Time) int { return t.Hour() }},
		{"Minute", func(t time.Time) int { return t.Minute() }},
		{"Second", func(t time.Time) int { return t.Second() }},
		{"Year", func(t time.Time) int { return t.Year() }},
		{"Weekday", func(t time.Time) int { return int(t.Weekday()) }},
		{"DayOfYear", func(t time.Time) int { return t.YearDay() - 1 }},
	}
	for _, part := range parts {
		get := part.get
		reg.Register(part.name, func(L *lua.LState) int {
			scripthost.PushInt(L, get(opts.Now()))
			return 1
		})
	}

	reg.Register("Timestamp", func(L *lua.LState) int {
		utc := L.OptBool(1, false)
		now := opts.Now()
		if utc {
			now = now.UTC()
		}
		scripthost.PushString(L, now.Format(time.RFC3339))
		return 1
	})
}
