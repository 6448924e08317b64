package common

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSTDate_Format(t *testing.T) {
	got := GetJSTDate()
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), got)

	_, err := ParseDateKey(got)
	require.NoError(t, err, "дата должна разбираться обратно")
}

func TestGetJSTWeek_Format(t *testing.T) {
	got := GetJSTWeek()
	require.Regexp(t, regexp.MustCompile(`^\d{4}-W\d{2}$`), got)

	week, err := strconv.Atoi(strings.Split(got, "-W")[1])
	require.NoError(t, err)
	// 1–3 января бывает неделя 00 (см. TestWeekKey)
	assert.GreaterOrEqual(t, week, 0)
	assert.LessOrEqual(t, week, 53)
}

func TestWeekKey_EarlyJanuaryOfYearStartingWeekOnJan4(t *testing.T) {
	// 4 января 2027 — понедельник
	assert.Equal(t, "2027-W00", WeekKey(time.Date(2027, 1, 2, 12, 0, 0, 0, JST)))
	assert.Equal(t, "2027-W00", WeekKey(time.Date(2027, 1, 3, 23, 59, 0, 0, JST)))
	assert.Equal(t, "2027-W01", WeekKey(time.Date(2027, 1, 4, 0, 0, 0, 0, JST)))
}

func TestDateKey_UsesJST(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"полночь JST", time.Date(2026, 2, 24, 15, 0, 0, 0, time.UTC), "2026-02-25"},
		{"за секунду до полуночи JST", time.Date(2026, 2, 24, 14, 59, 59, 0, time.UTC), "2026-02-24"},
		{"другой пояс на входе", time.Date(2026, 12, 31, 10, 0, 0, 0, time.FixedZone("EST", -5*3600)), "2027-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DateKey(tt.in))
		})
	}
}

func TestWeekKey(t *testing.T) {
	jst := func(y int, m time.Month, d, h, min, s int) time.Time {
		return time.Date(y, m, d, h, min, s, 0, JST)
	}

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"1 января 2026 в неделе 1", jst(2026, 1, 1, 0, 0, 0), "2026-W01"},
		{"середина февраля", jst(2026, 2, 25, 12, 0, 0), "2026-W09"},
		{"воскресенье перед сменой недели", jst(2026, 3, 1, 23, 59, 59), "2026-W09"},
		{"понедельник, новая неделя", jst(2026, 3, 2, 0, 0, 0), "2026-W10"},
		// ISO дал бы 2026-W01; год в ключе не переносится
		{"конец декабря остаётся в своём году", jst(2025, 12, 31, 12, 0, 0), "2025-W53"},
		// 4 января 2021 — понедельник, 1–3 января раньше недели 1
		{"начало января до недели 1", jst(2021, 1, 2, 12, 0, 0), "2021-W00"},
		{"понедельник 4 января 2021", jst(2021, 1, 4, 0, 0, 0), "2021-W01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekKey(tt.in))
		})
	}
}

func TestWeekKey_IgnoresInputZone(t *testing.T) {
	// воскресенье 15:00 UTC = понедельник 00:00 JST
	utc := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-W10", WeekKey(utc))
}

func TestFormatSlotDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-02-25", "2/25"},
		{"2026-01-01", "1/1"},
		{"2026-10-05", "10/5"},
		{"2026-12-31", "12/31"},
		{"", ""},
		{"вчера", "вчера"},
		{"2026-xx-01", "2026-xx-01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSlotDate(tt.in))
		})
	}
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, int64(1), floorDiv(7, 7))
	assert.Equal(t, int64(0), floorDiv(6, 7))
	assert.Equal(t, int64(-1), floorDiv(-1, 7))
	assert.Equal(t, int64(-1), floorDiv(-7, 7))
	assert.Equal(t, int64(-2), floorDiv(-8, 7))
}
