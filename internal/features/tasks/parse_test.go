package tasks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/stamp-card/internal/common"
)

func TestParseAdd(t *testing.T) {
	tests := []struct {
		input string
		want  NewTask
	}{
		{"daily Зарядка утром", NewTask{Title: "Зарядка утром", Type: TypeDailyRoutine}},
		{"день 10 отжиманий", NewTask{Title: "10 отжиманий", Type: TypeDailyRoutine}},
		{"weekly 3 Бассейн", NewTask{Title: "Бассейн", Type: TypeWeeklyRoutine, WeeklyCount: 3}},
		{"неделя Бег", NewTask{Title: "Бег", Type: TypeWeeklyRoutine}},
		{"срочно 40 Отчёт @2026-10-20", NewTask{Title: "Отчёт", Type: TypeUrgent, Points: 40, Deadline: "2026-10-20"}},
		{"потом 15 Разобрать шкаф", NewTask{Title: "Разобрать шкаф", Type: TypeSomeday, Points: 15}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAdd(strings.Fields(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAdd_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", common.ErrUsage},
		{"daily", common.ErrUsage},
		{"monthly Чтение", common.ErrInvalidTaskType},
		{"срочно Отчёт", common.ErrInvalidPoints},
		{"срочно 40", common.ErrEmptyTitle},
		{"weekly 2 @2026-10-20", common.ErrEmptyTitle},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseAdd(strings.Fields(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseEdit(t *testing.T) {
	n, edit, err := ParseEdit(strings.Fields("2 название Утренняя зарядка"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NotNil(t, edit.Title)
	assert.Equal(t, "Утренняя зарядка", *edit.Title)

	_, edit, err = ParseEdit(strings.Fields("1 раз 4"))
	require.NoError(t, err)
	require.NotNil(t, edit.WeeklyCount)
	assert.Equal(t, 4, *edit.WeeklyCount)

	_, edit, err = ParseEdit(strings.Fields("3 points 25"))
	require.NoError(t, err)
	require.NotNil(t, edit.Points)
	assert.Equal(t, 25, *edit.Points)

	_, edit, err = ParseEdit(strings.Fields("3 дедлайн -"))
	require.NoError(t, err)
	require.NotNil(t, edit.Deadline)
	assert.Equal(t, "", *edit.Deadline)

	_, edit, err = ParseEdit(strings.Fields("3 дедлайн @2026-11-01"))
	require.NoError(t, err)
	assert.Equal(t, "2026-11-01", *edit.Deadline)
}

func TestParseEdit_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"1 название", common.ErrUsage},
		{"x название Бег", common.ErrUsage},
		{"1 цвет синий", common.ErrUsage},
		{"1 раз много", common.ErrInvalidWeeklyCount},
		{"1 баллы десять", common.ErrInvalidPoints},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, _, err := ParseEdit(strings.Fields(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseNumber(t *testing.T) {
	n, err := ParseNumber([]string{"#3"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, args := range [][]string{nil, {"0"}, {"-2"}, {"abc"}} {
		_, err := ParseNumber(args)
		assert.ErrorIs(t, err, common.ErrUsage, "%v", args)
	}
}
