package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	deadline := "2026-10-20"
	assert.Equal(t, "Бассейн (На неделе, 3 раза) · 25 баллов",
		describe(&Task{Title: "Бассейн", Type: TypeWeeklyRoutine, WeeklyCount: 3, Points: 25}))
	assert.Equal(t, "Бег (На неделе, 5 раз) · 20 баллов",
		describe(&Task{Title: "Бег", Type: TypeWeeklyRoutine, WeeklyCount: 5, Points: 20}))
	assert.Equal(t, "Отчёт (Срочное) · 40 баллов · до 10/20",
		describe(&Task{Title: "Отчёт", Type: TypeUrgent, Points: 40, Deadline: &deadline}))
	assert.Equal(t, "Зарядка (Каждый день) · 1 балл",
		describe(&Task{Title: "Зарядка", Type: TypeDailyRoutine, Points: 1}))
}
