// Package completions — render.go собирает текст доски задач для /tasks.
package completions

import (
	"fmt"
	"strings"

	"serotonyl.ru/stamp-card/internal/common"
	"serotonyl.ru/stamp-card/internal/features/tasks"
)

// sectionOrder — порядок разделов доски.
var sectionOrder = []tasks.TaskType{
	tasks.TypeDailyRoutine,
	tasks.TypeWeeklyRoutine,
	tasks.TypeUrgent,
	tasks.TypeSomeday,
}

var sectionIcons = map[tasks.TaskType]string{
	tasks.TypeDailyRoutine:  "📅",
	tasks.TypeWeeklyRoutine: "🗓",
	tasks.TypeUrgent:        "🔥",
	tasks.TypeSomeday:       "🌙",
}

// RenderBoard показывает задачи по разделам.
// Номер задачи — её позиция в общем списке, по нему работают /done, /undo, /edit, /del.
func RenderBoard(board *Board) string {
	if len(board.Entries) == 0 {
		return "📋 Задач пока нет.\nДобавь первую: /add daily Зарядка"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Задачи на %s\n", common.FormatSlotDate(board.Date))

	for _, taskType := range sectionOrder {
		var lines []string
		for i, e := range board.Entries {
			if e.Task.Type == taskType {
				lines = append(lines, renderEntry(i+1, e))
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s %s\n", sectionIcons[taskType], taskType.Title())
		for _, line := range lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderEntry(n int, e Entry) string {
	mark := "⬜"
	if e.Completed {
		mark = "✅"
	}
	line := fmt.Sprintf("%d. %s %s · %s", n, mark, e.Task.Title, common.FormatPoints(e.Task.Points))

	switch e.Task.Type {
	case tasks.TypeWeeklyRoutine:
		slots := make([]string, 0, e.Task.WeeklyCount)
		for i := 0; i < e.Task.WeeklyCount; i++ {
			if i < len(e.Slots) {
				slots = append(slots, "▪️"+common.FormatSlotDate(e.Slots[i].Date))
			} else {
				slots = append(slots, "▫️")
			}
		}
		line += " · " + strings.Join(slots, " ")
	case tasks.TypeUrgent, tasks.TypeSomeday:
		if e.Task.Deadline != nil {
			line += " · до " + common.FormatSlotDate(*e.Task.Deadline)
		}
	}
	return line
}
