// Package tasks — parse.go разбирает аргументы команд /add и /edit.
package tasks

import (
	"strconv"
	"strings"

	"serotonyl.ru/stamp-card/internal/common"
)

// ParseAdd разбирает аргументы /add:
//
//	<тип> [число] <название> [@ГГГГ-ММ-ДД]
//
// Число — раз в неделю для недельной рутины (по умолчанию 1) и
// обязательные баллы для срочного и «когда-нибудь». У ежедневной
// рутины числа нет: всё после типа — название.
func ParseAdd(args []string) (NewTask, error) {
	if len(args) < 2 {
		return NewTask{}, common.ErrUsage
	}

	taskType, err := ParseTaskType(args[0])
	if err != nil {
		return NewTask{}, common.ErrInvalidTaskType
	}
	in := NewTask{Type: taskType}
	rest := args[1:]

	if last := rest[len(rest)-1]; strings.HasPrefix(last, "@") {
		in.Deadline = strings.TrimPrefix(last, "@")
		rest = rest[:len(rest)-1]
	}

	switch taskType {
	case TypeWeeklyRoutine:
		if len(rest) > 0 {
			if n, err := strconv.Atoi(rest[0]); err == nil {
				in.WeeklyCount = n
				rest = rest[1:]
			}
		}
	case TypeUrgent, TypeSomeday:
		if len(rest) == 0 {
			return NewTask{}, common.ErrInvalidPoints
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return NewTask{}, common.ErrInvalidPoints
		}
		in.Points = n
		rest = rest[1:]
	}

	in.Title = strings.Join(rest, " ")
	if strings.TrimSpace(in.Title) == "" {
		return NewTask{}, common.ErrEmptyTitle
	}
	return in, nil
}

// editFields — как поле можно назвать в /edit.
var editFields = map[string]string{
	"название": "title",
	"title":    "title",
	"name":     "title",
	"раз":      "count",
	"count":    "count",
	"times":    "count",
	"баллы":    "points",
	"points":   "points",
	"дедлайн":  "deadline",
	"deadline": "deadline",
	"срок":     "deadline",
}

// ParseEdit разбирает аргументы /edit:
//
//	<номер> название|раз|баллы|дедлайн <значение>
//
// Дедлайн «-» снимает его.
func ParseEdit(args []string) (int, TaskEdit, error) {
	if len(args) < 3 {
		return 0, TaskEdit{}, common.ErrUsage
	}

	n, err := ParseNumber(args[:1])
	if err != nil {
		return 0, TaskEdit{}, err
	}

	field, ok := editFields[strings.ToLower(args[1])]
	if !ok {
		return 0, TaskEdit{}, common.ErrUsage
	}
	value := strings.Join(args[2:], " ")

	var edit TaskEdit
	switch field {
	case "title":
		edit.Title = &value
	case "count":
		count, err := strconv.Atoi(value)
		if err != nil {
			return 0, TaskEdit{}, common.ErrInvalidWeeklyCount
		}
		edit.WeeklyCount = &count
	case "points":
		points, err := strconv.Atoi(value)
		if err != nil {
			return 0, TaskEdit{}, common.ErrInvalidPoints
		}
		edit.Points = &points
	case "deadline":
		deadline := strings.TrimPrefix(value, "@")
		if deadline == "-" {
			deadline = ""
		}
		edit.Deadline = &deadline
	}

	return n, edit, nil
}

// ParseNumber читает номер задачи или награды из первого аргумента.
func ParseNumber(args []string) (int, error) {
	if len(args) == 0 {
		return 0, common.ErrUsage
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || n < 1 {
		return 0, common.ErrUsage
	}
	return n, nil
}
