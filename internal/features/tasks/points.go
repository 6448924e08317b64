// Package tasks — points.go распределяет 100 баллов между задачами рутины
// и строит изменения при добавлении, правке и удалении задач.
//
// Инвариант: все активные задачи одного типа рутины имеют одинаковую цену слота
// floor(100 / N), где N — число слотов. При любом изменении N пересчитываются
// ВСЕ задачи типа сразу, в одной транзакции.
package tasks

import "serotonyl.ru/stamp-card/internal/common"

// CalcRoutinePoints возвращает цену одного слота рутины.
// Остаток от деления (100 mod N) никому не достаётся.
//
// Примеры:
//
//	CalcRoutinePoints(1) → 100
//	CalcRoutinePoints(3) → 33
//	CalcRoutinePoints(0) → 0
func CalcRoutinePoints(slotCount int) int {
	if slotCount <= 0 {
		return 0
	}
	return RoutinePool / slotCount
}

// SlotCount считает слоты рутины типа taskType среди tasks:
// для ежедневной — число задач, для недельной — сумма WeeklyCount.
// Для остальных типов слотов нет.
func SlotCount(tasks []*Task, taskType TaskType) int {
	slots := 0
	for _, t := range tasks {
		if t.Type != taskType {
			continue
		}
		switch taskType {
		case TypeDailyRoutine:
			slots++
		case TypeWeeklyRoutine:
			slots += t.WeeklyCount
		}
	}
	return slots
}

// PlanAdd строит изменение для новой задачи task.
// Для рутины цена пересчитывается с учётом новой задачи, и все
// существующие задачи типа получают ту же цену.
func PlanAdd(siblings []*Task, task *Task) *Change {
	change := &Change{Create: task}
	if !task.Type.IsRoutine() {
		return change
	}

	all := append(append(make([]*Task, 0, len(siblings)+1), siblings...), task)
	points := CalcRoutinePoints(SlotCount(all, task.Type))
	task.Points = points
	change.SiblingIDs = ids(siblings)
	change.SiblingPoints = points
	return change
}

// PlanEdit применяет правку edit к задаче с ID taskID.
// Смена WeeklyCount у недельной рутины пересчитывает цену всех задач типа.
// Для ежедневной рутины меняется только название.
func PlanEdit(siblings []*Task, taskID string, edit TaskEdit) (*Change, error) {
	current := find(siblings, taskID)
	if current == nil {
		return nil, common.ErrTaskNotFound
	}

	updated := *current
	if edit.Title != nil {
		updated.Title = *edit.Title
	}

	change := &Change{Update: &updated}

	switch updated.Type {
	case TypeWeeklyRoutine:
		if edit.WeeklyCount == nil || *edit.WeeklyCount == current.WeeklyCount {
			return change, nil
		}
		updated.WeeklyCount = *edit.WeeklyCount

		next := make([]*Task, 0, len(siblings))
		for _, t := range siblings {
			if t.ID == taskID {
				next = append(next, &updated)
				continue
			}
			next = append(next, t)
		}
		points := CalcRoutinePoints(SlotCount(next, TypeWeeklyRoutine))
		updated.Points = points
		change.SiblingIDs = ids(without(siblings, taskID))
		change.SiblingPoints = points

	case TypeUrgent, TypeSomeday:
		if edit.Points != nil {
			updated.Points = *edit.Points
		}
		if edit.Deadline != nil {
			if *edit.Deadline == "" {
				updated.Deadline = nil
			} else {
				d := *edit.Deadline
				updated.Deadline = &d
			}
		}
	}

	return change, nil
}

// PlanDelete мягко удаляет задачу и, если это рутина,
// пересчитывает цену оставшихся задач типа.
func PlanDelete(siblings []*Task, taskID string) (*Change, error) {
	current := find(siblings, taskID)
	if current == nil {
		return nil, common.ErrTaskNotFound
	}

	change := &Change{DeactivateID: taskID}
	if !current.Type.IsRoutine() {
		return change, nil
	}

	remaining := without(siblings, taskID)
	if len(remaining) == 0 {
		return change, nil
	}
	change.SiblingIDs = ids(remaining)
	change.SiblingPoints = CalcRoutinePoints(SlotCount(remaining, current.Type))
	return change, nil
}

func find(tasks []*Task, id string) *Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func without(tasks []*Task, id string) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func ids(tasks []*Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
