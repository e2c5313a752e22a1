package domain

import (
	"fmt"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// Status: состояние товара в жизненном цикле.
// StatusDeleted терминальное и не хранится: удаление означает отсутствие записи.
type Status string

const (
	StatusAll      Status = ""
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

// ParseStatus разбирает фильтр списка. "all" и пустая строка означают все товары.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusArchived:
		return Status(s), nil
	case StatusAll, "all":
		return StatusAll, nil
	default:
		return "", e.ErrInvalidStatus
	}
}

// Archived возвращает значение is_archived для фильтра. ok=false для StatusAll.
func (s Status) Archived() (archived bool, ok bool) {
	switch s {
	case StatusActive:
		return false, true
	case StatusArchived:
		return true, true
	default:
		return false, false
	}
}

// Toggle переключает фильтр списка между активными и архивными товарами.
func (s Status) Toggle() Status {
	if s == StatusArchived {
		return StatusActive
	}
	return StatusArchived
}

// Action: действие пользователя над товаром.
type Action string

const (
	ActionEdit    Action = "edit"
	ActionArchive Action = "archive"
	ActionRestore Action = "restore"
	ActionDelete  Action = "delete"
)

type transitionKey struct {
	from   Status
	action Action
}

// transitions: все разрешённые переходы. Прямого перехода Active -> Deleted нет.
var transitions = map[transitionKey]Status{
	{StatusActive, ActionEdit}:      StatusActive,
	{StatusActive, ActionArchive}:   StatusArchived,
	{StatusArchived, ActionRestore}: StatusActive,
	{StatusArchived, ActionDelete}:  StatusDeleted,
}

// Transition возвращает состояние после действия или ErrTransitionNotAllowed.
func Transition(from Status, action Action) (Status, error) {
	to, ok := transitions[transitionKey{from, action}]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s %s product", e.ErrTransitionNotAllowed, action, from)
	}
	return to, nil
}

// AllowedActions возвращает действия, доступные для товара в данном состоянии, в порядке отображения.
func AllowedActions(from Status) []Action {
	order := []Action{ActionEdit, ActionArchive, ActionDelete, ActionRestore}
	result := make([]Action, 0, 2)
	for _, a := range order {
		if _, ok := transitions[transitionKey{from, a}]; ok {
			result = append(result, a)
		}
	}
	return result
}

// ConfirmationPrompt возвращает вопрос, который задаётся пользователю перед действием.
func ConfirmationPrompt(action Action) string {
	switch action {
	case ActionDelete:
		return "Are you sure you want to permanently delete this product?"
	default:
		return fmt.Sprintf("Are you sure you want to %s this product?", action)
	}
}
