package domain

import (
	"strings"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// CategoryPolicy описывает, какие категории допустимы для товара.
type CategoryPolicy struct {
	allowed  []string
	index    map[string]string
	freeText bool
}

// NewCategoryPolicy создаёт политику по списку категорий.
// При freeText допускается любая непустая категория, а список служит подсказкой для форм.
func NewCategoryPolicy(allowed []string, freeText bool) *CategoryPolicy {
	index := make(map[string]string, len(allowed))
	list := make([]string, 0, len(allowed))
	for _, c := range allowed {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = c
		list = append(list, c)
	}

	return &CategoryPolicy{allowed: list, index: index, freeText: freeText}
}

// Categories возвращает копию списка категорий.
func (c *CategoryPolicy) Categories() []string {
	return append([]string(nil), c.allowed...)
}

// Normalize проверяет категорию и приводит её к каноническому написанию из списка.
func (c *CategoryPolicy) Normalize(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", e.ErrCategoryRequired
	}

	if canonical, ok := c.index[strings.ToLower(category)]; ok {
		return canonical, nil
	}

	if c.freeText {
		return category, nil
	}

	return "", e.ErrUnknownCategory
}
