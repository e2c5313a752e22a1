package e

import (
	"errors"
	"fmt"
)

var (
	// Корневые категории ошибок. Все остальные ошибки оборачивают одну из них.
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store failure")

	// 400 Bad Request
	ErrProductNameRequired = fmt.Errorf("%w: product name is required", ErrValidation)
	ErrCategoryRequired    = fmt.Errorf("%w: category is required", ErrValidation)
	ErrUnknownCategory     = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrPriceRequired       = fmt.Errorf("%w: price is required", ErrValidation)
	ErrInvalidPrice        = fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	ErrPricePrecision      = fmt.Errorf("%w: price must have at most 2 decimal places", ErrValidation)
	ErrNoFieldsToUpdate    = fmt.Errorf("%w: no fields to update", ErrValidation)
	ErrInvalidID           = fmt.Errorf("%w: id must be a positive integer", ErrValidation)
	ErrInvalidStatus       = fmt.Errorf("%w: unknown product status", ErrValidation)
	ErrStatusBadRequest    = fmt.Errorf("%w: bad request", ErrValidation)

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)

	// 409 Conflict
	ErrTransitionNotAllowed = errors.New("transition is not allowed")

	// 428 Precondition Required
	ErrNotConfirmed = errors.New("action was not confirmed")

	// Внутренние ошибки
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrExportUnavailable    = fmt.Errorf("%w: export storage is not configured", ErrStore)
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")
	ErrInternalServerError  = errors.New("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Store оборачивает ошибку хранилища так, чтобы её можно было отличить от ошибок валидации и поиска.
// Ошибки, уже относящиеся к одной из категорий, только получают префикс op.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}

	if IsCategorized(err) {
		return Wrap(op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

// IsCategorized сообщает, относится ли ошибка к известной категории.
func IsCategorized(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStore) ||
		errors.Is(err, ErrTransitionNotAllowed)
}
