package e

import "fmt"

var (
	// Внутренние ошибки хранилища каталога
	ErrStateNotFound    = fmt.Errorf("catalog state not found")
	ErrCorruptState     = fmt.Errorf("catalog state is corrupt")
	ErrSeedInvalid      = fmt.Errorf("seed dataset is invalid")
	ErrStoreNotLoaded   = fmt.Errorf("catalog store is not loaded")
	ErrArchiveDisabled  = fmt.Errorf("snapshot archive is not configured")
	ErrNotifierDisabled = fmt.Errorf("change notifier is not configured")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrUnknownStorageDriver = fmt.Errorf("unknown storage driver")
	ErrUnknownEditPolicy    = fmt.Errorf("unknown edit policy")

	// 400 Bad Request
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrInvalidJSON         = fmt.Errorf("invalid json body")
	ErrMissingFields       = fmt.Errorf("missing required fields")
	ErrValidation          = fmt.Errorf("validation failed")
	ErrInvalidPrice        = fmt.Errorf("invalid price")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrNoDimensions        = fmt.Errorf("product must have at least one dimension")

	// 404 Not Found
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrCategoryNotFound = fmt.Errorf("category not found")
	ErrMessageNotFound  = fmt.Errorf("message not found")

	// 409 Conflict
	ErrSlugTaken      = fmt.Errorf("slug is already taken")
	ErrCategoryExists = fmt.Errorf("category id or slug is already taken")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
