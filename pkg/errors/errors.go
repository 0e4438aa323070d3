package errors

import "fmt"

var (
	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
	ErrConflict   = fmt.Errorf("конфликт данных")

	// Доменные
	ErrRegistryNotFound     = fmt.Errorf("журнал регистрации не найден: %w", ErrNotFound)
	ErrRegistrationNotFound = fmt.Errorf("регистрационная запись не найдена: %w", ErrNotFound)
	ErrAttachmentNotFound   = fmt.Errorf("вложение не найдено: %w", ErrNotFound)
	ErrCategoryNotFound     = fmt.Errorf("категория не найдена: %w", ErrNotFound)
	ErrRecipientNotFound    = fmt.Errorf("получатель не найден: %w", ErrNotFound)
	ErrDocumentTypeNotFound = fmt.Errorf("тип документа не найден: %w", ErrNotFound)

	ErrDuplicateNumber = fmt.Errorf("регистрационный номер уже занят: %w", ErrConflict)
	ErrDuplicateCode   = fmt.Errorf("код журнала уже используется: %w", ErrConflict)

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")
	ErrUnauthorized            = fmt.Errorf("неавторизован")
	ErrForbidden               = fmt.Errorf("доступ запрещён")
)

// InvalidInputError — ошибка валидации входных данных.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// NumberParseError — существующий регистрационный номер не удалось разобрать.
// Такая ошибка фатальна для выдачи номеров: молчаливый откат к единице
// привёл бы к дублированию номеров.
type NumberParseError struct {
	Raw    string
	Reason string
}

func (e *NumberParseError) Error() string {
	return fmt.Sprintf("не удалось разобрать регистрационный номер %q: %s", e.Raw, e.Reason)
}

// StorageError — ошибка файловой системы (запись, переименование, удаление).
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ошибка файлового хранилища (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}
