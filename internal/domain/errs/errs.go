// Package errs описывает виды ошибок, которые сервисы возвращают наружу.
// HTTP-слой переводит их в коды ответа и короткие сообщения на немецком.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrReferential     = errors.New("referenced by other records")
	ErrNotFound        = errors.New("not found")
	ErrPartialFailure  = errors.New("partially applied")
	ErrUnexpected      = errors.New("unexpected error")
)

// ValidationError собирает ошибки по полям. Всегда оборачивает ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, e.Summary())
}

// Summary перечисляет поля в алфавитном порядке: "field: msg; field: msg".
func (e *ValidationError) Summary() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PartialFailureError сообщает, какие шаги многошаговой записи успели
// примениться, а какие нет.
type PartialFailureError struct {
	Op        string
	Committed []string
	Failed    []string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: %s (committed: %d, failed: %d): %v",
		e.Op, ErrPartialFailure, len(e.Committed), len(e.Failed), e.Err)
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}

// StorageCleanupWarning - неудачное удаление файла из хранилища.
// Не блокирует операцию, строка в БД всё равно удаляется.
type StorageCleanupWarning struct {
	Path string
	Err  error
}

func (w StorageCleanupWarning) String() string {
	return fmt.Sprintf("storage cleanup failed for %q: %v", w.Path, w.Err)
}

// Unexpected заворачивает неклассифицированную ошибку, сохраняя исходное сообщение.
func Unexpected(err error) error {
	if err == nil {
		return nil
	}
	if Classified(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnexpected, err)
}

func Classified(err error) bool {
	for _, kind := range []error{
		ErrUnauthenticated, ErrValidation, ErrConflict, ErrReferential,
		ErrNotFound, ErrPartialFailure, ErrUnexpected,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// Message возвращает короткое сообщение для оператора или посетителя сайта.
func Message(err error) string {
	var verr *ValidationError
	var perr *PartialFailureError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &perr):
		return fmt.Sprintf("Teilweise gespeichert (%d erfolgreich, %d fehlgeschlagen): %v",
			len(perr.Committed), len(perr.Failed), perr.Err)
	case errors.Is(err, ErrUnauthenticated):
		return "Nicht authentifiziert"
	case errors.As(err, &verr):
		return "Ungültige Eingabe: " + verr.Summary()
	case errors.Is(err, ErrValidation):
		return "Ungültige Eingabe"
	case errors.Is(err, ErrReferential):
		return "Diese Kategorie wird noch verwendet und kann nicht gelöscht werden"
	case errors.Is(err, ErrConflict):
		return "Eintrag existiert bereits: " + err.Error()
	case errors.Is(err, ErrNotFound):
		return "Nicht gefunden"
	default:
		return "Unerwarteter Fehler: " + err.Error()
	}
}
