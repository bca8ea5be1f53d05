package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind: hata sınıfı (HTTP katmanı durum kodunu buna göre seçer)
type Kind string

const (
	KindValidation Kind = "validation"
	KindState      Kind = "state"
	KindNotFound   Kind = "not_found"
	KindIntegrity  Kind = "integrity"
)

// Error: makine tarafından okunabilir kod + kullanıcı mesajı taşıyan domain hatası
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func State(code, format string, args ...any) *Error {
	return &Error{Kind: KindState, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Integrity(code string, err error, format string, args ...any) *Error {
	return &Error{Kind: KindIntegrity, Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf: *Error olmayan hatalar depolama katmanından gelir, integrity sayılır
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindIntegrity
}

func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// FromDB: gorm hatalarını taksonomiye çevirir, domain hataları olduğu gibi geçer
func FromDB(err error, what string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(what+"_not_found", "%s bulunamadı", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Integrity("duplicate_"+what, err, "%s için benzersizlik ihlali", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Integrity("foreign_key_"+what, err, "%s için yabancı anahtar ihlali", what)
	}
	return Integrity("storage_"+what, err, "%s kaydedilemedi", what)
}
