package fetcher

import (
	"errors"
	"fmt"
)

// Kind classifies fetch failures into the categories surfaced to callers
type Kind string

const (
	KindProfileNotFound Kind = "profile_not_found"
	KindPrivateProfile  Kind = "private_profile"
	KindLoginRequired   Kind = "login_required"
	KindPostChanged     Kind = "post_changed"
	KindUnknown         Kind = "unknown"
)

// User-facing messages for each failure kind
const (
	msgProfileNotFound = "Perfil não encontrado"
	msgPrivateProfile  = "Post privado. Não é possível baixar sem autenticação."
	msgLoginRequired   = "Login necessário para este conteúdo"
	msgPostChanged     = "Post foi modificado ou deletado"
)

// Error is a classified fetch failure wrapping the underlying cause
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the message shown to the end user for this failure
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindProfileNotFound:
		return msgProfileNotFound
	case KindPrivateProfile:
		return msgPrivateProfile
	case KindLoginRequired:
		return msgLoginRequired
	case KindPostChanged:
		return msgPostChanged
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Kind)
	}
}

// UserMessage returns the user-facing message for any fetch error
func UserMessage(err error) string {
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		return fetchErr.UserMessage()
	}
	return err.Error()
}
