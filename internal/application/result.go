package application

import "github.com/oksasatya/user-service/pkg/validation"

// Kind classifies a failed Result so transports can pick a status code.
type Kind int

const (
	KindOK Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthentication
	KindInvalidCode
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindInvalidCode:
		return "invalid_code"
	default:
		return "internal"
	}
}

// Result is the envelope every account operation returns.
type Result[T any] struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *T                `json:"data"`
	Errors  validation.Errors `json:"errors"`
	Kind    Kind              `json:"-"`
}

func ok[T any](data *T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data, Kind: KindOK}
}

func fail[T any](kind Kind, message string) Result[T] {
	return Result[T]{Message: message, Kind: kind}
}

func invalid[T any](errs validation.Errors) Result[T] {
	return Result[T]{Message: msgValidationFailed, Errors: errs, Kind: KindValidation}
}

// Empty is the payload of operations that return no data.
type Empty struct{}
