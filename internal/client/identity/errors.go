package identity

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoRefreshToken возвращается, если refresh token отсутствует
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrMissingCredentials возвращается при пустом email или пароле
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrUnauthorized соответствует ответу 401 identity провайдера
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError описывает неуспешный ответ identity провайдера
type StatusError struct {
	Message string
	Status  int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("identity error (%d): %s", e.Status, e.Message)
}

// Unwrap позволяет проверять 401 через errors.Is(err, ErrUnauthorized)
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}
