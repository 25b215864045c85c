package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	pkgapi "github.com/iudanet/gophboard/pkg/api"
)

// Error - нормализованная ошибка запроса
type Error struct {
	Message string
	Details json.RawMessage
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

// Options - параметры запроса
type Options struct {
	// Body сериализуется в JSON; []byte и json.RawMessage отправляются как есть
	Body    any
	Headers map[string]string
	Method  string
}

func (o *Options) method() string {
	if o.Method == "" {
		return http.MethodGet
	}
	return o.Method
}

func (o *Options) bodyReader() (io.Reader, error) {
	switch b := o.Body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

// Response - результат Request. Ровно одно из Body/Err осмысленно:
// при Err != nil тело не используется.
type Response struct {
	Err    *Error
	Header http.Header
	Body   json.RawMessage
	Kind   pkgapi.EnvelopeKind
	Status int
}

// OK reports whether the request succeeded
func (r *Response) OK() bool {
	return r.Err == nil
}

func failure(status int, msg string, details json.RawMessage) *Response {
	return &Response{
		Err: &Error{
			Message: msg,
			Details: details,
			Status:  status,
		},
		Status: status,
	}
}

// FetchResult - типизированный результат: ровно одно из Data/Err не nil
type FetchResult[T any] struct {
	Data   *T
	Err    *Error
	Status int
}

// Fetch выполняет Request и декодирует payload в T
func Fetch[T any](ctx context.Context, c *Client, target string, opts *Options) FetchResult[T] {
	return Decode[T](c.Request(ctx, target, opts))
}

// Decode converts a Response into a typed result.
// Пустое тело успешного ответа дает нулевое значение T.
func Decode[T any](resp *Response) FetchResult[T] {
	if resp.Err != nil {
		return FetchResult[T]{Err: resp.Err, Status: resp.Status}
	}

	var data T
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return FetchResult[T]{
				Err: &Error{
					Message: fmt.Sprintf("failed to decode response: %v", err),
					Status:  http.StatusInternalServerError,
				},
				Status: http.StatusInternalServerError,
			}
		}
	}

	return FetchResult[T]{Data: &data, Status: resp.Status}
}
