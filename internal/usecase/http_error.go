package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// handlerでそのままステータスとメッセージに変換されるエラー
type HTTPError struct {
	Status  int
	Message string
	//ログ用。レスポンスには出さない
	Cause error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Cause }

func NewHTTPError(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

func WrapHTTPError(status int, message string, cause error) error {
	return &HTTPError{Status: status, Message: message, Cause: cause}
}

// repositoryの想定外エラー（500）
func dbError(err error) error {
	return WrapHTTPError(http.StatusInternalServerError, "db error", err)
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
