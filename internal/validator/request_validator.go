package validator

import (
	"errors"
	"fmt"
	"reflect"

	playground "github.com/go-playground/validator/v10"
)

// echoを通さない単体の値チェック用
var plain = playground.New()

// Varはタグで一つの値を検証する（例: "required,hexcolor"）
func Var(field interface{}, tag string) error {
	return plain.Var(field, tag)
}

// echo.Echo.Validator に入れるリクエスト検証
type RequestValidator struct {
	v *playground.Validate
}

func New() *RequestValidator {
	v := playground.New(playground.WithRequiredStructEnabled())

	// エラーメッセージ用。labelタグが無ければフィールド名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
		return f.Name
	})

	return &RequestValidator{v: v}
}

func (r *RequestValidator) Validate(i interface{}) error {
	return r.v.Struct(i)
}

// 最初のエラーを "<label> is required" / "<label> is invalid" にする
func Message(err error) string {
	var ves playground.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "invalid body"
	}

	fe := ves[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
