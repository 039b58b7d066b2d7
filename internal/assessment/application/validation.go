package application

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag = "notblank"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// エラーメッセージには JSON タグ名を使う。
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		if str, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(str) != ""
		}
		return false
	})
	_ = validate.RegisterTranslation(notBlankTag, translator, func(ut.Translator) error { return nil },
		func(_ ut.Translator, _ validator.FieldError) string { return "this field cannot be blank" })
}

// FieldErrors は入力検証の失敗。キーは JSON フィールド名。
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Check は validate タグに従って構造体を検証する。
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), reflectTypeName(v)+".")
		if key == "" {
			key = fe.Field()
		}
		fields[key] = fe.Translate(translator)
	}
	return fields
}

// IsValidationError は 400 として返すべき入力エラーかどうかを判定する。
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var fields FieldErrors
	var verr *domain.ValidationError
	var terr *domain.TemplateValidationError
	return errors.As(err, &fields) || errors.As(err, &verr) || errors.As(err, &terr)
}

func reflectTypeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
