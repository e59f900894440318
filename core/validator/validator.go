package validator

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Validator 校验器接口
type Validator interface {
	// Struct 校验结构体
	Struct(s any) error
	// StructCtx 带上下文校验结构体
	StructCtx(ctx context.Context, s any) error
}

// ValidationOption 校验器选项
type ValidationOption func(*validatorImpl)

// WithLanguage 设置错误消息语言 ("en" / "zh")
func WithLanguage(lang string) ValidationOption {
	return func(v *validatorImpl) {
		v.lang = lang
	}
}

// validatorImpl 校验器实现
type validatorImpl struct {
	validator   *validator.Validate
	translators map[string]ut.Translator
	lang        string
}

// Validate 全局校验器实例
var (
	Validate Validator
	once     sync.Once
)

func init() {
	once.Do(func() {
		Validate = New()
	})
}

// New 创建新的校验器实例，注册 notblank 并使用 json 标签作为字段名
func New(opts ...ValidationOption) Validator {
	v := &validatorImpl{
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		translators: make(map[string]ut.Translator, 2),
		lang:        "en",
	}

	for _, opt := range opts {
		opt(v)
	}

	_ = v.validator.RegisterValidation("notblank", validators.NotBlank)
	v.validator.RegisterTagNameFunc(jsonFieldName)

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, zh.New())
	if trans, ok := uni.GetTranslator("en"); ok {
		_ = en_translations.RegisterDefaultTranslations(v.validator, trans)
		registerNotBlank(v.validator, trans, "{0} must not be blank")
		v.translators["en"] = trans
	}
	if trans, ok := uni.GetTranslator("zh"); ok {
		_ = zh_translations.RegisterDefaultTranslations(v.validator, trans)
		registerNotBlank(v.validator, trans, "{0}不能为空")
		v.translators["zh"] = trans
	}

	return v
}

// Struct 校验结构体
func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validator.Struct(s))
}

// StructCtx 带上下文校验结构体
func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.translate(v.validator.StructCtx(ctx, s))
}

// translate 把 validator.ValidationErrors 转换为带翻译消息的 *Errors
func (v *validatorImpl) translate(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	trans, ok := v.translators[v.lang]
	if !ok {
		trans = v.translators["en"]
	}

	out := &Errors{Fields: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: msg,
		})
	}
	return out
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func registerNotBlank(v *validator.Validate, trans ut.Translator, text string) {
	_ = v.RegisterTranslation("notblank", trans,
		func(ut ut.Translator) error {
			return ut.Add("notblank", text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("notblank", fe.Field())
			return t
		},
	)
}
