package service

import (
	"errors"
	"sync"

	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
)

// ValidationError - ошибка проверки входных данных с переведенным текстом
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type structValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	validatorOnce   sync.Once
	sharedValidator *structValidator
	validatorErr    error
)

func getValidator() (*structValidator, error) {
	validatorOnce.Do(func() {
		validate := validator.New(validator.WithRequiredStructEnabled())
		locale := ru.New()
		uni := ut.New(locale, locale)
		trans, _ := uni.GetTranslator("ru")
		if err := ru_translations.RegisterDefaultTranslations(validate, trans); err != nil {
			validatorErr = err
			return
		}
		sharedValidator = &structValidator{validate: validate, translator: trans}
	})
	return sharedValidator, validatorErr
}

// validateStruct проверяет структуру по тегам validate и возвращает первую ошибку
func validateStruct(s any) error {
	v, err := getValidator()
	if err != nil {
		return err
	}

	err = v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	first := validationErrors[0]
	return &ValidationError{
		Field:   first.Field(),
		Message: first.Translate(v.translator),
	}
}
