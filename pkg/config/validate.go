package config

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/flint/Stampie/pkg/mailer"
)

var (
	validate   *validator.Validate
	translator ut.Translator
	initOnce   sync.Once
	initErr    error
)

func initValidator() error {
	initOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their variable name.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("env"), ",")
			if name == "" {
				return f.Name
			}
			return name
		})

		enLang := en.New()
		trans, _ := ut.New(enLang, enLang).GetTranslator("en")
		if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
			initErr = err
			return
		}

		if err := registerMailbox(v, trans); err != nil {
			initErr = err
			return
		}

		validate = v
		translator = trans
	})
	return initErr
}

// registerMailbox adds the "mailbox" rule: an RFC 5322 address with an
// optional display name.
func registerMailbox(v *validator.Validate, trans ut.Translator) error {
	err := v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		_, err := mailer.ParseIdentity(fl.Field().String())
		return err == nil
	})
	if err != nil {
		return err
	}

	return v.RegisterTranslation("mailbox", trans,
		func(ut ut.Translator) error {
			return ut.Add("mailbox", "{0} must be an address like `Name <user@example.com>`", false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return t
		},
	)
}

// Validate checks cfg and returns a ValidationError describing every
// offending variable.
func Validate(cfg *Config) error {
	if err := initValidator(); err != nil {
		return err
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Translate(translator)
	}
	return out
}
