package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"code-execution-sandbox/internal/sandbox"
)

// NewTranslator returns the english translator validation errors are reported
// with.
func NewTranslator() ut.Translator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	return translator
}

// NewValidator creates a validator that reports fields by their JSON name and
// understands the `language` tag, which only accepts supported languages.
func NewValidator(translator ut.Translator) (*validator.Validate, error) {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		if name == "-" {
			return ""
		}

		return name
	})

	// register the validator with the translator to get clean readable
	// generated error messages from validation actions.
	if err := enTranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, errors.Wrap(err, "failed to register default translations")
	}

	if err := validate.RegisterValidation("language", isSupportedLanguage); err != nil {
		return nil, errors.Wrap(err, "failed to register language validation")
	}

	err := validate.RegisterTranslation("language", translator,
		func(ut ut.Translator) error {
			return ut.Add("language", "unsupported language {0}, expected one of {1}", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			message, _ := ut.T("language", fe.Value().(string), supportedLanguages())
			return message
		})

	if err != nil {
		return nil, errors.Wrap(err, "failed to register language translation")
	}

	return validate, nil
}

func isSupportedLanguage(fl validator.FieldLevel) bool {
	return sandbox.Language(fl.Field().String()).IsSupported()
}

func supportedLanguages() string {
	ids := make([]string, 0, len(sandbox.SupportedLanguages))

	for _, language := range sandbox.SupportedLanguages {
		ids = append(ids, language.String())
	}

	return strings.Join(ids, ", ")
}

// TranslateError returns every validation failure within the error as a
// translated message, in the order the fields were validated.
func TranslateError(err error, trans ut.Translator) (errs []string) {
	if err == nil {
		return nil
	}

	validationErrors := validator.ValidationErrors{}

	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			translatedErr := e.Translate(trans)
			errs = append(errs, translatedErr)
		}
	}

	return errs
}
