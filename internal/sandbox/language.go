package sandbox

import (
	"github.com/pkg/errors"
)

// Language is the identifier of a supported toolchain. The set of languages is
// closed, every value outside of the constants below is unsupported.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	Cpp        Language = "cpp"
)

// SupportedLanguages is every supported language in the order they are
// presented to clients.
var SupportedLanguages = []Language{Python, JavaScript, Cpp}

var (
	ErrMissingRequest      = errors.New("request is required")
	ErrMissingLanguage     = errors.New("language is required")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrMissingSourceCode   = errors.New("source code is required")
)

// ParseLanguage converts a raw language identifier into a supported Language.
// Identifiers are case-sensitive.
func ParseLanguage(id string) (Language, error) {
	if id == "" {
		return "", ErrMissingLanguage
	}

	language := Language(id)

	if !language.IsSupported() {
		return "", errors.Wrapf(ErrUnsupportedLanguage, "language %q", id)
	}

	return language, nil
}

// Compiler returns the toolchain of the language. Adding a language means
// adding a constant, a case and a compiler, nothing in the executor changes.
func (l Language) Compiler() (LanguageCompiler, error) {
	switch l {
	case Python:
		return pythonCompiler, nil
	case JavaScript:
		return javaScriptCompiler, nil
	case Cpp:
		return cppCompiler, nil
	default:
		return LanguageCompiler{}, errors.Wrapf(ErrUnsupportedLanguage, "language %q", string(l))
	}
}

func (l Language) IsSupported() bool {
	_, err := l.Compiler()
	return err == nil
}

func (l Language) String() string {
	return string(l)
}

// LookupCompiler resolves the raw identifier straight to its toolchain.
func LookupCompiler(id string) (LanguageCompiler, error) {
	language, err := ParseLanguage(id)

	if err != nil {
		return LanguageCompiler{}, err
	}

	return language.Compiler()
}
