package routing

import (
	"net/http"

	"github.com/gorilla/mux"

	"code-execution-sandbox/internal/sandbox"
)

// HandleGetLanguages lists every supported language in the order they are
// presented to clients.
func HandleGetLanguages(w http.ResponseWriter, _ *http.Request) {
	languages := make([]LanguageResponse, 0, len(sandbox.SupportedLanguages))

	for _, language := range sandbox.SupportedLanguages {
		compiler, err := language.Compiler()

		if err != nil {
			continue
		}

		languages = append(languages, LanguageResponse{
			Name:        compiler.Language.String(),
			DisplayName: compiler.DisplayName,
			Extension:   compiler.SourceExtension,
			Template:    compiler.Template,
		})
	}

	handleJSONResponse(w, languages, http.StatusOK)
}

func HandleGetLanguageTemplate(w http.ResponseWriter, r *http.Request) {
	compiler, err := sandbox.LookupCompiler(mux.Vars(r)["lang"])

	if err != nil {
		handleErrorResponse(w, unsupportedMessage, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(compiler.Template))
}
