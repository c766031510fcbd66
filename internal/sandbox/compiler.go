package sandbox

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/pkg/errors"
)

//go:embed templates
var templates embed.FS

const (
	sourcePlaceholder = "{source}"
	binaryPlaceholder = "{binary}"
)

type LanguageCompiler struct {
	// The language the compiler is handling, this is the identifier clients
	// send when requesting an execution.
	Language Language
	// The human readable form of the language, e.g. C++ for cpp.
	DisplayName string
	// The extension (without the leading dot) the source file is written
	// with. Some toolchains refuse to handle a source file without one.
	SourceExtension string
	// The starter code given to clients when they pick the language.
	Template string
	// The command line used to run the program. For interpreters this runs the
	// source file directly, otherwise it runs the binary produced by the
	// compile step. Supports the {source} and {binary} placeholders.
	runStep string
	// The command line used to build the source into a binary, empty when the
	// language is interpreted.
	compileStep string
}

var pythonCompiler = LanguageCompiler{
	Language:        Python,
	DisplayName:     "Python",
	SourceExtension: "py",
	Template:        mustLoadTemplate("python.py"),
	runStep:         "python3 {source}",
}

var javaScriptCompiler = LanguageCompiler{
	Language:        JavaScript,
	DisplayName:     "JavaScript",
	SourceExtension: "js",
	Template:        mustLoadTemplate("javascript.js"),
	runStep:         "node {source}",
}

var cppCompiler = LanguageCompiler{
	Language:        Cpp,
	DisplayName:     "C++",
	SourceExtension: "cpp",
	Template:        mustLoadTemplate("cpp.cpp"),
	runStep:         "{binary}",
	compileStep:     "g++ {source} -o {binary}",
}

func mustLoadTemplate(name string) string {
	data, err := templates.ReadFile(path.Join("templates", name))

	if err != nil {
		panic(fmt.Sprintf("language template %s is not embedded: %v", name, err))
	}

	return string(data)
}

// Interpreted is true when the language runs straight from the source file
// without a build step.
func (c LanguageCompiler) Interpreted() bool {
	return c.compileStep == ""
}

// Pipeline builds the steps that take the workspace source file to a running
// program. Interpreted languages only get a run step.
func (c LanguageCompiler) Pipeline(workspace *Workspace, killGracePeriod time.Duration) (*Pipeline, error) {
	runCommand, err := expandStep(c.runStep, workspace)

	if err != nil {
		return nil, errors.Wrapf(err, "invalid run step for %s", c.Language)
	}

	pipeline := &Pipeline{
		Run: &RunStep{
			Command:         runCommand,
			Dir:             workspace.Directory,
			KillGracePeriod: killGracePeriod,
		},
	}

	if c.Interpreted() {
		return pipeline, nil
	}

	buildCommand, err := expandStep(c.compileStep, workspace)

	if err != nil {
		return nil, errors.Wrapf(err, "invalid compile step for %s", c.Language)
	}

	pipeline.Build = &BuildStep{
		Command:         buildCommand,
		Dir:             workspace.Directory,
		KillGracePeriod: killGracePeriod,
	}

	return pipeline, nil
}

// expandStep splits the step into arguments and only then substitutes the
// workspace paths, a path containing spaces stays a single argument.
func expandStep(step string, workspace *Workspace) ([]string, error) {
	arguments, err := shlex.Split(step)

	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse step %q", step)
	}

	if len(arguments) == 0 {
		return nil, errors.Errorf("step %q has no command", step)
	}

	replacer := strings.NewReplacer(
		sourcePlaceholder, workspace.SourceFilePath,
		binaryPlaceholder, workspace.BinaryFilePath,
	)

	for i, argument := range arguments {
		arguments[i] = replacer.Replace(argument)
	}

	return arguments, nil
}
