package runner

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"mvdan.cc/sh/v3/syntax"
)

// Language describes how scripts of one kind are recognized, run and checked.
type Language struct {
	Name        string
	Extension   string
	Interpreter []string

	check func(filename string, src []byte) error
}

// CheckSyntax parses src without executing it. The returned error carries the
// parser diagnostic (location and message) verbatim.
func (l Language) CheckSyntax(filename string, src []byte) error {
	return l.check(filename, src)
}

var languages = map[string]Language{
	"javascript": {
		Name:        "javascript",
		Extension:   ".js",
		Interpreter: []string{"node"},
		check:       checkJavaScript,
	},
	"python": {
		Name:        "python",
		Extension:   ".py",
		Interpreter: []string{"python3"},
		check:       checkPython,
	},
	"shell": {
		Name:        "shell",
		Extension:   ".sh",
		Interpreter: []string{"sh"},
		check:       shellChecker(syntax.LangPOSIX),
	},
	"bash": {
		Name:        "bash",
		Extension:   ".sh",
		Interpreter: []string{"bash"},
		check:       shellChecker(syntax.LangBash),
	},
}

// LookupLanguage returns the language registered under name.
func LookupLanguage(name string) (Language, error) {
	lang, ok := languages[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Language{}, fmt.Errorf("unsupported language %q (supported: %s)", name, strings.Join(SupportedLanguages(), ", "))
	}
	return lang, nil
}

// SupportedLanguages returns the registered language names, sorted.
func SupportedLanguages() []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkJavaScript parses src as modern JavaScript (scripts or ES modules,
// hashbang allowed) without evaluating it.
func checkJavaScript(filename string, src []byte) error {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:     api.LoaderJS,
		Sourcefile: filename,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}

	first := result.Errors[0]
	msg := first.Text
	if loc := first.Location; loc != nil {
		msg = fmt.Sprintf("%s:%d:%d: %s", loc.File, loc.Line, loc.Column+1, first.Text)
	}
	if more := len(result.Errors) - 1; more > 0 {
		msg = fmt.Sprintf("%s (and %d more errors)", msg, more)
	}
	return errors.New(msg)
}

func shellChecker(variant syntax.LangVariant) func(string, []byte) error {
	return func(filename string, src []byte) error {
		_, err := syntax.NewParser(syntax.Variant(variant)).Parse(bytes.NewReader(src), filename)
		return err
	}
}
