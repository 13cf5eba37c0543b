package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rocketship-ai/scriptrunner/internal/catalog"
)

// Validator performs static syntax checks of catalog scripts.
type Validator struct {
	catalog *catalog.Catalog
	lang    Language
}

// NewValidator creates a validator for scripts of the given language.
func NewValidator(cat *catalog.Catalog, lang Language) *Validator {
	return &Validator{catalog: cat, lang: lang}
}

// Validate parses the named script. It never runs the script.
func (v *Validator) Validate(name string) ValidationResult {
	if !v.catalog.Exists(name) {
		return ValidationResult{Message: fmt.Sprintf("Script '%s' not found", name), Kind: KindNotFound}
	}

	path := v.catalog.Resolve(name)
	src, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{Message: fmt.Sprintf("Failed to validate script: %v", err), Kind: KindIOError}
	}

	if err := v.lang.CheckSyntax(filepath.Base(path), src); err != nil {
		return ValidationResult{Message: err.Error(), Kind: KindSyntaxError}
	}

	return ValidationResult{Valid: true, Message: fmt.Sprintf("Script '%s' syntax is valid", name)}
}
