package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"boilerquote/data"
	"boilerquote/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// MalformedCatalogError reports a price book that failed to decode or validate.
// It unwraps to an errs.CodeCatalogLoad error.
type MalformedCatalogError struct {
	Issues []string
	cause  error
}

func (e *MalformedCatalogError) Error() string {
	if len(e.Issues) > 0 {
		return "malformed catalog: " + strings.Join(e.Issues, "; ")
	}
	if e.cause != nil {
		return "malformed catalog: " + e.cause.Error()
	}
	return "malformed catalog"
}

func (e *MalformedCatalogError) Unwrap() error {
	return errs.Wrap(errs.CodeCatalogLoad, e.cause, "malformed catalog")
}

// Load decodes and validates a price-book document.
func Load(raw []byte) (*Catalog, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, &MalformedCatalogError{Issues: []string{"document is empty"}}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &MalformedCatalogError{cause: err}
	}
	if err := validate.Struct(doc); err != nil {
		return nil, &MalformedCatalogError{Issues: validationIssues(err), cause: err}
	}
	return build(doc)
}

// LoadFile reads a price book from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.CodeCatalogLoad, err, fmt.Sprintf("read price book %s", path))
	}
	return Load(raw)
}

// Default loads the bundled price book.
func Default() (*Catalog, error) {
	return Load(data.Catalog)
}

func validationIssues(err error) []string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	issues := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Document.")
		issues = append(issues, fmt.Sprintf("%s %s", field, validationMessage(fe)))
	}
	return issues
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
