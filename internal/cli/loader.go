package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/sqlfuse/internal/querydoc"
	"github.com/roach88/sqlfuse/internal/schema"
)

// LoadError is a loading failure with a stable code and, for CUE
// catalogs, a source position.
type LoadError = schema.LoadError

// Error codes beyond those of catalog loading.
const (
	ErrCodeNoCatalog      = "E010" // No catalog configured
	ErrCodeDocumentFailed = "E011" // Query document unreadable or malformed
	ErrCodeEntryFailed    = "E012" // Entry does not resolve against the catalog
	ErrCodeWriteFailed    = "E007" // File write error
)

// LoadResult is a catalog plus the entries built from a query document.
type LoadResult struct {
	Catalog *schema.Catalog
	Entries []querydoc.Entry
}

// LoadInputs loads the catalog and builds every entry of the query
// document against it. All failures are returned as *LoadError.
func LoadInputs(catalogPath, docPath string) (*LoadResult, error) {
	if catalogPath == "" {
		return nil, &LoadError{Code: ErrCodeNoCatalog, Message: "no catalog: pass --catalog or set catalog in sqlfuse.yaml"}
	}

	catalog, err := schema.Load(catalogPath)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, loadErr
		}
		return nil, &LoadError{Code: schema.ErrCodeGeneric, Message: err.Error()}
	}

	if _, err := os.Stat(docPath); os.IsNotExist(err) {
		return nil, &LoadError{Code: schema.ErrCodeNotFound, Message: fmt.Sprintf("query document not found: %s", docPath)}
	}
	doc, err := querydoc.Load(docPath)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDocumentFailed, Message: err.Error()}
	}

	entries, err := doc.Build(catalog)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeEntryFailed, Message: err.Error()}
	}
	if len(entries) == 0 {
		return nil, &LoadError{Code: ErrCodeDocumentFailed, Message: fmt.Sprintf("no queries or statements in %s", docPath)}
	}
	return &LoadResult{Catalog: catalog, Entries: entries}, nil
}

// loadFailure reports a load error and returns the matching exit error.
func loadFailure(formatter *OutputFormatter, err error) error {
	code, message := schema.ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, message = loadErr.Code, loadErr.Message
		if loadErr.Pos.IsValid() {
			message = fmt.Sprintf("%s:%d:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column(), message)
		}
	}
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}
