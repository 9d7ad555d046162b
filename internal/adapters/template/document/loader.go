// Package document reads worksheet template documents and layout
// definitions from JSON or YAML. Documents are checked against an embedded
// CUE schema before they are converted to domain values.
package document

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/bnema/odoo-worksheet-cli/internal/domain"
)

var (
	ErrInvalidDocument   = errors.New("invalid template document")
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

//go:embed schema.cue
var schemaSource string

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

type Loader struct {
	ctx      *cue.Context
	template cue.Value
	layout   cue.Value
}

func NewLoader() (*Loader, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile template schema: %w", err)
	}

	return &Loader{
		ctx:      ctx,
		template: schema.LookupPath(cue.ParsePath("#Template")),
		layout:   schema.LookupPath(cue.ParsePath("#Layout")),
	}, nil
}

func (l *Loader) LoadFile(path string) (domain.Template, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return domain.Template{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Template{}, fmt.Errorf("read template document: %w", err)
	}

	tmpl, err := l.Decode(data, format)
	if err != nil {
		return domain.Template{}, fmt.Errorf("%s: %w", path, err)
	}

	return tmpl, nil
}

func (l *Loader) Decode(data []byte, format Format) (domain.Template, error) {
	if err := l.validate(data, format, l.template); err != nil {
		return domain.Template{}, err
	}

	var doc templateDocument
	if err := unmarshal(data, format, &doc); err != nil {
		return domain.Template{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	tmpl := doc.toDomain()
	if err := tmpl.Validate(); err != nil {
		return domain.Template{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return tmpl, nil
}

// DecodeLayout reads a standalone layout definition.
func (l *Loader) DecodeLayout(data []byte, format Format) (domain.Layout, error) {
	if err := l.validate(data, format, l.layout); err != nil {
		return domain.Layout{}, err
	}

	var doc LayoutDocument
	if err := unmarshal(data, format, &doc); err != nil {
		return domain.Layout{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	layout := doc.ToDomain()
	if err := layout.Validate(); err != nil {
		return domain.Layout{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return layout, nil
}

func (l *Loader) validate(data []byte, format Format, schema cue.Value) error {
	var raw any
	if err := unmarshal(data, format, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: document is empty", ErrInvalidDocument)
	}

	value := schema.Unify(l.ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.TrimSpace(cueerrors.Details(err, nil)))
	}

	return nil
}

func unmarshal(data []byte, format Format, out any) error {
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		if err := decoder.Decode(out); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
		return nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
