package history

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/rzbill/cliphist/internal/preview"
)

// Filter is a compiled CEL predicate over entries. A nil or empty Filter
// matches everything.
//
// Variables available to expressions:
//
//	id      int     entry id
//	size    int     payload length in bytes
//	text    string  payload decoded as lossy UTF-8, empty for images
//	image   bool    payload is a recognized image
//	format  string  image format, empty for text
//	width   int     image width, 0 for text
//	height  int     image height, 0 for text
type Filter struct {
	expr    string
	prog    cel.Program
	enabled bool
}

// CompileFilter parses and type-checks expr. The expression must evaluate to
// a bool.
func CompileFilter(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return &Filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.IntType),
		cel.Variable("size", cel.IntType),
		cel.Variable("text", cel.StringType),
		cel.Variable("image", cel.BoolType),
		cel.Variable("format", cel.StringType),
		cel.Variable("width", cel.IntType),
		cel.Variable("height", cel.IntType),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, iss.Err())
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, iss2.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression must be bool, got %s", ErrInvalidFilter, checked.OutputType())
	}
	prog, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return &Filter{expr: expr, prog: prog, enabled: true}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match evaluates the filter against e. Evaluation errors count as no match.
func (f *Filter) Match(e Entry) bool {
	if f == nil || !f.enabled {
		return true
	}
	img, isImage := preview.Classify(e.Payload)
	text := ""
	if !isImage {
		text = preview.Text(e.Payload)
	}
	out, _, err := f.prog.Eval(map[string]any{
		"id":     int64(e.ID),
		"size":   int64(len(e.Payload)),
		"text":   text,
		"image":  isImage,
		"format": img.Format,
		"width":  int64(img.Width),
		"height": int64(img.Height),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
