package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// schema holds the compiled #Config definition.
type schema struct {
	ctx *cue.Context
	def cue.Value
}

func newSchema() (*schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return nil, fmt.Errorf("compile config schema: #Config not defined")
	}
	return &schema{ctx: ctx, def: def}, nil
}

// checkFile validates raw JSON file contents. JSON is valid CUE, so the
// file is compiled directly and unified with #Config.
func (s *schema) checkFile(name string, data []byte) error {
	v := s.ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	return s.check(v)
}

// checkMap validates an already merged configuration map.
func (s *schema) checkMap(m map[string]any) error {
	v := s.ctx.Encode(m)
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	return s.check(v)
}

func (s *schema) check(v cue.Value) error {
	u := s.def.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError flattens CUE's multi-error into one line per problem.
func formatCUEError(err error) error {
	details := strings.TrimSpace(cueerrors.Details(err, nil))
	if details == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(details, "\n", "; "))
}
