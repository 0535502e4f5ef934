package starlark

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"golang.org/x/sync/errgroup"

	"github.com/haulwise/tmsadmin/internal/fleet"
	"github.com/haulwise/tmsadmin/pkg/datatable"
)

// ComputedColumn configures one computed column of a kind. Expr is a Starlark
// expression over the record, bound to "row".
type ComputedColumn struct {
	ID     string `koanf:"id" json:"id"`
	Header string `koanf:"header" json:"header"`
	Expr   string `koanf:"expr" json:"expr"`
}

// Column is a compiled computed column.
type Column struct {
	ID     string
	Header string
	Expr   string
	fn     *starlark.Function
}

// Program evaluates the computed columns of one kind.
type Program struct {
	kind    string
	columns []*Column
	pool    *ThreadPool
	logger  *slog.Logger
}

// CompileError reports a computed column that cannot be compiled.
type CompileError struct {
	Kind   string
	Column string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("computed column %s.%s: %v", e.Kind, e.Column, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// EvalError reports a computed column that failed for one row.
type EvalError struct {
	Column  string
	RowID   string
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("computed column %s failed for row %q: %s", e.Column, e.RowID, e.Message)
}

type options struct {
	logger   *slog.Logger
	now      func() time.Time
	poolSize int
}

// Option configures Compile.
type Option func(*options)

// WithLogger sets the logger used for evaluation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock sets the clock used by days_until.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithPoolSize bounds the number of rows evaluated in parallel.
func WithPoolSize(n int) Option {
	return func(o *options) { o.poolSize = n }
}

var columnIDPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Compile compiles the computed columns of a kind. A nil Program is returned
// when specs is empty; its methods are no-ops.
func Compile(kind fleet.Kind, specs []ComputedColumn, opts ...Option) (*Program, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	o := options{poolSize: 8}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	globals := Predeclared(o.now)
	thread := &starlark.Thread{Name: "compile " + kind.Slug}
	seen := make(map[string]bool, len(specs))

	p := &Program{
		kind:   kind.Slug,
		pool:   NewThreadPool(o.poolSize),
		logger: o.logger.With(slog.String("kind", kind.Slug)),
	}
	for _, spec := range specs {
		fail := func(err error) (*Program, error) {
			return nil, &CompileError{Kind: kind.Slug, Column: spec.ID, Err: err}
		}
		switch {
		case !columnIDPattern.MatchString(spec.ID):
			return fail(errors.New("id must be lower_snake_case"))
		case seen[spec.ID]:
			return fail(errors.New("duplicate id"))
		case strings.TrimSpace(spec.Expr) == "":
			return fail(errors.New("expr is empty"))
		}
		if _, ok := kind.Column(spec.ID); ok {
			return fail(errors.New("id shadows a built-in column"))
		}
		seen[spec.ID] = true

		src := "lambda row: (\n" + spec.Expr + "\n)"
		v, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, kind.Slug+"."+spec.ID, src, globals)
		if err != nil {
			return fail(err)
		}
		fn, ok := v.(*starlark.Function)
		if !ok {
			return fail(fmt.Errorf("expected a function, got %s", v.Type()))
		}

		header := spec.Header
		if header == "" {
			header = spec.ID
		}
		p.columns = append(p.columns, &Column{ID: spec.ID, Header: header, Expr: spec.Expr, fn: fn})
	}
	return p, nil
}

// Columns returns the compiled columns in configuration order.
func (p *Program) Columns() []*Column {
	if p == nil {
		return nil
	}
	return p.columns
}

// ColumnDefs returns table columns for the computed values written by Apply.
func (p *Program) ColumnDefs(sortable bool) []datatable.ColumnDef {
	if p == nil {
		return nil
	}
	defs := make([]datatable.ColumnDef, len(p.columns))
	for i, c := range p.columns {
		defs[i] = datatable.ColumnDef{ID: c.ID, Header: c.Header, Sortable: sortable}
	}
	return defs
}

// Eval evaluates one column for a row.
func (p *Program) Eval(c *Column, row map[string]any) (any, error) {
	thread := p.pool.Get(p.kind)
	v, err := p.call(thread, c, RowDict(row), row)
	if err == nil {
		p.pool.Put(thread)
	}
	return v, err
}

// Apply writes every computed value into its row under the column ID. Rows
// are evaluated in parallel. A failing expression leaves its cell empty and
// is logged.
func (p *Program) Apply(rows []datatable.Row) {
	if p == nil || len(rows) == 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(p.pool.MaxSize())
	for _, row := range rows {
		g.Go(func() error {
			p.applyRow(row, row)
			return nil
		})
	}
	_ = g.Wait()
}

// ApplyGroups evaluates the items of each group with the group's shared
// fields visible in row.
func (p *Program) ApplyGroups(groups []datatable.GroupedRow) {
	if p == nil {
		return
	}
	var g errgroup.Group
	g.SetLimit(p.pool.MaxSize())
	for _, group := range groups {
		for _, item := range group.Items {
			g.Go(func() error {
				view := make(map[string]any, len(item)+len(group.GroupData))
				for k, v := range item {
					view[k] = v
				}
				for k, v := range group.GroupData {
					view[k] = v
				}
				p.applyRow(item, view)
				return nil
			})
		}
	}
	_ = g.Wait()
}

func (p *Program) applyRow(dst datatable.Row, src map[string]any) {
	dict := RowDict(src)
	thread := p.pool.Get(p.kind)
	for _, c := range p.columns {
		v, err := p.call(thread, c, dict, src)
		if err != nil {
			p.logger.Warn("computed column failed", slog.String("error", err.Error()))
			// The failed thread may be cancelled; continue on a fresh one.
			thread = p.pool.Get(p.kind)
			continue
		}
		dst[c.ID] = v
	}
	p.pool.Put(thread)
}

func (p *Program) call(thread *starlark.Thread, c *Column, dict *starlark.Dict, row map[string]any) (any, error) {
	result, err := starlark.Call(thread, c.fn, starlark.Tuple{dict}, nil)
	if err != nil {
		msg := err.Error()
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			msg = evalErr.Msg
		}
		return nil, &EvalError{Column: c.ID, RowID: datatable.FormatValue(row["id"]), Message: msg}
	}
	v, err := CellValue(result)
	if err != nil {
		return nil, &EvalError{Column: c.ID, RowID: datatable.FormatValue(row["id"]), Message: err.Error()}
	}
	return v, nil
}
