package form

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/formguard/pkg/rules"
	"github.com/vango-dev/formguard/pkg/vdom"
)

// Field outcomes recorded by metrics and spans.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeSkipped = "skipped"
)

// Validate validates every field and reports whether the form is valid.
func (f *Form) Validate() bool {
	ok, _ := f.ValidateContext(context.Background())
	return ok
}

// ValidateContext validates every field in document order. Controls that
// share a name are one field: the first failing rule among them wins.
// It stops early, returning ctx.Err(), when ctx is done.
func (f *Form) ValidateContext(ctx context.Context) (bool, error) {
	start := time.Now()
	group := f.Fields()

	ctx, span := f.tracer.Start(ctx, "formguard.validate",
		trace.WithAttributes(
			attribute.String("formguard.selector", f.selector),
			attribute.Int("formguard.fields", len(group)),
		),
	)
	defer span.End()

	seen := make(map[string]bool, len(group))
	for i, fd := range group {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return false, err
		}
		if fd.Name == "" || seen[fd.Name] {
			continue
		}
		seen[fd.Name] = true
		f.validateName(ctx, group, i)
	}

	valid := f.IsValid()
	f.metrics.observeValidate(time.Since(start))
	span.SetAttributes(
		attribute.Bool("formguard.valid", valid),
		attribute.Int("formguard.errors", len(f.errs)),
	)
	span.SetStatus(codes.Ok, "")
	return valid, nil
}

// ValidateField validates the field n belongs to and returns the surfaced
// error, or nil. A disabled or hidden n has its error cleared without
// evaluating rules. Nodes outside the form are ignored.
func (f *Form) ValidateField(n *vdom.VNode) *rules.ErrorDetail {
	group := f.Fields()
	nodes := f.nodes()
	for i, c := range nodes {
		if c != n {
			continue
		}
		fd := group[i]
		if fd.Name == "" {
			return nil
		}
		if fd.Skipped() {
			f.skip(fd)
			return nil
		}
		first := i
		for j := range group[:i] {
			if group[j].Name == fd.Name {
				first = j
				break
			}
		}
		return f.validateName(context.Background(), group, first)
	}
	return nil
}

// Trigger validates the named fields, or the whole form when no name is
// given. Unknown names are ignored.
func (f *Form) Trigger(names ...string) {
	if len(names) == 0 {
		f.Validate()
		return
	}
	for _, name := range names {
		if n := f.GetField(name); n != nil {
			f.ValidateField(n)
		}
	}
}

// IsValid reports whether no field carries the invalid marker. It reflects
// the last validation and does not run rules.
func (f *Form) IsValid() bool {
	seen := make(map[string]bool)
	for _, n := range f.nodes() {
		name, _ := n.AttrString("name")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if f.isMarked(name) {
			return false
		}
	}
	return true
}

// Errors returns the error currently surfaced for each field.
func (f *Form) Errors() map[string]rules.ErrorDetail {
	out := make(map[string]rules.ErrorDetail, len(f.errs))
	for name, d := range f.errs {
		out[name] = d
	}
	return out
}

// validateName resolves the field group[first].Name across every control
// of that name and presents the verdict.
func (f *Form) validateName(ctx context.Context, group []rules.Field, first int) *rules.ErrorDetail {
	name := group[first].Name
	_, span := f.tracer.Start(ctx, "formguard.validate_field",
		trace.WithAttributes(attribute.String("formguard.field", name)),
	)
	defer span.End()

	var detail *rules.ErrorDetail
	active := 0
	for _, fd := range group[first:] {
		if fd.Name != name || fd.Skipped() {
			continue
		}
		active++
		value, ok := rules.ExtractValue(fd, group)
		if !ok {
			continue
		}
		if detail = rules.Resolve(fd.Declared, value, f.registry); detail != nil {
			break
		}
	}

	switch {
	case active == 0:
		f.skip(group[first])
		span.SetAttributes(attribute.String("formguard.outcome", OutcomeSkipped))
	case detail != nil:
		f.showError(name, detail)
		f.metrics.observeField(OutcomeInvalid, detail.Rule)
		span.SetAttributes(
			attribute.String("formguard.outcome", OutcomeInvalid),
			attribute.String("formguard.rule", detail.Rule),
		)
	default:
		f.clearError(name)
		f.metrics.observeField(OutcomeValid, "")
		span.SetAttributes(attribute.String("formguard.outcome", OutcomeValid))
	}
	return detail
}

func (f *Form) skip(fd rules.Field) {
	f.logger.Debug("field skipped",
		"field", fd.Name,
		"disabled", fd.Disabled,
		"disabledFlag", fd.DisabledFlag,
		"visible", fd.Visible,
	)
	f.clearError(fd.Name)
	f.metrics.observeField(OutcomeSkipped, "")
}

func (f *Form) showError(name string, detail *rules.ErrorDetail) {
	f.logger.Debug("field invalid", "field", name, "rule", detail.Rule, "message", detail.Message)
	f.errs[name] = *detail
	f.present("ShowError", name, func() { f.presenter.ShowError(name, detail.Message) })
	f.present("MarkInvalid", name, func() { f.presenter.MarkInvalid(name) })
}

func (f *Form) clearError(name string) {
	if name == "" {
		return
	}
	delete(f.errs, name)
	f.present("HideError", name, func() { f.presenter.HideError(name) })
	f.present("ClearInvalid", name, func() { f.presenter.ClearInvalid(name) })
}

func (f *Form) isMarked(name string) (marked bool) {
	f.present("IsMarkedInvalid", name, func() { marked = f.presenter.IsMarkedInvalid(name) })
	return marked
}

// present runs one presenter call, recovering and logging a panic.
func (f *Form) present(op, name string, call func()) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("presenter panic", "op", op, "field", name, "panic", r)
			f.metrics.observePanic()
		}
	}()
	call()
}
