package form

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/formguard/internal/errors"
	"github.com/vango-dev/formguard/pkg/rules"
	"github.com/vango-dev/formguard/pkg/vdom"
)

// DefaultTracerName is the tracer used when Config.Tracer is nil.
const DefaultTracerName = "formguard"

var (
	// ErrRootNotFound is returned by New when the selector matches nothing.
	ErrRootNotFound = stderrors.New("form: root element not found")

	// ErrInvalidSelector is returned by New when the selector cannot be parsed.
	ErrInvalidSelector = stderrors.New("form: invalid selector")

	// ErrNilValidator is returned by New when a custom validator is nil.
	ErrNilValidator = rules.ErrNilValidator
)

// fieldSelector finds every control that has a name attribute.
var fieldSelector = vdom.MustParseSelector("[name]")

// Config configures a Form.
type Config struct {
	// Validate holds custom validators by rule name. Names that collide
	// with a built-in are ignored and logged.
	Validate map[string]rules.Validator

	// Presenter renders errors. Default: a DOMPresenter over the form root.
	Presenter Presenter

	// Logger receives debug and error records. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records validation outcomes. Nil disables metrics.
	Metrics *Metrics

	// Tracer creates spans. Default: otel.Tracer(DefaultTracerName).
	Tracer trace.Tracer
}

// Form binds validation to one form element of a document.
//
// A Form is not safe for concurrent use. Field descriptors are rebuilt from
// the document on every call, so the document may be edited between calls.
type Form struct {
	root      *vdom.VNode
	selector  string
	registry  *rules.Registry
	presenter Presenter
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer

	staged map[*vdom.VNode]string
	files  map[*vdom.VNode]rules.FileList
	errs   map[string]rules.ErrorDetail
}

// New binds a Form to the element of doc matched by selector. doc itself is
// a candidate, so a form node may be passed directly.
func New(doc *vdom.VNode, selector string, cfg *Config) (*Form, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	sel, err := vdom.ParseSelector(selector)
	if err != nil {
		return nil, errors.New("F002").
			WithDetailf("Selector %q could not be parsed: %v", selector, err).
			Wrap(stderrors.Join(ErrInvalidSelector, err))
	}

	root := doc
	if !doc.IsElement() || !sel.Match(doc, nil) {
		root = sel.First(doc)
	}
	if !root.IsElement() {
		return nil, errors.New("F001").
			WithDetailf("Selector %q matched no element", selector).
			Wrap(fmt.Errorf("%w: %s", ErrRootNotFound, selector))
	}

	reg, err := rules.NewRegistry(cfg.Validate)
	if err != nil {
		return nil, errors.New("F003").Wrap(err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, name := range reg.Shadowed() {
		logger.Warn("custom validator shadowed by built-in rule", "rule", name)
	}

	presenter := cfg.Presenter
	if presenter == nil {
		presenter = NewDOMPresenter(root)
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(DefaultTracerName)
	}

	return &Form{
		root:      root,
		selector:  selector,
		registry:  reg,
		presenter: presenter,
		logger:    logger,
		metrics:   cfg.Metrics,
		tracer:    tracer,
		staged:    make(map[*vdom.VNode]string),
		files:     make(map[*vdom.VNode]rules.FileList),
		errs:      make(map[string]rules.ErrorDetail),
	}, nil
}

// Root returns the bound form element.
func (f *Form) Root() *vdom.VNode { return f.root }

// Selector returns the selector the form was bound with.
func (f *Form) Selector() string { return f.selector }

// Registry returns the form's rule registry.
func (f *Form) Registry() *rules.Registry { return f.registry }
