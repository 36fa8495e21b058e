package core

import (
	"sync"

	"github.com/liliang-cn/dci/pkg/gemm"
	"github.com/liliang-cn/dci/pkg/index"
)

// Engine is a DCI index: fixed dimensions (Config), an optional sampled
// projection matrix, and — once Add has run — a hierarchy built over a
// caller-owned dataset. It mirrors the lifecycle of the reference dci_t:
// init (fixes dims), add (builds), query (read-only, repeatable), clear
// / reset (tear down), free (drop the reference and let the GC do the
// rest — Go has no free).
//
// An Engine is not reentrant for concurrent Query calls against the same
// instance mid-mutation (Add/Clear/Reset); the mutex below guards against
// torn reads of the built state, not against the single-writer discipline
// the design assumes. Independent Engines may be used concurrently.
type Engine struct {
	mu sync.RWMutex

	cfg        Config
	gemmEngine gemm.Engine
	logger     Logger

	proj      *index.Projection
	hierarchy *index.Hierarchy
	dataset   *gemm.Matrix
	built     bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithGEMMEngine overrides the default gonum-backed GEMM capability.
func WithGEMMEngine(e gemm.Engine) Option {
	return func(eng *Engine) { eng.gemmEngine = e }
}

// WithLogger attaches a Logger. The default is a no-op logger.
func WithLogger(l Logger) Option {
	return func(eng *Engine) { eng.logger = l }
}

// New fixes an Engine's dimensions. No data is indexed yet; call Add.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, wrapError("New", err)
	}

	e := &Engine{
		cfg:        cfg,
		gemmEngine: gemm.NewGonumEngine(),
		logger:     NopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Dim, NumComposite and NumSimple report the fixed dimensions.
func (e *Engine) Dim() int          { return e.cfg.Dim }
func (e *Engine) NumComposite() int { return e.cfg.NumComposite }
func (e *Engine) NumSimple() int    { return e.cfg.NumSimple }

// Len reports the number of indexed points, or 0 before Add.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.dataset == nil {
		return 0
	}
	return e.dataset.Cols
}
