package core

import "github.com/liliang-cn/dci/pkg/index"

// Config fixes an Engine's dimensions at Init time: the ambient vector
// space dimension D, the number of composite indices C, and the number
// of simple indices per composite S.
type Config struct {
	Dim          int
	NumComposite int
	NumSimple    int
}

// DefaultConfig returns reasonable composite/simple counts for a given
// dimension, in the same spirit as the teacher's DefaultConfig helpers:
// a starting point for experimentation, not a tuned recommendation.
func DefaultConfig(dim int) Config {
	return Config{Dim: dim, NumComposite: 20, NumSimple: 2}
}

func (c Config) validate() error {
	if c.Dim <= 0 {
		return wrapError("Config", ErrInvalidConfig)
	}
	if c.NumComposite <= 0 || c.NumSimple <= 0 {
		return wrapError("Config", ErrInvalidConfig)
	}
	return nil
}

// ConstructionConfig governs Add: how many hierarchy levels to build.
type ConstructionConfig struct {
	NumLevels int
}

// DefaultConstructionConfig builds a flat (non-hierarchical) index.
func DefaultConstructionConfig() ConstructionConfig {
	return ConstructionConfig{NumLevels: 1}
}

func (c ConstructionConfig) validate() error {
	if c.NumLevels < 1 {
		return wrapError("ConstructionConfig", ErrInvalidConfig)
	}
	return nil
}

// QueryConfig is the query-time termination budget described in spec.md
// section 6. It is the same shape the prioritized query engine consumes
// internally, re-exported here so callers never import pkg/index directly.
type QueryConfig = index.QueryConfig

// DefaultQueryConfig returns a conservative non-blind budget.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		NumToVisit:     100,
		PropToVisit:    0.1,
		NumToRetrieve:  10,
		PropToRetrieve: 0.1,
		FieldOfView:    10,
	}
}

func validateQueryConfig(cfg QueryConfig) error {
	if cfg.Blind {
		return nil
	}
	if cfg.NumToVisit <= 0 && cfg.PropToVisit <= 0 {
		return wrapError("QueryConfig", ErrInvalidConfig)
	}
	if cfg.NumToRetrieve <= 0 && cfg.PropToRetrieve <= 0 {
		return wrapError("QueryConfig", ErrInvalidConfig)
	}
	return nil
}
