package catalog

import (
	"context"

	"github.com/erp/catalog/internal/domain/catalog"
)

// ReparentCandidate is what a business rule sees about a proposed move.
// NewParent is nil when the category moves to the root.
type ReparentCandidate struct {
	Category        *catalog.Category
	NewParent       *catalog.Category
	NewPath         catalog.PathInfo
	DescendantCount int64
}

// RuleOutcome carries the errors and warnings a rule wants to report
type RuleOutcome struct {
	Errors   []string
	Warnings []string
}

// ReparentRule is a pluggable business constraint evaluated after the
// structural checks pass. Rules are skipped when ValidateConstraints is false.
type ReparentRule interface {
	Name() string
	Evaluate(ctx context.Context, candidate ReparentCandidate) (RuleOutcome, error)
}

// ReparentRuleFunc adapts a function to the ReparentRule interface
type ReparentRuleFunc struct {
	RuleName string
	Fn       func(ctx context.Context, candidate ReparentCandidate) (RuleOutcome, error)
}

// Name returns the rule name
func (f ReparentRuleFunc) Name() string {
	return f.RuleName
}

// Evaluate calls the wrapped function
func (f ReparentRuleFunc) Evaluate(ctx context.Context, candidate ReparentCandidate) (RuleOutcome, error) {
	return f.Fn(ctx, candidate)
}

// TreeSettings holds the tree limits used by validation and mutation
type TreeSettings struct {
	MaxTreeDepth           int
	LargeSubtreeThreshold  int64
	LargeChildrenThreshold int64
	BatchSize              int
}

// DefaultTreeSettings returns the settings used when none are configured
func DefaultTreeSettings() TreeSettings {
	return TreeSettings{
		MaxTreeDepth:           catalog.DefaultMaxTreeDepth,
		LargeSubtreeThreshold:  1000,
		LargeChildrenThreshold: 100,
		BatchSize:              DefaultReparentBatchSize,
	}
}

func (s TreeSettings) withDefaults() TreeSettings {
	d := DefaultTreeSettings()
	if s.MaxTreeDepth <= 0 {
		s.MaxTreeDepth = d.MaxTreeDepth
	}
	if s.LargeSubtreeThreshold <= 0 {
		s.LargeSubtreeThreshold = d.LargeSubtreeThreshold
	}
	if s.LargeChildrenThreshold <= 0 {
		s.LargeChildrenThreshold = d.LargeChildrenThreshold
	}
	if s.BatchSize <= 0 {
		s.BatchSize = d.BatchSize
	}
	return s
}
