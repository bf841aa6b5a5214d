package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/erp/catalog/internal/application/catalog"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// movePlan is the YAML document accepted by the batch command:
//
//	tenant_id: 6f1c...
//	options:
//	  dry_run: true
//	  batch_size: 200
//	moves:
//	  - category: 0b7e...
//	    parent: 91aa...
//	  - category: 4c2d...   # no parent moves to the root
type movePlan struct {
	TenantID string        `yaml:"tenant_id"`
	UserID   string        `yaml:"user_id"`
	Options  planOptions   `yaml:"options"`
	Moves    []plannedMove `yaml:"moves"`
}

type planOptions struct {
	ValidateConstraints *bool `yaml:"validate_constraints"`
	UpdateProducts      *bool `yaml:"update_products"`
	BatchSize           int   `yaml:"batch_size"`
	DryRun              *bool `yaml:"dry_run"`
}

type plannedMove struct {
	Category string `yaml:"category"`
	Parent   string `yaml:"parent"`
}

var errEmptyPlan = errors.New("plan contains no moves")

func loadPlan(path string) (*movePlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodePlan(f)
}

func decodePlan(r io.Reader) (*movePlan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var plan movePlan
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyPlan
		}
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if len(plan.Moves) == 0 {
		return nil, errEmptyPlan
	}
	return &plan, nil
}

// request converts the plan into a batch request. Flag values for tenant,
// user and dry run take precedence over the document.
func (p *movePlan) request(tenantFlag, userFlag string, dryRunFlag bool) (catalog.BatchReparentRequest, error) {
	tenant := p.TenantID
	if tenantFlag != "" {
		tenant = tenantFlag
	}
	tenantID, err := uuid.Parse(tenant)
	if err != nil {
		return catalog.BatchReparentRequest{}, fmt.Errorf("invalid tenant id %q", tenant)
	}

	user := p.UserID
	if user == "" {
		user = userFlag
	}

	ops := make([]catalog.BatchOperation, 0, len(p.Moves))
	for i, m := range p.Moves {
		categoryID, err := uuid.Parse(m.Category)
		if err != nil {
			return catalog.BatchReparentRequest{}, fmt.Errorf("moves[%d]: invalid category id %q", i, m.Category)
		}
		parentID, err := parseOptionalID(m.Parent)
		if err != nil {
			return catalog.BatchReparentRequest{}, fmt.Errorf("moves[%d]: invalid parent id %q", i, m.Parent)
		}
		ops = append(ops, catalog.BatchOperation{CategoryID: categoryID, NewParentID: parentID})
	}

	opts := p.Options.merge()
	if dryRunFlag {
		opts.DryRun = true
	}

	return catalog.BatchReparentRequest{
		TenantID:   tenantID,
		UserID:     user,
		Operations: ops,
		Options:    opts,
	}, nil
}

func (o planOptions) merge() catalog.ReparentOptions {
	opts := catalog.DefaultReparentOptions()
	if o.ValidateConstraints != nil {
		opts.ValidateConstraints = *o.ValidateConstraints
	}
	if o.UpdateProducts != nil {
		opts.UpdateProducts = *o.UpdateProducts
	}
	if o.BatchSize > 0 {
		opts.BatchSize = o.BatchSize
	}
	if o.DryRun != nil {
		opts.DryRun = *o.DryRun
	}
	return opts
}

func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
