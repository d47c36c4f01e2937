// Package committer batches Spanner mutations and applies them in one
// transaction.
//
// Callers build mutations through the model facades in internal/models,
// collect them into a CommitPlan and hand the plan to a Committer:
//
//	plan := committer.NewPlan()
//	plan.Add(model.UpsertMut(data))
//	return c.Apply(ctx, plan)
package committer

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
)

// CommitPlan collects mutations to be applied atomically.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{mutations: make([]*spanner.Mutation, 0)}
}

// Add adds a mutation to the plan. Nil mutations are ignored.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty reports whether the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Applier is the subset of *spanner.Client a Committer needs.
type Applier interface {
	Apply(ctx context.Context, ms []*spanner.Mutation, opts ...spanner.ApplyOption) (time.Time, error)
}

// Committer executes CommitPlans.
type Committer struct {
	client Applier
}

// NewCommitter creates a new Committer.
func NewCommitter(client Applier) *Committer {
	return &Committer{client: client}
}

// Apply executes the plan atomically. An empty plan is a no-op.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}
	return nil
}
