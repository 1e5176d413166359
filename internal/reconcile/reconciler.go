package reconcile

import (
	"context"
	"fmt"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/logging"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
	"github.com/mrchypark/pocketbase-go-skill/internal/pocketbase"
	"github.com/mrchypark/pocketbase-go-skill/internal/schema"
)

// Reconciler drives schema changes through a pocketbase.Client.
type Reconciler struct {
	client pocketbase.Client
	logger logging.Logger
}

// New constructs a Reconciler bound to an authenticated client.
func New(client pocketbase.Client, logger logging.Logger) *Reconciler {
	return &Reconciler{client: client, logger: logger}
}

// Apply reads the remote schema once and reconciles desired against it.
// Only a failure to read the remote schema is returned as an error;
// per-collection failures end up in the Report.
func (r *Reconciler) Apply(ctx context.Context, desired models.Document) (*Report, error) {
	remote, err := r.client.ListCollections(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("read remote schema: %w", err)
	}
	return r.ApplyState(ctx, desired, NewState(remote)), nil
}

// ApplyState runs both passes against st, updating it as collections are
// created.
func (r *Reconciler) ApplyState(ctx context.Context, desired models.Document, st *State) *Report {
	report := &Report{}
	r.createPass(ctx, desired, st, report)
	r.updatePass(ctx, desired, st, report)
	return report
}

// payload builds a fresh request body from a desired collection.
func (r *Reconciler) payload(ctx context.Context, want models.Collection, st *State) models.Collection {
	p := schema.Resolve(schema.Normalize(want), st.Index)
	if refs := schema.Unresolved(p, st.Index); len(refs) > 0 {
		r.logger.Debug(ctx, "unresolved relation targets", "collection", want.Name, "targets", refs)
	}
	return p
}

func (r *Reconciler) createPass(ctx context.Context, desired models.Document, st *State, report *Report) {
	for _, want := range desired {
		if _, ok := st.Index.Lookup(want.Name); ok {
			continue
		}
		log := r.logger.With("collection", want.Name)

		log.Info(ctx, "creating collection")
		created, err := r.client.CreateCollection(ctx, r.payload(ctx, want, st))
		if err == nil && created.ID == "" {
			err = fmt.Errorf("created collection has no id: %w", common.ErrInvalidResponse)
		}
		if err != nil {
			log.Error(ctx, "creation failed, will retry in update pass", "error", err)
			report.add(ItemResult{Collection: want.Name, Action: ActionCreate, Err: err})
			continue
		}

		if created.Name == "" {
			created.Name = want.Name
		}
		st.Record(created)
		report.add(ItemResult{Collection: want.Name, Action: ActionCreate, ID: created.ID})
	}
}

func (r *Reconciler) updatePass(ctx context.Context, desired models.Document, st *State, report *Report) {
	for _, want := range desired {
		log := r.logger.With("collection", want.Name)

		current, ok := st.Lookup(want.Name)
		if !ok {
			log.Warn(ctx, "collection does not exist remotely, skipping update")
			report.add(ItemResult{Collection: want.Name, Action: ActionSkip})
			continue
		}

		p := r.payload(ctx, want, st)
		p.ID = current.ID

		log.Info(ctx, "updating collection", "id", current.ID)
		if _, err := r.client.UpdateCollection(ctx, current.ID, p); err != nil {
			log.Error(ctx, "update failed", "id", current.ID, "error", err)
			report.add(ItemResult{Collection: want.Name, Action: ActionUpdate, ID: current.ID, Err: err})
			continue
		}
		report.add(ItemResult{Collection: want.Name, Action: ActionUpdate, ID: current.ID})
	}
}
