package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/journal"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
	"github.com/mrchypark/pocketbase-go-skill/internal/reconcile"
)

func (a *App) apply(ctx context.Context) error {
	doc, err := a.store.Load(ctx, a.cfg.SchemaPath)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	a.logger.Info(ctx, "schema loaded", "location", a.cfg.SchemaPath, "collections", len(doc))

	var report *reconcile.Report
	err = a.mutate(ctx, func(ctx context.Context, r *reconcile.Reconciler) ([]journal.Item, error) {
		rep, err := r.Apply(ctx, doc)
		if err != nil {
			return nil, err
		}
		report = rep
		printReport(a.out, report)
		return reportItems(report), nil
	})
	if err != nil {
		return err
	}

	if n := len(report.Failed()); n > 0 && a.cmd.Strict {
		return fmt.Errorf("%d failed steps: %w", n, ErrPartialApply)
	}
	return nil
}

func reportItems(report *reconcile.Report) []journal.Item {
	items := make([]journal.Item, len(report.Items))
	for i, it := range report.Items {
		items[i] = journal.Item{
			Collection: it.Collection,
			Action:     string(it.Action),
			RemoteID:   it.ID,
		}
		if it.Err != nil {
			items[i].Error = it.Err.Error()
		}
	}
	return items
}

func (a *App) dump(ctx context.Context) error {
	r, err := a.connect(ctx)
	if err != nil {
		return err
	}

	doc, err := r.Dump(ctx)
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, a.cfg.SchemaPath, doc); err != nil {
		return fmt.Errorf("save schema: %w", err)
	}

	successColor.Fprintf(a.out, "Schema dumped to %s (%d collections)\n", a.cfg.SchemaPath, len(doc))
	return nil
}

func (a *App) createCollection(ctx context.Context) error {
	name := strings.TrimSpace(a.cmd.CollectionName)
	if name == "" {
		return fmt.Errorf("--name is required: %w", common.ErrInvalidInput)
	}
	typ := models.CollectionType(a.cmd.CollectionType)
	if !typ.Valid() {
		return fmt.Errorf("--type must be base, auth or view, got %q: %w", a.cmd.CollectionType, common.ErrInvalidInput)
	}

	return a.mutate(ctx, func(ctx context.Context, r *reconcile.Reconciler) ([]journal.Item, error) {
		created, err := r.CreateCollection(ctx, name, typ)
		if err != nil {
			return []journal.Item{{Collection: name, Action: "create", Error: err.Error()}}, err
		}
		successColor.Fprintf(a.out, "Collection %s created (id %s)\n", name, created.ID)
		return []journal.Item{{Collection: name, Action: "create", RemoteID: created.ID}}, nil
	})
}

func (a *App) addField(ctx context.Context) error {
	if a.cmd.Collection == "" || a.cmd.FieldJSON == "" {
		return fmt.Errorf("--collection and --field-json are required: %w", common.ErrInvalidInput)
	}
	field, err := models.ParseField([]byte(a.cmd.FieldJSON))
	if err != nil {
		return fmt.Errorf("--field-json: %w: %w", common.ErrInvalidInput, err)
	}
	if field.Name == "" {
		return fmt.Errorf("--field-json must contain a name: %w", common.ErrInvalidInput)
	}

	return a.mutate(ctx, func(ctx context.Context, r *reconcile.Reconciler) ([]journal.Item, error) {
		change, err := r.AddField(ctx, a.cmd.Collection, field)
		return a.fieldChange(change, a.cmd.Collection, field.Name, err)
	})
}

func (a *App) deleteField(ctx context.Context) error {
	if a.cmd.Collection == "" || a.cmd.FieldName == "" {
		return fmt.Errorf("--collection and --field-name are required: %w", common.ErrInvalidInput)
	}

	return a.mutate(ctx, func(ctx context.Context, r *reconcile.Reconciler) ([]journal.Item, error) {
		change, err := r.DeleteField(ctx, a.cmd.Collection, a.cmd.FieldName)
		return a.fieldChange(change, a.cmd.Collection, a.cmd.FieldName, err)
	})
}

func (a *App) fieldChange(change reconcile.FieldChange, collection, field string, err error) ([]journal.Item, error) {
	if err != nil {
		return []journal.Item{{Collection: collection, Action: a.cmd.Name, Detail: field, Error: err.Error()}}, err
	}
	successColor.Fprintf(a.out, "Field %s %s in %s\n", change.Field, change.Action, change.Collection)
	return []journal.Item{{
		Collection: change.Collection,
		Action:     string(change.Action),
		RemoteID:   change.CollectionID,
		Detail:     change.Field,
	}}, nil
}

func (a *App) history(ctx context.Context) error {
	if a.cfg.JournalPath == "" {
		fmt.Fprintln(a.out, "Run journal is disabled")
		return nil
	}

	j, err := a.openJournal(ctx, a.cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	runs, err := j.Recent(ctx, a.cmd.Limit)
	if err != nil {
		return err
	}
	printHistory(a.out, runs)
	return nil
}
