package reconcile

import (
	"errors"
	"fmt"
)

// Action is what Apply did, or tried to do, with one collection.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	// ActionSkip marks a collection left out of the update pass because it
	// still does not exist remotely.
	ActionSkip Action = "skip"
)

// ItemResult is the outcome of one step of an Apply run.
type ItemResult struct {
	Collection string
	Action     Action
	ID         string
	Err        error
}

// OK reports whether the step succeeded.
func (i ItemResult) OK() bool {
	return i.Err == nil
}

// Report lists every step of an Apply run in execution order.
type Report struct {
	Items []ItemResult
}

func (r *Report) add(item ItemResult) {
	r.Items = append(r.Items, item)
}

// Succeeded counts successful steps of the given action.
func (r *Report) Succeeded(a Action) int {
	n := 0
	for _, it := range r.Items {
		if it.Action == a && it.OK() {
			n++
		}
	}
	return n
}

// Failed returns the steps that returned an error.
func (r *Report) Failed() []ItemResult {
	var out []ItemResult
	for _, it := range r.Items {
		if !it.OK() {
			out = append(out, it)
		}
	}
	return out
}

// Err joins the errors of all failed steps; nil when every step succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, it := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s %s: %w", it.Action, it.Collection, it.Err))
	}
	return errors.Join(errs...)
}
