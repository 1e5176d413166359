package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/mrchypark/pocketbase-go-skill/internal/logging"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
	"github.com/mrchypark/pocketbase-go-skill/internal/pocketbase"
	"github.com/stretchr/testify/require"
)

// ---- fake backend ----

type call struct {
	Method string
	Target string
	Body   string
}

// fakeBackend keeps collections in memory and behaves like the real
// backend for the calls the reconciler makes: identifiers are assigned on
// create and updates merge top-level keys server-side.
type fakeBackend struct {
	order  []string
	byID   map[string]models.Collection
	nextID int

	calls   []call
	creates []models.Collection

	ListErr   error
	GetErr    error
	CreateErr map[string]error
	UpdateErr map[string]error
}

var _ pocketbase.Client = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		byID:      map[string]models.Collection{},
		CreateErr: map[string]error{},
		UpdateErr: map[string]error{},
	}
}

// seed stores collections as if they already existed remotely.
func (f *fakeBackend) seed(t *testing.T, raw string) {
	t.Helper()
	var doc models.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	for _, c := range doc {
		if c.ID == "" {
			c.ID = f.newID()
		}
		f.order = append(f.order, c.ID)
		f.byID[c.ID] = c
	}
}

func (f *fakeBackend) newID() string {
	f.nextID++
	return fmt.Sprintf("pbc_%03d", f.nextID)
}

func (f *fakeBackend) record(method, target string, body any) {
	c := call{Method: method, Target: target}
	if body != nil {
		b, _ := json.Marshal(body)
		c.Body = string(b)
	}
	f.calls = append(f.calls, c)
}

func (f *fakeBackend) mutating() []call {
	var out []call
	for _, c := range f.calls {
		if c.Method == http.MethodPost || c.Method == http.MethodPatch {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBackend) byName(name string) (models.Collection, bool) {
	for _, id := range f.order {
		if c := f.byID[id]; c.Name == name {
			return c.Clone(), true
		}
	}
	return models.Collection{}, false
}

func (f *fakeBackend) all() models.Document {
	out := make(models.Document, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id].Clone())
	}
	return out
}

func (f *fakeBackend) Health(context.Context) error { return nil }

func (f *fakeBackend) Authenticate(context.Context, string, string) (pocketbase.Token, error) {
	return pocketbase.Token{Value: "token"}, nil
}

func (f *fakeBackend) ListCollections(_ context.Context, filter string) ([]models.Collection, error) {
	f.record(http.MethodGet, "list?"+filter, nil)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if filter == "" {
		return f.all(), nil
	}

	name := strings.TrimSuffix(strings.TrimPrefix(filter, "name='"), "'")
	name = strings.NewReplacer(`\'`, `'`, `\\`, `\`).Replace(name)
	var out []models.Collection
	if c, ok := f.byName(name); ok {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeBackend) GetCollection(_ context.Context, idOrName string) (models.Collection, error) {
	f.record(http.MethodGet, idOrName, nil)
	if f.GetErr != nil {
		return models.Collection{}, f.GetErr
	}
	if c, ok := f.byID[idOrName]; ok {
		return c.Clone(), nil
	}
	if c, ok := f.byName(idOrName); ok {
		return c, nil
	}
	return models.Collection{}, &pocketbase.HTTPError{Method: http.MethodGet, Path: idOrName, Status: http.StatusNotFound}
}

func (f *fakeBackend) CreateCollection(_ context.Context, c models.Collection) (models.Collection, error) {
	f.record(http.MethodPost, c.Name, c)
	f.creates = append(f.creates, c.Clone())
	if err := f.CreateErr[c.Name]; err != nil {
		return models.Collection{}, err
	}
	if _, exists := f.byName(c.Name); exists {
		return models.Collection{}, &pocketbase.HTTPError{Method: http.MethodPost, Status: http.StatusBadRequest}
	}

	stored := roundTrip(c)
	stored.ID = f.newID()
	f.order = append(f.order, stored.ID)
	f.byID[stored.ID] = stored
	return stored.Clone(), nil
}

func (f *fakeBackend) UpdateCollection(_ context.Context, id string, payload any) (models.Collection, error) {
	f.record(http.MethodPatch, id, payload)
	current, ok := f.byID[id]
	if !ok {
		return models.Collection{}, &pocketbase.HTTPError{Method: http.MethodPatch, Path: id, Status: http.StatusNotFound}
	}
	if err := f.UpdateErr[current.Name]; err != nil {
		return models.Collection{}, err
	}

	merged := map[string]any{}
	mustRemarshal(current, &merged)
	patch := map[string]any{}
	mustRemarshal(payload, &patch)
	for k, v := range patch {
		merged[k] = v
	}

	var updated models.Collection
	mustRemarshal(merged, &updated)
	updated.ID = id
	f.byID[id] = updated
	return updated.Clone(), nil
}

// ---- helpers ----

func mustRemarshal(in, out any) {
	b, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		panic(err)
	}
}

func roundTrip(c models.Collection) models.Collection {
	var out models.Collection
	mustRemarshal(c, &out)
	return out
}

// generic decodes v into plain JSON values so comparisons ignore nil versus
// empty maps.
func generic(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func parseDocument(t *testing.T, raw string) models.Document {
	t.Helper()
	var doc models.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func newTestReconciler(backend *fakeBackend) *Reconciler {
	return New(backend, logging.Discard())
}
