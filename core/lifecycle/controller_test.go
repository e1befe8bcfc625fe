package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	testclock "k8s.io/utils/clock/testing"

	"github.com/aalimaslam/ace-brainiac-admin/core"
)

type result struct {
	payload []byte
	err     error
}

type call struct {
	ctx   context.Context
	query Query
	reply chan result
}

func (c *call) respond(payload string) {
	c.reply <- result{payload: []byte(payload)}
}

func (c *call) fail(err error) {
	c.reply <- result{err: err}
}

// fakeAPI hands every request to the test, which decides when and how it resolves.
// Like some real transports it resolves with whatever it is given, even after an abort.
type fakeAPI struct {
	calls chan *call
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(chan *call, 16)}
}

func (a *fakeAPI) fetch(ctx context.Context, q Query) ([]byte, error) {
	c := &call{ctx: ctx, query: q, reply: make(chan result, 1)}
	a.calls <- c
	r := <-c.reply
	return r.payload, r.err
}

func (a *fakeAPI) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-a.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no request dispatched")
		return nil
	}
}

func (a *fakeAPI) none(t *testing.T) {
	t.Helper()
	select {
	case c := <-a.calls:
		t.Fatalf("unexpected request dispatched: %v", c.query.Params())
	case <-time.After(50 * time.Millisecond):
	}
}

type testPayload struct {
	Items      json.RawMessage `json:"items"`
	TotalPages null.Int        `json:"totalPages"`
	Count      null.Int        `json:"count"`
}

func normalizeStrings(payload []byte, _ time.Time) Listing[string] {
	var p testPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return EmptyListing[string]()
	}
	var items []string
	if err := json.Unmarshal(p.Items, &items); err != nil || items == nil {
		return EmptyListing[string]()
	}
	return Listing[string]{Items: items, Meta: NewPageMeta(p.TotalPages, p.Count, null.Int{})}
}

func setup(t *testing.T, params map[string]interface{}) (*Controller[Listing[string]], *fakeAPI, *testclock.FakeClock) {
	t.Helper()
	api := newFakeAPI()
	fc := testclock.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	c, err := New(Options[Listing[string]]{
		Env:       Env{Clock: fc, Debounce: 500 * time.Millisecond},
		Name:      "things",
		Schema:    testSchema,
		Params:    params,
		Fetch:     api.fetch,
		Normalize: normalizeStrings,
		Clone:     Listing[string].Clone,
		Fallback:  "Failed to fetch things",
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, api, fc
}

func settle(t *testing.T, c *Controller[Listing[string]]) Snapshot[Listing[string]] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := c.Wait(ctx)
	require.NoError(t, err)
	return snap
}

func TestNew_invalidOptions(t *testing.T) {
	fetch := func(context.Context, Query) ([]byte, error) { return nil, nil }

	tests := []struct {
		name string
		opts Options[Listing[string]]
	}{
		{name: "no name", opts: Options[Listing[string]]{Fallback: "x", Fetch: fetch, Normalize: normalizeStrings}},
		{name: "no fallback", opts: Options[Listing[string]]{Name: "x", Fetch: fetch, Normalize: normalizeStrings}},
		{name: "no fetch", opts: Options[Listing[string]]{Name: "x", Fallback: "x", Normalize: normalizeStrings}},
		{name: "no normalize", opts: Options[Listing[string]]{Name: "x", Fallback: "x", Fetch: fetch}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts)
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestController_mount(t *testing.T) {
	c, api, _ := setup(t, map[string]interface{}{"status": "DRAFT"})

	first := api.next(t)
	assert.Equal(t, "DRAFT", first.query.String("status"))
	assert.Equal(t, 1, first.query.Page())
	assert.Equal(t, 9, first.query.Int("limit", 0))

	snap := c.Snapshot()
	assert.True(t, snap.Loading)
	assert.Empty(t, snap.Data.Items)
	assert.Equal(t, DefaultPageMeta, snap.Data.Meta)

	first.respond(`{"items": ["a", "b", "c"], "totalPages": 4, "count": 36}`)
	snap = settle(t, c)
	assert.False(t, snap.Loading)
	assert.False(t, snap.Failed())
	assert.Equal(t, []string{"a", "b", "c"}, snap.Data.Items)
	assert.Equal(t, 4, snap.Data.Meta.TotalPages, "page count comes from the server, not from the items")
	assert.Equal(t, 36, snap.Data.Meta.TotalCount)
}

func TestController_SetParameter(t *testing.T) {
	c, api, _ := setup(t, nil)
	api.next(t).respond(`{"items": []}`)
	settle(t, c)

	c.SetParameter("page", 3)
	got := api.next(t)
	assert.Equal(t, 3, got.query.Page())
	got.respond(`{"items": ["x"], "totalPages": 3}`)
	settle(t, c)

	c.SetParameter("status", "PUBLISHED")
	got = api.next(t)
	assert.Equal(t, 1, got.query.Page(), "a filter change resets the page")
	assert.Equal(t, "PUBLISHED", got.query.String("status"))
	got.respond(`{"items": ["y"]}`)
	snap := settle(t, c)
	assert.Equal(t, 1, snap.Query.Page())
	assert.Equal(t, []string{"y"}, snap.Data.Items)

	c.SetParameter("limit", 100)
	api.none(t)
	assert.Equal(t, 9, c.Snapshot().Query.Int("limit", 0))
}

func TestController_searchDebounce(t *testing.T) {
	c, api, fc := setup(t, nil)
	api.next(t).respond(`{"items": []}`)
	settle(t, c)

	c.SetParameter("query", "math")
	fc.Step(300 * time.Millisecond)
	c.SetParameter("query", "math101")
	api.none(t)

	fc.Step(499 * time.Millisecond)
	api.none(t)
	assert.True(t, fc.HasWaiters(), "debounce timer should still be pending")

	fc.Step(1 * time.Millisecond)
	got := api.next(t)
	assert.Equal(t, "math101", got.query.String("query"))
	api.none(t)

	got.respond(`{"items": ["math101"]}`)
	snap := settle(t, c)
	assert.Equal(t, []string{"math101"}, snap.Data.Items)
}

func TestController_loadingDuringDebounce(t *testing.T) {
	c, api, fc := setup(t, nil)
	api.next(t).respond(`{"items": []}`)
	settle(t, c)

	// nothing in flight: the pending search does not flag loading
	c.SetParameter("query", "math")
	assert.False(t, c.Snapshot().Loading)
	fc.Step(500 * time.Millisecond)
	inFlight := api.next(t)
	assert.True(t, c.Snapshot().Loading)

	// the search change cancels the attempt in flight, which leaves loading as it was
	c.SetParameter("query", "math101")
	assert.Error(t, inFlight.ctx.Err())
	inFlight.respond(`{"items": ["math"]}`)
	c.running.Wait()
	assert.True(t, c.Snapshot().Loading)

	fc.Step(500 * time.Millisecond)
	api.next(t).respond(`{"items": ["math101"]}`)
	snap := settle(t, c)
	assert.False(t, snap.Loading)
	assert.Equal(t, []string{"math101"}, snap.Data.Items)
}

func TestController_filterChangeDropsPendingSearch(t *testing.T) {
	c, api, fc := setup(t, nil)
	api.next(t).respond(`{"items": []}`)
	settle(t, c)

	c.SetParameter("query", "chem")
	c.SetParameter("status", "DRAFT")

	got := api.next(t)
	assert.Equal(t, "chem", got.query.String("query"))
	assert.Equal(t, "DRAFT", got.query.String("status"))
	assert.False(t, fc.HasWaiters())

	fc.Step(time.Second)
	api.none(t)
	got.respond(`{"items": []}`)
	settle(t, c)
}

func TestController_supersede(t *testing.T) {
	c, api, _ := setup(t, nil)
	a := api.next(t)

	c.SetParameter("status", "DRAFT")
	b := api.next(t)
	assert.Error(t, a.ctx.Err(), "superseded attempt must be canceled")
	assert.NoError(t, b.ctx.Err())

	b.respond(`{"items": ["b"], "totalPages": 2, "count": 11}`)
	snap := settle(t, c)
	assert.Equal(t, []string{"b"}, snap.Data.Items)

	// A resolves late, and successfully
	a.respond(`{"items": ["a1", "a2"], "totalPages": 9, "count": 99}`)
	c.running.Wait()

	snap = c.Snapshot()
	assert.Equal(t, []string{"b"}, snap.Data.Items)
	assert.Equal(t, 2, snap.Data.Meta.TotalPages)
	assert.Equal(t, 11, snap.Data.Meta.TotalCount)
	assert.False(t, snap.Loading)
}

func TestController_supersededFailureIsDiscarded(t *testing.T) {
	c, api, _ := setup(t, nil)
	a := api.next(t)

	c.Refetch()
	b := api.next(t)
	b.respond(`{"items": ["b"]}`)
	settle(t, c)

	a.fail(core.NewRequestError(500, "stale failure"))
	c.running.Wait()

	snap := c.Snapshot()
	assert.False(t, snap.Failed())
	assert.False(t, snap.Loading)
	assert.Equal(t, []string{"b"}, snap.Data.Items)
}

func TestController_Close(t *testing.T) {
	c, api, fc := setup(t, nil)
	a := api.next(t)

	c.Close()
	assert.Error(t, a.ctx.Err())

	a.respond(`{"items": ["late"], "totalPages": 5, "count": 50}`)
	c.running.Wait()

	snap := c.Snapshot()
	assert.Empty(t, snap.Data.Items)
	assert.Equal(t, DefaultPageMeta, snap.Data.Meta)
	assert.Empty(t, snap.Err)

	c.SetParameter("status", "DRAFT")
	c.Refetch()
	api.none(t)

	settled := settle(t, c)
	assert.Equal(t, snap, settled)
	assert.False(t, fc.HasWaiters())
}

func TestController_ClosePendingDebounce(t *testing.T) {
	c, api, fc := setup(t, nil)
	api.next(t).respond(`{"items": ["first"]}`)
	settle(t, c)

	c.SetParameter("query", "bio")
	c.Close()
	fc.Step(time.Second)
	api.none(t)
	assert.Equal(t, []string{"first"}, c.Snapshot().Data.Items)
}

func TestController_failure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{name: "server message", err: core.NewRequestError(500, "database is down"), wantErr: "database is down"},
		{name: "no server message", err: core.NewRequestError(502, ""), wantErr: "Failed to fetch things"},
		{name: "network error", err: errors.New("dial tcp: connection refused"), wantErr: "Failed to fetch things"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, api, _ := setup(t, nil)
			api.next(t).respond(`{"items": ["ok"], "totalPages": 3, "count": 30}`)
			settle(t, c)

			c.Refetch()
			api.next(t).fail(tt.err)
			snap := settle(t, c)

			assert.False(t, snap.Loading)
			assert.True(t, snap.Failed())
			assert.Equal(t, tt.wantErr, snap.Err)
			assert.Equal(t, []string{}, snap.Data.Items)
			assert.Equal(t, DefaultPageMeta, snap.Data.Meta)

			// a new attempt clears the error
			c.Refetch()
			assert.Empty(t, c.Snapshot().Err)
			api.next(t).respond(`{"items": ["back"]}`)
			assert.False(t, settle(t, c).Failed())
		})
	}
}

func TestController_malformedPayload(t *testing.T) {
	payloads := []string{
		`{"items": "nope", "totalPages": 4, "count": 36}`,
		`{"totalPages": 4, "count": 36}`,
		`{"items": null}`,
		`[]`,
		`<html>`,
		``,
	}
	for _, payload := range payloads {
		t.Run(payload, func(t *testing.T) {
			c, api, _ := setup(t, nil)
			api.next(t).respond(payload)
			snap := settle(t, c)

			assert.False(t, snap.Failed(), "malformed payloads are not errors")
			assert.Equal(t, []string{}, snap.Data.Items)
			assert.Equal(t, 1, snap.Data.Meta.TotalPages)
			assert.Equal(t, 0, snap.Data.Meta.TotalCount)
		})
	}
}

func TestController_Update(t *testing.T) {
	c, api, _ := setup(t, nil)
	api.next(t).respond(`{"items": ["a", "b"], "count": 2}`)
	before := settle(t, c)

	changes := c.Changes()
	c.Update(func(l Listing[string]) Listing[string] {
		items := append([]string{}, l.Items...)
		items[0] = "A"
		return Listing[string]{Items: items, Meta: l.Meta}
	})

	select {
	case <-changes:
	default:
		t.Fatal("Update() should signal a change")
	}
	assert.Equal(t, []string{"A", "b"}, c.Snapshot().Data.Items)
	assert.Equal(t, []string{"a", "b"}, before.Data.Items, "earlier snapshots are unaffected")
}

func TestController_SnapshotIsACopy(t *testing.T) {
	c, api, _ := setup(t, nil)
	api.next(t).respond(`{"items": ["a", "b"], "count": 2}`)
	waited := settle(t, c)

	waited.Data.Items[0] = "x"
	snap := c.Snapshot()
	snap.Data.Items[1] = "y"

	assert.Equal(t, []string{"a", "b"}, c.Snapshot().Data.Items)
}

func TestController_Wait(t *testing.T) {
	c, api, _ := setup(t, nil)
	first := api.next(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, err := c.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, snap.Loading)

	first.respond(`{"items": []}`)
	settle(t, c)
}
