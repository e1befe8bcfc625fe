package exam

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/core/lifecycle"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestFromRecord(t *testing.T) {
	created := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want Test
	}{
		{
			name: "complete",
			raw: `{"id": 12, "title": "Algebra I", "subject": "Maths", "class": "S4", "status": "PUBLISHED",
				"certificationAvailable": true, "questions": [{}, {}, {}], "duration": 45,
				"pass_percentage": 60, "created_by": "Mme Kabila", "createdAt": "2024-02-03T04:05:06Z"}`,
			want: Test{
				ID: "12", Name: "Algebra I", Description: "Maths - S4", Status: LabelPublished,
				CertificationAvailable: true, TotalQuestions: 3, Duration: "45", PassPercentage: "60",
				CreatedBy: "Mme Kabila", CreatedAt: created,
			},
		},
		{
			name: "empty record",
			raw:  `{}`,
			want: Test{
				Name: UntitledName, Description: NoDescription, Status: LabelPublished,
				PassPercentage: NoPassPercentage, CreatedBy: DefaultAuthor, CreatedAt: now,
			},
		},
		{
			name: "draft with only a class",
			raw:  `{"id": "t-1", "title": "", "class": "S2", "status": "DRAFT", "totalMarks": 20, "duration": 0}`,
			want: Test{
				ID: "t-1", Name: UntitledName, Description: "S2", Status: LabelDraft,
				PassPercentage: "20", CreatedBy: DefaultAuthor, CreatedAt: now,
			},
		},
		{
			name: "unknown status is published, junk types are tolerated",
			raw: `{"status": "ARCHIVED", "certificationAvailable": "yes", "questions": "abc",
				"title": null, "createdAt": "yesterday", "pass_percentage": 0, "totalMarks": "0"}`,
			want: Test{
				Name: UntitledName, Description: NoDescription, Status: LabelPublished,
				CertificationAvailable: true, TotalQuestions: 3, PassPercentage: "0",
				CreatedBy: DefaultAuthor, CreatedAt: now,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &r))
			if diff := cmp.Diff(tt.want, FromRecord(r, now)); diff != "" {
				t.Errorf("FromRecord() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	payload := `{"data": {"tests": [{"title": "A"}, {"title": "B"}, {"title": "C"}], "totalPages": 4, "currentPage": 2, "count": 36}}`

	got := Normalize([]byte(payload), now)

	require.Len(t, got.Items, 3)
	assert.Equal(t, "A", got.Items[0].Name)
	assert.Equal(t, "C", got.Items[2].Name)
	assert.Equal(t, lifecycle.PageMeta{TotalPages: 4, TotalCount: 36, CurrentPage: 2}, got.Meta)
}

func TestNormalize_lenient(t *testing.T) {
	payloads := map[string]string{
		"nil":              "",
		"not json":         "<!doctype html>",
		"no data":          `{"message": "ok"}`,
		"no tests":         `{"data": {"totalPages": 4, "count": 36}}`,
		"tests not a list": `{"data": {"tests": {"0": {}}, "totalPages": 4, "count": 36}}`,
		"tests null":       `{"data": {"tests": null, "totalPages": 4}}`,
		"bad totalPages":   `{"data": {"tests": [], "totalPages": [4]}}`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			got := Normalize([]byte(payload), now)
			assert.Equal(t, lifecycle.EmptyListing[Test](), got)
		})
	}

	t.Run("pagination defaults", func(t *testing.T) {
		got := Normalize([]byte(`{"data": {"tests": []}}`), now)
		assert.Equal(t, []Test{}, got.Items)
		assert.Equal(t, 1, got.Meta.TotalPages)
		assert.Equal(t, 0, got.Meta.TotalCount)
	})
}

func TestFormatDate(t *testing.T) {
	local := time.Date(2024, 1, 31, 10, 0, 0, 0, time.Local)
	var nilTime *time.Time

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "empty", value: "  ", want: ""},
		{name: "iso date", value: "2024-01-31", want: "2024-01-31"},
		{name: "time", value: local, want: "2024-01-31"},
		{name: "time pointer", value: &local, want: "2024-01-31"},
		{name: "nil time pointer", value: nilTime, want: ""},
		{name: "zero time", value: time.Time{}, want: ""},
		{name: "local datetime string", value: local.Format("2006-01-02T15:04:05"), want: "2024-01-31"},
		{name: "unix millis", value: local.UnixMilli(), want: "2024-01-31"},
		{name: "garbage", value: "next tuesday", want: ""},
		{name: "unsupported type", value: 3.14, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.value))
		})
	}
}

type request struct {
	path  string
	query url.Values
}

type fakeTransport struct {
	mu       sync.Mutex
	requests []request
	payload  string
}

func (tr *fakeTransport) Get(_ context.Context, path string, query url.Values) ([]byte, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.requests = append(tr.requests, request{path: path, query: query})
	return []byte(tr.payload), nil
}

func (tr *fakeTransport) Patch(context.Context, string) ([]byte, error) {
	return nil, core.NewRequestError(405, "not allowed")
}

func (tr *fakeTransport) last() request {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.requests[len(tr.requests)-1]
}

func waitFor(t *testing.T, c *Catalog) lifecycle.Snapshot[lifecycle.Listing[Test]] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := c.Wait(ctx)
	require.NoError(t, err)
	return snap
}

func TestCatalog(t *testing.T) {
	tr := &fakeTransport{
		payload: `{"data": {"tests": [{"id": 1, "title": "Physics"}], "totalPages": 2, "currentPage": 1, "count": 2}}`,
	}
	cat, err := NewCatalog(tr, lifecycle.Env{}, 0, map[string]interface{}{
		ParamStatus:     StatusDraft,
		ParamCreateDate: "2024-03-01",
	})
	require.NoError(t, err)
	defer cat.Close()

	snap := waitFor(t, cat)
	require.Len(t, snap.Data.Items, 1)
	assert.Equal(t, "Physics", snap.Data.Items[0].Name)

	req := tr.last()
	assert.Equal(t, "/admin/test", req.path)
	assert.Equal(t, url.Values{
		"limit":  {"9"},
		"page":   {"1"},
		"status": {"DRAFT"},
		"date":   {"2024-03-01"},
	}, req.query)

	assert.False(t, cat.PrevPage())
	assert.True(t, cat.NextPage())
	waitFor(t, cat)
	assert.Equal(t, "2", tr.last().query.Get("page"))

	assert.False(t, cat.NextPage(), "page 2 of 2 is the last one")
	assert.True(t, cat.PrevPage())
	waitFor(t, cat)
	assert.Equal(t, "1", tr.last().query.Get("page"))
}
