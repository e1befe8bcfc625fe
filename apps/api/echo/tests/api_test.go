package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalimaslam/ace-brainiac-admin/storage/inmem"
)

func Test_adminApi_queryTests(t *testing.T) {
	app, _, token := setup(t)

	path := func(params map[string]string) string {
		v := make(url.Values)
		for k, val := range params {
			v.Set(k, val)
		}
		return "/admin/test?" + v.Encode()
	}

	type page struct {
		Tests       []inmemdb.TestRow `json:"tests"`
		TotalPages  int               `json:"totalPages"`
		CurrentPage int               `json:"currentPage"`
		Count       int               `json:"count"`
	}

	tests := []struct {
		name      string
		params    map[string]string
		wantLen   int
		wantPages int
		wantPage  int
		wantCount int
	}{
		{name: "defaults", wantLen: 12, wantPages: 1, wantPage: 1, wantCount: 12},
		{name: "first page", params: map[string]string{"limit": "9", "page": "1"}, wantLen: 9, wantPages: 2, wantPage: 1, wantCount: 12},
		{name: "second page", params: map[string]string{"limit": "9", "page": "2"}, wantLen: 3, wantPages: 2, wantPage: 2, wantCount: 12},
		{name: "search", params: map[string]string{"limit": "9", "page": "1", "query": "math 101"}, wantLen: 2, wantPages: 1, wantPage: 1, wantCount: 2},
		{name: "drafts", params: map[string]string{"limit": "9", "page": "1", "status": "DRAFT"}, wantLen: 4, wantPages: 1, wantPage: 1, wantCount: 4},
		{name: "certified", params: map[string]string{"limit": "9", "page": "1", "certification": "true"}, wantLen: 5, wantPages: 1, wantPage: 1, wantCount: 5},
		{name: "nothing that day", params: map[string]string{"limit": "9", "page": "1", "date": "1999-12-31"}, wantLen: 0, wantPages: 0, wantPage: 1, wantCount: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, path(tt.params), token)
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got page
			decode(t, rec.Body.Bytes(), &got, "data")
			assert.Len(t, got.Tests, tt.wantLen)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.wantPage, got.CurrentPage)
			assert.Equal(t, tt.wantCount, got.Count)
		})
	}
}

func Test_adminApi_queryTests_invalid(t *testing.T) {
	app, _, token := setup(t)

	tests := []httpTest{
		{
			name: "unknown status", path: "/admin/test?status=ARCHIVED",
			wantCode: http.StatusBadRequest, wantData: []byte(`{"message": "status must be one of [DRAFT PUBLISHED]", "fields": {"TestsQuery.status": "status must be one of [DRAFT PUBLISHED]"}}`),
		},
		{
			name: "bad date", path: "/admin/test?date=31-01-2024",
			wantCode: http.StatusBadRequest, wantData: []byte(`{"message": "date must be a date formatted as YYYY-MM-DD", "fields": {"TestsQuery.date": "date must be a date formatted as YYYY-MM-DD"}}`),
		},
		{name: "page is not a number", path: "/admin/test?page=two", wantCode: http.StatusBadRequest},
		{name: "limit too high", path: "/admin/test?limit=1000", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			var res httpErr
			decode(t, rec.Body.Bytes(), &res)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func Test_adminApi_dashboard(t *testing.T) {
	app, _, token := setup(t)

	req, rec := newAuthRequest(http.MethodGet, "/admin/admin/dashboard", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var counts inmemdb.Counts
	decode(t, rec.Body.Bytes(), &counts, "data", "counts")
	assert.Equal(t, inmemdb.Counts{Students: 1250, Schools: 14, Teachers: 87, Tests: 12}, counts)

	var dist map[string]int
	decode(t, rec.Body.Bytes(), &dist, "data", "subscriptionDistribution")
	assert.Equal(t, map[string]int{"Basic": 3, "Premium": 2, "Trial": 1}, dist)

	var recentTests []inmemdb.TestRow
	decode(t, rec.Body.Bytes(), &recentTests, "data", "recentlyCreatedTests")
	require.Len(t, recentTests, 5)
	assert.Equal(t, "Computer science intro", recentTests[0].Title.String)

	var members []inmemdb.MemberRow
	decode(t, rec.Body.Bytes(), &members, "data", "recentlySubscribedMembers")
	require.Len(t, members, 5)
	assert.Equal(t, "Lycée Wima", members[0].Name)

	var chart inmemdb.GrowthChart
	decode(t, rec.Body.Bytes(), &chart, "data", "userGrowthChart")
	assert.Len(t, chart.Labels, 6)
	assert.Len(t, chart.Data, 6)
	assert.Equal(t, 6, chart.Cumulative[5])
}

func Test_personaApi_notifications(t *testing.T) {
	app, db, token := setup(t)
	repo := inmemdb.NewNotificationRepository(db)
	rows, _, _ := repo.QueryNotifications(0)

	type feed struct {
		Notifications []inmemdb.NotificationRow `json:"notifications"`
		TotalUnread   int                       `json:"totalUnreadNotifications"`
		Total         int                       `json:"totalNotifications"`
	}
	get := func(t *testing.T, path string) feed {
		req, rec := newAuthRequest(http.MethodGet, path, token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var status int
		decode(t, rec.Body.Bytes(), &status, "statusCode", "status")
		require.Equal(t, http.StatusOK, status)
		var f feed
		decode(t, rec.Body.Bytes(), &f, "statusCode", "data")
		return f
	}

	f := get(t, "/persona/notifications?limit=2")
	assert.Len(t, f.Notifications, 2)
	assert.Equal(t, 3, f.TotalUnread)
	assert.Equal(t, 5, f.Total)

	tests := []httpTest{
		{
			name: "mark one read", method: http.MethodPatch, path: "/persona/notifications/" + rows[0].ID,
			wantCode: http.StatusOK, wantData: []byte(`{"statusCode": {"status": 200, "message": "Notification marked as read"}}`),
		},
		{
			name: "unknown notification", method: http.MethodPatch, path: "/persona/notifications/nope",
			wantCode: http.StatusNotFound, wantData: []byte(`{"message": "notification not found"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	f = get(t, "/persona/notifications")
	assert.Len(t, f.Notifications, 5)
	assert.True(t, f.Notifications[0].Read)
	assert.Equal(t, 2, f.TotalUnread)

	req, rec := newAuthRequest(http.MethodPatch, "/persona/notifications", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: []byte(`{"statusCode": {"status": 200, "message": "All notifications marked as read"}}`),
	}, rec)
	assert.Equal(t, 0, get(t, "/persona/notifications").TotalUnread)
}
