package notification

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/aalimaslam/ace-brainiac-admin/core"
)

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Record is a notification as the API sends it.
type Record struct {
	ID        core.Loose `json:"id"`
	Title     core.Loose `json:"title"`
	Message   core.Loose `json:"message"`
	Type      core.Loose `json:"type"`
	Read      core.Loose `json:"read"`
	CreatedAt core.Loose `json:"createdAt"`
}

func FromRecord(r Record, now time.Time) Notification {
	return Notification{
		ID:        r.ID.String(),
		Title:     r.Title.String(),
		Message:   r.Message.String(),
		Type:      r.Type.String(),
		Read:      r.Read.Truthy(),
		CreatedAt: r.CreatedAt.Time(now),
	}
}

// Inbox is the notifications feed of the signed in admin.
type Inbox struct {
	Items  []Notification
	Unread int // as reported by the server, then kept in sync with confirmed read marks
	Total  int
}

func EmptyInbox() Inbox {
	return Inbox{Items: []Notification{}}
}

// Clone returns a copy of the inbox that shares no items with it.
func (in Inbox) Clone() Inbox {
	return Inbox{Items: slices.Clone(in.Items), Unread: in.Unread, Total: in.Total}
}

// withRead returns a copy of the inbox where notification `id` is read and the unread count
// is one lower, never below zero.
func (in Inbox) withRead(id string) Inbox {
	items := make([]Notification, len(in.Items))
	for i, n := range in.Items {
		if n.ID == id {
			n.Read = true
		}
		items[i] = n
	}
	unread := in.Unread - 1
	if unread < 0 {
		unread = 0
	}
	return Inbox{Items: items, Unread: unread, Total: in.Total}
}

// withAllRead returns a copy of the inbox where every notification is read.
func (in Inbox) withAllRead() Inbox {
	items := make([]Notification, len(in.Items))
	for i, n := range in.Items {
		n.Read = true
		items[i] = n
	}
	return Inbox{Items: items, Unread: 0, Total: in.Total}
}

type listEnvelope struct {
	StatusCode *struct {
		Status core.Loose `json:"status"`
		Data   *struct {
			Notifications json.RawMessage `json:"notifications"`
			TotalUnread   core.Loose      `json:"totalUnreadNotifications"`
			Total         core.Loose      `json:"totalNotifications"`
		} `json:"data"`
	} `json:"statusCode"`
}

// Normalize maps a `{statusCode: {data: {notifications, totalUnreadNotifications, totalNotifications}}}`
// payload to an Inbox. The counts are kept when the collection is missing or mistyped;
// anything else yields the empty inbox.
func Normalize(payload []byte, now time.Time) Inbox {
	var env listEnvelope
	if err := json.Unmarshal(payload, &env); err != nil || env.StatusCode == nil || env.StatusCode.Data == nil {
		return EmptyInbox()
	}
	data := env.StatusCode.Data
	in := EmptyInbox()
	in.Unread = max(0, data.TotalUnread.Int())
	in.Total = max(0, data.Total.Int())

	var records []Record
	if err := json.Unmarshal(data.Notifications, &records); err != nil {
		return in
	}
	for _, r := range records {
		in.Items = append(in.Items, FromRecord(r, now))
	}
	return in
}

type mutationEnvelope struct {
	StatusCode *struct {
		Status null.Int `json:"status"`
	} `json:"statusCode"`
}

// confirmed reports whether a mutation response carries `statusCode.status == 200`.
func confirmed(payload []byte) bool {
	var env mutationEnvelope
	if err := json.Unmarshal(payload, &env); err != nil || env.StatusCode == nil {
		return false
	}
	return env.StatusCode.Status.Valid && env.StatusCode.Status.Int == 200
}

// Age renders how long ago a notification was created: minutes, hours and days
// up to a week, then the date.
func Age(created, now time.Time) string {
	d := now.Sub(created)
	if d < 0 {
		d = 0
	}
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s ago", n, unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	switch {
	case d < time.Hour:
		return plural(int(d/time.Minute), "min")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	default:
		return created.Local().Format("1/2/2006")
	}
}
