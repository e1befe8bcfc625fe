package inmemdb

import (
	"github.com/google/uuid"
)

type NotificationRepository struct {
	db *notificationTable
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db.notification}
}

// Notify adds a notification on top of the feed.
func (repo *NotificationRepository) Notify(n NotificationRow) NotificationRow {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n.ID = uuid.NewString()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = timeNow().UTC()
	}
	repo.db.rows = append([]*NotificationRow{&n}, repo.db.rows...)
	return n
}

// QueryNotifications returns the newest notifications, all of them when limit <= 0,
// along with the unread and total counts of the whole feed.
func (repo *NotificationRepository) QueryNotifications(limit int) (rows []NotificationRow, unread, total int) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows = make([]NotificationRow, 0, len(repo.db.rows))
	for _, n := range repo.db.rows {
		if !n.Read {
			unread++
		}
		if limit <= 0 || len(rows) < limit {
			rows = append(rows, *n)
		}
	}
	return rows, unread, len(repo.db.rows)
}

func (repo *NotificationRepository) MarkRead(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, n := range repo.db.rows {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return ErrNotFound
}

// MarkAllRead marks the whole feed as read and returns how many were unread.
func (repo *NotificationRepository) MarkAllRead() int {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var marked int
	for _, n := range repo.db.rows {
		if !n.Read {
			n.Read = true
			marked++
		}
	}
	return marked
}
