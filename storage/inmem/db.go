package inmemdb

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var ErrNotFound = errors.New("not found")

type (
	// TestRow is a test as the admin API serves it.
	TestRow struct {
		ID                     int         `json:"id"`
		Title                  null.String `json:"title"`
		Subject                null.String `json:"subject"`
		Class                  null.String `json:"class"`
		Status                 string      `json:"status"`
		CertificationAvailable bool        `json:"certificationAvailable"`
		Questions              []Question  `json:"questions"`
		Duration               null.Int    `json:"duration"`
		PassPercentage         null.Int    `json:"pass_percentage"`
		TotalMarks             null.Int    `json:"totalMarks"`
		CreatedBy              null.String `json:"created_by"`
		CreatedAt              time.Time   `json:"createdAt"`
	}

	Question struct {
		ID   int    `json:"id"`
		Text string `json:"text"`
	}

	NotificationRow struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Message   string    `json:"message"`
		Type      string    `json:"type"`
		Read      bool      `json:"read"`
		CreatedAt time.Time `json:"createdAt"`
	}

	MemberRow struct {
		ID           int       `json:"id"`
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		Plan         string    `json:"plan"`
		SubscribedAt time.Time `json:"subscribedAt"`
	}

	GrowthChart struct {
		Labels     []string `json:"labels"`
		Data       []int    `json:"data"`
		Cumulative []int    `json:"cumulative"`
	}

	Counts struct {
		Students int `json:"students"`
		Schools  int `json:"schools"`
		Teachers int `json:"teachers"`
		Tests    int `json:"tests"`
	}
)

type testTable struct {
	mutex sync.RWMutex
	table map[int]*TestRow
	pk    int
}

type notificationTable struct {
	mutex sync.RWMutex
	rows  []*NotificationRow // newest first
}

type memberTable struct {
	mutex    sync.RWMutex
	rows     []MemberRow
	schools  int
	students int
	teachers int
}

// DB is the in-memory store behind the development API.
type DB struct {
	test         *testTable
	notification *notificationTable
	member       *memberTable
}

// mockable
var timeNow = time.Now

func NewDB() *DB {
	return &DB{
		test:         &testTable{table: make(map[int]*TestRow)},
		notification: new(notificationTable),
		member:       new(memberTable),
	}
}
