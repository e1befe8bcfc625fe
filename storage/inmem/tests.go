package inmemdb

import (
	"sort"
	"strings"
	"time"
)

// TestFilter narrows down a test listing. Zero values do not filter.
type TestFilter struct {
	Query         string
	Status        string
	Certification string // "true" or "false"
	Date          string // YYYY-MM-DD, creation day in UTC
	Page          int
	Limit         int
}

// TestPage is one page of tests along with the pagination of the whole result.
type TestPage struct {
	Tests       []TestRow
	TotalPages  int
	CurrentPage int
	Count       int
}

type TestRepository struct {
	db *testTable
}

func NewTestRepository(db *DB) *TestRepository {
	return &TestRepository{db: db.test}
}

func (repo *TestRepository) CreateTest(t TestRow) TestRow {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pk++
	t.ID = repo.db.pk
	if t.CreatedAt.IsZero() {
		t.CreatedAt = timeNow().UTC()
	}
	repo.db.table[t.ID] = &t
	return t
}

// query returns the tests newest first.
func (repo *TestRepository) query() []TestRow {
	tests := make([]TestRow, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		tests = append(tests, *t)
	}
	sort.Slice(tests, func(i, j int) bool {
		if tests[i].CreatedAt.Equal(tests[j].CreatedAt) {
			return tests[i].ID > tests[j].ID
		}
		return tests[i].CreatedAt.After(tests[j].CreatedAt)
	})
	return tests
}

func (repo *TestRepository) CountTests() int {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.table)
}

// RecentTests returns the `n` most recently created tests.
func (repo *TestRepository) RecentTests(n int) []TestRow {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	tests := repo.query()
	if n >= 0 && len(tests) > n {
		tests = tests[:n]
	}
	return tests
}

func (repo *TestRepository) QueryTests(f TestFilter) TestPage {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(f.Query))
	matches := make([]TestRow, 0)
	for _, t := range repo.query() {
		if needle != "" && !t.matches(needle) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Certification != "" && (f.Certification == "true") != t.CertificationAvailable {
			continue
		}
		if f.Date != "" && day(t.CreatedAt) != f.Date {
			continue
		}
		matches = append(matches, t)
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = len(matches)
	}
	res := TestPage{Tests: []TestRow{}, CurrentPage: page, Count: len(matches)}
	if limit > 0 {
		res.TotalPages = (len(matches) + limit - 1) / limit
		if start := (page - 1) * limit; start < len(matches) {
			end := start + limit
			if end > len(matches) {
				end = len(matches)
			}
			res.Tests = matches[start:end]
		}
	}
	return res
}

func (t TestRow) matches(needle string) bool {
	for _, field := range []string{t.Title.String, t.Subject.String, t.Class.String} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
