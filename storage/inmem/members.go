package inmemdb

import (
	"sort"
	"time"
)

type MemberRepository struct {
	db *memberTable
}

func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db.member}
}

func (repo *MemberRepository) Subscribe(m MemberRow) MemberRow {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	m.ID = len(repo.db.rows) + 1
	if m.SubscribedAt.IsZero() {
		m.SubscribedAt = timeNow().UTC()
	}
	repo.db.rows = append(repo.db.rows, m)
	return m
}

// SetPopulation sets the platform head counts.
func (repo *MemberRepository) SetPopulation(schools, students, teachers int) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.schools, repo.db.students, repo.db.teachers = schools, students, teachers
}

func (repo *MemberRepository) Population() (schools, students, teachers int) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.schools, repo.db.students, repo.db.teachers
}

// RecentMembers returns the `n` latest subscriptions, newest first.
func (repo *MemberRepository) RecentMembers(n int) []MemberRow {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := append([]MemberRow(nil), repo.db.rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].SubscribedAt.After(rows[j].SubscribedAt) })
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	if rows == nil {
		rows = []MemberRow{}
	}
	return rows
}

// Distribution counts the subscriptions per plan.
func (repo *MemberRepository) Distribution() map[string]int {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	dist := make(map[string]int)
	for _, m := range repo.db.rows {
		dist[m.Plan]++
	}
	return dist
}

// GrowthChart counts the subscriptions of each of the last `months` months, current one included.
func (repo *MemberRepository) GrowthChart(months int) GrowthChart {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if months < 1 {
		months = 1
	}
	now := timeNow().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	chart := GrowthChart{
		Labels:     make([]string, months),
		Data:       make([]int, months),
		Cumulative: make([]int, months),
	}
	var before int
	for _, m := range repo.db.rows {
		at := m.SubscribedAt.UTC()
		if at.Before(first) {
			before++
			continue
		}
		i := (at.Year()-first.Year())*12 + int(at.Month()-first.Month())
		if i < months {
			chart.Data[i]++
		}
	}
	total := before
	for i := range chart.Labels {
		chart.Labels[i] = first.AddDate(0, i, 0).Format("Jan")
		total += chart.Data[i]
		chart.Cumulative[i] = total
	}
	return chart
}
