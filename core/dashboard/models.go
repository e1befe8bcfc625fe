package dashboard

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/core/exam"
)

type Stats struct {
	Students   int `json:"students"`
	Schools    int `json:"schools"`
	Teachers   int `json:"teachers"`
	TotalTests int `json:"totalTests"`
}

// Member is a recently subscribed member.
type Member struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Plan         string    `json:"plan"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// GrowthChart holds the user growth series; the three slices are index aligned.
type GrowthChart struct {
	Labels     []string `json:"labels"`
	Data       []int    `json:"data"`
	Cumulative []int    `json:"cumulative"`
}

// Summary is the admin dashboard.
type Summary struct {
	Stats                     Stats          `json:"stats"`
	SubscriptionDistribution  map[string]int `json:"subscriptionDistribution"`
	RecentlyCreatedTests      []exam.Test    `json:"recentlyCreatedTests"`
	RecentlySubscribedMembers []Member       `json:"recentlySubscribedMembers"`
	UserGrowthChart           GrowthChart    `json:"userGrowthChart"`
}

// EmptySummary is the dashboard before the first fetch and after a failed one.
func EmptySummary() Summary {
	return Summary{
		SubscriptionDistribution:  map[string]int{},
		RecentlyCreatedTests:      []exam.Test{},
		RecentlySubscribedMembers: []Member{},
		UserGrowthChart: GrowthChart{
			Labels:     []string{},
			Data:       []int{},
			Cumulative: []int{},
		},
	}
}

// Clone returns a copy of s that shares no map or slice with it.
func (s Summary) Clone() Summary {
	return Summary{
		Stats:                     s.Stats,
		SubscriptionDistribution:  maps.Clone(s.SubscriptionDistribution),
		RecentlyCreatedTests:      slices.Clone(s.RecentlyCreatedTests),
		RecentlySubscribedMembers: slices.Clone(s.RecentlySubscribedMembers),
		UserGrowthChart: GrowthChart{
			Labels:     slices.Clone(s.UserGrowthChart.Labels),
			Data:       slices.Clone(s.UserGrowthChart.Data),
			Cumulative: slices.Clone(s.UserGrowthChart.Cumulative),
		},
	}
}

// MemberRecord is a member as the API sends it.
type MemberRecord struct {
	ID           core.Loose `json:"id"`
	Name         core.Loose `json:"name"`
	Email        core.Loose `json:"email"`
	Plan         core.Loose `json:"plan"`
	SubscribedAt core.Loose `json:"subscribedAt"`
}

func memberFromRecord(r MemberRecord, now time.Time) Member {
	return Member{
		ID:           r.ID.String(),
		Name:         r.Name.String(),
		Email:        r.Email.String(),
		Plan:         r.Plan.String(),
		SubscribedAt: r.SubscribedAt.Time(now),
	}
}

type envelope struct {
	Data *struct {
		Counts *struct {
			Students core.Loose `json:"students"`
			Schools  core.Loose `json:"schools"`
			Teachers core.Loose `json:"teachers"`
			Tests    core.Loose `json:"tests"`
		} `json:"counts"`
		SubscriptionDistribution  json.RawMessage `json:"subscriptionDistribution"`
		RecentlyCreatedTests      json.RawMessage `json:"recentlyCreatedTests"`
		RecentlySubscribedMembers json.RawMessage `json:"recentlySubscribedMembers"`
		UserGrowthChart           *struct {
			Labels     json.RawMessage `json:"labels"`
			Data       json.RawMessage `json:"data"`
			Cumulative json.RawMessage `json:"cumulative"`
		} `json:"userGrowthChart"`
	} `json:"data"`
}

// Normalize maps a `{data: {counts, subscriptionDistribution, recentlyCreatedTests,
// recentlySubscribedMembers, userGrowthChart}}` payload to a Summary.
// Every section is decoded on its own: a missing or mistyped section keeps its empty default.
func Normalize(payload []byte, now time.Time) Summary {
	s := EmptySummary()

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil || env.Data == nil {
		return s
	}
	data := env.Data

	if c := data.Counts; c != nil {
		s.Stats = Stats{
			Students:   c.Students.Int(),
			Schools:    c.Schools.Int(),
			Teachers:   c.Teachers.Int(),
			TotalTests: c.Tests.Int(),
		}
	}

	var dist map[string]core.Loose
	if json.Unmarshal(data.SubscriptionDistribution, &dist) == nil {
		for plan, n := range dist {
			s.SubscriptionDistribution[plan] = n.Int()
		}
	}

	var tests []exam.Record
	if json.Unmarshal(data.RecentlyCreatedTests, &tests) == nil {
		for _, r := range tests {
			s.RecentlyCreatedTests = append(s.RecentlyCreatedTests, exam.FromRecord(r, now))
		}
	}

	var members []MemberRecord
	if json.Unmarshal(data.RecentlySubscribedMembers, &members) == nil {
		for _, r := range members {
			s.RecentlySubscribedMembers = append(s.RecentlySubscribedMembers, memberFromRecord(r, now))
		}
	}

	if g := data.UserGrowthChart; g != nil {
		s.UserGrowthChart = GrowthChart{
			Labels:     stringsOf(g.Labels),
			Data:       intsOf(g.Data),
			Cumulative: intsOf(g.Cumulative),
		}
	}
	return s
}

func loose(raw json.RawMessage) []core.Loose {
	var values []core.Loose
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

func stringsOf(raw json.RawMessage) []string {
	values := loose(raw)
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.String())
	}
	return out
}

func intsOf(raw json.RawMessage) []int {
	values := loose(raw)
	out := make([]int, 0, len(values))
	for _, v := range values {
		out = append(out, v.Int())
	}
	return out
}
