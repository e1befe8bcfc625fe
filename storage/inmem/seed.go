package inmemdb

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Seed fills db with the demo data of the development API, dated relative to now.
func Seed(db *DB) {
	now := timeNow().UTC()
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d).Truncate(time.Hour) }
	questions := func(n int) []Question {
		qs := make([]Question, n)
		for i := range qs {
			qs[i] = Question{ID: i + 1, Text: "Question " + string(rune('A'+i%26))}
		}
		return qs
	}

	tests := NewTestRepository(db)
	for _, t := range []TestRow{
		{Title: null.StringFrom("Algebra I"), Subject: null.StringFrom("Mathematics"), Class: null.StringFrom("S4"), Status: "PUBLISHED", CertificationAvailable: true, Questions: questions(20), Duration: null.IntFrom(45), PassPercentage: null.IntFrom(60), CreatedBy: null.StringFrom("Mme Kabila"), CreatedAt: daysAgo(40)},
		{Title: null.StringFrom("Geometry basics"), Subject: null.StringFrom("Mathematics"), Class: null.StringFrom("S2"), Status: "PUBLISHED", Questions: questions(15), Duration: null.IntFrom(30), TotalMarks: null.IntFrom(50), CreatedAt: daysAgo(35)},
		{Title: null.StringFrom("Math 101 placement"), Subject: null.StringFrom("Mathematics"), Status: "DRAFT", Questions: questions(10), CreatedBy: null.StringFrom("M. Tshala"), CreatedAt: daysAgo(30)},
		{Title: null.StringFrom("Cell biology"), Subject: null.StringFrom("Biology"), Class: null.StringFrom("S5"), Status: "PUBLISHED", CertificationAvailable: true, Questions: questions(25), Duration: null.IntFrom(60), PassPercentage: null.IntFrom(70), CreatedAt: daysAgo(24)},
		{Title: null.StringFrom("Organic chemistry"), Subject: null.StringFrom("Chemistry"), Class: null.StringFrom("S6"), Status: "DRAFT", Questions: questions(5), CreatedAt: daysAgo(20)},
		{Title: null.StringFrom("French grammar"), Subject: null.StringFrom("French"), Class: null.StringFrom("S1"), Status: "PUBLISHED", Questions: questions(30), Duration: null.IntFrom(40), PassPercentage: null.IntFrom(50), CreatedAt: daysAgo(18)},
		{Title: null.StringFrom("English reading"), Subject: null.StringFrom("English"), Class: null.StringFrom("S3"), Status: "PUBLISHED", CertificationAvailable: true, Questions: questions(12), Duration: null.IntFrom(25), CreatedAt: daysAgo(15)},
		{Title: null.StringFrom("World history"), Subject: null.StringFrom("History"), Status: "PUBLISHED", Questions: questions(18), Duration: null.IntFrom(35), CreatedAt: daysAgo(12)},
		{Subject: null.StringFrom("Geography"), Class: null.StringFrom("S2"), Status: "DRAFT", CreatedAt: daysAgo(10)},
		{Title: null.StringFrom("Physics: motion"), Subject: null.StringFrom("Physics"), Class: null.StringFrom("S4"), Status: "PUBLISHED", CertificationAvailable: true, Questions: questions(22), Duration: null.IntFrom(50), PassPercentage: null.IntFrom(65), CreatedAt: daysAgo(7)},
		{Title: null.StringFrom("Math 101 final"), Subject: null.StringFrom("Mathematics"), Class: null.StringFrom("S1"), Status: "PUBLISHED", CertificationAvailable: true, Questions: questions(40), Duration: null.IntFrom(90), PassPercentage: null.IntFrom(55), CreatedAt: daysAgo(3)},
		{Title: null.StringFrom("Computer science intro"), Subject: null.StringFrom("ICT"), Status: "DRAFT", Questions: questions(8), CreatedAt: daysAgo(1)},
	} {
		tests.CreateTest(t)
	}

	notifications := NewNotificationRepository(db)
	for _, n := range []NotificationRow{
		{Title: "Welcome", Message: "Your admin account is ready", Type: "system", Read: true, CreatedAt: daysAgo(30)},
		{Title: "New school", Message: "Institut Mamba joined the platform", Type: "school", Read: true, CreatedAt: daysAgo(9)},
		{Title: "New subscription", Message: "Complexe scolaire Elikia subscribed to Premium", Type: "membership", CreatedAt: daysAgo(2)},
		{Title: "Test published", Message: "Math 101 final is live", Type: "test", CreatedAt: now.Add(-5 * time.Hour)},
		{Title: "New subscription", Message: "Lycée Wima subscribed to Basic", Type: "membership", CreatedAt: now.Add(-20 * time.Minute)},
	} {
		notifications.Notify(n)
	}

	members := NewMemberRepository(db)
	members.SetPopulation(14, 1250, 87)
	for _, m := range []MemberRow{
		{Name: "Collège Saint Joseph", Email: "direction@csj.cd", Plan: "Basic", SubscribedAt: daysAgo(150)},
		{Name: "Institut Mamba", Email: "info@mamba.cd", Plan: "Premium", SubscribedAt: daysAgo(95)},
		{Name: "Lycée Bosangani", Email: "contact@bosangani.cd", Plan: "Basic", SubscribedAt: daysAgo(70)},
		{Name: "École Les Anges", Email: "admin@lesanges.cd", Plan: "Trial", SubscribedAt: daysAgo(40)},
		{Name: "Complexe scolaire Elikia", Email: "elikia@gmail.com", Plan: "Premium", SubscribedAt: daysAgo(2)},
		{Name: "Lycée Wima", Email: "wima@wima.cd", Plan: "Basic", SubscribedAt: now.Add(-20 * time.Minute)},
	} {
		members.Subscribe(m)
	}
}
