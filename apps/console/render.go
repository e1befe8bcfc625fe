package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aalimaslam/ace-brainiac-admin/core/dashboard"
	"github.com/aalimaslam/ace-brainiac-admin/core/exam"
	"github.com/aalimaslam/ace-brainiac-admin/core/lifecycle"
	"github.com/aalimaslam/ace-brainiac-admin/core/notification"
)

const dateLayout = "Jan 2, 2006"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func renderTests(w io.Writer, snap lifecycle.Snapshot[lifecycle.Listing[exam.Test]]) {
	listing := snap.Data
	if len(listing.Items) == 0 {
		fmt.Fprintln(w, "No tests found.")
	} else {
		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tSTATUS\tQUESTIONS\tDURATION\tPASS\tCERTIFIED\tCREATED BY\tCREATED")
		for _, t := range listing.Items {
			duration := "-"
			if t.Duration != "" {
				duration = t.Duration + " min"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
				orDash(t.ID), t.Name, t.Description, t.Status, t.TotalQuestions, duration,
				t.PassPercentage, yesNo(t.CertificationAvailable), t.CreatedBy, t.CreatedAt.Local().Format(dateLayout))
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(w, "\npage %d of %d - %s\n", snap.Query.Page(), listing.Meta.TotalPages, plural(listing.Meta.TotalCount, "test"))
}

func renderInbox(w io.Writer, inbox notification.Inbox, now time.Time) {
	fmt.Fprintf(w, "Notifications: %d unread of %d\n", inbox.Unread, inbox.Total)
	if len(inbox.Items) == 0 {
		fmt.Fprintln(w, "You're all caught up.")
		return
	}
	tw := newTable(w)
	for _, n := range inbox.Items {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, n.ID, n.Title, n.Message, notification.Age(n.CreatedAt, now))
	}
	_ = tw.Flush()
}

func renderSummary(w io.Writer, s dashboard.Summary) {
	tw := newTable(w)
	fmt.Fprintln(tw, "Students\tSchools\tTeachers\tTests")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", s.Stats.Students, s.Stats.Schools, s.Stats.Teachers, s.Stats.TotalTests)
	_ = tw.Flush()

	fmt.Fprintln(w, "\nSubscriptions:")
	plans := make([]string, 0, len(s.SubscriptionDistribution))
	for plan := range s.SubscriptionDistribution {
		plans = append(plans, plan)
	}
	sort.Strings(plans)
	tw = newTable(w)
	for _, plan := range plans {
		fmt.Fprintf(tw, "  %s\t%d\n", plan, s.SubscriptionDistribution[plan])
	}
	_ = tw.Flush()

	fmt.Fprintln(w, "\nRecently created tests:")
	tw = newTable(w)
	for _, t := range s.RecentlyCreatedTests {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", t.Name, t.Status, t.CreatedAt.Local().Format(dateLayout))
	}
	_ = tw.Flush()

	fmt.Fprintln(w, "\nRecently subscribed members:")
	tw = newTable(w)
	for _, m := range s.RecentlySubscribedMembers {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", m.Name, m.Email, m.Plan, m.SubscribedAt.Local().Format(dateLayout))
	}
	_ = tw.Flush()

	chart := s.UserGrowthChart
	if len(chart.Labels) > 0 {
		fmt.Fprintln(w, "\nUser growth:")
		tw = newTable(w)
		for i, label := range chart.Labels {
			fmt.Fprintf(tw, "  %s\t+%d\t%d\t%s\n", label, at(chart.Data, i), at(chart.Cumulative, i), strings.Repeat("#", max(0, at(chart.Data, i))))
		}
		_ = tw.Flush()
	}
}

func at(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}
