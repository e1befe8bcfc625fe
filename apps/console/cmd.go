package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/core/dashboard"
	"github.com/aalimaslam/ace-brainiac-admin/core/exam"
	"github.com/aalimaslam/ace-brainiac-admin/core/lifecycle"
	"github.com/aalimaslam/ace-brainiac-admin/core/notification"
)

const defaultWait = 30 * time.Second

var (
	timeNow = time.Now // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf *core.Config
	tr   core.Transport
	env  lifecycle.Env
	in   io.Reader
	out  io.Writer
}

func newCommandLine(conf *core.Config, tr core.Transport, env lifecycle.Env, in io.Reader, out io.Writer) *commandLine {
	return &commandLine{conf: conf, tr: tr, env: env, in: in, out: out}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  tests [-query TEXT] [-status draft|published] [-certification true|false] [-date YYYY-MM-DD] [-page N] - list tests")
	fmt.Fprintln(cli.out, "  notifications [-limit N]                  - list notifications")
	fmt.Fprintln(cli.out, "  notifications read -id ID                 - mark a notification as read")
	fmt.Fprintln(cli.out, "  notifications read-all                    - mark every notification as read")
	fmt.Fprintln(cli.out, "  dashboard                                 - show the dashboard")
	fmt.Fprintln(cli.out, "  overview                                  - show the dashboard and the notifications")
	fmt.Fprintln(cli.out, "  watch                                     - browse tests interactively; type `help` once started")
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	testsCmd := cli.flagSet("tests")
	testsQuery := testsCmd.String("query", "", "Search the title, subject and class.")
	testsStatus := testsCmd.String("status", "", "Only tests with this status: draft or published.")
	testsCertification := testsCmd.String("certification", "", "Only tests with (true) or without (false) certification.")
	testsDate := testsCmd.String("date", "", "Only tests created that day, YYYY-MM-DD.")
	testsPage := testsCmd.Int("page", 1, "The page to show.")

	notificationsCmd := cli.flagSet("notifications")
	notificationsLimit := notificationsCmd.Int("limit", cli.conf.NotificationsLimit, "How many notifications to fetch; 0 fetches them all.")

	readCmd := cli.flagSet("notifications read")
	readID := readCmd.String("id", "", "The notification's ID.")

	switch args[1] {
	case "tests":
		if err := testsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		params, err := testParams(*testsQuery, *testsStatus, *testsCertification, *testsDate)
		if err != nil {
			return err
		}
		if *testsPage > 1 {
			params[exam.ParamPage] = *testsPage
		}
		return cli.listTests(params)
	case "notifications":
		if len(args) > 2 {
			switch args[2] {
			case "read":
				if err := readCmd.Parse(args[3:]); err != nil {
					return errHelp
				}
				if *readID == "" {
					readCmd.Usage()
					return errHelp
				}
				return cli.markRead(*readID)
			case "read-all":
				return cli.markAllRead()
			}
		}
		if err := notificationsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.listNotifications(*notificationsLimit)
	case "dashboard":
		return cli.showDashboard()
	case "overview":
		return cli.overview()
	case "watch":
		return cli.watch()
	default:
		cli.printUsage()
		return errHelp
	}
}

// testParams maps the `tests` flags to listing parameters.
func testParams(query, status, certification, date string) (map[string]interface{}, error) {
	params := make(map[string]interface{})
	if query = core.CleanString(query); query != "" {
		params[exam.ParamQuery] = query
	}
	switch s := core.CleanString(status, true /* lower */); s {
	case "":
	case "draft", "published":
		params[exam.ParamStatus] = strings.ToUpper(s)
	default:
		return nil, errors.Errorf("invalid status %q: want draft or published", status)
	}
	switch c := core.CleanString(certification, true /* lower */); c {
	case "":
	case "true", "false":
		params[exam.ParamCertification] = c
	default:
		return nil, errors.Errorf("invalid certification %q: want true or false", certification)
	}
	if date = core.CleanString(date); date != "" {
		if exam.FormatDate(date) == "" {
			return nil, errors.Errorf("invalid date %q: want YYYY-MM-DD", date)
		}
		params[exam.ParamCreateDate] = date
	}
	return params, nil
}

// settle waits for c to settle and turns a failed fetch into an error.
func settle[D any](cli *commandLine, c *lifecycle.Controller[D]) (lifecycle.Snapshot[D], error) {
	timeout := cli.conf.WaitTimeout
	if timeout <= 0 {
		timeout = defaultWait
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	snap, err := c.Wait(ctx)
	if err != nil {
		return snap, err
	}
	if snap.Failed() {
		return snap, errors.New(snap.Err)
	}
	return snap, nil
}

func (cli *commandLine) listTests(params map[string]interface{}) error {
	cat, err := exam.NewCatalog(cli.tr, cli.env, cli.conf.TestsPageSize, params)
	if err != nil {
		return err
	}
	defer cat.Close()

	snap, err := settle(cli, cat.Controller)
	if err != nil {
		return err
	}
	renderTests(cli.out, snap)
	return nil
}

func (cli *commandLine) openFeed(limit int) (*notification.Feed, error) {
	feed, err := notification.NewFeed(cli.tr, cli.env, limit)
	if err != nil {
		return nil, err
	}
	if _, err := settle(cli, feed.Controller); err != nil {
		feed.Close()
		return nil, err
	}
	return feed, nil
}

func (cli *commandLine) listNotifications(limit int) error {
	feed, err := cli.openFeed(limit)
	if err != nil {
		return err
	}
	defer feed.Close()

	renderInbox(cli.out, feed.Snapshot().Data, timeNow())
	return nil
}

func (cli *commandLine) markRead(id string) error {
	feed, err := cli.openFeed(cli.conf.NotificationsLimit)
	if err != nil {
		return err
	}
	defer feed.Close()

	if !feed.MarkOneRead(context.Background(), id) {
		return errors.Errorf("notification %s was not marked as read", id)
	}
	fmt.Fprintf(cli.out, "Notification %s marked as read.\n\n", id)
	renderInbox(cli.out, feed.Snapshot().Data, timeNow())
	return nil
}

func (cli *commandLine) markAllRead() error {
	feed, err := cli.openFeed(cli.conf.NotificationsLimit)
	if err != nil {
		return err
	}
	defer feed.Close()

	if !feed.MarkAllRead(context.Background()) {
		return errors.New("notifications were not marked as read")
	}
	fmt.Fprint(cli.out, "All notifications marked as read.\n\n")
	renderInbox(cli.out, feed.Snapshot().Data, timeNow())
	return nil
}

func (cli *commandLine) showDashboard() error {
	board, err := dashboard.NewBoard(cli.tr, cli.env)
	if err != nil {
		return err
	}
	defer board.Close()

	snap, err := settle(cli, board.Controller)
	if err != nil {
		return err
	}
	renderSummary(cli.out, snap.Data)
	return nil
}

// overview loads the dashboard and the notifications side by side.
func (cli *commandLine) overview() error {
	board, err := dashboard.NewBoard(cli.tr, cli.env)
	if err != nil {
		return err
	}
	defer board.Close()
	feed, err := notification.NewFeed(cli.tr, cli.env, cli.conf.NotificationsLimit)
	if err != nil {
		return err
	}
	defer feed.Close()

	var summary dashboard.Summary
	var inbox notification.Inbox
	var g errgroup.Group
	g.Go(func() error {
		snap, err := settle(cli, board.Controller)
		summary = snap.Data
		return errors.Wrap(err, "dashboard")
	})
	g.Go(func() error {
		snap, err := settle(cli, feed.Controller)
		inbox = snap.Data
		return errors.Wrap(err, "notifications")
	})
	if err := g.Wait(); err != nil {
		return err
	}

	renderSummary(cli.out, summary)
	fmt.Fprintln(cli.out)
	renderInbox(cli.out, inbox, timeNow())
	return nil
}
