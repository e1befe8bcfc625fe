package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"

	"github.com/aalimaslam/ace-brainiac-admin/core/exam"
	"github.com/aalimaslam/ace-brainiac-admin/core/lifecycle"
)

var (
	isTerminal = term.IsTerminal // mockable
	stdinFd    = int(os.Stdin.Fd())
)

const watchHelp = `Commands:
  NAME=VALUE   set a parameter (query, status, certification, createDate, page); an empty VALUE clears it
  next, prev   move between pages
  refresh      fetch the current page again
  help         show this help
  quit         stop watching
`

// syncWriter serializes writes of the input loop and the renderer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *syncWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// watch browses the tests listing line by line: search changes are debounced
// and every change supersedes the request in flight.
func (cli *commandLine) watch() error {
	out := &syncWriter{w: cli.out}
	cat, err := exam.NewCatalog(cli.tr, cli.env, cli.conf.TestsPageSize, nil)
	if err != nil {
		return err
	}
	defer cat.Close()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		follow(out, cat.Controller, done)
	}()

	interactive := isTerminal(stdinFd)
	prompt := func() {
		if interactive {
			fmt.Fprint(out, "> ")
		}
	}

	scanner := bufio.NewScanner(cli.in)
	prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			break
		}
		cli.apply(out, cat, line)
		prompt()
	}

	snap, err := settle(cli, cat.Controller)
	close(done)
	wg.Wait()
	if scanErr := scanner.Err(); scanErr != nil {
		return scanErr
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	renderTests(out, snap)
	return nil
}

func (cli *commandLine) apply(w io.Writer, cat *exam.Catalog, line string) {
	switch line {
	case "":
	case "help":
		fmt.Fprint(w, watchHelp)
	case "next", "prev":
		// the page count is known once the page in flight arrives
		if _, err := settle(cli, cat.Controller); err != nil {
			fmt.Fprintf(w, "cannot change page: %s\n", err)
			return
		}
		if line == "next" && !cat.NextPage() {
			fmt.Fprintln(w, "already on the last page")
		}
		if line == "prev" && !cat.PrevPage() {
			fmt.Fprintln(w, "already on the first page")
		}
	case "refresh":
		cat.Refetch()
	default:
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			fmt.Fprintf(w, "unknown command %q; type help\n", line)
			return
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)

		schema := cat.Snapshot().Query.Schema()
		known := append([]string{schema.Search, schema.Page}, schema.Filters...)
		if !contains(known, name) {
			fmt.Fprintf(w, "unknown parameter %q", name)
			if match := closestMatch(name, known); match != "" {
				fmt.Fprintf(w, "; did you mean %q?", match)
			}
			fmt.Fprintln(w)
			return
		}

		switch name {
		case schema.Search:
			cat.Search(value)
		case schema.Page:
			page, err := strconv.Atoi(value)
			if err != nil || page < 1 {
				fmt.Fprintf(w, "invalid page %q\n", value)
				return
			}
			cat.SetParameter(name, page)
		case exam.ParamStatus:
			cat.SetParameter(name, strings.ToUpper(value))
		default:
			cat.SetParameter(name, value)
		}
	}
}

// follow reports every fetch of c until done is closed.
func follow[D any](w io.Writer, c *lifecycle.Controller[D], done <-chan struct{}) {
	loading := c.Snapshot().Loading
	for {
		changed := c.Changes()
		snap := c.Snapshot()
		switch {
		case snap.Loading && !loading:
			fmt.Fprintf(w, "fetching %s...\n", describe(snap.Query))
		case !snap.Loading && loading:
			if snap.Failed() {
				fmt.Fprintf(w, "error: %s\n", snap.Err)
			} else {
				fmt.Fprintf(w, "fetched %s\n", describe(snap.Query))
			}
		}
		loading = snap.Loading

		select {
		case <-changed:
		case <-done:
			return
		}
	}
}

// describe renders the non-empty parameters of q, sorted by name.
func describe(q lifecycle.Query) string {
	params := q.Params()
	parts := make([]string, 0, len(params))
	for name := range params {
		if s := q.String(name); s != "" {
			parts = append(parts, name+"="+s)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// closestMatch returns the candidate most similar to s, if any is similar enough.
func closestMatch(s string, candidates []string) string {
	const cutoff = 0.6

	var best string
	var bestRatio float64
	m := difflib.NewMatcher(nil, strings.Split(strings.ToLower(s), ""))
	for _, c := range candidates {
		m.SetSeq1(strings.Split(strings.ToLower(c), ""))
		if r := m.Ratio(); r >= cutoff && r > bestRatio {
			best, bestRatio = c, r
		}
	}
	return best
}
