package lsdb

import (
	"strings"
	"testing"

	"github.com/pathprobe/pathprobe/pkg/errors"
)

const sampleDump = `
OSPF Router with ID (1.1.1.1)
2.2.2.2    2.2.2.2    100   10
3.3.3.3    3.3.3.3    200   20

Net Link States (Area 0)
Link ID    ADV Router
10.0.0.1   2.2.2.2

Summary Net Link States (Area 0)
Link ID       ADV Router   Metric
192.168.1.0   1.1.1.1      30
`

func TestParseSampleDump(t *testing.T) {
	p := &Parser{}
	db, err := p.Parse(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := len(db.RouterLSAs); got != 1 {
		t.Fatalf("router LSAs = %d, want 1", got)
	}
	r := db.RouterLSAs[0]
	if r.RouterID != "1.1.1.1" {
		t.Errorf("RouterID = %q, want 1.1.1.1", r.RouterID)
	}
	if r.AreaID != "0" {
		t.Errorf("AreaID = %q, want 0", r.AreaID)
	}
	if len(r.Links) != 2 {
		t.Fatalf("links = %d, want 2", len(r.Links))
	}
	if r.Links[0].LinkID != "2.2.2.2" || r.Links[0].Metric != 10 {
		t.Errorf("link[0] = %+v, want 2.2.2.2/10", r.Links[0])
	}
	if r.Links[1].LinkID != "3.3.3.3" || r.Links[1].Metric != 20 {
		t.Errorf("link[1] = %+v, want 3.3.3.3/20", r.Links[1])
	}

	if got := len(db.NetworkLSAs); got != 1 {
		t.Fatalf("network LSAs = %d, want 1", got)
	}
	n := db.NetworkLSAs[0]
	if n.NetworkID != "10.0.0.1" {
		t.Errorf("NetworkID = %q, want 10.0.0.1", n.NetworkID)
	}
	if len(n.AttachedRouters) != 1 || n.AttachedRouters[0] != "2.2.2.2" {
		t.Errorf("AttachedRouters = %v, want [2.2.2.2]", n.AttachedRouters)
	}

	if got := len(db.SummaryLSAs); got != 1 {
		t.Fatalf("summary LSAs = %d, want 1", got)
	}
	s := db.SummaryLSAs[0]
	if s.Prefix != "192.168.1.0" || s.AdvRouter != "1.1.1.1" || s.Metric != 30 {
		t.Errorf("summary = %+v, want 192.168.1.0/1.1.1.1/30", s)
	}

	if len(db.SkippedLSAs) != 0 {
		t.Errorf("skipped = %d, want 0", len(db.SkippedLSAs))
	}
}

func TestParseAreaOnCombinedHeader(t *testing.T) {
	input := "OSPF Router with ID (9.9.9.9)  Router Link States (Area 5)\n4.4.4.4  4.4.4.4  15\n"

	db, err := (&Parser{}).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(db.RouterLSAs) != 1 {
		t.Fatalf("router LSAs = %d, want 1", len(db.RouterLSAs))
	}
	r := db.RouterLSAs[0]
	if r.AreaID != "5" {
		t.Errorf("AreaID = %q, want 5", r.AreaID)
	}
	// The header line itself must not be mistaken for a link entry.
	if len(r.Links) != 1 || r.Links[0].LinkID != "4.4.4.4" {
		t.Errorf("links = %+v, want exactly [4.4.4.4]", r.Links)
	}
}

func TestParseNonNumericMetricDefaultsToZero(t *testing.T) {
	input := "OSPF Router with ID (1.1.1.1)\n2.2.2.2  stub\n"

	db, err := (&Parser{}).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(db.RouterLSAs) != 1 || len(db.RouterLSAs[0].Links) != 1 {
		t.Fatalf("unexpected result: %+v", db.RouterLSAs)
	}
	if m := db.RouterLSAs[0].Links[0].Metric; m != 0 {
		t.Errorf("metric = %d, want 0", m)
	}
}

func TestParseSkipsRouterBlockWithoutID(t *testing.T) {
	input := "Router Link States (Area 1)\n1.2.3.4  5\n"

	p := &Parser{KeepSkippedLines: true}
	db, err := p.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(db.RouterLSAs) != 0 {
		t.Errorf("router LSAs = %d, want 0", len(db.RouterLSAs))
	}
	if len(db.SkippedLSAs) != 1 {
		t.Fatalf("skipped = %d, want 1", len(db.SkippedLSAs))
	}
	rec := db.SkippedLSAs[0]
	if rec.Type != "Router" {
		t.Errorf("Type = %q, want Router", rec.Type)
	}
	if rec.Reason != "missing router ID" {
		t.Errorf("Reason = %q", rec.Reason)
	}
	if len(rec.Lines) == 0 {
		t.Error("expected offending lines to be retained")
	}
}

func TestParseSkipsShortNetworkLines(t *testing.T) {
	input := "Net Link States (Area 0)\n10.0.0.1\n10.0.0.2  3.3.3.3\n"

	db, err := (&Parser{}).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(db.NetworkLSAs) != 1 {
		t.Errorf("network LSAs = %d, want 1", len(db.NetworkLSAs))
	}
	if len(db.SkippedLSAs) != 1 {
		t.Errorf("skipped = %d, want 1", len(db.SkippedLSAs))
	}
}

func TestParseAbortOnSkip(t *testing.T) {
	input := "Router Link States (Area 1)\n1.2.3.4  5\n"

	p := &Parser{OnSkip: func(SkippedLSA) SkipDecision { return AbortParse }}
	_, err := p.Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected abort error")
	}
	if !errors.Is(err, errors.ErrCodeParseAborted) {
		t.Errorf("error code = %q, want PARSE_ABORTED", errors.GetCode(err))
	}
}

func TestParseIgnoresLinesBeforeFirstHeader(t *testing.T) {
	input := "some preamble text\nmore noise 42\nOSPF Router with ID (1.1.1.1)\n2.2.2.2  10\n"

	db, err := (&Parser{}).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(db.RouterLSAs) != 1 {
		t.Fatalf("router LSAs = %d, want 1", len(db.RouterLSAs))
	}
	if len(db.RouterLSAs[0].Links) != 1 {
		t.Errorf("links = %+v, want 1 entry", db.RouterLSAs[0].Links)
	}
}

func TestDetectHeader(t *testing.T) {
	tests := []struct {
		line string
		want LSAType
		ok   bool
	}{
		{"OSPF Router with ID (1.1.1.1)", TypeRouter, true},
		{"Router Link States (Area 0)", TypeRouter, true},
		{"Network Link States (Area 0)", TypeNetwork, true},
		{"Net Link States (Area 0)", TypeNetwork, true},
		{"Network LSAs", TypeNetwork, true},
		{"Summary Net Link States (Area 0)", TypeSummary, true},
		{"SUMMARY NET LSAS", TypeSummary, true},
		{"Link ID    ADV Router", "", false},
		{"1.2.3.4  5", "", false},
	}

	for _, tt := range tests {
		got, ok := detectHeader(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Errorf("detectHeader(%q) = (%q, %v), want (%q, %v)", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseFileNotFound(t *testing.T) {
	_, err := (&Parser{}).ParseFile("does-not-exist.txt")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %q, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestParseSkipsUnsafeIdentifiers(t *testing.T) {
	input := "Net Link States (Area 0)\n../../etc/passwd  2.2.2.2\n10.0.0.2  3.3.3.3\n"

	db, err := (&Parser{}).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(db.NetworkLSAs) != 1 {
		t.Errorf("network LSAs = %d, want 1", len(db.NetworkLSAs))
	}
	if len(db.SkippedLSAs) != 1 || db.SkippedLSAs[0].Reason != "unsafe identifier" {
		t.Errorf("skipped = %+v, want one unsafe identifier record", db.SkippedLSAs)
	}
}

func TestParseDropsUnsafeLinkTargets(t *testing.T) {
	input := "OSPF Router with ID (1.1.1.1)\nfoo\\bar  10\n2.2.2.2  10\n"

	db, err := (&Parser{}).Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(db.RouterLSAs) != 1 {
		t.Fatalf("router LSAs = %d, want 1", len(db.RouterLSAs))
	}
	links := db.RouterLSAs[0].Links
	if len(links) != 1 || links[0].LinkID != "2.2.2.2" {
		t.Errorf("links = %+v, want only 2.2.2.2", links)
	}
}
