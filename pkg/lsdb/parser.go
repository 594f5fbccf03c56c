// Package lsdb parses OSPF link-state database text dumps into structured
// records and reads them back from JSON, tolerating the key-name variants
// older exporters produced.
//
// The parser is a single-pass, line-oriented block scanner. Section headers
// open a block for one LSA type; everything until the next header belongs to
// that block. Malformed records are skipped, counted, and reported rather
// than failing the whole run.
package lsdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pathprobe/pathprobe/pkg/errors"
)

// LSAType identifies the block type being parsed.
type LSAType string

// Block types recognized by the scanner.
const (
	TypeRouter  LSAType = "router"
	TypeNetwork LSAType = "network"
	TypeSummary LSAType = "summary"
)

// SkipDecision is returned by a skip handler to control parser behavior
// after a malformed record.
type SkipDecision int

const (
	// SkipRecord drops the malformed record and continues parsing.
	SkipRecord SkipDecision = iota
	// AbortParse stops parsing and returns ErrCodeParseAborted.
	AbortParse
)

// headerPatterns maps each LSA type to the substrings that open its block.
// Matching is case-insensitive, anywhere in the line.
var headerPatterns = map[LSAType][]string{
	TypeRouter:  {"ospf router with id", "router link states"},
	TypeNetwork: {"network link states", "net link states", "network lsas"},
	TypeSummary: {"summary net link states", "summary net lsas"},
}

var (
	routerIDRe = regexp.MustCompile(`(?i)OSPF Router with ID\s*\(?([\d.]+)\)?`)
	areaIDRe   = regexp.MustCompile(`(?i)Router Link States\s*\(Area (\d+)\)`)
)

// Parser reads an OSPF database dump into a Database.
// The zero value is usable; all fields are optional.
type Parser struct {
	// OnSkip is invoked for each malformed record. A nil handler skips
	// silently. Returning AbortParse stops the run.
	OnSkip func(SkippedLSA) SkipDecision

	// KeepSkippedLines retains the offending source lines on each
	// SkippedLSA record (used by --show-skipped).
	KeepSkippedLines bool

	// Logger receives per-block debug output. Nil disables logging.
	Logger *log.Logger
}

// numberedLine pairs a source line with its 1-based line number.
type numberedLine struct {
	no   int
	text string
}

// ParseFile parses the dump at path.
func (p *Parser) ParseFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads the dump from r and returns the structured database.
// The only hard failures are read errors and an AbortParse decision from
// the skip handler; malformed records alone never fail the parse.
func (p *Parser) Parse(r io.Reader) (*Database, error) {
	db := &Database{}

	var (
		current LSAType
		block   []numberedLine
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineno := 0
	for scanner.Scan() {
		lineno++
		stripped := strings.TrimSpace(scanner.Text())
		if stripped == "" {
			continue
		}

		if t, ok := detectHeader(stripped); ok {
			if current != "" && len(block) > 0 {
				if err := p.processBlock(db, current, block); err != nil {
					return nil, err
				}
			}
			current = t
			block = []numberedLine{{lineno, stripped}}
			continue
		}

		if current != "" {
			block = append(block, numberedLine{lineno, stripped})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}

	if current != "" && len(block) > 0 {
		if err := p.processBlock(db, current, block); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// detectHeader reports the block type a header line opens, if any.
func detectHeader(line string) (LSAType, bool) {
	lower := strings.ToLower(line)
	for _, t := range []LSAType{TypeRouter, TypeNetwork, TypeSummary} {
		for _, pattern := range headerPatterns[t] {
			if strings.Contains(lower, pattern) {
				return t, true
			}
		}
	}
	return "", false
}

func (p *Parser) processBlock(db *Database, t LSAType, block []numberedLine) error {
	if p.Logger != nil {
		p.Logger.Debug("processing block",
			"type", t, "lines", fmt.Sprintf("%d-%d", block[0].no, block[len(block)-1].no))
	}
	switch t {
	case TypeRouter:
		return p.parseRouterBlock(db, block)
	case TypeNetwork:
		return p.parseNetworkBlock(db, block)
	case TypeSummary:
		return p.parseSummaryBlock(db, block)
	}
	return nil
}

// parseRouterBlock extracts a single router LSA from its block.
// A block without a recognizable router ID is a skipped record.
func (p *Parser) parseRouterBlock(db *Database, block []numberedLine) error {
	var routerID string
	areaID := "0"

	for _, l := range block {
		if m := routerIDRe.FindStringSubmatch(l.text); m != nil {
			routerID = m[1]
			break
		}
	}
	for _, l := range block {
		if m := areaIDRe.FindStringSubmatch(l.text); m != nil {
			areaID = m[1]
			break
		}
	}

	if routerID == "" {
		return p.skip(db, TypeRouter, block, "missing router ID")
	}

	var links []Link
	for _, l := range block {
		if isRouterHeader(l.text) {
			continue
		}
		if strings.Contains(l.text, "Link ID") || strings.Contains(l.text, "Link connected") {
			continue
		}
		parts := strings.Fields(l.text)
		if len(parts) < 2 {
			continue
		}
		if errors.ValidateRouterID(parts[0]) != nil {
			continue
		}
		metric := 0
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			metric = n
		}
		links = append(links, Link{LinkID: parts[0], Metric: metric})
	}

	db.RouterLSAs = append(db.RouterLSAs, RouterLSA{
		RouterID: routerID,
		AreaID:   areaID,
		Links:    links,
	})
	if p.Logger != nil {
		p.Logger.Debug("parsed router LSA", "router_id", routerID, "links", len(links))
	}
	return nil
}

// isRouterHeader reports whether the line is one of the router block's own
// section headers, which must not be mistaken for link entries.
func isRouterHeader(line string) bool {
	return routerIDRe.MatchString(line) || areaIDRe.MatchString(line)
}

// parseNetworkBlock extracts network LSAs from the data lines of a block.
// Each data line yields one record: network ID then attached router.
func (p *Parser) parseNetworkBlock(db *Database, block []numberedLine) error {
	for _, l := range block[1:] {
		if strings.Contains(l.text, "Link ID") {
			continue
		}
		parts := strings.Fields(l.text)
		if len(parts) < 2 {
			if err := p.skip(db, TypeNetwork, []numberedLine{l}, "insufficient columns"); err != nil {
				return err
			}
			continue
		}
		if errors.ValidateRouterID(parts[0]) != nil || errors.ValidateRouterID(parts[1]) != nil {
			if err := p.skip(db, TypeNetwork, []numberedLine{l}, "unsafe identifier"); err != nil {
				return err
			}
			continue
		}
		db.NetworkLSAs = append(db.NetworkLSAs, NetworkLSA{
			NetworkID:       parts[0],
			AttachedRouters: []string{parts[1]},
			AreaID:          "0",
		})
		if p.Logger != nil {
			p.Logger.Debug("parsed network LSA", "network_id", parts[0], "attached", parts[1])
		}
	}
	return nil
}

// parseSummaryBlock extracts summary LSAs from the data lines of a block.
// Layout: prefix, advertising router, then the metric is the first numeric
// column among the rest.
func (p *Parser) parseSummaryBlock(db *Database, block []numberedLine) error {
	for _, l := range block[1:] {
		if strings.Contains(l.text, "Link ID") {
			continue
		}
		parts := strings.Fields(l.text)
		if len(parts) < 3 {
			if err := p.skip(db, TypeSummary, []numberedLine{l}, "insufficient columns"); err != nil {
				return err
			}
			continue
		}
		if errors.ValidateRouterID(parts[0]) != nil || errors.ValidateRouterID(parts[1]) != nil {
			if err := p.skip(db, TypeSummary, []numberedLine{l}, "unsafe identifier"); err != nil {
				return err
			}
			continue
		}
		metric := 0
		for _, f := range parts[2:] {
			if n, err := strconv.Atoi(f); err == nil {
				metric = n
				break
			}
		}
		db.SummaryLSAs = append(db.SummaryLSAs, SummaryLSA{
			AdvRouter: parts[1],
			Prefix:    parts[0],
			Metric:    metric,
			AreaID:    "0",
		})
		if p.Logger != nil {
			p.Logger.Debug("parsed summary LSA",
				"prefix", parts[0], "adv_router", parts[1], "metric", metric)
		}
	}
	return nil
}

// skip records a malformed LSA and consults the skip handler.
func (p *Parser) skip(db *Database, t LSAType, block []numberedLine, reason string) error {
	rec := SkippedLSA{
		Type:      typeName(t),
		StartLine: block[0].no,
		EndLine:   block[len(block)-1].no,
		Reason:    reason,
	}
	if p.KeepSkippedLines {
		for _, l := range block {
			rec.Lines = append(rec.Lines, fmt.Sprintf("%d: %s", l.no, l.text))
		}
	}
	db.SkippedLSAs = append(db.SkippedLSAs, rec)

	if p.Logger != nil {
		p.Logger.Warn("skipping malformed LSA", "type", rec.Type, "reason", reason)
	}
	if p.OnSkip != nil && p.OnSkip(rec) == AbortParse {
		return errors.New(errors.ErrCodeParseAborted, "aborted at malformed %s LSA (line %d)", rec.Type, rec.StartLine)
	}
	return nil
}

// typeName returns the capitalized display name used in reports.
func typeName(t LSAType) string {
	switch t {
	case TypeRouter:
		return "Router"
	case TypeNetwork:
		return "Network"
	case TypeSummary:
		return "Summary"
	}
	return string(t)
}
