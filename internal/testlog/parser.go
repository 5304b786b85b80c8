// Package testlog parses the console output of the testlib based test
// programs (memmgr_test, d2c_test, ...) into a table of results keyed by
// test case description.
package testlog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultRequiredTest is expected in every complete MemMgr/D2C run.
const DefaultRequiredTest = "test_d2c(1920, 1080, 2)"

const failureCommentPrefix = "failed with error #"

var (
	ErrUnmatchedResult = errors.New("test result without a pending test description")
	ErrMissingResult   = errors.New("expected test result not found")
)

var (
	// TEST #% 3d - <description>
	reTestDesc = regexp.MustCompile(`TEST #\s*(\d+) - (.*)`)
	// ==> TEST OK | NOT AVAILABLE | FAIL(<code>)
	reTestResult = regexp.MustCompile(`==> TEST (.*)`)
	// final summary printed once per test program
	reTally = regexp.MustCompile(`^FAILED: (\d+), SUCCEEDED: (\d+), UNAVAILABLE: (\d+)`)
	// FAIL(<code>)
	reErrorCode = regexp.MustCompile(`^\w+\((.*)\)$`)
)

type pendingTest struct {
	number      int
	description string
}

// Tally is the sum of the FAILED/SUCCEEDED/UNAVAILABLE summary lines.
type Tally struct {
	Failed      int `json:"failed" yaml:"failed"`
	Succeeded   int `json:"succeeded" yaml:"succeeded"`
	Unavailable int `json:"unavailable" yaml:"unavailable"`
}

// Parser consumes log lines one at a time. Descriptions are queued until
// the next result line, which is matched with the oldest one.
type Parser struct {
	pending  []pendingTest
	results  *Results
	failures FailureCounter
	tally    *Tally
	line     int
	// recorded counts every result line, duplicates included, to match
	// the summary lines.
	recorded map[Status]int
}

func NewParser() *Parser {
	return &Parser{
		results:  NewResults(),
		failures: FailureCounter{},
		recorded: map[Status]int{},
	}
}

// Parse runs all lines through a new parser.
func Parse(lines []string) (*Parser, error) {
	p := NewParser()
	for _, line := range lines {
		if err := p.ProcessLine(line); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ProcessLine handles one line of log output.
func (p *Parser) ProcessLine(line string) error {
	p.line++
	line = strings.TrimSpace(line)

	if m := reTestDesc.FindStringSubmatch(line); m != nil {
		num, _ := strconv.Atoi(m[1])
		p.pending = append(p.pending, pendingTest{number: num, description: m[2]})
		log.Debugf("testlog: line %d: queued test #%d %q", p.line, num, m[2])
	}

	if m := reTestResult.FindStringSubmatch(line); m != nil {
		if len(p.pending) == 0 {
			return errors.Wrapf(ErrUnmatchedResult, "line %d: %q", p.line, line)
		}
		tc := p.pending[0]
		p.pending = p.pending[1:]

		res := NewResult(tc.description, m[1])
		res.Number = tc.number
		res.Line = p.line
		if p.results.Has(res.Description) {
			log.Debugf("testlog: line %d: overwriting result of %q", p.line, res.Description)
		}
		p.results.Set(res)
		p.recorded[res.Status]++
		if res.Status == StatusFail {
			p.failures.Inc(ErrorCode(res.Token))
		}
		log.Debugf("testlog: line %d: %q => %s %s", p.line, res.Description, res.Status, res.Comment)
		return nil
	}

	if m := reTally.FindStringSubmatch(line); m != nil {
		if p.tally == nil {
			p.tally = &Tally{}
		}
		failed, _ := strconv.Atoi(m[1])
		succeeded, _ := strconv.Atoi(m[2])
		unavailable, _ := strconv.Atoi(m[3])
		p.tally.Failed += failed
		p.tally.Succeeded += succeeded
		p.tally.Unavailable += unavailable
	}
	return nil
}

// NewResult maps a result token to its UTR status and comment.
func NewResult(desc, token string) *Result {
	res := &Result{Description: desc, Token: token}
	switch token {
	case "OK":
		res.Status = StatusPass
	case "NOT AVAILABLE":
		res.Status = StatusUnavailable
	default:
		res.Status = StatusFail
		res.Comment = failureCommentPrefix + ErrorCode(token)
	}
	return res
}

// ErrorCode extracts the code from a FAIL(<code>) token. Tokens in any
// other shape are returned whole.
func ErrorCode(token string) string {
	if m := reErrorCode.FindStringSubmatch(token); m != nil {
		return m[1]
	}
	return token
}

func (p *Parser) Results() *Results {
	return p.results
}

func (p *Parser) Failures() FailureCounter {
	return p.failures
}

// Tally returns the summed summary lines, or nil when the log had none.
func (p *Parser) Tally() *Tally {
	return p.tally
}

// Pending returns the descriptions still waiting for a result.
func (p *Parser) Pending() []string {
	descs := make([]string, 0, len(p.pending))
	for _, tc := range p.pending {
		descs = append(descs, tc.description)
	}
	return descs
}

// Require fails when any of descs has no recorded result.
func (p *Parser) Require(descs ...string) error {
	missing := []string{}
	for _, desc := range descs {
		if !p.results.Has(desc) {
			missing = append(missing, fmt.Sprintf("%q", desc))
		}
	}
	if len(missing) > 0 {
		return errors.Wrap(ErrMissingResult, strings.Join(missing, ", "))
	}
	return nil
}

// Warnings reports soft inconsistencies: tests that never printed a
// result and summary counters that disagree with the parsed results.
func (p *Parser) Warnings() []string {
	warns := []string{}
	for _, tc := range p.pending {
		warns = append(warns, fmt.Sprintf("test #%d %q has no result", tc.number, tc.description))
	}
	if p.tally == nil {
		return warns
	}
	counts := p.recorded
	if counts[StatusFail] != p.tally.Failed ||
		counts[StatusPass] != p.tally.Succeeded ||
		counts[StatusUnavailable] != p.tally.Unavailable {
		warns = append(warns, fmt.Sprintf(
			"summary reports FAILED: %d, SUCCEEDED: %d, UNAVAILABLE: %d but parsed %d/%d/%d",
			p.tally.Failed, p.tally.Succeeded, p.tally.Unavailable,
			counts[StatusFail], counts[StatusPass], counts[StatusUnavailable]))
	}
	return warns
}
