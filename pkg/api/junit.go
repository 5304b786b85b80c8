package api

import (
	"encoding/xml"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/omap-tiler/utrfill/internal/testlog"
)

const skippedMessageUnavailable = "not available"

type propSkipped struct {
	Message string `xml:"message,attr"`
}

type propFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

type Properties struct {
	Property []Property `xml:"property"`
}

type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type TestCase struct {
	Name      string       `xml:"name,attr"`
	Classname string       `xml:"classname,attr,omitempty"`
	Failure   *propFailure `xml:"failure,omitempty"`
	Skipped   *propSkipped `xml:"skipped,omitempty"`
}

type TestSuite struct {
	XMLName    xml.Name    `xml:"testsuite"`
	Name       string      `xml:"name,attr"`
	Tests      int         `xml:"tests,attr"`
	Skipped    int         `xml:"skipped,attr"`
	Failures   int         `xml:"failures,attr"`
	Properties *Properties `xml:"properties,omitempty"`
	TestCases  []*TestCase `xml:"testcase"`
}

// NewJUnitTestSuite converts parsed test log results into a JUnit test
// suite, one test case per description.
func NewJUnitTestSuite(name string, results *testlog.Results, tally *testlog.Tally) *TestSuite {
	ts := &TestSuite{Name: name, TestCases: []*TestCase{}}
	for _, r := range results.List() {
		tc := &TestCase{Name: r.Description}
		if r.Number > 0 {
			tc.Classname = fmt.Sprintf("%s.%03d", name, r.Number)
		}
		switch r.Status {
		case testlog.StatusFail:
			ts.Failures += 1
			tc.Failure = &propFailure{Message: r.Comment, Text: r.Token}
		case testlog.StatusUnavailable, testlog.StatusUnknown:
			ts.Skipped += 1
			tc.Skipped = &propSkipped{Message: skippedMessageUnavailable}
		}
		ts.Tests += 1
		ts.TestCases = append(ts.TestCases, tc)
	}
	if tally != nil {
		ts.Properties = &Properties{Property: []Property{
			{Name: "summary.failed", Value: fmt.Sprint(tally.Failed)},
			{Name: "summary.succeeded", Value: fmt.Sprint(tally.Succeeded)},
			{Name: "summary.unavailable", Value: fmt.Sprint(tally.Unavailable)},
		}}
	}
	return ts
}

// Marshal renders the suite as an indented XML document.
func (ts *TestSuite) Marshal() ([]byte, error) {
	out, err := xml.MarshalIndent(ts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding JUnit XML: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Save writes the suite to xmlFile.
func (ts *TestSuite) Save(xmlFile string) error {
	data, err := ts.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(xmlFile, data, 0644); err != nil {
		return fmt.Errorf("error writing XML file: %w", err)
	}
	log.Infof("JUnit results saved to %s", xmlFile)
	return nil
}
