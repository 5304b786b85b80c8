package testlog

// Status is the UTR status code written into the Status column.
type Status string

const (
	StatusPass        Status = "P"
	StatusFail        Status = "F"
	StatusUnavailable Status = "D"
	StatusUnknown     Status = "U"
)

// Result is the outcome recorded for one test case description.
type Result struct {
	Description string `json:"description" yaml:"description"`
	Number      int    `json:"number,omitempty" yaml:"number,omitempty"`
	Status      Status `json:"status" yaml:"status"`
	Comment     string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Token       string `json:"token,omitempty" yaml:"token,omitempty"`
	Line        int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Results holds the parsed outcomes indexed by description, keeping the
// order in which descriptions were first recorded.
type Results struct {
	order []string
	items map[string]*Result
}

func NewResults() *Results {
	return &Results{items: make(map[string]*Result)}
}

// Set records r, replacing any previous result for the same description
// while keeping its position.
func (rs *Results) Set(r *Result) {
	if _, ok := rs.items[r.Description]; !ok {
		rs.order = append(rs.order, r.Description)
	}
	rs.items[r.Description] = r
}

func (rs *Results) Get(desc string) (*Result, bool) {
	r, ok := rs.items[desc]
	return r, ok
}

// Lookup returns the status and comment for desc, defaulting to
// (U, "") when the description was never seen in the logs.
func (rs *Results) Lookup(desc string) (Status, string) {
	if r, ok := rs.items[desc]; ok {
		return r.Status, r.Comment
	}
	return StatusUnknown, ""
}

func (rs *Results) Has(desc string) bool {
	_, ok := rs.items[desc]
	return ok
}

func (rs *Results) Len() int {
	return len(rs.order)
}

// List returns the results in log order.
func (rs *Results) List() []*Result {
	list := make([]*Result, 0, len(rs.order))
	for _, desc := range rs.order {
		list = append(list, rs.items[desc])
	}
	return list
}

// Counts returns the number of results per status.
func (rs *Results) Counts() map[Status]int {
	counts := make(map[Status]int, 4)
	for _, r := range rs.items {
		counts[r.Status]++
	}
	return counts
}
