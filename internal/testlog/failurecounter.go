package testlog

// FailureCounter counts failed tests, indexed by error code. The "total"
// entry holds the sum of all codes.
type FailureCounter map[string]int

func (fc FailureCounter) Inc(code string) {
	fc[code]++
	fc["total"]++
}
