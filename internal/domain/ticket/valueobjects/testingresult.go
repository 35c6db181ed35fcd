package valueobjects

import "fmt"

type TestingResult string

const (
	TestingPass    TestingResult = "pass"
	TestingFail    TestingResult = "fail"
	TestingPartial TestingResult = "partial"
)

func (r TestingResult) String() string {
	return string(r)
}

func (r TestingResult) IsValid() bool {
	return r == TestingPass || r == TestingFail || r == TestingPartial
}

// NeedsRework reports whether the ticket goes back to the rework list.
func (r TestingResult) NeedsRework() bool {
	return r == TestingFail || r == TestingPartial
}

// ReworkResults lists the results that put a ticket on the rework list.
func ReworkResults() []TestingResult {
	return []TestingResult{TestingFail, TestingPartial}
}

func NewTestingResult(s string) (TestingResult, error) {
	r := TestingResult(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid testing result: %s", s)
	}
	return r, nil
}
