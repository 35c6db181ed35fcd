package valueobjects

import "fmt"

type Resolution string

const (
	ResolutionFixed           Resolution = "fixed"
	ResolutionWontFix         Resolution = "wont_fix"
	ResolutionDuplicate       Resolution = "duplicate"
	ResolutionDeferred        Resolution = "deferred"
	ResolutionInvalid         Resolution = "invalid"
	ResolutionCannotReproduce Resolution = "cannot_reproduce"
)

var validResolutions = map[Resolution]bool{
	ResolutionFixed:           true,
	ResolutionWontFix:         true,
	ResolutionDuplicate:       true,
	ResolutionDeferred:        true,
	ResolutionInvalid:         true,
	ResolutionCannotReproduce: true,
}

func (r Resolution) String() string {
	return string(r)
}

func (r Resolution) IsValid() bool {
	return validResolutions[r]
}

// IsNonFix reports whether the resolution closes a ticket without a fix.
// Only these may be supplied when rejecting.
func (r Resolution) IsNonFix() bool {
	return r.IsValid() && r != ResolutionFixed
}

func NewResolution(s string) (Resolution, error) {
	r := Resolution(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid resolution: %s", s)
	}
	return r, nil
}
