package valueobjects

import "fmt"

// Source records which client surface submitted a ticket.
type Source string

const (
	SourceSDK    Source = "sdk"
	SourcePortal Source = "portal"
	SourceMCP    Source = "mcp"
	SourceAPI    Source = "api"
	SourceAdmin  Source = "admin"
)

func (s Source) String() string {
	return string(s)
}

func (s Source) IsValid() bool {
	switch s {
	case SourceSDK, SourcePortal, SourceMCP, SourceAPI, SourceAdmin:
		return true
	}
	return false
}

func NewSource(s string) (Source, error) {
	src := Source(s)
	if !src.IsValid() {
		return "", fmt.Errorf("invalid source: %s", s)
	}
	return src, nil
}
