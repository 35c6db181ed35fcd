package valueobjects

import "fmt"

type ActivityType string

const (
	ActivityComment      ActivityType = "comment"
	ActivityMessage      ActivityType = "message"
	ActivityStatusChange ActivityType = "status_change"
	ActivityFieldChange  ActivityType = "field_change"
	ActivityDecision     ActivityType = "decision"
	ActivityTestResult   ActivityType = "test_result"
	ActivityAssignment   ActivityType = "assignment"
	ActivityResolution   ActivityType = "resolution"
	ActivitySystem       ActivityType = "system"
)

var validActivityTypes = map[ActivityType]bool{
	ActivityComment:      true,
	ActivityMessage:      true,
	ActivityStatusChange: true,
	ActivityFieldChange:  true,
	ActivityDecision:     true,
	ActivityTestResult:   true,
	ActivityAssignment:   true,
	ActivityResolution:   true,
	ActivitySystem:       true,
}

func (t ActivityType) String() string {
	return string(t)
}

func (t ActivityType) IsValid() bool {
	return validActivityTypes[t]
}

func NewActivityType(s string) (ActivityType, error) {
	t := ActivityType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid activity type: %s", s)
	}
	return t, nil
}

type AuthorType string

const (
	AuthorUser   AuthorType = "user"
	AuthorAdmin  AuthorType = "admin"
	AuthorAgent  AuthorType = "agent"
	AuthorSystem AuthorType = "system"
)

func (a AuthorType) String() string {
	return string(a)
}

func (a AuthorType) IsValid() bool {
	switch a {
	case AuthorUser, AuthorAdmin, AuthorAgent, AuthorSystem:
		return true
	}
	return false
}

type Visibility string

const (
	VisibilityInternal    Visibility = "internal"
	VisibilityUserVisible Visibility = "user_visible"
)

func (v Visibility) String() string {
	return string(v)
}

func (v Visibility) IsValid() bool {
	return v == VisibilityInternal || v == VisibilityUserVisible
}

func (v Visibility) IsUserVisible() bool {
	return v == VisibilityUserVisible
}

func NewVisibility(s string) (Visibility, error) {
	v := Visibility(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid visibility: %s", s)
	}
	return v, nil
}
