package ticket

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	vo "github.com/docket-dev/docket/internal/domain/ticket/valueobjects"
	"github.com/docket-dev/docket/internal/shared/errors"
)

var metadataValidator = newMetadataValidator()

func newMetadataValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Metadata is the typed payload of an activity entry. Each activity type has
// exactly one payload shape; comment and message entries carry none.
type Metadata interface {
	ActivityType() vo.ActivityType
}

const (
	SystemEventCreated         = "created"
	SystemEventDeleted         = "deleted"
	SystemEventAttachmentAdded = "attachment_added"
)

const (
	DecisionTriage  = "triage"
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type SystemMetadata struct {
	Event        string `json:"event" validate:"required,oneof=created deleted attachment_added"`
	TicketNumber int64  `json:"ticket_number,omitempty"`
	Status       string `json:"status,omitempty"`
	Priority     string `json:"priority,omitempty"`
	TicketType   string `json:"ticket_type,omitempty"`
	Source       string `json:"source,omitempty"`
	AttachmentID uint   `json:"attachment_id,omitempty"`
	OriginalName string `json:"original_name,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
}

func (SystemMetadata) ActivityType() vo.ActivityType { return vo.ActivitySystem }

type StatusChangeMetadata struct {
	From       string `json:"from" validate:"required"`
	To         string `json:"to" validate:"required"`
	Resolution string `json:"resolution,omitempty"`
}

func (StatusChangeMetadata) ActivityType() vo.ActivityType { return vo.ActivityStatusChange }

type FieldChangeMetadata struct {
	Changes []FieldChange `json:"changes" validate:"required,min=1,dive"`
}

func (FieldChangeMetadata) ActivityType() vo.ActivityType { return vo.ActivityFieldChange }

type DecisionMetadata struct {
	Decision     string        `json:"decision" validate:"required,oneof=triage approve reject"`
	From         string        `json:"from" validate:"required"`
	To           string        `json:"to" validate:"required"`
	Direction    string        `json:"direction,omitempty"`
	WorkPriority *int          `json:"work_priority,omitempty"`
	Resolution   string        `json:"resolution,omitempty" validate:"required_if=Decision reject"`
	Reason       string        `json:"reason,omitempty" validate:"required_if=Decision reject"`
	AI           *AIAssessment `json:"ai,omitempty"`
}

func (DecisionMetadata) ActivityType() vo.ActivityType { return vo.ActivityDecision }

type TestResultMetadata struct {
	Result  string `json:"result" validate:"required,oneof=pass fail partial"`
	Details string `json:"details,omitempty"`
}

func (TestResultMetadata) ActivityType() vo.ActivityType { return vo.ActivityTestResult }

type AssignmentMetadata struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (AssignmentMetadata) ActivityType() vo.ActivityType { return vo.ActivityAssignment }

type ResolutionMetadata struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
	TestingHandoff
}

func (ResolutionMetadata) ActivityType() vo.ActivityType { return vo.ActivityResolution }

// ValidateMetadata checks a payload against its validate tags.
func ValidateMetadata(m Metadata) error {
	if m == nil {
		return nil
	}
	err := metadataValidator.Struct(m)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) {
		return fmt.Errorf("failed to validate %s metadata: %w", m.ActivityType(), err)
	}
	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.NewValidationError(
		fmt.Sprintf("invalid %s metadata", m.ActivityType()),
		strings.Join(problems, "; "),
	)
}

// EncodeMetadata serializes a payload for storage. A nil payload encodes to nil.
func EncodeMetadata(m Metadata) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s metadata: %w", m.ActivityType(), err)
	}
	return raw, nil
}

// DecodeMetadata restores the typed payload for an activity type.
func DecodeMetadata(activityType vo.ActivityType, raw []byte) (Metadata, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var target Metadata
	switch activityType {
	case vo.ActivityComment, vo.ActivityMessage:
		return nil, nil
	case vo.ActivitySystem:
		target = &SystemMetadata{}
	case vo.ActivityStatusChange:
		target = &StatusChangeMetadata{}
	case vo.ActivityFieldChange:
		target = &FieldChangeMetadata{}
	case vo.ActivityDecision:
		target = &DecisionMetadata{}
	case vo.ActivityTestResult:
		target = &TestResultMetadata{}
	case vo.ActivityAssignment:
		target = &AssignmentMetadata{}
	case vo.ActivityResolution:
		target = &ResolutionMetadata{}
	default:
		return nil, fmt.Errorf("unknown activity type: %s", activityType)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("failed to decode %s metadata: %w", activityType, err)
	}
	return derefMetadata(target), nil
}

func derefMetadata(m Metadata) Metadata {
	switch v := m.(type) {
	case *SystemMetadata:
		return *v
	case *StatusChangeMetadata:
		return *v
	case *FieldChangeMetadata:
		return *v
	case *DecisionMetadata:
		return *v
	case *TestResultMetadata:
		return *v
	case *AssignmentMetadata:
		return *v
	case *ResolutionMetadata:
		return *v
	}
	return m
}
