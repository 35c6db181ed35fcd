package authorization

// Action names one operation of the ticket engine. Permission policies are
// (scope, ResourceTicket, action) triples.
type Action string

// ResourceTicket is the single resource the policies guard.
const ResourceTicket = "ticket"

const (
	ActionCreate           Action = "create"
	ActionRead             Action = "read"
	ActionList             Action = "list"
	ActionUpdate           Action = "update"
	ActionDelete           Action = "delete"
	ActionTimeline         Action = "timeline"
	ActionPromote          Action = "promote"
	ActionPipeline         Action = "pipeline"
	ActionAttachmentUpload Action = "attachment_upload"
	ActionAttachmentList   Action = "attachment_list"

	// Activity actions dispatched through POST /tickets/:id/activity.
	ActionComment    Action = "comment"
	ActionMessage    Action = "message"
	ActionTestResult Action = "test_result"
	ActionStatus     Action = "status"
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionResolve    Action = "resolve"
	ActionTriage     Action = "triage"
	ActionAssign     Action = "assign"
	ActionFollowup   Action = "followup"
)

func (a Action) String() string {
	return string(a)
}

// StaffActions lists every action; api_key and admin_ui may perform all of them.
func StaffActions() []Action {
	return []Action{
		ActionCreate, ActionRead, ActionList, ActionUpdate, ActionDelete,
		ActionTimeline, ActionPromote, ActionPipeline,
		ActionAttachmentUpload, ActionAttachmentList,
		ActionComment, ActionMessage, ActionTestResult, ActionStatus,
		ActionApprove, ActionReject, ActionResolve, ActionTriage,
		ActionAssign, ActionFollowup,
	}
}

// ReporterActions lists what a reporter may do; ownership is checked separately.
func ReporterActions() []Action {
	return []Action{
		ActionCreate, ActionRead, ActionList, ActionTimeline, ActionMessage,
		ActionAttachmentUpload, ActionAttachmentList,
	}
}

// DefaultPolicies returns the built-in (scope, resource, action) policy rows.
func DefaultPolicies() [][]string {
	var rules [][]string
	for _, scope := range []Scope{ScopeAPIKey, ScopeAdminUI} {
		for _, action := range StaffActions() {
			rules = append(rules, []string{scope.String(), ResourceTicket, action.String()})
		}
	}
	for _, action := range ReporterActions() {
		rules = append(rules, []string{ScopeReporter.String(), ResourceTicket, action.String()})
	}
	return rules
}
