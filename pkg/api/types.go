package api

import (
	"github.com/chapterhq/ams/pkg/authz"
	"github.com/chapterhq/ams/pkg/bulk"
)

// TargetRef identifies what an authorization request is aimed at. At most
// one of ChapterID and State is set; both empty means no target.
type TargetRef struct {
	ChapterID string `json:"chapter_id,omitempty"`
	State     string `json:"state,omitempty"`
}

// AuthorizeRequest asks for a full authorization decision
type AuthorizeRequest struct {
	MemberID string    `json:"member_id"`
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	Target   TargetRef `json:"target"`
}

// AuthorizeResponse carries the decision with its explanation
type AuthorizeResponse struct {
	Granted           bool   `json:"granted"`
	Reason            string `json:"reason,omitempty"`
	MatchedRole       string `json:"matched_role,omitempty"`
	MatchedPermission string `json:"matched_permission,omitempty"`
}

// CheckResponse is the boolean form for UI gating
type CheckResponse struct {
	Granted bool `json:"granted"`
}

// BulkEditRequest mutates fields across many chapters
type BulkEditRequest struct {
	ChapterIDs    []string          `json:"chapter_ids"`
	Changes       map[string]string `json:"changes"`
	Strategy      string            `json:"strategy"`
	ValidateFirst bool              `json:"validate_first"`
}

// BulkDeleteRequest deletes many chapters
type BulkDeleteRequest struct {
	ChapterIDs       []string `json:"chapter_ids"`
	Cascade          bool     `json:"cascade"`
	ConfirmationText string   `json:"confirmation_text"`
}

// AnalyzeRequest previews the blast radius of a delete
type AnalyzeRequest struct {
	ChapterIDs []string `json:"chapter_ids"`
}

func decisionResponse(d authz.Decision) AuthorizeResponse {
	resp := AuthorizeResponse{
		Granted:     d.Granted,
		Reason:      d.Reason,
		MatchedRole: d.MatchedRole,
	}
	if d.MatchedPermission != nil {
		resp.MatchedPermission = string(d.MatchedPermission.Resource) + "." + string(d.MatchedPermission.Action)
	}
	return resp
}

func resultStatus(result *bulk.Result) int {
	if result.FailureCount > 0 && result.SuccessCount == 0 {
		return 422
	}
	return 200
}
