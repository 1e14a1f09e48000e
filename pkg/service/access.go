package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Access modes a database or table can be governed by.
const (
	AccessModeNRAC = "nrac"
	AccessModeTBAC = "tbac"
)

type ApprovalVariant string

const (
	ApprovalNone      ApprovalVariant = ""
	ApprovalNameBased ApprovalVariant = "name-based"
	ApprovalTagBased  ApprovalVariant = "tag-based"
)

type AccessService interface {
	// TogglePIIFlag flips the PII flag of the resource through whichever
	// mechanism its access mode dictates.
	TogglePIIFlag(ctx context.Context, user *User, resource Resource) (*ToggleResult, error)
	RequestAccess(ctx context.Context, user *User, input NewAccessRequest) (*AccessRequestExecution, error)
}

// AccessApproval describes the toggle shown in the access approval region.
// Variant is empty when no toggle is shown.
type AccessApproval struct {
	Variant ApprovalVariant `json:"variant"`
	// OwnerAccountID binds the name based toggle to the owning domain.
	OwnerAccountID string `json:"ownerAccountID,omitempty"`
	// Tags binds the tag based toggle to the tags of the resource.
	Tags     []LFTag `json:"tags,omitempty"`
	PIIFlag  bool    `json:"piiFlag"`
	Editable bool    `json:"editable"`
}

// DispatchAccessApproval picks the access approval toggle for a resource from
// its parameter map. An absent or unknown access mode yields no toggle.
func DispatchAccessApproval(params map[string]string, tags []LFTag, owner bool) AccessApproval {
	mode, ok := params[ParamAccessMode]
	if !ok {
		return AccessApproval{}
	}

	switch mode {
	case AccessModeNRAC:
		return AccessApproval{
			Variant:        ApprovalNameBased,
			OwnerAccountID: params[ParamDataOwner],
			PIIFlag:        params[ParamPIIFlag] == "true",
			Editable:       owner,
		}
	case AccessModeTBAC:
		return AccessApproval{
			Variant:  ApprovalTagBased,
			Tags:     tags,
			PIIFlag:  tagPIIFlag(tags),
			Editable: owner,
		}
	default:
		return AccessApproval{}
	}
}

// EffectiveAccessMode is the access mode reported to the rest of the console,
// resources without one are treated as name based.
func EffectiveAccessMode(params map[string]string) string {
	if mode, ok := params[ParamAccessMode]; ok {
		return mode
	}

	return AccessModeNRAC
}

func tagPIIFlag(tags []LFTag) bool {
	for _, tag := range tags {
		if tag.Key != ParamPIIFlag {
			continue
		}

		for _, v := range tag.Values {
			if v == "true" {
				return true
			}
		}
	}

	return false
}

type ToggleResult struct {
	Resource Resource        `json:"resource"`
	Variant  ApprovalVariant `json:"variant"`
	PIIFlag  bool            `json:"piiFlag"`
	Version  uint64          `json:"version"`
}

type NewAccessRequest struct {
	DatabaseName    string `json:"databaseName" form:"database_name"`
	TableName       string `json:"tableName" form:"table_name"`
	TargetAccountID string `json:"targetAccountID" form:"target_account_id"`
}

func (r NewAccessRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DatabaseName, validation.Required),
		validation.Field(&r.TableName, validation.Required),
		validation.Field(&r.TargetAccountID, validation.Required, is.Digit, validation.Length(12, 12)),
	)
}

// AccessRequestInput is the document handed to the access request workflow.
type AccessRequestInput struct {
	Source    AccessRequestSource `json:"source"`
	Target    AccessRequestTarget `json:"target"`
	Requester string              `json:"requester"`
}

type AccessRequestSource struct {
	Database string `json:"database"`
	Table    string `json:"table"`
}

type AccessRequestTarget struct {
	AccountID string `json:"account_id"`
}

type AccessRequestExecution struct {
	ExecutionARN string    `json:"executionARN"`
	StartDate    time.Time `json:"startDate"`
	Link         string    `json:"link"`
}
