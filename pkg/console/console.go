// Package console holds the page templates of the console and the layout
// data wrapped around every view model.
package console

import (
	"fmt"
	"net/url"

	"github.com/datamesh/mesh-console/pkg/service"
)

// Title is the identity shown in the top bar.
const Title = "Data Mesh UI"

// Page template names.
const (
	PageDataDomains         = "data-domains"
	PageTables              = "tables"
	PageRequestAccess       = "request-access"
	PageWorkflowExecutions  = "workflow-executions"
	PageExecutionDetails    = "execution-details"
	PageDataProductDetails  = "data-product-details"
	PageProductRegistration = "product-registration"
	PagePendingApprovals    = "pending-approvals"
	PageLogin               = "login"
)

var pages = []string{
	PageDataDomains,
	PageTables,
	PageRequestAccess,
	PageWorkflowExecutions,
	PageExecutionDetails,
	PageDataProductDetails,
	PageProductRegistration,
	PagePendingApprovals,
	PageLogin,
}

type NavItem struct {
	Label  string
	Href   string
	Active bool
}

type Breadcrumb struct {
	Label string
	Href  string
}

// View is the layout around a page. Only Data is sent to JSON clients.
type View struct {
	Title       string
	User        *service.User
	Help        *service.HelpPanel
	Nav         []NavItem
	Breadcrumbs []Breadcrumb
	Data        any
}

func (v *View) ViewModel() any {
	return v.Data
}

// NewView builds the layout for the page whose side navigation entry is
// active. Pages outside the side navigation pass an empty active href.
func NewView(user *service.User, help *service.HelpPanel, active string, data any, crumbs ...Breadcrumb) *View {
	return &View{
		Title:       Title,
		User:        user,
		Help:        help,
		Nav:         Navigation(active),
		Breadcrumbs: crumbs,
		Data:        data,
	}
}

func Navigation(active string) []NavItem {
	items := []NavItem{
		{Label: "Data Domains", Href: service.RouteDataDomains},
		{Label: "Workflow Executions", Href: service.RouteWorkflowExecutions},
		{Label: "Pending Approvals", Href: service.RoutePendingApprovals},
	}

	for i := range items {
		items[i].Active = items[i].Href == active
	}

	return items
}

// LoginPage is shown to anonymous browsers. SignupURL is empty unless the
// registration gate is open.
type LoginPage struct {
	LoginURL  string `json:"loginURL"`
	SignupURL string `json:"signupURL,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ToggleForm binds the access approval toggle of a resource to the endpoint
// flipping its PII flag.
type ToggleForm struct {
	Action   string
	Approval service.AccessApproval
}

func NewToggleForm(resource service.Resource, approval service.AccessApproval) ToggleForm {
	return ToggleForm{
		Action:   PIIPath(resource),
		Approval: approval,
	}
}

func PIIPath(resource service.Resource) string {
	if resource.Type == service.ResourceTypeTable {
		return fmt.Sprintf("/api/pii/table/%s/%s", url.PathEscape(resource.DatabaseName), url.PathEscape(resource.TableName))
	}

	return fmt.Sprintf("/api/pii/database/%s", url.PathEscape(resource.DatabaseName))
}
