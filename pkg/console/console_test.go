package console

import (
	"bytes"
	"testing"
	"time"

	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()

	r, err := newRenderer(func() time.Time { return now })
	require.NoError(t, err)

	return r
}

var (
	user = &service.User{
		Username:  "alice",
		Email:     "alice@example.com",
		DomainIDs: []string{"123456789012"},
	}
	help = &service.HelpPanel{
		AccountID:   "123456789012",
		EventHash:   "n/a",
		WorkshopURL: "https://catalog.workshops.aws/data-mesh",
	}
)

func TestRender(t *testing.T) {
	stopped := now.Add(-time.Hour)

	testCases := []struct {
		name     string
		page     string
		view     *View
		contains []string
		excludes []string
	}{
		{
			name: "Data domains",
			page: PageDataDomains,
			view: NewView(user, help, service.RouteDataDomains, &service.DataDomains{
				Databases: []*service.DatabaseSummary{
					{Name: "sales", AccessMode: "nrac", DataOwner: "123456789012", DataOwnerName: "Sales", Owner: true, Link: "/tables/sales"},
				},
			}),
			contains: []string{
				"<title>Data Mesh UI</title>",
				`<a href="/tables/sales">sales</a> <span class="badge">owner</span>`,
				`<li class="active"><a href="/">Data Domains</a></li>`,
				`<a href="/api/logout">Logout</a>`,
				"<dd>123456789012</dd>",
				`id="search"`,
			},
		},
		{
			name: "Tables with name based toggle",
			page: PageTables,
			view: NewView(user, help, "", &service.DatabaseTables{
				Database: &service.DatabaseDetails{
					Name:       "sales",
					AccessMode: "nrac",
					Approval: service.AccessApproval{
						Variant:        service.ApprovalNameBased,
						OwnerAccountID: "123456789012",
						Editable:       true,
					},
				},
				Tables: []*service.TableSummary{
					{Name: "orders", RequestAccessLink: "/request-access/sales/orders"},
				},
				RegisterProductLink: "/product-registration/123456789012/new",
			}, Breadcrumb{Label: "Data Domains", Href: "/"}, Breadcrumb{Label: "sales"}),
			contains: []string{
				"Name based access control, owned by 123456789012",
				`action="/api/pii/database/sales"`,
				"Set PII flag",
				`<a href="/request-access/sales/orders">orders</a>`,
				`href="/product-registration/123456789012/new"`,
				`<li><a href="/">Data Domains</a></li>`,
			},
			excludes: []string{"Tag based access control"},
		},
		{
			name: "Tables without access mode",
			page: PageTables,
			view: NewView(user, help, "", &service.DatabaseTables{
				Database: &service.DatabaseDetails{Name: "sales", AccessMode: "n/a"},
				Tables:   []*service.TableSummary{},
			}),
			excludes: []string{"access-approval", "Register data product"},
		},
		{
			name: "Request access with tag based toggle",
			page: PageRequestAccess,
			view: NewView(user, help, "", &service.TableDetails{
				DatabaseName: "sales",
				Name:         "orders",
				AccessMode:   "tbac",
				Columns: []service.ColumnDetails{
					{Name: "email", Type: "string", Tags: []service.LFTag{{Key: "pii_flag", Values: []string{"true"}}}},
				},
				Approval: service.AccessApproval{
					Variant: service.ApprovalTagBased,
					Tags:    []service.LFTag{{Key: "pii_flag", Values: []string{"true"}}},
					PIIFlag: true,
				},
				CanRequestAccess: true,
			}),
			contains: []string{
				"Tag based access control",
				`action="/api/pii/table/sales/orders"`,
				"PII: yes",
				`action="/api/request-access/sales/orders"`,
			},
			excludes: []string{"Name based access control", "Clear PII flag"},
		},
		{
			name: "Workflow executions",
			page: PageWorkflowExecutions,
			view: NewView(user, help, service.RouteWorkflowExecutions, &service.WorkflowExecutions{
				Executions: []*service.WorkflowExecution{
					{Name: "exec-1", Status: "SUCCEEDED", StartDate: now.Add(-3 * time.Hour), StopDate: &stopped, Link: "/execution-details/arn"},
				},
			}),
			contains: []string{
				"3 hours ago",
				"1 hour ago",
				`title="2024-03-01T09:00:00Z"`,
				`<li class="active"><a href="/workflow-executions">Workflow Executions</a></li>`,
			},
		},
		{
			name: "Execution details",
			page: PageExecutionDetails,
			view: NewView(user, help, "", &service.WorkflowExecution{
				ARN:       "arn:aws:states:eu-west-1:123456789012:execution:access-request:exec-1",
				Name:      "exec-1",
				Status:    "RUNNING",
				StartDate: now.Add(-time.Minute),
				Input:     `{"requester":"alice"}`,
			}),
			contains: []string{"RUNNING", "1 minute ago", "<h2>Input</h2>"},
			excludes: []string{"<h2>Output</h2>", "Stopped"},
		},
		{
			name: "Data product without execution",
			page: PageDataProductDetails,
			view: NewView(user, help, "", &service.DataProductDetails{
				Product: &service.DataProduct{Name: "Orders", DatabaseName: "sales", TableName: "orders", Created: now.Add(-48 * time.Hour)},
			}),
			contains: []string{"<h1>Orders</h1>", "sales.orders", "2 days ago", `<p class="status">n/a</p>`},
		},
		{
			name: "Product registration",
			page: PageProductRegistration,
			view: NewView(user, help, "", &service.RegistrationForm{
				DomainID: "123456789012",
				Products: []*service.DataProduct{{Name: "Orders", Slug: "orders-abc123"}},
			}),
			contains: []string{
				`action="/api/product-registration/123456789012"`,
				`<a href="/data-product-details/orders-abc123">Orders</a>`,
			},
		},
		{
			name:     "No pending approvals",
			page:     PagePendingApprovals,
			view:     NewView(user, help, service.RoutePendingApprovals, &service.PendingApprovals{}),
			contains: []string{"No pending approvals"},
		},
		{
			name: "Pending approvals",
			page: PagePendingApprovals,
			view: NewView(user, help, service.RoutePendingApprovals, &service.PendingApprovals{
				Approvals: []*service.PendingApproval{
					{ID: "req-1", Requester: "bob", Database: "sales", Table: "orders", TargetAccountID: "210987654321", RequestedAt: now.Add(-2 * time.Minute)},
				},
			}),
			contains: []string{`action="/api/approvals/req-1/approve"`, `action="/api/approvals/req-1/deny"`, "2 minutes ago"},
			excludes: []string{"No pending approvals"},
		},
		{
			name:     "Login without registration",
			page:     PageLogin,
			view:     NewView(nil, nil, "", &LoginPage{LoginURL: "/api/login?redirect_uri=%2F"}),
			contains: []string{"Sign in"},
			excludes: []string{"Create account", "Logout", "side-navigation", "<script>", "help-panel"},
		},
		{
			name:     "Login with registration",
			page:     PageLogin,
			view:     NewView(nil, nil, "", &LoginPage{LoginURL: "/api/login", SignupURL: "/api/signup?token=s3cret", Error: "invalid-state"}),
			contains: []string{"Create account", "Sign in failed: invalid-state"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRenderer(t)

			buf := &bytes.Buffer{}
			err := r.Render(buf, tc.page, tc.view)
			require.NoError(t, err)

			for _, s := range tc.contains {
				assert.Contains(t, buf.String(), s)
			}

			for _, s := range tc.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestRender_UnknownPage(t *testing.T) {
	err := newTestRenderer(t).Render(&bytes.Buffer{}, "nope", NewView(nil, nil, "", nil))
	assert.Error(t, err)
}

func TestNavigation(t *testing.T) {
	assert.Equal(t, []NavItem{
		{Label: "Data Domains", Href: "/"},
		{Label: "Workflow Executions", Href: "/workflow-executions", Active: true},
		{Label: "Pending Approvals", Href: "/approvals/pending"},
	}, Navigation(service.RouteWorkflowExecutions))
}

func TestView_ViewModel(t *testing.T) {
	data := &service.DataDomains{}

	assert.Same(t, data, NewView(user, help, "/", data).ViewModel())
}

func TestPIIPath(t *testing.T) {
	assert.Equal(t, "/api/pii/database/sales", PIIPath(service.DatabaseResource("sales")))
	assert.Equal(t, "/api/pii/table/sales/order%20lines", PIIPath(service.TableResource("sales", "order lines")))
}
