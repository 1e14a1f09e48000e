package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/console"
	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/invalidation"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core"
	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/routes"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserHeader = "X-Test-User"

var startDate = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type catalogService struct{}

func (catalogService) GetDataDomains(context.Context, *service.User) (*service.DataDomains, error) {
	return &service.DataDomains{Databases: []*service.DatabaseSummary{
		{Name: "sales", AccessMode: "nrac", Link: service.TablesPath("sales")},
	}}, nil
}

func (catalogService) GetDatabaseTables(_ context.Context, _ *service.User, db string) (*service.DatabaseTables, error) {
	if db != "sales" {
		return nil, errs.E(errs.NotExist, errs.Op("catalogService.GetDatabaseTables"), errs.Str("no such database"))
	}

	return &service.DatabaseTables{Database: &service.DatabaseDetails{Name: db}, Tables: []*service.TableSummary{}}, nil
}

func (catalogService) GetDatabaseDetails(_ context.Context, _ *service.User, db string) (*service.DatabaseDetails, error) {
	return &service.DatabaseDetails{Name: db}, nil
}

func (catalogService) GetTableDetails(_ context.Context, _ *service.User, db, table string) (*service.TableDetails, error) {
	return &service.TableDetails{DatabaseName: db, Name: table, CanRequestAccess: true}, nil
}

type accessService struct {
	tracker *invalidation.Tracker
}

func (a accessService) TogglePIIFlag(_ context.Context, _ *service.User, resource service.Resource) (*service.ToggleResult, error) {
	return &service.ToggleResult{
		Resource: resource,
		Variant:  service.ApprovalNameBased,
		PIIFlag:  true,
		Version:  a.tracker.Bump(resource.Key()),
	}, nil
}

func (accessService) RequestAccess(_ context.Context, _ *service.User, in service.NewAccessRequest) (*service.AccessRequestExecution, error) {
	return &service.AccessRequestExecution{
		ExecutionARN: "arn:aws:states:eu-west-1:123456789012:execution:access-request:" + in.TableName + "-" + in.TargetAccountID,
		StartDate:    startDate,
		Link:         service.ExecutionDetailsPath("arn:aws:states:eu-west-1:123456789012:execution:access-request:exec-1"),
	}, nil
}

type searchAPI struct{}

func (searchAPI) Search(context.Context, string, string) ([]service.SearchMatch, error) {
	return []service.SearchMatch{
		{TableInformation: service.TableInformation{DatabaseName: "sales", TableName: "orders", ColumnNames: []string{"order_id"}}},
	}, nil
}

type workflowService struct{}

func (workflowService) ListExecutions(context.Context, *service.User) (*service.WorkflowExecutions, error) {
	return &service.WorkflowExecutions{Executions: []*service.WorkflowExecution{}}, nil
}

func (workflowService) GetExecution(_ context.Context, _ *service.User, arn string) (*service.WorkflowExecution, error) {
	return &service.WorkflowExecution{ARN: arn, Name: "exec-1", Status: "RUNNING", StartDate: startDate}, nil
}

type approvalsService struct {
	denied map[string]string
}

func (approvalsService) ListPending(context.Context, *service.User) (*service.PendingApprovals, error) {
	return &service.PendingApprovals{}, nil
}

func (approvalsService) Approve(context.Context, *service.User, string) error {
	return nil
}

func (a approvalsService) Deny(_ context.Context, _ *service.User, id, reason string) error {
	a.denied[id] = reason
	return nil
}

type dataProductService struct{}

func (dataProductService) GetRegistrationForm(_ context.Context, _ *service.User, domainID string) (*service.RegistrationForm, error) {
	return &service.RegistrationForm{DomainID: domainID}, nil
}

func (dataProductService) RegisterDataProduct(_ context.Context, user *service.User, domainID string, in service.NewDataProduct) (*service.DataProduct, error) {
	return &service.DataProduct{ID: "abc", Slug: "orders-abc", DomainID: domainID, Name: in.Name, CreatedBy: user.Username}, nil
}

func (dataProductService) GetDataProductDetails(_ context.Context, _ *service.User, slug string) (*service.DataProductDetails, error) {
	return &service.DataProductDetails{Product: &service.DataProduct{Slug: slug, Name: "Orders"}}, nil
}

type userService struct{}

func (userService) GetUserData(_ context.Context, user *service.User) (*service.UserInfo, error) {
	return &service.UserInfo{Username: user.Username, DataProducts: []*service.DataProduct{}}, nil
}

type shellService struct{}

func (shellService) GetHelpPanel(context.Context) *service.HelpPanel {
	return &service.HelpPanel{AccountID: "123456789012", EventHash: service.NotAvailable}
}

// testAuth stands in for the session middleware, the user is named by a
// header instead of a session cookie.
func testAuth(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if name := r.Header.Get(testUserHeader); name != "" {
				r = r.WithContext(auth.SetUser(r.Context(), &service.User{
					Username:     name,
					DomainIDs:    []string{"123456789012"},
					SessionToken: "session-" + name,
				}))
			}

			auth.RequireUser(log)(next).ServeHTTP(w, r)
		})
	}
}

type testRouter struct {
	router  chi.Router
	tracker *invalidation.Tracker
	denied  map[string]string
}

func newTestRouter(t *testing.T) *testRouter {
	t.Helper()

	log := zerolog.Nop()
	tracker := invalidation.New()
	denied := map[string]string{}

	renderer, err := console.NewRenderer()
	require.NoError(t, err)

	services := &core.Services{
		CatalogService:     catalogService{},
		AccessService:      accessService{tracker: tracker},
		SearchService:      core.NewSearchService(searchAPI{}, invalidation.NewGenerations(), core.NewNopMetrics()),
		WorkflowService:    workflowService{},
		ApprovalsService:   approvalsService{denied: denied},
		DataProductService: dataProductService{},
		UserService:        userService{},
		ShellService:       shellService{},
	}

	h := handlers.NewHandlers(services, renderer, auth.NewRegistrationGate("s3cret"), tracker)
	authMW := testAuth(log)

	router := chi.NewRouter()
	routes.Add(router,
		routes.NewPageRoutes(routes.NewPageEndpoints(log, h), authMW),
		routes.NewCatalogRoutes(routes.NewCatalogEndpoints(log, h.CatalogHandler), authMW),
		routes.NewAccessRoutes(routes.NewAccessEndpoints(log, h.AccessHandler), authMW),
		routes.NewSearchRoutes(routes.NewSearchEndpoints(log, h.SearchHandler), authMW),
		routes.NewApprovalsRoutes(routes.NewApprovalsEndpoints(log, h.ApprovalsHandler), authMW),
		routes.NewDataProductRoutes(routes.NewDataProductEndpoints(log, h.DataProductHandler), authMW),
		routes.NewUserRoutes(routes.NewUserEndpoints(log, h), authMW),
		routes.NewVersionsRoutes(routes.NewVersionsEndpoints(log, h.VersionsHandler), authMW),
	)

	return &testRouter{
		router:  router,
		tracker: tracker,
		denied:  denied,
	}
}

func TestRoutes(t *testing.T) {
	payload := service.SuggestionPayload{Type: service.PayloadTypeDatabase, DB: "sales", Label: "sales"}.Encode()

	testCases := []struct {
		name           string
		method         string
		target         string
		user           string
		json           bool
		form           url.Values
		expectStatus   int
		expectLocation string
		expectBody     []string
	}{
		{
			name:           "Anonymous browser is sent to login",
			method:         http.MethodGet,
			target:         "/tables/sales",
			expectStatus:   http.StatusFound,
			expectLocation: "/login?redirect_uri=%2Ftables%2Fsales",
		},
		{
			name:         "Anonymous JSON client is rejected",
			method:       http.MethodGet,
			target:       "/",
			json:         true,
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "Login page without registration token",
			method:       http.MethodGet,
			target:       "/login?redirect_uri=%2Ftables%2Fsales",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"loginURL":"/api/login?redirect_uri=%2Ftables%2Fsales"`},
		},
		{
			name:         "Login page with registration token",
			method:       http.MethodGet,
			target:       "/login?token=s3cret",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"signupURL":"/api/signup?token=s3cret"`},
		},
		{
			name:         "Data domains as JSON",
			method:       http.MethodGet,
			target:       "/",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"name":"sales"`, `"link":"/tables/sales"`},
		},
		{
			name:         "Data domains as html",
			method:       http.MethodGet,
			target:       "/",
			user:         "alice",
			expectStatus: http.StatusOK,
			expectBody:   []string{"<title>Data Mesh UI</title>", `<a href="/tables/sales">sales</a>`, "123456789012"},
		},
		{
			name:         "Unknown database",
			method:       http.MethodGet,
			target:       "/tables/nope",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusNotFound,
		},
		{
			name:         "Request access page",
			method:       http.MethodGet,
			target:       "/request-access/sales/orders",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"canRequestAccess":true`},
		},
		{
			name:         "Execution details",
			method:       http.MethodGet,
			target:       "/execution-details/arn:aws:states:eu-west-1:123456789012:execution:access-request:exec-1",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"arn":"arn:aws:states:eu-west-1:123456789012:execution:access-request:exec-1"`},
		},
		{
			name:           "Toggle from the browser returns to the page",
			method:         http.MethodPost,
			target:         "/api/pii/table/sales/orders",
			user:           "alice",
			expectStatus:   http.StatusSeeOther,
			expectLocation: "/request-access/sales/orders",
		},
		{
			name:         "Toggle from a JSON client returns the result",
			method:       http.MethodPost,
			target:       "/api/pii/database/sales",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"piiFlag":true`, `"version":1`},
		},
		{
			name:           "Request access form",
			method:         http.MethodPost,
			target:         "/api/request-access/sales/orders",
			user:           "alice",
			form:           url.Values{"target_account_id": {"210987654321"}},
			expectStatus:   http.StatusSeeOther,
			expectLocation: "/execution-details/arn:aws:states:eu-west-1:123456789012:execution:access-request:exec-1",
		},
		{
			name:         "Short search query",
			method:       http.MethodGet,
			target:       "/api/search?q=sa&gen=1",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"suggestions":[]`, `"generation":1`},
		},
		{
			name:         "Search query",
			method:       http.MethodGet,
			target:       "/api/search?q=order&gen=2",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"label":"orders"`, `"label":"order_id"`, `"stale":false`},
		},
		{
			name:         "Search with a bad generation",
			method:       http.MethodGet,
			target:       "/api/search?q=order&gen=first",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:           "Select a database suggestion",
			method:         http.MethodGet,
			target:         "/api/search/select?value=" + payload,
			user:           "alice",
			expectStatus:   http.StatusSeeOther,
			expectLocation: "/tables/sales",
		},
		{
			name:         "Select garbage",
			method:       http.MethodGet,
			target:       "/api/search/select?value=0OIl",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:           "Register a data product",
			method:         http.MethodPost,
			target:         "/api/product-registration/123456789012",
			user:           "alice",
			form:           url.Values{"name": {"Orders"}},
			expectStatus:   http.StatusSeeOther,
			expectLocation: "/data-product-details/orders-abc",
		},
		{
			name:         "User data",
			method:       http.MethodGet,
			target:       "/api/userData",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"username":"alice"`},
		},
		{
			name:         "Version of an untouched table",
			method:       http.MethodGet,
			target:       "/api/versions/table/sales/orders",
			user:         "alice",
			json:         true,
			expectStatus: http.StatusOK,
			expectBody:   []string{`"version":0`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestRouter(t)

			body := &bytes.Buffer{}
			if tc.form != nil {
				body = bytes.NewBufferString(tc.form.Encode())
			}

			r := httptest.NewRequest(tc.method, tc.target, body)
			if tc.form != nil {
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}

			if tc.json {
				r.Header.Set("Accept", "application/json")
			}

			if tc.user != "" {
				r.Header.Set(testUserHeader, tc.user)
			}

			rr := httptest.NewRecorder()
			tr.router.ServeHTTP(rr, r)

			assert.Equal(t, tc.expectStatus, rr.Code, rr.Body.String())
			assert.Equal(t, tc.expectLocation, rr.Header().Get("Location"))

			for _, s := range tc.expectBody {
				assert.Contains(t, rr.Body.String(), s)
			}
		})
	}
}

func TestRoutes_ToggleBumpsVersionOnce(t *testing.T) {
	tr := newTestRouter(t)

	toggle := httptest.NewRequest(http.MethodPost, "/api/pii/database/sales", nil)
	toggle.Header.Set(testUserHeader, "alice")
	toggle.Header.Set("Accept", "application/json")
	tr.router.ServeHTTP(httptest.NewRecorder(), toggle)

	version := httptest.NewRequest(http.MethodGet, "/api/versions/database/sales", nil)
	version.Header.Set(testUserHeader, "alice")
	version.Header.Set("Accept", "application/json")

	rr := httptest.NewRecorder()
	tr.router.ServeHTTP(rr, version)
	require.Equal(t, http.StatusOK, rr.Code)

	got := service.ResourceVersion{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, service.ResourceVersion{Resource: service.DatabaseResource("sales"), Version: 1}, got)
}

func TestRoutes_DenyReadsReason(t *testing.T) {
	tr := newTestRouter(t)

	r := httptest.NewRequest(http.MethodPost, "/api/approvals/req-1/deny", strings.NewReader("reason=not+needed"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set(testUserHeader, "alice")

	rr := httptest.NewRecorder()
	tr.router.ServeHTTP(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, service.RoutePendingApprovals, rr.Header().Get("Location"))
	assert.Equal(t, map[string]string{"req-1": "not needed"}, tr.denied)
}

func TestPrint(t *testing.T) {
	tr := newTestRouter(t)

	out := &bytes.Buffer{}
	require.NoError(t, routes.Print(tr.router, out))

	for _, route := range []string{
		"/tables/{dbname}",
		"/request-access/{dbname}/{tablename}",
		"/workflow-executions",
		"/execution-details/{execArn}",
		"/data-product-details/{dataProduct}",
		"/product-registration/{domainId}/new",
		"/approvals/pending",
		"/api/pii/database/{dbname}",
		"/api/versions/table/{dbname}/{tablename}",
	} {
		assert.Contains(t, out.String(), route)
	}
}
