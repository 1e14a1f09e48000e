package service

import (
	"fmt"
	"net/url"
)

// Console routes, in chi pattern syntax.
const (
	RouteDataDomains         = "/"
	RouteTables              = "/tables/{dbname}"
	RouteRequestAccess       = "/request-access/{dbname}/{tablename}"
	RouteWorkflowExecutions  = "/workflow-executions"
	RouteExecutionDetails    = "/execution-details/{execArn}"
	RouteDataProductDetails  = "/data-product-details/{dataProduct}"
	RouteProductRegistration = "/product-registration/{domainId}/new"
	RoutePendingApprovals    = "/approvals/pending"
)

func TablesPath(databaseName string) string {
	return fmt.Sprintf("/tables/%s", url.PathEscape(databaseName))
}

func RequestAccessPath(databaseName, tableName string) string {
	return fmt.Sprintf("/request-access/%s/%s", url.PathEscape(databaseName), url.PathEscape(tableName))
}

func ExecutionDetailsPath(executionARN string) string {
	return fmt.Sprintf("/execution-details/%s", url.PathEscape(executionARN))
}

func DataProductDetailsPath(slug string) string {
	return fmt.Sprintf("/data-product-details/%s", url.PathEscape(slug))
}

func ProductRegistrationPath(domainID string) string {
	return fmt.Sprintf("/product-registration/%s/new", url.PathEscape(domainID))
}
