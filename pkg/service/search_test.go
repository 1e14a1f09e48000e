package service_test

import (
	"testing"

	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSearchMatches(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		query   string
		matches []service.SearchMatch
		expect  []service.Suggestion
	}{
		{
			name:    "No matches",
			query:   "sales",
			matches: nil,
			expect:  []service.Suggestion{},
		},
		{
			name:  "Database, table and two columns",
			query: "SALES",
			matches: []service.SearchMatch{
				{
					TableInformation: service.TableInformation{
						DatabaseName: "sales_db",
						TableName:    "sales_orders",
						ColumnNames:  []string{"sales_id", "customer", "Sales_Region"},
					},
				},
			},
			expect: []service.Suggestion{
				{
					Label: "sales_db",
					Tags:  []string{"Database"},
					Value: service.SuggestionPayload{Type: "database", DB: "sales_db", Label: "sales_db"}.Encode(),
				},
				{
					Label:       "sales_orders",
					Description: "sales_db.sales_orders",
					Tags:        []string{"Table"},
					Value:       service.SuggestionPayload{Type: "table", DB: "sales_db", Table: "sales_orders", Label: "sales_orders"}.Encode(),
				},
				{
					Label:       "sales_id",
					Description: "sales_db.sales_orders.sales_id",
					Tags:        []string{"Column"},
					Value:       service.SuggestionPayload{Type: "table", DB: "sales_db", Table: "sales_orders", Label: "sales_id"}.Encode(),
				},
				{
					Label:       "Sales_Region",
					Description: "sales_db.sales_orders.Sales_Region",
					Tags:        []string{"Column"},
					Value:       service.SuggestionPayload{Type: "table", DB: "sales_db", Table: "sales_orders", Label: "Sales_Region"}.Encode(),
				},
			},
		},
		{
			name:  "Only column matches",
			query: "cust",
			matches: []service.SearchMatch{
				{
					TableInformation: service.TableInformation{
						DatabaseName: "sales_db",
						TableName:    "orders",
						ColumnNames:  []string{"customer"},
					},
				},
			},
			expect: []service.Suggestion{
				{
					Label:       "customer",
					Description: "sales_db.orders.customer",
					Tags:        []string{"Column"},
					Value:       service.SuggestionPayload{Type: "table", DB: "sales_db", Table: "orders", Label: "customer"}.Encode(),
				},
			},
		},
		{
			name:  "Coarse match without any fine match",
			query: "xyz",
			matches: []service.SearchMatch{
				{
					TableInformation: service.TableInformation{
						DatabaseName: "sales_db",
						TableName:    "orders",
					},
				},
			},
			expect: []service.Suggestion{},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := service.ExpandSearchMatches(tc.query, tc.matches)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestSuggestionPayload(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		payload  service.SuggestionPayload
		location string
	}{
		{
			name:     "Database navigates to table listing",
			payload:  service.SuggestionPayload{Type: "database", DB: "sales_db", Label: "sales_db"},
			location: "/tables/sales_db",
		},
		{
			name:     "Table navigates to request access",
			payload:  service.SuggestionPayload{Type: "table", DB: "sales_db", Table: "orders", Label: "orders"},
			location: "/request-access/sales_db/orders",
		},
		{
			name:     "Column navigates to request access of its table",
			payload:  service.SuggestionPayload{Type: "table", DB: "sales_db", Table: "orders", Label: "customer"},
			location: "/request-access/sales_db/orders",
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := service.DecodeSuggestionPayload(tc.payload.Encode())
			require.NoError(t, err)
			assert.Equal(t, tc.payload, got)
			assert.Equal(t, tc.location, got.Location())
		})
	}
}

func TestDecodeSuggestionPayload_Invalid(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "0OIl", service.SuggestionPayload{Type: "table", DB: "sales_db"}.Encode()} {
		_, err := service.DecodeSuggestionPayload(value)
		assert.ErrorIs(t, err, service.ErrInvalidPayload, value)
	}
}

func TestSearchQueryTooShort(t *testing.T) {
	t.Parallel()

	assert.True(t, service.SearchQueryTooShort(""))
	assert.True(t, service.SearchQueryTooShort("ab"))
	assert.True(t, service.SearchQueryTooShort("øæ"))
	assert.False(t, service.SearchQueryTooShort("abc"))
	assert.False(t, service.SearchQueryTooShort("øæå"))
}
