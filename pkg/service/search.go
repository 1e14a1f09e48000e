package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/btcsuite/btcutil/base58"
	"github.com/goccy/go-json"
)

// MinSearchQueryLength is the shortest query sent to the search service.
const MinSearchQueryLength = 3

// Suggestion categories.
const (
	SuggestionDatabase = "Database"
	SuggestionTable    = "Table"
	SuggestionColumn   = "Column"
)

// Payload types, anything but a database navigates to the request access page.
const (
	PayloadTypeDatabase = "database"
	PayloadTypeTable    = "table"
)

var ErrInvalidPayload = errors.New("invalid suggestion payload")

type SearchAPI interface {
	// Search returns the coarse, table level matches for the query. The
	// idToken is forwarded as bearer token.
	Search(ctx context.Context, idToken, query string) ([]SearchMatch, error)
}

type SearchService interface {
	Search(ctx context.Context, user *User, query SearchQuery) (*SearchResult, error)
	Select(ctx context.Context, value string) (*SearchSelection, error)
}

type SearchMatch struct {
	TableInformation TableInformation `json:"tableInformation"`
}

type TableInformation struct {
	DatabaseName string   `json:"databaseName"`
	TableName    string   `json:"tableName"`
	ColumnNames  []string `json:"columnNames"`
}

type SearchQuery struct {
	Text string
	// Generation increases with every keystroke of a search box, it is zero
	// when the client does not track generations.
	Generation uint64
	// SessionKey scopes generations to one browser session.
	SessionKey string
}

type SearchResult struct {
	Query      string `json:"query"`
	Generation uint64 `json:"generation"`
	// Stale is set when a newer generation has already been answered for the
	// session, the suggestions are then left out.
	Stale       bool         `json:"stale"`
	Suggestions []Suggestion `json:"suggestions"`
}

type Suggestion struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Value       string   `json:"value"`
}

type SearchSelection struct {
	Payload  SuggestionPayload `json:"payload"`
	Location string            `json:"location"`
}

type SuggestionPayload struct {
	Type  string `json:"type"`
	DB    string `json:"db"`
	Table string `json:"table,omitempty"`
	Label string `json:"label"`
}

// Location is the console path a selected suggestion navigates to.
func (p SuggestionPayload) Location() string {
	if p.Type == PayloadTypeDatabase {
		return TablesPath(p.DB)
	}

	return RequestAccessPath(p.DB, p.Table)
}

// Encode returns the payload as base58 encoded JSON, safe to use in URLs.
func (p SuggestionPayload) Encode() string {
	data, err := json.Marshal(p)
	if err != nil {
		// A struct of strings always marshals
		panic(err)
	}

	return base58.Encode(data)
}

func DecodeSuggestionPayload(value string) (SuggestionPayload, error) {
	var p SuggestionPayload

	data := base58.Decode(value)
	if len(data) == 0 {
		return p, ErrInvalidPayload
	}

	err := json.Unmarshal(data, &p)
	if err != nil {
		return p, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}

	if p.DB == "" || (p.Type != PayloadTypeDatabase && p.Table == "") {
		return p, ErrInvalidPayload
	}

	return p, nil
}

// SearchQueryTooShort reports whether the query is below the length that
// triggers a search.
func SearchQueryTooShort(query string) bool {
	return utf8.RuneCountInString(query) < MinSearchQueryLength
}

// ExpandSearchMatches turns the table level matches into suggestions. Each
// match yields one entry if the database name contains the query, one if
// the table name does and one per matching column.
func ExpandSearchMatches(query string, matches []SearchMatch) []Suggestion {
	term := strings.ToLower(query)
	suggestions := []Suggestion{}

	for _, m := range matches {
		db := m.TableInformation.DatabaseName
		table := m.TableInformation.TableName

		if strings.Contains(strings.ToLower(db), term) {
			suggestions = append(suggestions, Suggestion{
				Label: db,
				Tags:  []string{SuggestionDatabase},
				Value: SuggestionPayload{
					Type:  PayloadTypeDatabase,
					DB:    db,
					Label: db,
				}.Encode(),
			})
		}

		if strings.Contains(strings.ToLower(table), term) {
			suggestions = append(suggestions, Suggestion{
				Label:       table,
				Description: fmt.Sprintf("%s.%s", db, table),
				Tags:        []string{SuggestionTable},
				Value: SuggestionPayload{
					Type:  PayloadTypeTable,
					DB:    db,
					Table: table,
					Label: table,
				}.Encode(),
			})
		}

		for _, column := range m.TableInformation.ColumnNames {
			if !strings.Contains(strings.ToLower(column), term) {
				continue
			}

			suggestions = append(suggestions, Suggestion{
				Label:       column,
				Description: fmt.Sprintf("%s.%s.%s", db, table, column),
				Tags:        []string{SuggestionColumn},
				Value: SuggestionPayload{
					Type:  PayloadTypeTable,
					DB:    db,
					Table: table,
					Label: column,
				}.Encode(),
			})
		}
	}

	return suggestions
}
