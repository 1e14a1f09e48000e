package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsFromMap(t *testing.T) {
	expiry := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		raw    map[string]interface{}
		expect *Claims
	}{
		{
			name: "Comma separated domains",
			raw: map[string]interface{}{
				"cognito:username":  "alice",
				"email":             "Alice@Example.com",
				"custom:domain_ids": "123456789012, 210987654321,",
			},
			expect: &Claims{
				Username:  "alice",
				Email:     "alice@example.com",
				DomainIDs: []string{"123456789012", "210987654321"},
				Expiry:    expiry,
			},
		},
		{
			name: "Array of domains",
			raw: map[string]interface{}{
				"cognito:username":  "bob",
				"custom:domain_ids": []interface{}{"123456789012"},
			},
			expect: &Claims{
				Username:  "bob",
				DomainIDs: []string{"123456789012"},
				Expiry:    expiry,
			},
		},
		{
			name: "Falls back to the subject",
			raw: map[string]interface{}{
				"sub": "0b1c2d",
			},
			expect: &Claims{
				Username: "0b1c2d",
				Expiry:   expiry,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ClaimsFromMap(tc.raw, "custom:domain_ids", expiry))
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	expires := time.Date(2024, time.March, 1, 13, 0, 0, 0, time.UTC)

	got, err := TokenExpiry(signedToken(t, expires))
	require.NoError(t, err)
	assert.True(t, expires.Equal(got))

	_, err = TokenExpiry("not-a-token")
	assert.Error(t, err)
}
