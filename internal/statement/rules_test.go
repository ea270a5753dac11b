package statement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/finbook/internal/domain"
)

const sampleRules = `
rules:
  - keyword: coffee
    category: restaurants
  - keyword: shop
    category: shopping
  - keyword: uber
    category: transport
`

func TestParseRules(t *testing.T) {
	rs, err := ParseRules(strings.NewReader(sampleRules))
	require.NoError(t, err)
	require.Len(t, rs.Rules, 3)
	assert.Equal(t, "coffee", rs.Rules[0].Keyword)
	assert.Equal(t, "restaurants", rs.Rules[0].CategoryID)
}

func TestParseRules_Invalid(t *testing.T) {
	_, err := ParseRules(strings.NewReader("rules: [broken"))
	assert.Error(t, err)
}

func TestRuleSet_Categorize(t *testing.T) {
	rs, err := ParseRules(strings.NewReader(sampleRules))
	require.NoError(t, err)

	// First match wins even when a later rule also matches.
	assert.Equal(t, "restaurants", rs.Categorize("Coffee Shop Downtown"))
	assert.Equal(t, "shopping", rs.Categorize("Gift Shop"))
	assert.Equal(t, "transport", rs.Categorize("UBER *TRIP"))
	assert.Equal(t, domain.DefaultCategoryID, rs.Categorize("Mystery merchant"))
}

func TestRuleSet_Categorize_NilSet(t *testing.T) {
	var rs *RuleSet
	assert.Equal(t, domain.DefaultCategoryID, rs.Categorize("anything"))
}
