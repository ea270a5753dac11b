package statement

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := `Completed Date,Description,Amount,Currency,State
2024-03-01 09:30:00,Coffee Shop,-3.50,usd,COMPLETED
2024-03-02 12:00:00,Salary March,1500.00,USD,completed
2024-03-03 08:15:00,Pending Thing,-9.99,USD,PENDING
2024-03-04 10:00:00,Reverted Thing,-5.00,USD,REVERTED
broken line without enough fields
2024-03-05 11:00:00,Not A Number,abc,USD,COMPLETED
`

	rows, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Coffee Shop", rows[0].Description)
	assert.Equal(t, "USD", rows[0].Currency, "currency is upper-cased")
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-3.50")))

	assert.Equal(t, "Salary March", rows[1].Description)
	assert.Equal(t, StateCompleted, rows[1].State, "state comparison is case-insensitive")
}

func TestParse_HeaderOrderDoesNotMatter(t *testing.T) {
	input := `State,Amount,Currency,Completed Date,Description
COMPLETED,-3.50,USD,2024-03-01 09:30:00,Coffee Shop
`

	rows, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Coffee Shop", rows[0].Description)
}

func TestParse_MissingColumn(t *testing.T) {
	input := `Completed Date,Description,Amount,State
2024-03-01,Coffee Shop,-3.50,COMPLETED
`

	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Currency")
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-01 09:30:00", "2024-03-01"},
		{"2024-03-01", "2024-03-01"},
		{"2024-12-31 23:59:59", "2024-12-31"},
	}

	for _, tt := range tests {
		got, err := NormalizeDate(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got.Format("2006-01-02"))
		assert.Equal(t, 0, got.Hour(), "time collapses to midnight")
	}

	_, err := NormalizeDate("01/03/2024")
	assert.Error(t, err)
}
