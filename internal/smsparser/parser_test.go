package smsparser

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

var fixedNow = time.Date(2025, 12, 24, 9, 30, 0, 0, time.UTC)

func newTestParser() *Parser {
	return New(WithLocation(time.UTC), WithClock(func() time.Time { return fixedNow }))
}

func TestParse_ChaseZelleWinsOverGenericSentYou(t *testing.T) {
	parsed, ok := newTestParser().Parse("Chase | Zelle(R): PAUL WANGECHI sent you $49.95 & it's ready now.")
	require.True(t, ok)

	assert.Equal(t, "chase-zelle", parsed.Pattern)
	assert.Equal(t, "PAUL WANGECHI", parsed.Merchant)
	assert.Equal(t, "49.95", parsed.Amount.String())
	assert.Equal(t, sqlconfig.DirectionIncome, parsed.Direction)
	assert.Equal(t, fixedNow, parsed.Date)
}

func TestParse_GenericSentYou(t *testing.T) {
	parsed, ok := newTestParser().Parse("JANE DOE sent you $20.00")
	require.True(t, ok)

	assert.Equal(t, "sent-you", parsed.Pattern)
	assert.Equal(t, "JANE DOE", parsed.Merchant)
	assert.Equal(t, sqlconfig.DirectionIncome, parsed.Direction)
}

func TestParse_ChaseCardTransaction(t *testing.T) {
	text := "Chase Freedom Unlimited Visa: You made a $18.48 transaction with FRED-MEYER #0186 on Nov 13, 2025 at 8:26 PM ET."
	parsed, ok := newTestParser().Parse(text)
	require.True(t, ok)

	assert.Equal(t, "chase-card", parsed.Pattern)
	assert.Equal(t, "18.48", parsed.Amount.String())
	assert.Equal(t, "FRED-MEYER #0186", parsed.Merchant)
	assert.Equal(t, time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC), parsed.Date)
	assert.Equal(t, sqlconfig.DirectionExpense, parsed.Direction)
	assert.Equal(t, text, parsed.Note)
}

func TestParse_SpentAtWithDate(t *testing.T) {
	parsed, ok := newTestParser().Parse("You spent $25.99 at STARBUCKS on Dec 1, 2025")
	require.True(t, ok)

	assert.Equal(t, "25.99", parsed.Amount.String())
	assert.Contains(t, parsed.Merchant, "STARBUCKS")
	assert.Equal(t, sqlconfig.DirectionExpense, parsed.Direction)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), parsed.Date)
}

func TestParse_FullMonthName(t *testing.T) {
	parsed, ok := newTestParser().Parse("$5.00 at CORNER SHOP on December 25, 2025")
	require.True(t, ok)

	assert.Equal(t, "CORNER SHOP", parsed.Merchant)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), parsed.Date)
}

func TestParse_SpentAtWithoutDateUsesNow(t *testing.T) {
	parsed, ok := newTestParser().Parse("You spent $12.00 at TARGET")
	require.True(t, ok)

	assert.Equal(t, "spent-at", parsed.Pattern)
	assert.Equal(t, "TARGET", parsed.Merchant)
	assert.Equal(t, fixedNow, parsed.Date)
}

func TestParse_ThousandsSeparator(t *testing.T) {
	parsed, ok := newTestParser().Parse("$1,234.56 charged at AMAZON")
	require.True(t, ok)

	assert.Equal(t, "charged-at", parsed.Pattern)
	assert.Equal(t, "1234.56", parsed.Amount.String())
	assert.Equal(t, "AMAZON", parsed.Merchant)
}

func TestParse_CaseInsensitive(t *testing.T) {
	parsed, ok := newTestParser().Parse("you SPENT $3.50 AT cafe")
	require.True(t, ok)
	assert.Equal(t, "cafe", parsed.Merchant)
}

func TestParse_NoMatch(t *testing.T) {
	parsed, ok := newTestParser().Parse("Your verification code is 123456")
	assert.False(t, ok)
	assert.Nil(t, parsed)
}

func TestParse_ZeroAmountIsNotAMatch(t *testing.T) {
	_, ok := newTestParser().Parse("You spent $0.00 at TARGET")
	assert.False(t, ok)
}

func TestParse_UnparseableAmountFallsThrough(t *testing.T) {
	parser := New(
		WithClock(func() time.Time { return fixedNow }),
		WithPatterns([]Pattern{
			{
				Name:          "broken",
				Regex:         regexp.MustCompile(`(?i)total\s+(\S+)\s+at\s+(\w+)`),
				AmountGroup:   1,
				MerchantGroup: 2,
				Direction:     sqlconfig.DirectionExpense,
			},
			{
				Name:        "amount-only",
				Regex:       regexp.MustCompile(`(?i)\$([\d,]+\.?\d*)`),
				AmountGroup: 1,
				Direction:   sqlconfig.DirectionExpense,
			},
		}),
	)

	parsed, ok := parser.Parse("total abc at SHOP then $7.")
	require.True(t, ok)
	assert.Equal(t, "amount-only", parsed.Pattern)
	assert.Equal(t, "7", parsed.Amount.String())
	assert.Equal(t, UnknownMerchant, parsed.Merchant)
	assert.Equal(t, fixedNow, parsed.Date)
}

func TestParse_Deterministic(t *testing.T) {
	parser := newTestParser()
	text := "Chase Sapphire: You made a $7.10 transaction with BLUE BOTTLE on Jan 5, 2026 at 9:00 AM ET."

	first, ok := parser.Parse(text)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := parser.Parse(text)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}
