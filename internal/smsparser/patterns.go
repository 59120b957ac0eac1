package smsparser

import (
	"regexp"

	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

// Pattern extracts a transaction from one message format. Group indexes are
// 1-based; zero means the pattern has no such group.
type Pattern struct {
	Name          string
	Regex         *regexp.Regexp
	AmountGroup   int
	MerchantGroup int
	DateGroup     int
	Direction     sqlconfig.Direction
}

// DefaultPatterns is tried in order and the first match wins. Provider
// specific entries must stay ahead of the generic ones that would also match
// their messages.
var DefaultPatterns = []Pattern{
	// Chase | Zelle(R): PAUL WANGECHI sent you $49.95 & it's ready now.
	// Must precede "sent-you".
	{
		Name:          "chase-zelle",
		Regex:         regexp.MustCompile(`(?i)Chase.*?Zelle.*?([A-Z][A-Z\s]+?)\s+sent\s+you\s+\$([\d,]+\.?\d*)`),
		AmountGroup:   2,
		MerchantGroup: 1,
		Direction:     sqlconfig.DirectionIncome,
	},
	// JANE DOE sent you $20.00
	{
		Name:          "sent-you",
		Regex:         regexp.MustCompile(`(?i)([A-Z][A-Z\s]+?)\s+sent\s+you\s+\$([\d,]+\.?\d*)`),
		AmountGroup:   2,
		MerchantGroup: 1,
		Direction:     sqlconfig.DirectionIncome,
	},
	// Chase Freedom Unlimited Visa: You made a $18.48 transaction with FRED-MEYER #0186 on Nov 13, 2025 at 8:26 PM ET.
	// Must precede "amount-at-merchant-on-date".
	{
		Name:          "chase-card",
		Regex:         regexp.MustCompile(`(?i)Chase.*?\$([\d,]+\.?\d*).*?with\s+([A-Z0-9\s#-]+?)\s+(?:on|at)\s+([A-Za-z]+\s+\d+,\s+\d+)`),
		AmountGroup:   1,
		MerchantGroup: 2,
		DateGroup:     3,
		Direction:     sqlconfig.DirectionExpense,
	},
	// $25.99 at STARBUCKS on Dec 1, 2025
	// Must precede "spent-at", which would match without the date.
	{
		Name:          "amount-at-merchant-on-date",
		Regex:         regexp.MustCompile(`(?i)\$([\d,]+\.?\d*)\s+at\s+([A-Z0-9\s#-]+?)\s+on\s+([A-Za-z]+\s+\d+,\s+\d+)`),
		AmountGroup:   1,
		MerchantGroup: 2,
		DateGroup:     3,
		Direction:     sqlconfig.DirectionExpense,
	},
	// You spent $12.00 at TARGET
	{
		Name:          "spent-at",
		Regex:         regexp.MustCompile(`(?i)spent\s+\$([\d,]+\.?\d*)\s+at\s+([A-Z0-9\s#-]+)`),
		AmountGroup:   1,
		MerchantGroup: 2,
		Direction:     sqlconfig.DirectionExpense,
	},
	// $9.99 charged at NETFLIX
	{
		Name:          "charged-at",
		Regex:         regexp.MustCompile(`(?i)\$([\d,]+\.?\d*)\s+charged\s+at\s+([A-Z0-9\s#-]+)`),
		AmountGroup:   1,
		MerchantGroup: 2,
		Direction:     sqlconfig.DirectionExpense,
	},
}

// dateLayouts are tried in order against a captured date.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
	"Jan 02, 2006",
}
