package smsparser

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

const UnknownMerchant = "Unknown"

// ParsedTransaction is what a message says about a transaction. Note holds
// the raw message.
type ParsedTransaction struct {
	Amount    decimal.Decimal
	Merchant  string
	Date      time.Time
	Note      string
	Direction sqlconfig.Direction
	// Pattern is the name of the pattern that matched.
	Pattern string
}

type Parser struct {
	patterns []Pattern
	location *time.Location
	now      func() time.Time
}

type Option func(*Parser)

// WithLocation sets the zone used for dates found in messages.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		p.location = loc
	}
}

// WithClock sets the source of the date used when a message has none.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

func WithPatterns(patterns []Pattern) Option {
	return func(p *Parser) {
		p.patterns = patterns
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{
		patterns: DefaultPatterns,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns the transaction described by text, or false when no pattern
// matches. Not matching is a normal outcome.
func (p *Parser) Parse(text string) (*ParsedTransaction, bool) {
	for _, pattern := range p.patterns {
		match := pattern.Regex.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		amount, ok := parseAmount(group(match, pattern.AmountGroup))
		if !ok {
			continue
		}

		merchant := strings.TrimSpace(group(match, pattern.MerchantGroup))
		if merchant == "" {
			merchant = UnknownMerchant
		}

		date, ok := p.parseDate(group(match, pattern.DateGroup))
		if !ok {
			date = p.now()
		}

		return &ParsedTransaction{
			Amount:    amount,
			Merchant:  merchant,
			Date:      date,
			Note:      text,
			Direction: pattern.Direction,
			Pattern:   pattern.Name,
		}, true
	}
	return nil, false
}

func group(match []string, index int) string {
	if index <= 0 || index >= len(match) {
		return ""
	}
	return match[index]
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSuffix(strings.ReplaceAll(raw, ",", ""), ".")
	if cleaned == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

func (p *Parser) parseDate(raw string) (time.Time, bool) {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if date, err := time.ParseInLocation(layout, raw, p.location); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
