package sms

import (
	"github.com/carson-networks/mymoney-server/internal/handlers/handlerutil"
	"github.com/carson-networks/mymoney-server/internal/smsparser"
)

// ParsedMessage is the API model of a recognized bank message.
type ParsedMessage struct {
	Amount    string `json:"amount" doc:"Decimal amount"`
	Merchant  string `json:"merchant" doc:"Merchant or sender"`
	Date      string `json:"date" doc:"RFC3339 transaction date"`
	Direction string `json:"direction" doc:"income or expense"`
	Note      string `json:"note" doc:"Note derived from the message"`
	Pattern   string `json:"pattern" doc:"Name of the matching pattern"`
}

// MessageBody carries one raw message.
type MessageBody struct {
	Message string `json:"message" required:"true" minLength:"1" maxLength:"2000" doc:"Raw message text"`
}

func toParsedMessage(p *smsparser.ParsedTransaction) *ParsedMessage {
	if p == nil {
		return nil
	}
	return &ParsedMessage{
		Amount:    p.Amount.StringFixed(2),
		Merchant:  p.Merchant,
		Date:      handlerutil.FormatDate(p.Date),
		Direction: p.Direction.String(),
		Note:      p.Note,
		Pattern:   p.Pattern,
	}
}
