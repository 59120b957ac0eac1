package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/operator/actions"
	"github.com/carson-networks/mymoney-server/internal/smsparser"
	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

const (
	settingSMSEnabled     = "sms.enabled"
	settingSMSLastMessage = "sms.last_message"

	smsNotePrefix = "Auto-imported from SMS: "
)

// SMSImportOutcome says what happened to a processed message.
type SMSImportOutcome string

const (
	SMSImportImported   SMSImportOutcome = "imported"
	SMSImportDisabled   SMSImportOutcome = "disabled"
	SMSImportDuplicate  SMSImportOutcome = "duplicate"
	SMSImportNoMatch    SMSImportOutcome = "no-match"
	SMSImportNoCategory SMSImportOutcome = "no-category"
)

type SMSImportResult struct {
	Outcome     SMSImportOutcome
	Parsed      *smsparser.ParsedTransaction
	Transaction *Transaction
}

// SMSImportService turns bank notification messages into transactions.
type SMSImportService struct {
	reader       *storage.Reader
	processor    operator.IProcessor
	parser       *smsparser.Parser
	transactions *TransactionService
	categories   *CategoryService
	logger       *logrus.Logger

	// mu serializes Process so the last-message check and update are atomic.
	mu sync.Mutex
}

// NewSMSImportService creates a new SMSImportService.
func NewSMSImportService(deps Dependencies, transactions *TransactionService, categories *CategoryService) *SMSImportService {
	parser := deps.Parser
	if parser == nil {
		parser = smsparser.New()
	}
	return &SMSImportService{
		reader:       deps.Reader,
		processor:    deps.Processor,
		parser:       parser,
		transactions: transactions,
		categories:   categories,
		logger:       deps.Logger,
	}
}

// Enabled reports whether automatic import is switched on. It is off until
// SetEnabled(true) is called.
func (s *SMSImportService) Enabled(ctx context.Context) (bool, error) {
	value, ok, err := s.reader.Settings.Get(ctx, settingSMSEnabled)
	if err != nil || !ok {
		return false, err
	}
	return strconv.ParseBool(value)
}

func (s *SMSImportService) SetEnabled(ctx context.Context, enabled bool) error {
	return s.processor.Process(ctx, &actions.SaveSetting{
		Key:   settingSMSEnabled,
		Value: strconv.FormatBool(enabled),
	})
}

// Preview parses text without storing anything.
func (s *SMSImportService) Preview(text string) (*smsparser.ParsedTransaction, bool) {
	return s.parser.Parse(text)
}

// ProcessMessage imports the transaction described by text for owner. A
// message identical to the previously imported one is ignored, which only
// guards against consecutive redelivery.
func (s *SMSImportService) ProcessMessage(ctx context.Context, owner, text string) (*SMSImportResult, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	enabled, err := s.Enabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return &SMSImportResult{Outcome: SMSImportDisabled}, nil
	}

	last, _, err := s.reader.Settings.Get(ctx, settingSMSLastMessage)
	if err != nil {
		return nil, err
	}
	if text == last {
		s.logger.WithField("owner", owner).Debug("SMSImport.ProcessMessage.duplicate")
		return &SMSImportResult{Outcome: SMSImportDuplicate}, nil
	}

	parsed, ok := s.parser.Parse(text)
	if !ok {
		return &SMSImportResult{Outcome: SMSImportNoMatch}, nil
	}

	txn, err := s.ImportParsed(ctx, owner, parsed)
	result := &SMSImportResult{Outcome: SMSImportImported, Parsed: parsed, Transaction: txn}
	if errors.Is(err, ErrNoImportCategory) {
		result.Outcome = SMSImportNoCategory
	} else if err != nil {
		return nil, err
	}

	if err := s.processor.Process(ctx, &actions.SaveSetting{Key: settingSMSLastMessage, Value: text}); err != nil {
		return nil, err
	}
	return result, nil
}

// ImportParsed creates a transaction from an already parsed message in the
// import category for its direction. ErrNoImportCategory is returned, and
// nothing is created, when owner has no category of that direction.
func (s *SMSImportService) ImportParsed(ctx context.Context, owner string, parsed *smsparser.ParsedTransaction) (*Transaction, error) {
	category, err := s.categories.ResolveImportCategory(ctx, owner, parsed.Direction)
	if errors.Is(err, ErrNoImportCategory) {
		s.logger.WithFields(logrus.Fields{
			"owner":     owner,
			"direction": parsed.Direction,
		}).Warn("SMSImport.ImportParsed.no category")
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	note := importNote(parsed)
	txn, err := s.transactions.CreateTransaction(ctx, owner, TransactionInput{
		Amount:     parsed.Amount,
		Direction:  parsed.Direction,
		Date:       parsed.Date,
		CategoryID: &category.ID,
		Note:       &note,
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"owner":   owner,
		"pattern": parsed.Pattern,
		"amount":  parsed.Amount.String(),
	}).Info("SMSImport.ImportParsed.imported")
	return txn, nil
}

func importNote(parsed *smsparser.ParsedTransaction) string {
	if parsed.Direction == sqlconfig.DirectionIncome {
		return smsNotePrefix + "Received from " + parsed.Merchant
	}
	return smsNotePrefix + parsed.Merchant
}
