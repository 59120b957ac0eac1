package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

const (
	chaseCardSMS = "Chase Freedom Unlimited Visa: You made a $18.48 transaction with FRED-MEYER #0186 on Nov 13, 2025 at 8:26 PM ET."
	zelleSMS     = "Chase | Zelle(R): PAUL WANGECHI sent you $49.95 & it's ready now."
)

func newEnabledSMSEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	require.NoError(t, env.svc.SMSImport.SetEnabled(context.Background(), true))
	return env
}

func countTransactions(t *testing.T, env *testEnv) int64 {
	t.Helper()
	count, err := env.storage.Reader.Transactions.Count(context.Background(), nil)
	require.NoError(t, err)
	return count
}

// -- Enabled tests --

func TestSMSImport_DisabledByDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	enabled, err := env.svc.SMSImport.Enabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	result, err := env.svc.SMSImport.ProcessMessage(ctx, testOwner, chaseCardSMS)
	require.NoError(t, err)
	assert.Equal(t, SMSImportDisabled, result.Outcome)
	assert.Zero(t, countTransactions(t, env))
}

func TestSMSImport_SetEnabledPersists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.SMSImport.SetEnabled(ctx, true))
	enabled, err := env.svc.SMSImport.Enabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, env.svc.SMSImport.SetEnabled(ctx, false))
	enabled, err = env.svc.SMSImport.Enabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

// -- ProcessMessage tests --

func TestSMSImport_ImportsExpense(t *testing.T) {
	env := newEnabledSMSEnv(t)

	result, err := env.svc.SMSImport.ProcessMessage(context.Background(), testOwner, chaseCardSMS)
	require.NoError(t, err)
	require.Equal(t, SMSImportImported, result.Outcome)

	txn := result.Transaction
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("18.48")))
	assert.Equal(t, sqlconfig.DirectionExpense, txn.Direction)
	assert.Equal(t, time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC), txn.Date)
	assert.Equal(t, "Auto-imported from SMS: FRED-MEYER #0186", *txn.Note)
	assert.Equal(t, storage.DefaultCategoryID(sqlconfig.DirectionExpense, "Other"), *txn.CategoryID)
	assert.Len(t, env.remote.transactions, 1)
}

func TestSMSImport_IncomeNoteSaysReceivedFrom(t *testing.T) {
	env := newEnabledSMSEnv(t)

	result, err := env.svc.SMSImport.ProcessMessage(context.Background(), testOwner, zelleSMS)
	require.NoError(t, err)
	require.Equal(t, SMSImportImported, result.Outcome)

	assert.Equal(t, sqlconfig.DirectionIncome, result.Transaction.Direction)
	assert.Equal(t, "Auto-imported from SMS: Received from PAUL WANGECHI", *result.Transaction.Note)
	assert.Equal(t, storage.DefaultCategoryID(sqlconfig.DirectionIncome, "Other"), *result.Transaction.CategoryID)
}

func TestSMSImport_ConsecutiveDuplicateCreatesOne(t *testing.T) {
	env := newEnabledSMSEnv(t)
	ctx := context.Background()

	first, err := env.svc.SMSImport.ProcessMessage(ctx, testOwner, chaseCardSMS)
	require.NoError(t, err)
	assert.Equal(t, SMSImportImported, first.Outcome)

	second, err := env.svc.SMSImport.ProcessMessage(ctx, testOwner, chaseCardSMS)
	require.NoError(t, err)
	assert.Equal(t, SMSImportDuplicate, second.Outcome)

	assert.Equal(t, int64(1), countTransactions(t, env))
}

func TestSMSImport_NonConsecutiveRepeatImportsAgain(t *testing.T) {
	env := newEnabledSMSEnv(t)
	ctx := context.Background()

	for _, text := range []string{chaseCardSMS, zelleSMS, chaseCardSMS} {
		result, err := env.svc.SMSImport.ProcessMessage(ctx, testOwner, text)
		require.NoError(t, err)
		assert.Equal(t, SMSImportImported, result.Outcome)
	}
	assert.Equal(t, int64(3), countTransactions(t, env))
}

func TestSMSImport_NoMatchCreatesNothing(t *testing.T) {
	env := newEnabledSMSEnv(t)

	result, err := env.svc.SMSImport.ProcessMessage(context.Background(), testOwner, "Your code is 123456")
	require.NoError(t, err)
	assert.Equal(t, SMSImportNoMatch, result.Outcome)
	assert.Nil(t, result.Parsed)
	assert.Zero(t, countTransactions(t, env))
}

func TestSMSImport_RequiresOwner(t *testing.T) {
	env := newEnabledSMSEnv(t)

	_, err := env.svc.SMSImport.ProcessMessage(context.Background(), "", chaseCardSMS)
	assert.ErrorIs(t, err, ErrNoOwner)
}

// -- Preview tests --

func TestSMSImport_PreviewStoresNothing(t *testing.T) {
	env := newTestEnv(t)

	parsed, ok := env.svc.SMSImport.Preview("You spent $25.99 at STARBUCKS on Dec 1, 2025")
	require.True(t, ok)
	assert.True(t, parsed.Amount.Equal(decimal.RequireFromString("25.99")))
	assert.Contains(t, parsed.Merchant, "STARBUCKS")
	assert.Zero(t, countTransactions(t, env))
}
