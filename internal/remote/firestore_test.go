package remote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInto_RecordsUndecodable(t *testing.T) {
	snap := Snapshot{RecordType: RecordTypeTransaction}

	decodeInto(&snap, "A1", func(v any) error {
		v.(*TransactionDocument).Amount = 12
		return nil
	})
	decodeInto(&snap, "B2", func(any) error {
		return errors.New("amount: cannot convert string")
	})

	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "A1", snap.Transactions[0].ID)
	assert.Equal(t, 12.0, snap.Transactions[0].Amount)
	require.Len(t, snap.Undecodable, 1)
	assert.ErrorIs(t, snap.Undecodable[0], ErrUndecodable)
	assert.ErrorContains(t, snap.Undecodable[0], "B2")
}

func TestDecodeInto_Category(t *testing.T) {
	snap := Snapshot{RecordType: RecordTypeCategory}

	decodeInto(&snap, "C3", func(v any) error {
		v.(*CategoryDocument).Name = "Pets"
		return nil
	})
	decodeInto(&snap, "D4", func(any) error { return errors.New("bad") })

	require.Len(t, snap.Categories, 1)
	assert.Equal(t, "C3", snap.Categories[0].ID)
	assert.Equal(t, "Pets", snap.Categories[0].Name)
	assert.Len(t, snap.Undecodable, 1)
}
