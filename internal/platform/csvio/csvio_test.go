package csvio

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string) ([]transaction.Record, []*RowError) {
	t.Helper()
	reader := NewReader(strings.NewReader(input))

	var records []transaction.Record
	var rowErrors []*RowError
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return records, rowErrors
		}
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			rowErrors = append(rowErrors, rowErr)
			continue
		}
		require.NoError(t, err)
		records = append(records, rec)
	}
}

func TestReader_Next(t *testing.T) {
	t.Run("TrimsWhitespaceAndIgnoresCase", func(t *testing.T) {
		input := "type, client, tx, amount\n" +
			"   deposit,    1,  1,  1.0\n" +
			"  Withdrawal,  2,  2,  0.5000  \n" +
			"DISPUTE,       1,  1,\n" +
			"resolve,       1,  1\n" +
			"chargeback,    1,  1,  "

		records, rowErrors := readAll(t, input)
		require.Empty(t, rowErrors)
		assert.Equal(t, []transaction.Record{
			transaction.NewRecord(transaction.TypeDeposit, 1, 1).WithAmount(1.0),
			transaction.NewRecord(transaction.TypeWithdrawal, 2, 2).WithAmount(0.5),
			transaction.NewRecord(transaction.TypeDispute, 1, 1),
			transaction.NewRecord(transaction.TypeResolve, 1, 1),
			transaction.NewRecord(transaction.TypeChargeback, 1, 1),
		}, records)
	})

	t.Run("KeepsAmountOnDisputeRecords", func(t *testing.T) {
		records, rowErrors := readAll(t, "type,client,tx,amount\ndispute,1,1,2.0\n")
		require.Empty(t, rowErrors)
		require.Len(t, records, 1)
		require.NotNil(t, records[0].Amount)
		assert.Equal(t, 2.0, *records[0].Amount)
	})

	t.Run("MalformedRowsAreSkippable", func(t *testing.T) {
		input := "type,client,tx,amount\n" +
			"deposit,1,1,1.0\n" +
			"refund,1,2,1.0\n" +
			"deposit,70000,3,1.0\n" +
			"deposit,1,-4,1.0\n" +
			"deposit,1,5,abc\n" +
			"deposit,1\n" +
			"deposit,2,6,2.0\n"

		records, rowErrors := readAll(t, input)
		assert.Equal(t, []transaction.Record{
			transaction.NewRecord(transaction.TypeDeposit, 1, 1).WithAmount(1.0),
			transaction.NewRecord(transaction.TypeDeposit, 2, 6).WithAmount(2.0),
		}, records)

		require.Len(t, rowErrors, 5)
		assert.Equal(t, 3, rowErrors[0].Line)
		assert.ErrorIs(t, rowErrors[0], transaction.ErrUnknownType)
		assert.Equal(t, 4, rowErrors[1].Line)
		assert.Contains(t, rowErrors[1].Error(), "invalid client id")
		assert.Contains(t, rowErrors[2].Error(), "invalid transaction id")
		assert.Contains(t, rowErrors[3].Error(), "invalid amount")
		assert.Equal(t, 7, rowErrors[4].Line)
		assert.ErrorIs(t, rowErrors[4], ErrTooFewFields)
	})

	t.Run("InvalidHeader", func(t *testing.T) {
		reader := NewReader(strings.NewReader("deposit,1,1,1.0\n"))
		_, err := reader.Next()
		assert.ErrorIs(t, err, ErrInvalidHeader)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		reader := NewReader(strings.NewReader(""))
		_, err := reader.Next()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		records, rowErrors := readAll(t, "type, client, tx, amount\n")
		assert.Empty(t, records)
		assert.Empty(t, rowErrors)
	})
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("1.2345")
	require.NoError(t, err)
	assert.Equal(t, 1.2345, amount)

	amount, err = ParseAmount("-3")
	require.NoError(t, err)
	assert.Equal(t, -3.0, amount)

	_, err = ParseAmount("1,5")
	assert.Error(t, err)
}

func TestWriter_WriteAccounts(t *testing.T) {
	t.Run("DefaultPrecision", func(t *testing.T) {
		var buf bytes.Buffer
		writer := NewWriter(&buf, DefaultPrecision)

		err := writer.WriteAccounts([]account.Account{
			{ClientID: 1, Available: 1.5, Held: 0, Total: 1.5, Locked: false},
			{ClientID: 2, Available: 1.0, Held: -0.5, Total: 0.5, Locked: true},
		})
		require.NoError(t, err)

		expected := "client,available,held,total,locked\n" +
			"1,1.5000,0.0000,1.5000,false\n" +
			"2,1.0000,-0.5000,0.5000,true\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("CustomPrecision", func(t *testing.T) {
		var buf bytes.Buffer
		writer := NewWriter(&buf, 1)

		err := writer.WriteAccounts([]account.Account{{ClientID: 9, Available: 2.25, Total: 2.25}})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "9,2.3,0.0,2.3,false")
	})

	t.Run("NoAccounts", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriter(&buf, DefaultPrecision).WriteAccounts(nil))
		assert.Equal(t, "client,available,held,total,locked\n", buf.String())
	})
}
