package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionIDValues(t *testing.T) {
	assert.Equal(t, []interface{}{"1234567", int64(1234567)}, transactionIDValues("1234567"))
	assert.Equal(t, []interface{}{"tx-abc"}, transactionIDValues("tx-abc"))
}
