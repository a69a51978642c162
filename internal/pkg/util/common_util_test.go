package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrSliceToUInt64Slice(t *testing.T) {
	ids, err := StrSliceToUInt64Slice([]string{"1", "42", "9000"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 42, 9000}, ids)

	_, err = StrSliceToUInt64Slice([]string{"1", "abc"})
	assert.Error(t, err)
}

func TestStrToUint64(t *testing.T) {
	assert.Equal(t, uint64(123), StrToUint64("123"))
	assert.Equal(t, uint64(0), StrToUint64("not-a-number"))
	assert.Equal(t, uint64(0), StrToUint64(""))
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := EncodeCursor([]interface{}{1.5, "tiebreak"})
	require.NotEmpty(t, cursor)

	values, err := DecodeCursor(cursor)
	require.NoError(t, err)
	require.Len(t, values, 2)

	t.Run("empty cursor", func(t *testing.T) {
		assert.Equal(t, "", EncodeCursor(nil))
		values, err := DecodeCursor("")
		require.NoError(t, err)
		assert.Nil(t, values)
	})

	t.Run("garbage cursor", func(t *testing.T) {
		_, err := DecodeCursor("!!not-base64!!")
		assert.Error(t, err)
	})
}
