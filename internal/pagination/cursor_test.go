package pagination

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 2, 8, 30, 0, 123, time.UTC)

	encoded := EncodeCursor("7d1c", ts)
	decoded, err := DecodeCursor(encoded)

	require.NoError(t, err)
	assert.Equal(t, "7d1c", decoded.LastID)
	assert.True(t, ts.Equal(decoded.Timestamp))
	assert.NotContains(t, encoded, "=")
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, raw := range []string{"%%%", "bm8tc2VwYXJhdG9y", "bm90LWEtdGltZXxpZA"} {
		_, err := DecodeCursor(raw)
		assert.ErrorIs(t, err, ErrInvalidCursor, raw)
	}
}

func TestEncodeCursor_EmptyID(t *testing.T) {
	assert.Empty(t, EncodeCursor("", time.Now()))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ParseLimit(""))
	assert.Equal(t, DefaultLimit, ParseLimit("-3"))
	assert.Equal(t, 10, ParseLimit("10"))
	assert.Equal(t, MaxLimit, ParseLimit("5000"))
}

type row struct {
	id string
	at time.Time
}

func TestNewPage(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]row, 4)
	for i := range rows {
		rows[i] = row{id: strconv.Itoa(i), at: base.Add(time.Duration(i) * time.Minute)}
	}
	getID := func(r row) string { return r.id }
	getTS := func(r row) time.Time { return r.at }

	page := NewPage(rows, 3, getID, getTS)
	assert.Len(t, page.Items, 3)
	assert.True(t, page.HasMore)
	c, err := DecodeCursor(page.Cursor)
	require.NoError(t, err)
	assert.Equal(t, "2", c.LastID)

	last := NewPage(rows[:2], 3, getID, getTS)
	assert.Len(t, last.Items, 2)
	assert.False(t, last.HasMore)
	assert.Empty(t, last.Cursor)

	empty := NewPage[row](nil, 3, getID, getTS)
	assert.NotNil(t, empty.Items)
}
