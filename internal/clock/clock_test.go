package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func TestNowIn(t *testing.T) {
	// 00:00 UTC is 09:00 in Tokyo (UTC+9, no DST).
	c := fixedClock{now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	local, err := NowIn(c, "Asia/Tokyo")
	require.NoError(t, err)

	assert.Equal(t, 9, local.Hour())
	assert.Equal(t, 0, local.Minute())
	assert.Equal(t, 1, local.Day())
}

func TestNowIn_InvalidZone(t *testing.T) {
	c := fixedClock{now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	_, err := NowIn(c, "Mars/Olympus_Mons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestToday(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	instant := time.Date(2024, 6, 1, 23, 59, 58, 123, loc)
	day := Today(instant)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc), day)
	assert.Equal(t, loc, day.Location())
}
