package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeMessages_EmptySides(t *testing.T) {
	assert.Equal(t, "", MergeMessages("", ""))
	assert.Equal(t, "watch your language", MergeMessages("", "watch your language"))
	assert.Equal(t, "watch your language", MergeMessages("watch your language", ""))
}

func TestMergeMessages_IdenticalSidesCollapse(t *testing.T) {
	assert.Equal(t, "no invites", MergeMessages("no invites", "no invites"))
}

func TestMergeMessages_DistinctSidesBecomeBullets(t *testing.T) {
	merged := MergeMessages("no invites", "no profanity")
	assert.Equal(t, "• no invites\n\n• no profanity", merged)
}

func TestMergeMessages_AlreadyBulletedIsNotDoubled(t *testing.T) {
	merged := MergeMessages("• no invites\n\n• no profanity", "no spam")
	assert.Equal(t, "• no invites\n\n• no profanity\n\n• no spam", merged)
}

func TestMergeDurations_PermanentWins(t *testing.T) {
	hour := durPtr(time.Hour)

	assert.Nil(t, MergeDurations(nil, hour))
	assert.Nil(t, MergeDurations(hour, nil))
	assert.Nil(t, MergeDurations(nil, nil))
}

func TestMergeDurations_LongerFiniteWins(t *testing.T) {
	short := durPtr(10 * time.Minute)
	long := durPtr(2 * time.Hour)

	result := MergeDurations(short, long)
	require.NotNil(t, result)
	assert.Equal(t, 2*time.Hour, *result)

	result = MergeDurations(long, short)
	require.NotNil(t, result)
	assert.Equal(t, 2*time.Hour, *result)
}
