package models_test

import (
	"testing"
	"time"

	"leavedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLieuOff_EffectiveStatus(t *testing.T) {
	today := date(2025, time.May, 1)

	fresh := models.LieuOff{Status: models.LieuStatusAvailable, ExpiryDate: date(2025, time.May, 1)}
	assert.Equal(t, models.LieuStatusAvailable, fresh.EffectiveStatus(today))

	stale := models.LieuOff{Status: models.LieuStatusAvailable, ExpiryDate: date(2025, time.April, 30)}
	assert.Equal(t, models.LieuStatusExpired, stale.EffectiveStatus(today))

	// Used and pending rows never read as expired.
	used := models.LieuOff{Status: models.LieuStatusUsed, ExpiryDate: date(2025, time.April, 1)}
	assert.Equal(t, models.LieuStatusUsed, used.EffectiveStatus(today))
}

func TestClaimableLieuOffs_SkipsExpiredAndConsumed(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleEmployee, nil)
	granter := createUser(t, db, "boss", models.RoleManager, nil)
	today := date(2025, time.May, 1)

	ok := createLieuOff(t, db, user.ID, granter.ID, date(2025, time.April, 1), date(2025, time.May, 31), models.LieuStatusAvailable)
	createLieuOff(t, db, user.ID, granter.ID, date(2025, time.January, 1), date(2025, time.March, 1), models.LieuStatusAvailable)
	createLieuOff(t, db, user.ID, granter.ID, date(2025, time.April, 5), date(2025, time.June, 5), models.LieuStatusUsed)
	createLieuOff(t, db, user.ID, granter.ID, date(2025, time.April, 6), date(2025, time.June, 6), models.LieuStatusPendingApproval)

	offs, err := models.ClaimableLieuOffs(db, user.ID, today)
	require.NoError(t, err)
	require.Len(t, offs, 1)
	assert.Equal(t, ok.ID, offs[0].ID)
}

func TestCountLieuOffs_ReadTimeExpiry(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleEmployee, nil)
	granter := createUser(t, db, "boss", models.RoleManager, nil)
	today := date(2025, time.May, 1)

	createLieuOff(t, db, user.ID, granter.ID, date(2025, time.April, 1), date(2025, time.May, 31), models.LieuStatusAvailable)
	// Available but past expiry: counts as expired, not available.
	createLieuOff(t, db, user.ID, granter.ID, date(2025, time.January, 1), date(2025, time.March, 1), models.LieuStatusAvailable)
	// A row some external process already flipped still counts as expired.
	createLieuOff(t, db, user.ID, granter.ID, date(2025, time.January, 2), date(2025, time.March, 2), models.LieuStatusExpired)
	createLieuOff(t, db, user.ID, granter.ID, date(2025, time.April, 5), date(2025, time.June, 5), models.LieuStatusUsed)
	createLieuOff(t, db, user.ID, granter.ID, date(2025, time.April, 6), date(2025, time.June, 6), models.LieuStatusPendingApproval)

	counts, err := models.CountLieuOffs(db, user.ID, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Available)
	assert.EqualValues(t, 1, counts.Pending)
	assert.EqualValues(t, 1, counts.Used)
	assert.EqualValues(t, 2, counts.Expired)
}
