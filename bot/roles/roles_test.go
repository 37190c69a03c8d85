package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJob(t *testing.T) {
	assert.Equal(t, "Force Recon", Job([]string{"member", "force recon"}))
	assert.Equal(t, Default, Job([]string{"member"}))
	assert.Equal(t, Default, Job(nil))
}

func TestTeam(t *testing.T) {
	assert.Equal(t, "Nomad 1-1", Team([]string{"nomad 1-1", "light infantry"}))
	assert.Equal(t, Default, Team([]string{"light infantry"}))
}

func TestRankFromRole(t *testing.T) {
	assert.Equal(t, "Sgt", Rank([]string{"sgt", "nomad 1-1"}, "", "someuser"))
}

func TestRankFromNickname(t *testing.T) {
	assert.Equal(t, "CPL", Rank(nil, "Cpl Smith", "smith123"))
	assert.Equal(t, "SGT", Rank(nil, "[Sgt] Jones", "jones"))
}

func TestRankFromUsername(t *testing.T) {
	assert.Equal(t, "PVT", Rank(nil, "", "Pvt Miller"))
}

func TestRankUndefined(t *testing.T) {
	assert.Equal(t, Default, Rank(nil, "Just A Name", "someuser"))
	assert.Equal(t, Default, Rank(nil, "", ""))
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission("anyone", []string{"platoon leader"}))
	assert.True(t, HasPermission("anyone", []string{"member", "company co"}))
	assert.False(t, HasPermission("anyone", []string{"member"}))
	assert.False(t, HasPermission("anyone", nil))
}

func TestHasPermissionSuperAdmin(t *testing.T) {
	assert.True(t, HasPermission(SuperAdmin, nil))
}
