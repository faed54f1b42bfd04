package bulletin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academia-hq/academia/core/bulletin"
	"github.com/academia-hq/academia/core/user"
	"github.com/academia-hq/academia/storage/database/inmem"
)

func newBulletinService(t *testing.T) bulletin.Service {
	t.Helper()
	return bulletin.NewService(inmemdb.NewBulletinRepository(inmemdb.NewDB()))
}

func TestAnnouncementCRUD(t *testing.T) {
	svc := newBulletinService(t)

	ann, err := svc.Create("admin-1", bulletin.NewAnnouncement{
		Title:    "Exam week",
		Body:     "Exams start Monday.",
		Audience: []string{user.RoleStudent},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ann.ID)
	assert.Equal(t, "admin-1", ann.CreatedBy)
	assert.False(t, ann.CreatedAt.IsZero())

	t.Run("get", func(t *testing.T) {
		got, err := svc.GetByID(ann.ID)
		require.NoError(t, err)
		assert.Equal(t, ann.Title, got.Title)

		_, err = svc.GetByID("missing")
		assert.Equal(t, bulletin.ErrNotFound, err)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := svc.Update(ann.ID, bulletin.UpdateAnnouncement{
			Title: "Exam week (updated)", Body: ann.Body, Audience: nil,
		})
		require.NoError(t, err)
		assert.Equal(t, "Exam week (updated)", updated.Title)
		assert.Empty(t, updated.Audience)

		_, err = svc.Update("missing", bulletin.UpdateAnnouncement{Title: "x", Body: "y"})
		assert.Equal(t, bulletin.ErrNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ann.ID))
		_, err := svc.GetByID(ann.ID)
		assert.Equal(t, bulletin.ErrNotFound, err)
	})
}

func TestQueryVisible(t *testing.T) {
	svc := newBulletinService(t)

	mustCreate := func(title string, audience []string) {
		_, err := svc.Create("admin-1", bulletin.NewAnnouncement{Title: title, Body: "b", Audience: audience})
		require.NoError(t, err)
	}
	mustCreate("everyone", nil)
	mustCreate("students only", []string{user.RoleStudent})
	mustCreate("staff", []string{user.RoleTeacher, user.RoleAdmin})

	titles := func(anns []bulletin.Announcement) []string {
		out := make([]string, 0, len(anns))
		for _, ann := range anns {
			out = append(out, ann.Title)
		}
		return out
	}

	t.Run("student", func(t *testing.T) {
		anns, err := svc.QueryVisible([]string{user.RoleStudent})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"everyone", "students only"}, titles(anns))
	})

	t.Run("teacher", func(t *testing.T) {
		anns, err := svc.QueryVisible([]string{user.RoleTeacher})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"everyone", "staff"}, titles(anns))
	})

	t.Run("specific admin role matches admin audience prefix", func(t *testing.T) {
		anns, err := svc.QueryVisible([]string{user.RoleAdminPrincipal})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"everyone", "staff"}, titles(anns))
	})

	t.Run("no roles still sees public notices", func(t *testing.T) {
		anns, err := svc.QueryVisible(nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"everyone"}, titles(anns))
	})
}

func TestNewAnnouncementValidate(t *testing.T) {
	na := bulletin.NewAnnouncement{Title: "  T  ", Body: " b ", Audience: []string{user.RoleStudent}}
	require.NoError(t, na.Validate())
	assert.Equal(t, "T", na.Title)

	na = bulletin.NewAnnouncement{Body: "b"}
	assert.Error(t, na.Validate())

	na = bulletin.NewAnnouncement{Title: "T", Body: "b", Audience: []string{"wizard:"}}
	assert.Error(t, na.Validate())
}
