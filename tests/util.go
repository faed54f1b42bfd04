package testutil

import (
	"testing"
	"time"

	"github.com/academia-hq/academia/core/user"
)

// CreateUser persists a user through repo, failing the test on error.
// An optional createdAt overrides the creation timestamp, which is
// useful for tests that assert on listing order.
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	usr := user.User{
		Name:     name,
		Username: uname,
		Email:    email,
		Roles:    roles,
		IsActive: isActive,
	}
	usr.CreatedAt = time.Now().UTC()
	if len(createdAt) > 0 {
		usr.CreatedAt = createdAt[0].UTC()
	}
	usr.UpdatedAt = usr.CreatedAt

	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
