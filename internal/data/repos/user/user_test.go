package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/questlearn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/questlearn-backend/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.User{
		{
			Email:    "userrepo@example.com",
			Username: "userrepo",
			Password: "pw",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected 1 user with id, got %+v", created)
	}
	if created[0].CurrentLevel != 1 || created[0].TotalXP != 0 {
		t.Fatalf("Create: expected level 1 and 0 xp, got %+v", created[0])
	}

	gotByIDs, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	got, err := repo.GetByEmail(ctx, tx, "userrepo@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got == nil || got.ID != created[0].ID {
		t.Fatalf("GetByEmail: unexpected result: %+v", got)
	}

	got, err = repo.GetByEmail(ctx, tx, "UserRepo@example.com")
	if err != nil {
		t.Fatalf("GetByEmail (case): %v", err)
	}
	if got != nil {
		t.Fatalf("GetByEmail: lookup must be case-sensitive, got %+v", got)
	}

	exists, err := repo.EmailExists(ctx, tx, created[0].Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}

	exists, err = repo.UsernameExists(ctx, tx, "nobody")
	if err != nil {
		t.Fatalf("UsernameExists: %v", err)
	}
	if exists {
		t.Fatalf("UsernameExists: expected false")
	}

	missing, err := repo.GetByID(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("GetByID (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByID: expected nil for unknown id")
	}

	if err := repo.UpdateXP(ctx, tx, created[0].ID, 250, 3); err != nil {
		t.Fatalf("UpdateXP: %v", err)
	}
	locked, err := repo.LockByID(ctx, tx, created[0].ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if locked == nil || locked.TotalXP != 250 || locked.CurrentLevel != 3 {
		t.Fatalf("LockByID: unexpected result: %+v", locked)
	}
}

func TestUserRepoListTopByXP(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	a := testutil.SeedUser(t, ctx, tx, "a@example.com", "alpha")
	b := testutil.SeedUser(t, ctx, tx, "b@example.com", "bravo")
	c := testutil.SeedUser(t, ctx, tx, "c@example.com", "charlie")
	for id, xp := range map[uuid.UUID]int{a.ID: 50, b.ID: 300, c.ID: 50} {
		if err := repo.UpdateXP(ctx, tx, id, xp, 1); err != nil {
			t.Fatalf("UpdateXP: %v", err)
		}
	}

	top, err := repo.ListTopByXP(ctx, tx, 2)
	if err != nil {
		t.Fatalf("ListTopByXP: %v", err)
	}
	if len(top) != 2 || top[0].ID != b.ID || top[1].ID != a.ID {
		t.Fatalf("ListTopByXP: unexpected order: %+v", top)
	}

	all, err := repo.ListAll(ctx, tx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListAll: expected 3 users, got %d", len(all))
	}
}

func TestUserRepoDuplicateEmailRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	testutil.SeedUser(t, ctx, tx, "dup@example.com", "first")
	if _, err := repo.Create(ctx, tx, []*types.User{{Email: "dup@example.com", Username: "second", Password: "pw"}}); err == nil {
		t.Fatalf("Create: expected unique violation")
	}
}
