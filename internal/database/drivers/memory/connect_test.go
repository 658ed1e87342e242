package driver_memory

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EluvK/ai-sketch/internal/database/model"
)

func newTestDriver(t *testing.T) *MemoryDbDriver {
	t.Helper()
	db := New()
	if err := db.Connect(); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestUserLifecycle(t *testing.T) {
	db := newTestDriver(t)

	has, err := db.HasUsers()
	if err != nil || has {
		t.Fatalf("HasUsers = %v %v on empty store", has, err)
	}

	user := model.NewUser("13800000000", "alice", "password123")
	if err := db.SaveUser(user); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetUser(user.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "alice" {
		t.Errorf("username = %q", got.Username)
	}

	byPhone, err := db.GetUserByPhone("13800000000")
	if err != nil {
		t.Fatal(err)
	}
	if byPhone.Id != user.Id {
		t.Errorf("phone lookup id = %q", byPhone.Id)
	}

	// Mutating the returned copy must not change the stored record.
	got.Username = "mallory"
	again, _ := db.GetUser(user.Id)
	if again.Username != "alice" {
		t.Error("stored user mutated through returned copy")
	}

	if err := db.DeleteUser(user); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetUser(user.Id); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFolderLifecycle(t *testing.T) {
	db := newTestDriver(t)

	root := model.NewFolder("u-1", "", "Conversations", "", model.FolderTypeSystem)
	child := model.NewFolder("u-1", root.Id, "Work", "work chats", model.FolderTypeUser)
	other := model.NewFolder("u-2", "", "Other", "", model.FolderTypeSystem)

	for _, f := range []*model.Folder{root, child, other} {
		if err := db.SaveFolder(f); err != nil {
			t.Fatal(err)
		}
	}

	folders, err := db.GetFoldersForUser("u-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(folders) != 2 {
		t.Fatalf("folders = %d, want 2", len(folders))
	}

	if err := db.DeleteFolder(child); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetFolder(child.Id); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	db := newTestDriver(t)

	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	session := model.NewSession(r, "u-1")
	if err := db.SaveSession(session); err != nil {
		t.Fatal(err)
	}

	if _, err := db.GetSession(session.Id); err != nil {
		t.Fatal(err)
	}

	session.ExpiresAfter = time.Now().UTC().Add(-time.Minute)
	if err := db.SaveSession(session); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetSession(session.Id); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expired session returned, err = %v", err)
	}
}

func TestDailyStatistics(t *testing.T) {
	db := newTestDriver(t)

	for _, date := range []string{"2026-08-30", "2026-08-31", "2026-09-01"} {
		stat := &model.DailyStatistic{
			Date:  date,
			Type:  model.StatisticTypeUser,
			Total: 10,
			Time:  time.Now().UTC(),
		}
		if err := db.SaveDailyStatistic(stat); err != nil {
			t.Fatal(err)
		}
	}

	stat, err := db.GetDailyStatistic("2026-08-31", model.StatisticTypeUser)
	if err != nil {
		t.Fatal(err)
	}
	if stat.Total != 10 {
		t.Errorf("total = %d", stat.Total)
	}

	stats, err := db.GetDailyStatistics(model.StatisticTypeUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 3 {
		t.Fatalf("stats = %d", len(stats))
	}
	// Ordered by date.
	if stats[0].Date != "2026-08-30" || stats[2].Date != "2026-09-01" {
		t.Errorf("order = %s .. %s", stats[0].Date, stats[2].Date)
	}
}
