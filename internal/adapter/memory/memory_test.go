package memory

import (
	"context"
	"sync"
	"testing"

	"songbook/internal/domain"
)

func TestUserRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	u, err := db.Create(ctx, &domain.User{Name: "Bob", Username: "bob01", Email: "bob@x.io", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}

	u2, err := db.GetByUsername(ctx, "bob01")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u2 == nil || u2.ID != u.ID {
		t.Error("failed to retrieve user")
	}

	// Case-sensitive lookup
	if u3, _ := db.GetByUsername(ctx, "BOB01"); u3 != nil {
		t.Error("expected no match for different case")
	}

	if u4, _ := db.GetByEmail(ctx, "bob@x.io"); u4 == nil || u4.Username != "bob01" {
		t.Error("failed to retrieve user by email")
	}
	if u5, _ := db.GetByEmail(ctx, "nobody@x.io"); u5 != nil {
		t.Error("expected no user for unknown email")
	}

	if ok, _ := db.ExistsByEmail(ctx, "bob@x.io"); !ok {
		t.Error("expected email to exist")
	}
	if ok, _ := db.ExistsByUsername(ctx, "alice"); ok {
		t.Error("expected username to be free")
	}
}

func TestUserRepository_UniqueViolation(t *testing.T) {
	db := New()
	ctx := context.Background()

	if _, err := db.Create(ctx, &domain.User{Username: "bob01", Email: "bob@x.io"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name string
		user domain.User
	}{
		{"same username", domain.User{Username: "bob01", Email: "other@x.io"}},
		{"same email", domain.User{Username: "other", Email: "bob@x.io"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.Create(ctx, &tc.user)
			if !domain.IsStoreCode(err, domain.StoreUniqueViolation) {
				t.Fatalf("expected unique violation, got %v", err)
			}
		})
	}
}

func TestSongRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	a, _ := db.AddSong(ctx, &domain.Song{Title: "Zebra", Body: "b", Chord: "C", Author: "jan01"})
	b, _ := db.AddSong(ctx, &domain.Song{Title: "Apple", Body: "b", Chord: "G", Author: "jan01"})
	_, _ = db.AddSong(ctx, &domain.Song{Title: "Other", Body: "b", Chord: "D", Author: "kim02"})

	all, err := db.ListSongs(ctx)
	if err != nil {
		t.Fatalf("ListSongs: %v", err)
	}
	if len(all) != 3 || all[0].ID != a.ID {
		t.Errorf("expected 3 songs in id order, got %+v", all)
	}

	mine, _ := db.ListSongsByAuthor(ctx, "jan01")
	if len(mine) != 2 || mine[0].ID != b.ID {
		t.Errorf("expected jan01 songs ordered by title, got %+v", mine)
	}

	none, _ := db.ListSongsByAuthor(ctx, "nobody")
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}

	ok, err := db.UpdateSong(ctx, &domain.Song{ID: a.ID, Title: "Zebra 2", Body: "new", Chord: "Am", Author: "intruder"})
	if err != nil || !ok {
		t.Fatalf("UpdateSong: ok=%v err=%v", ok, err)
	}
	got, _ := db.GetSong(ctx, a.ID)
	if got.Title != "Zebra 2" || got.Author != "jan01" {
		t.Errorf("unexpected song after update: %+v", got)
	}

	ok, _ = db.DeleteSong(ctx, a.ID)
	if !ok {
		t.Error("expected delete to report a row")
	}
	if s, _ := db.GetSong(ctx, a.ID); s != nil {
		t.Error("expected song to be gone")
	}
	if ok, _ := db.DeleteSong(ctx, a.ID); ok {
		t.Error("expected second delete to report no row")
	}
	if ok, _ := db.UpdateSong(ctx, &domain.Song{ID: 999}); ok {
		t.Error("expected update of missing song to report no row")
	}
}

func TestListSongsByAuthor_TitleOrderIgnoresCase(t *testing.T) {
	db := New()
	ctx := context.Background()

	for _, title := range []string{"Zebra", "apple", "Mango", "Apple"} {
		if _, err := db.AddSong(ctx, &domain.Song{Title: title, Body: "b", Chord: "C", Author: "jan01"}); err != nil {
			t.Fatalf("AddSong: %v", err)
		}
	}

	songs, err := db.ListSongsByAuthor(ctx, "jan01")
	if err != nil {
		t.Fatalf("ListSongsByAuthor: %v", err)
	}
	want := []string{"Apple", "apple", "Mango", "Zebra"}
	if len(songs) != len(want) {
		t.Fatalf("expected %d songs, got %d", len(want), len(songs))
	}
	for i, s := range songs {
		if s.Title != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], s.Title)
		}
	}
}

func TestSongRepository_ReturnsCopies(t *testing.T) {
	db := New()
	ctx := context.Background()

	s, _ := db.AddSong(ctx, &domain.Song{Title: "T", Author: "jan01"})
	got, _ := db.GetSong(ctx, s.ID)
	got.Title = "mutated"

	again, _ := db.GetSong(ctx, s.ID)
	if again.Title != "T" {
		t.Errorf("stored song was mutated through a returned pointer")
	}
}

func TestConcurrentAddSong(t *testing.T) {
	db := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = db.AddSong(ctx, &domain.Song{Title: "t", Author: "jan01"})
		}()
	}
	wg.Wait()

	all, _ := db.ListSongs(ctx)
	seen := make(map[int64]bool)
	for _, s := range all {
		if seen[s.ID] {
			t.Fatalf("duplicate id %d", s.ID)
		}
		seen[s.ID] = true
	}
	if len(all) != 50 {
		t.Errorf("expected 50 songs, got %d", len(all))
	}
}
