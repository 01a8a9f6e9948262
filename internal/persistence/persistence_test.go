package persistence

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "continents.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoadContinent(t *testing.T) {
	db := openTestDB(t)
	payload := bytes.Repeat([]byte("HXC payload "), 200)
	c := &Continent{
		Seed:         42,
		Size:         64,
		SeaLevel:     8192,
		MaxElevation: 24576,
		LandCells:    1000,
		OptionsJSON:  `{"seed":42}`,
		Payload:      payload,
	}
	if err := db.SaveContinent(c); err != nil {
		t.Fatalf("SaveContinent: %v", err)
	}
	if c.ID == "" || c.CreatedUnix == 0 {
		t.Fatalf("id/created not assigned: %q %d", c.ID, c.CreatedUnix)
	}

	got, err := db.LoadContinent(c.ID)
	if err != nil {
		t.Fatalf("LoadContinent: %v", err)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Error("payload changed in storage")
	}
	if got.Seed != 42 || got.Size != 64 || got.LandCells != 1000 || got.OptionsJSON != c.OptionsJSON {
		t.Errorf("loaded %+v", got)
	}
	if !got.Created().Equal(c.Created()) {
		t.Errorf("created = %v, want %v", got.Created(), c.Created())
	}
}

func TestLoadMissing(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.LoadContinent("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteContinent("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete error = %v, want ErrNotFound", err)
	}
}

func TestListAndFind(t *testing.T) {
	db := openTestDB(t)
	for i, seed := range []int64{1, 2, 1} {
		c := &Continent{Seed: seed, Size: 32, OptionsJSON: "{}", Payload: []byte{1, 2, 3}, CreatedUnix: int64(i + 1)}
		if err := db.SaveContinent(c); err != nil {
			t.Fatal(err)
		}
	}

	list, err := db.ListContinents(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].CreatedUnix != 3 || list[1].CreatedUnix != 2 {
		t.Fatalf("list = %+v", list)
	}
	if list[0].Payload != nil {
		t.Error("list returned payloads")
	}

	found, err := db.FindBySeed(1, 32)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 {
		t.Fatalf("found %d records for seed 1", len(found))
	}
	if none, _ := db.FindBySeed(1, 64); len(none) != 0 {
		t.Errorf("size filter ignored: %d records", len(none))
	}

	if err := db.DeleteContinent(found[0].ID); err != nil {
		t.Fatal(err)
	}
	if again, _ := db.FindBySeed(1, 32); len(again) != 1 {
		t.Errorf("after delete found %d records", len(again))
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	key := CacheKey([]byte(`{"seed":1}`))
	if key != CacheKey([]byte(`{"seed":1}`)) {
		t.Fatal("cache key not stable")
	}
	if key == CacheKey([]byte(`{"seed":2}`)) {
		t.Fatal("different options share a key")
	}

	if _, ok, err := cache.Get(key); err != nil || ok {
		t.Fatalf("empty cache Get = ok %v, err %v", ok, err)
	}
	if err := cache.Put(key, []byte("payload")); err != nil {
		t.Fatal(err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok || string(got) != "payload" {
		t.Fatalf("Get = %q, %v, %v", got, ok, err)
	}
	if err := cache.Delete(key); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Error("entry survived Delete")
	}
}
