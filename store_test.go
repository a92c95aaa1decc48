package cardstock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "catalog.json"))
}

func TestStoreReadMissingFile(t *testing.T) {
	doc, err := testStore(t).Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Items) != 0 || doc.SchemaVersion != SchemaVersion {
		t.Errorf("missing file should read as an empty current-version document, got %+v", doc)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := testStore(t)
	p := Percent(85)
	items := []Item{
		{ExternalID: "123456", Name: "Booster Box", SetName: "Destined Rivals", Quantity: 3, PricingPercent: &p},
		{Name: "Promo Tin", Quantity: 1},
	}

	if err := s.Write(items); err != nil {
		t.Fatal(err)
	}
	doc, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}

	if doc.SchemaVersion != SchemaVersion || doc.TotalItems != 2 || len(doc.Items) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Items[0].ExternalID != "123456" || doc.Items[1].Key() != "promo tin" {
		t.Errorf("items did not survive the round trip: %+v", doc.Items)
	}

	// Writing what was read back is a no-op on content.
	if err := s.Write(doc.Items); err != nil {
		t.Fatal(err)
	}
	again, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Items) != 2 || again.Items[0].ExternalID != "123456" {
		t.Errorf("second round trip changed the collection: %+v", again.Items)
	}
}

func TestStoreReadsLegacyBareArray(t *testing.T) {
	s := testStore(t)
	legacy := `[{"externalId":"1","name":"Old Box","quantity":2,"marketPrice":"10.50","obsoleteField":true}]`
	if err := os.WriteFile(s.Path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if doc.SchemaVersion != 0 {
		t.Errorf("legacy file should report schema version 0, got %d", doc.SchemaVersion)
	}
	if len(doc.Items) != 1 || !doc.Items[0].MarketPrice.Equal(USD(10.5)) {
		t.Fatalf("legacy record not normalized: %+v", doc.Items)
	}

	// The next write upgrades the file to the current envelope.
	if err := s.Write(doc.Items); err != nil {
		t.Fatal(err)
	}
	upgraded, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if upgraded.SchemaVersion != SchemaVersion {
		t.Errorf("write did not upgrade the schema: %d", upgraded.SchemaVersion)
	}
}

func TestStoreReadMalformedFile(t *testing.T) {
	s := testStore(t)
	if err := os.WriteFile(s.Path, []byte(`{"items": [truncated`), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Items) != 0 {
		t.Errorf("malformed file should read as empty, got %+v", doc.Items)
	}
}

func TestStoreWriteIsAtomic(t *testing.T) {
	s := testStore(t)
	if err := s.Write([]Item{{Name: "A", Quantity: 1}}); err != nil {
		t.Fatal(err)
	}

	// An orphaned temp file from a crashed writer must not confuse anything.
	orphan := filepath.Join(filepath.Dir(s.Path), "catalog.json.tmp-crashed")
	if err := os.WriteFile(orphan, []byte(`{"items":[garbage`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := s.Write([]Item{{Name: "A", Quantity: 2}}); err != nil {
		t.Fatal(err)
	}

	// The store file itself is always complete valid JSON.
	data, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("store file is not valid JSON after write: %v", err)
	}
	if doc.Items[0].Quantity != 2 {
		t.Errorf("store file holds stale content: %+v", doc.Items)
	}

	// And the writer leaves no temp files of its own behind.
	entries, err := os.ReadDir(filepath.Dir(s.Path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		name := e.Name()
		if name != "catalog.json" && name != "backups" && name != filepath.Base(orphan) {
			t.Errorf("unexpected leftover file %q", name)
		}
	}
}

func TestStoreBackupRotation(t *testing.T) {
	s := testStore(t)
	s.MaxBackups = 3

	for i := 0; i < 8; i++ {
		if err := s.Write([]Item{{Name: "A", Quantity: i}}); err != nil {
			t.Fatal(err)
		}
	}

	dir := filepath.Join(filepath.Dir(s.Path), "backups")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) > 3 {
		t.Errorf("backups directory holds %d files, want at most 3", len(entries))
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), "-catalog.json") {
			t.Errorf("unexpected backup name %q", e.Name())
		}
	}
}

func TestStoreBackupFailureDoesNotBlockWrite(t *testing.T) {
	s := testStore(t)
	if err := s.Write([]Item{{Name: "A", Quantity: 1}}); err != nil {
		t.Fatal(err)
	}

	// Squat the backups path with a file so the backup dir cannot be created.
	if err := os.WriteFile(filepath.Join(filepath.Dir(s.Path), "backups"), []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := s.Write([]Item{{Name: "A", Quantity: 2}}); err != nil {
		t.Fatalf("write should survive a failing backup: %v", err)
	}
	doc, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Items[0].Quantity != 2 {
		t.Errorf("write did not land: %+v", doc.Items)
	}
}
