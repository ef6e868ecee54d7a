package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// setupTestDB creates a SQLite store holding a tasks collection and returns
// its path.
func setupTestDB(t *testing.T, tasks string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitual.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Set(constants.CollectionTasks, []byte(tasks)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return dbPath
}

func readTasks(t *testing.T, dbPath string) string {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer store.Close()
	data, err := store.Get(constants.CollectionTasks)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	return string(data)
}

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	current := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t, `[{"id":"a"}]`)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want %s", filepath.Dir(backupPath), mgr.GetBackupDir())
	}
	if got := readTasks(t, backupPath); got != `[{"id":"a"}]` {
		t.Errorf("backup tasks = %s", got)
	}
}

func TestBackupWithNoStore(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error backing up a missing store")
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t, `[]`)

	mgr := NewManager(dbPath)
	mgr.now = tickingClock()

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backup %d is newer than backup %d", i, i-1)
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t, `[]`)

	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
		if seen[path] {
			t.Errorf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t, `[]`)
	mgr := NewManager(dbPath)

	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Fatalf("ListBackups on empty dir = %v, %v", backups, err)
	}

	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	for _, name := range []string{"notes.txt", "habitual-garbage.db", "habitual-20240110-080000-x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t, `[{"id":"before"}]`)

	mgr := NewManager(dbPath)
	mgr.now = tickingClock()
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := store.Set(constants.CollectionTasks, []byte(`[{"id":"after"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	store.Close()

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := readTasks(t, dbPath); got != `[{"id":"before"}]` {
		t.Errorf("restored tasks = %s", got)
	}
	if safety == "" {
		t.Fatal("expected a safety backup of the replaced store")
	}
	if got := readTasks(t, safety); got != `[{"id":"after"}]` {
		t.Errorf("safety backup tasks = %s", got)
	}
}

func TestRestoreRejectsBadBackups(t *testing.T) {
	dbPath := setupTestDB(t, `[]`)
	mgr := NewManager(dbPath)

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	corrupted := filepath.Join(t.TempDir(), "corrupted.db")
	if err := os.WriteFile(corrupted, []byte("this is not a database"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := mgr.RestoreBackup(corrupted); err == nil {
		t.Error("expected error for corrupted backup")
	}
	if got := readTasks(t, dbPath); got != `[]` {
		t.Errorf("store changed after failed restore: %s", got)
	}
}

func TestJSONStoreBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitual.json")
	if err := os.WriteFile(path, []byte(`{"version":1,"collections":{}}`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	mgr := NewManager(path)
	mgr.now = tickingClock()
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Ext(backupPath) != ".json" {
		t.Errorf("backup %s should keep the .json suffix", backupPath)
	}

	if err := os.WriteFile(path, []byte(`{"version":1,"collections":{"tasks":[]}}`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `{"version":1,"collections":{}}` {
		t.Errorf("restored content = %s", data)
	}

	if err := os.WriteFile(path, []byte(`{broken`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error backing up an invalid JSON store")
	}
}
