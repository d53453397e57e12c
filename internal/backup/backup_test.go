package backup

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	_ "modernc.org/sqlite"
)

type fakeS3 struct {
	keys     []string
	sizes    []int64
	failures int
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("transient s3 error")
	}
	f.keys = append(f.keys, *input.Key)
	n, err := io.Copy(io.Discard, input.Body)
	if err != nil {
		return nil, err
	}
	f.sizes = append(f.sizes, n)
	return &s3.PutObjectOutput{}, nil
}

func testDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hearth.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO notes (body) VALUES ('hello')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return db, path
}

func TestRunNowUploadsSnapshot(t *testing.T) {
	db, path := testDB(t)

	m := NewManager(Config{DBPath: path}, db, slog.Default())
	client := &fakeS3{}
	m.client = client
	m.status.State = StateIdle

	key, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}

	if !strings.HasPrefix(key, "backups/hearth-") {
		t.Errorf("key = %q, want backups/hearth- prefix", key)
	}
	if len(client.keys) != 1 || client.keys[0] != key {
		t.Errorf("uploaded keys = %v, want [%s]", client.keys, key)
	}
	if len(client.sizes) != 1 || client.sizes[0] == 0 {
		t.Errorf("uploaded sizes = %v, want one non-empty object", client.sizes)
	}

	status := m.Status()
	if status.State != StateIdle || status.LastBackup == nil {
		t.Errorf("status = %+v, want idle with last backup set", status)
	}
}

func TestRunNowRetriesTransientUploadFailure(t *testing.T) {
	db, path := testDB(t)

	m := NewManager(Config{DBPath: path}, db, slog.Default())
	client := &fakeS3{failures: 2}
	m.client = client
	m.status.State = StateIdle

	if _, err := m.RunNow(context.Background()); err != nil {
		t.Fatalf("RunNow after transient failures: %v", err)
	}
	if len(client.keys) != 1 {
		t.Errorf("uploaded %d objects, want 1", len(client.keys))
	}
}

func TestRunNowWithoutCredentials(t *testing.T) {
	db, path := testDB(t)

	m := NewManager(Config{DBPath: path}, db, slog.Default())

	if m.Enabled() {
		t.Error("manager should be disabled without credentials")
	}
	if _, err := m.RunNow(context.Background()); err == nil {
		t.Error("expected error when S3 is not configured")
	}
	if got := m.Status().State; got != StateDisabled {
		t.Errorf("state = %q, want disabled", got)
	}
}
