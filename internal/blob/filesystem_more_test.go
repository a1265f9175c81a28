package blob

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// errorReader triggers an error mid copy for Put error branch.
type errorReader struct{}

func (errorReader) Read(p []byte) (int, error) { return 0, errors.New("boom") }

func TestFilesystem_PutDuplicateAndErrorBranches(t *testing.T) {
	fs := newTempFS(t)
	// successful put
	if _, err := fs.Put(context.Background(), "k1.txt", bytes.NewReader([]byte("hi")), PutOptions{ContentType: "text/plain", Metadata: map[string]string{"a": "1"}}); err != nil {
		t.Fatalf("put1: %v", err)
	}
	// duplicate
	if _, err := fs.Put(context.Background(), "k1.txt", bytes.NewReader([]byte("again")), PutOptions{}); err == nil {
		t.Fatalf("expected duplicate put error")
	}
	// error reader path
	if _, err := fs.Put(context.Background(), "bad.bin", errorReader{}, PutOptions{}); err == nil {
		t.Fatalf("expected copy error")
	}
}

func TestFilesystem_HeadGetDeleteAndList(t *testing.T) {
	fs := newTempFS(t)
	ctx := context.Background()
	// Put multiple
	for i := 0; i < 3; i++ {
		k := filepath.Join("folder", "f"+strconv.Itoa(i)+".txt")
		if _, err := fs.Put(ctx, k, bytes.NewReader([]byte("data")), PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	// Head success
	if _, err := fs.Head(ctx, "folder/f0.txt"); err != nil {
		t.Fatalf("head: %v", err)
	}
	// Get success
	if _, rc, err := fs.Get(ctx, "folder/f1.txt"); err != nil {
		t.Fatalf("get: %v", err)
	} else {
		_ = rc.Close()
	}
	// Delete existing
	if ok, err := fs.Delete(ctx, "folder/f2.txt"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	// Delete missing
	if ok, err := fs.Delete(ctx, "folder/missing.txt"); err != nil || ok {
		t.Fatalf("expected delete false")
	}
	// List prefix
	list, err := fs.List(ctx, "folder/")
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
}

func TestFilesystem_PresignVariantsAndListOrder(t *testing.T) {
	ctx := context.Background()
	fs := newTempFS(t)
	if _, err := fs.Put(ctx, "a/1.txt", bytes.NewReader([]byte("a1")), PutOptions{}); err != nil {
		t.Fatalf("put1: %v", err)
	}
	if _, err := fs.Put(ctx, "b/2.txt", bytes.NewReader([]byte("b2")), PutOptions{}); err != nil {
		t.Fatalf("put2: %v", err)
	}
	// lower-case method should normalize
	if url, err := fs.PresignURL(ctx, "a/1.txt", SignedURLOptions{Method: "get"}); err != nil || url == "" {
		t.Fatalf("presign lower: %v %s", err, url)
	}
	// unsupported method
	if _, err := fs.PresignURL(ctx, "a/1.txt", SignedURLOptions{Method: "PUT"}); err == nil {
		t.Fatalf("expected unsupported for PUT")
	}
	// list with empty prefix should include both keys (order sorted)
	list, err := fs.List(ctx, "")
	if err != nil || len(list) != 2 {
		t.Fatalf("list root: %v %v", err, list)
	}
	if list[0].Key > list[1].Key {
		t.Fatalf("expected sorted order: %+v", list)
	}
}

func TestFilesystem_NewFilesystemFileError(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "afile")
	if err := os.WriteFile(filePath, []byte("x"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := NewFilesystem(filePath); err == nil {
		t.Fatalf("expected error when root is file")
	}
}
