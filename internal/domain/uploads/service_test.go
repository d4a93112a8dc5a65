package uploads

import (
	"context"
	"strings"
	"testing"
	"time"

	blobmem "akita-connect/internal/adapters/blob/memory"
)

func fixedNowService(store *blobmem.Store) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return time.Unix(1756700000, 0) }
	return svc
}

func TestSave_KeyLayout(t *testing.T) {
	store := blobmem.NewStore()
	svc := fixedNowService(store)

	res, err := svc.Save(context.Background(), "user-1", "kennel photo.jpg", "image/jpeg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	want := "uploads/user-1/1756700000-kennel_photo.jpg"
	if res.Path != want {
		t.Fatalf("path = %q, want %q", res.Path, want)
	}
	data, ok := store.Get(want)
	if !ok || string(data) != "jpegbytes" {
		t.Fatalf("object not stored under %q", want)
	}
}

func TestSave_SanitizesFilename(t *testing.T) {
	svc := fixedNowService(blobmem.NewStore())

	res, err := svc.Save(context.Background(), "user-1", "../../etc/passwd", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if strings.Contains(res.Path, "..") || strings.Contains(strings.TrimPrefix(res.Path, "uploads/user-1/"), "/") {
		t.Fatalf("path traversal survived sanitization: %q", res.Path)
	}
}

func TestSave_EmptyNameFallsBack(t *testing.T) {
	svc := fixedNowService(blobmem.NewStore())

	res, err := svc.Save(context.Background(), "user-1", "", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(res.Path, "-file") {
		t.Fatalf("expected fallback name, got %q", res.Path)
	}
}

func TestSave_RequiresUser(t *testing.T) {
	svc := fixedNowService(blobmem.NewStore())

	if _, err := svc.Save(context.Background(), " ", "a.png", "", strings.NewReader("x")); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
