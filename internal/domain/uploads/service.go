package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"akita-connect/internal/ports/blob"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	store blob.Store
	now   func() time.Time
}

func NewService(store blob.Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Save stores one file under a key namespaced by uploader identity and an
// upload timestamp: uploads/<userID>/<unix>-<name>.
func (s *Service) Save(ctx context.Context, userID, filename, contentType string, r io.Reader) (blob.PutResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || r == nil {
		return blob.PutResult{}, ErrInvalidInput
	}

	name := sanitizeFilename(filename)
	if name == "" {
		name = "file"
	}

	key := fmt.Sprintf("uploads/%s/%d-%s", userID, s.now().Unix(), name)
	return s.store.Put(ctx, key, contentType, r)
}

// sanitizeFilename strips directories and anything that could break the key.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
