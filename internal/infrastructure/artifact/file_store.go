package artifact

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

var safeNameRegex = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)

// fileStore keeps one indented JSON document per key under dir. Writes go to a
// temp file in the same directory and are renamed into place, so readers never
// see a partial document.
type fileStore struct {
	dir string
}

func newFileStore(dir string) (*fileStore, error) {
	if dir == "" {
		return nil, crerr.New("artifact directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create artifact directory %s", dir)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(key string) (string, error) {
	if !safeNameRegex.MatchString(key) {
		return "", crerr.Newf("invalid artifact key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *fileStore) write(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.path(key)
	if err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigStd.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return crerr.Wrapf(err, "encode artifact %s", key)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+".tmp-*")
	if err != nil {
		return crerr.Wrapf(err, "create temp file for %s", key)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "write artifact %s", key)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "sync artifact %s", key)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close artifact %s", key)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return crerr.Wrapf(err, "move artifact %s into place", key)
	}
	return nil
}

// read returns false when no artifact exists for key.
func (s *fileStore) read(ctx context.Context, key string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	target, err := s.path(key)
	if err != nil {
		return false, err
	}

	raw, err := os.ReadFile(target)
	if stderrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, crerr.Wrapf(err, "read artifact %s", key)
	}
	if err := sonic.Unmarshal(raw, v); err != nil {
		return false, crerr.Wrapf(err, "decode artifact %s", key)
	}
	return true, nil
}

func (s *fileStore) exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	target, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(target)
	switch {
	case err == nil:
		return true, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, crerr.Wrapf(err, "stat artifact %s", key)
	}
}
