package artifact

import (
	"context"
	"strconv"

	crerr "github.com/cockroachdb/errors"
	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/domain/rawdata"
)

// RawStore keeps captured documents as <dir>/<matchId>.json.
type RawStore struct {
	files *fileStore
}

func NewRawStore(dir string) (*RawStore, error) {
	files, err := newFileStore(dir)
	if err != nil {
		return nil, err
	}
	return &RawStore{files: files}, nil
}

func (s *RawStore) Save(ctx context.Context, doc rawdata.Document) error {
	if doc.MatchID == "" {
		return crerr.New("raw document has no match id")
	}
	return s.files.write(ctx, doc.MatchID, doc)
}

func (s *RawStore) Get(ctx context.Context, matchID string) (rawdata.Document, bool, error) {
	var doc rawdata.Document
	ok, err := s.files.read(ctx, matchID, &doc)
	if err != nil || !ok {
		return rawdata.Document{}, ok, err
	}
	if doc.MatchID == "" {
		doc.MatchID = matchID
	}
	return doc, true, nil
}

func (s *RawStore) Exists(ctx context.Context, matchID string) (bool, error) {
	return s.files.exists(ctx, matchID)
}

// BundleStore keeps transformed matches as <dir>/<matchId>.json.
type BundleStore struct {
	files *fileStore
}

func NewBundleStore(dir string) (*BundleStore, error) {
	files, err := newFileStore(dir)
	if err != nil {
		return nil, err
	}
	return &BundleStore{files: files}, nil
}

func (s *BundleStore) Save(ctx context.Context, bundle match.Bundle) error {
	if bundle.Match.MatchID <= 0 {
		return crerr.Newf("bundle has invalid match id %d", bundle.Match.MatchID)
	}
	return s.files.write(ctx, strconv.FormatInt(bundle.Match.MatchID, 10), bundle)
}

func (s *BundleStore) Get(ctx context.Context, matchID int64) (match.Bundle, bool, error) {
	var bundle match.Bundle
	ok, err := s.files.read(ctx, strconv.FormatInt(matchID, 10), &bundle)
	if err != nil || !ok {
		return match.Bundle{}, ok, err
	}
	return bundle, true, nil
}
