package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timecapsule/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/timecapsule/internal/common"
	"github.com/dmitrijs2005/timecapsule/internal/cryptox"
	"github.com/dmitrijs2005/timecapsule/internal/dbx"
)

// ErrWrongPassphrase is returned when the stored token cannot be unsealed.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// SealedStore keeps the access token in the metadata table, sealed with a
// key derived from a passphrase. Salt and token are written in one
// transaction.
type SealedStore struct {
	db   *sql.DB
	repo func(dbx.DBTX) metadata.Repository
}

func NewSealedStore(db *sql.DB) *SealedStore {
	return &SealedStore{
		db: db,
		repo: func(x dbx.DBTX) metadata.Repository {
			return metadata.NewSQLiteRepository(x)
		},
	}
}

func (s *SealedStore) Save(ctx context.Context, token string, passphrase []byte) error {
	if err := CheckExpiry(token, timeNow()); err != nil {
		return err
	}

	salt := cryptox.NewSalt()
	key := cryptox.DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	sealed, err := cryptox.Seal([]byte(token), key)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, metadata.KeyTokenSalt, salt); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyAccessToken, sealed)
	})
}

// Load returns common.ErrNoToken when nothing was saved and
// ErrWrongPassphrase when the passphrase does not match.
func (s *SealedStore) Load(ctx context.Context, passphrase []byte) (string, error) {
	repo := s.repo(s.db)

	salt, err := repo.Get(ctx, metadata.KeyTokenSalt)
	if err != nil {
		return "", err
	}
	sealed, err := repo.Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return "", err
	}
	if salt == nil || sealed == nil {
		return "", common.ErrNoToken
	}

	key := cryptox.DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	plain, err := cryptox.Open(sealed, key)
	if errors.Is(err, cryptox.ErrOpen) {
		return "", ErrWrongPassphrase
	}
	if err != nil {
		return "", fmt.Errorf("unseal token: %w", err)
	}
	return string(plain), nil
}

// Has reports whether a sealed token exists.
func (s *SealedStore) Has(ctx context.Context) (bool, error) {
	v, err := s.repo(s.db).Get(ctx, metadata.KeyAccessToken)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

func (s *SealedStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Delete(ctx, metadata.KeyAccessToken); err != nil {
			return err
		}
		return repo.Delete(ctx, metadata.KeyTokenSalt)
	})
}
