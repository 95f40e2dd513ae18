/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mikeb26/franchise-cover/config"
	"github.com/mikeb26/franchise-cover/cover"
	"github.com/redis/go-redis/v9"
)

// Store persists a complete player mapping.
type Store interface {
	Load(ctx context.Context) (cover.Players, error)
	// Save replaces whatever the store held with players.
	Save(ctx context.Context, players cover.Players) error
	fmt.Stringer
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	switch cfg.Kind {
	case "", "file":
		return &FileStore{Path: cfg.Path}, nil
	case "s3":
		return NewS3Store(ctx, cfg.S3Bucket, cfg.S3Key, cfg.S3Gzip)
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("roster.open: redis %v: %w", cfg.RedisAddr, err)
		}
		logger.Debug("roster: connected to redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return NewRedisStore(rdb, cfg.RedisPrefix), nil
	}
	return nil, fmt.Errorf("roster.open: unknown store kind %q", cfg.Kind)
}

// FileStore keeps the records in a local text file.
type FileStore struct {
	Path string
}

func (s *FileStore) String() string { return "file:" + s.Path }

func (s *FileStore) Load(ctx context.Context) (cover.Players, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("roster.load: %w", err)
	}
	defer f.Close()

	players, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("roster.load %v: %w", s.Path, err)
	}
	return players, nil
}

// Save writes to a temporary file next to Path and renames it into place so
// readers never see a partial file.
func (s *FileStore) Save(ctx context.Context, players cover.Players) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("roster.save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, players); err != nil {
		tmp.Close()
		return fmt.Errorf("roster.save %v: %w", s.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("roster.save %v: %w", s.Path, err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("roster.save %v: %w", s.Path, err)
	}
	return nil
}
