/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"fmt"

	"github.com/mikeb26/franchise-cover/cover"
	"github.com/mikeb26/franchise-cover/league"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one Redis set per player plus an index set of ids:
//
//	set: {prefix}:players        -> player ids
//	set: {prefix}:player:{id}    -> connection ids
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) String() string {
	return fmt.Sprintf("redis://%v/%v", s.rdb.Options().Addr, s.prefix)
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":players"
}

func (s *RedisStore) playerKey(id cover.PlayerID) string {
	return s.prefix + ":player:" + string(id)
}

func (s *RedisStore) Load(ctx context.Context) (cover.Players, error) {
	ids, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("roster.load %v: %w", s, err)
	}

	p := s.rdb.Pipeline()
	cmds := make(map[cover.PlayerID]*redis.StringSliceCmd, len(ids))
	for _, id := range ids {
		cmds[cover.PlayerID(id)] = p.SMembers(ctx, s.playerKey(cover.PlayerID(id)))
	}
	if len(cmds) > 0 {
		if _, err := p.Exec(ctx); err != nil {
			return nil, fmt.Errorf("roster.load %v: %w", s, err)
		}
	}

	players := make(cover.Players, len(cmds))
	for id, cmd := range cmds {
		conns, err := cmd.Result()
		if err != nil {
			return nil, fmt.Errorf("roster.load %v: player %v: %w", s, id, err)
		}
		set := make(league.ConnectionSet, len(conns))
		for _, c := range conns {
			set.Add(league.Connection(c))
		}
		players[id] = set
	}
	return players, nil
}

// Save replaces the stored mapping atomically (MULTI/EXEC). Players with an
// empty coverage set are not stored.
func (s *RedisStore) Save(ctx context.Context, players cover.Players) error {
	old, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("roster.save %v: %w", s, err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		stale := []string{s.indexKey()}
		for _, id := range old {
			stale = append(stale, s.playerKey(cover.PlayerID(id)))
		}
		p.Del(ctx, stale...)

		for _, id := range players.IDs() {
			conns := players[id].Strings()
			if len(conns) == 0 {
				continue
			}
			members := make([]any, len(conns))
			for i, c := range conns {
				members[i] = c
			}
			p.SAdd(ctx, s.playerKey(id), members...)
			p.SAdd(ctx, s.indexKey(), string(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("roster.save %v: %w", s, err)
	}
	return nil
}
