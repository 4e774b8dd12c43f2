package session

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// FlashKind names a flash message category. The two kinds mirror the
// success/error banners rendered by the client.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

func (s *Session) flashKey(kind FlashKind) string {
	return s.key() + ":flash:" + string(kind)
}

// Flash queues a one-shot message of the given kind for the next
// rendered page.
func (s *Session) Flash(ctx context.Context, kind FlashKind, message string) error {
	key := s.flashKey(kind)
	if err := s.m.redis.RPush(ctx, key, message).Err(); err != nil {
		return err
	}
	// Orphaned flash lists expire with the session.
	return s.m.redis.Expire(ctx, key, s.m.ttl).Err()
}

// Flashes drains and returns all queued messages of one kind, oldest
// first. Reading clears the queue: flash messages render exactly once.
func (s *Session) Flashes(ctx context.Context, kind FlashKind) ([]string, error) {
	key := s.flashKey(kind)

	pipe := s.m.redis.TxPipeline()
	lrange := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	return lrange.Val(), nil
}

// PopFlashes drains both kinds at once for page rendering. Kinds with
// no pending messages are omitted from the map.
func (s *Session) PopFlashes(ctx context.Context) (map[string][]string, error) {
	flashes := make(map[string][]string)

	for _, kind := range []FlashKind{FlashSuccess, FlashError} {
		messages, err := s.Flashes(ctx, kind)
		if err != nil {
			return nil, err
		}
		if len(messages) > 0 {
			flashes[string(kind)] = messages
		}
	}

	return flashes, nil
}
