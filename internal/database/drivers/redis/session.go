package driver_redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EluvK/ai-sketch/internal/database/model"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func (db *RedisDbDriver) sessionKey(id string) string {
	return fmt.Sprintf("%sSessions:%s", db.prefix, id)
}

func (db *RedisDbDriver) sessionUserKey(userId string) string {
	return fmt.Sprintf("%sSessionsByUserId:%s", db.prefix, userId)
}

func (db *RedisDbDriver) SaveSession(session *model.Session) error {
	ctx := context.Background()

	data, err := msgpack.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAfter)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := db.connection.Set(ctx, db.sessionKey(session.Id), data, ttl).Err(); err != nil {
		return err
	}

	pipe := db.connection.Pipeline()
	pipe.SAdd(ctx, db.sessionUserKey(session.UserId), session.Id)
	pipe.Expire(ctx, db.sessionUserKey(session.UserId), model.MaxSessionAge)
	_, err = pipe.Exec(ctx)
	return err
}

func (db *RedisDbDriver) DeleteSession(session *model.Session) error {
	ctx := context.Background()

	if err := db.connection.Del(ctx, db.sessionKey(session.Id)).Err(); err != nil {
		return err
	}
	return db.connection.SRem(ctx, db.sessionUserKey(session.UserId), session.Id).Err()
}

func (db *RedisDbDriver) GetSession(id string) (*model.Session, error) {
	data, err := db.connection.Get(context.Background(), db.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var session = &model.Session{}
	if err := msgpack.Unmarshal(data, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (db *RedisDbDriver) GetSessionsForUser(userId string) ([]*model.Session, error) {
	ctx := context.Background()

	ids, err := db.connection.SMembers(ctx, db.sessionUserKey(userId)).Result()
	if err != nil {
		return nil, err
	}

	var sessions []*model.Session
	for _, id := range ids {
		session, err := db.GetSession(id)
		if errors.Is(err, model.ErrNotFound) {
			// Expired, drop the stale index entry.
			db.connection.SRem(ctx, db.sessionUserKey(userId), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}
