package driver_redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisDbDriver stores refresh sessions in redis so they survive restarts
// and can be shared between server instances.
type RedisDbDriver struct {
	hosts      []string
	password   string
	db         int
	masterName string
	prefix     string
	connection redis.UniversalClient
}

func New(hosts []string, password string, db int, masterName string, prefix string) *RedisDbDriver {
	return &RedisDbDriver{
		hosts:      hosts,
		password:   password,
		db:         db,
		masterName: masterName,
		prefix:     prefix,
	}
}

func (db *RedisDbDriver) Connect() error {
	log.Debug().Msg("db: connecting to redis")

	db.connection = redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:      db.hosts,
		Password:   db.password,
		DB:         db.db,
		MasterName: db.masterName,
	})

	return db.connection.Ping(context.Background()).Err()
}
