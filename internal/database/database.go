package database

import (
	"sync"

	"github.com/EluvK/ai-sketch/internal/config"
	driver_badgerdb "github.com/EluvK/ai-sketch/internal/database/drivers/badgerdb"
	driver_memory "github.com/EluvK/ai-sketch/internal/database/drivers/memory"
	driver_redis "github.com/EluvK/ai-sketch/internal/database/drivers/redis"
	"github.com/EluvK/ai-sketch/internal/database/model"

	"github.com/rs/zerolog/log"
)

var (
	once              sync.Once
	dbInstance        DbDriver
	dbSessionInstance SessionStorage

	// ErrNotFound is returned by drivers when a record does not exist.
	ErrNotFound = model.ErrNotFound
)

// DbDriver is the interface for the database drivers
type DbDriver interface {
	Connect() error

	// Users
	SaveUser(user *model.User) error
	DeleteUser(user *model.User) error
	GetUser(id string) (*model.User, error)
	GetUserByPhone(phone string) (*model.User, error)
	GetUsers() ([]*model.User, error)
	HasUsers() (bool, error)

	// Folders
	SaveFolder(folder *model.Folder) error
	DeleteFolder(folder *model.Folder) error
	GetFolder(id string) (*model.Folder, error)
	GetFoldersForUser(userId string) ([]*model.Folder, error)

	// Daily statistics
	SaveDailyStatistic(stat *model.DailyStatistic) error
	GetDailyStatistic(date string, statType string) (*model.DailyStatistic, error)
	GetDailyStatistics(statType string) ([]*model.DailyStatistic, error)
}

type SessionStorage interface {
	SaveSession(session *model.Session) error
	DeleteSession(session *model.Session) error
	GetSession(id string) (*model.Session, error)
	GetSessionsForUser(userId string) ([]*model.Session, error)
}

// Initialize selects and connects the database drivers from config. Must be
// called before GetInstance or GetSessionStorage.
func Initialize(cfg *config.ServerConfig) {
	once.Do(func() {
		if cfg.BadgerDB.Enabled {
			log.Debug().Msg("db: BadgerDB enabled")
			dbInstance = driver_badgerdb.New(cfg.BadgerDB.Path)
		} else {
			log.Debug().Msg("db: using in-memory store")
			dbInstance = driver_memory.New()
		}

		if err := dbInstance.Connect(); err != nil {
			log.Fatal().Err(err).Msg("db: failed to connect to database")
		}
		log.Debug().Msg("db: connected to database")

		if cfg.Redis.Enabled {
			driver := driver_redis.New(cfg.Redis.Hosts, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.MasterName, cfg.Redis.KeyPrefix)
			if err := driver.Connect(); err != nil {
				log.Fatal().Err(err).Msg("db: failed to connect to redis")
			}
			log.Debug().Msg("db: using redis for session storage")
			dbSessionInstance = driver
		} else if sessions, ok := dbInstance.(SessionStorage); ok {
			log.Debug().Msg("db: session storage using main database driver")
			dbSessionInstance = sessions
		} else {
			log.Fatal().Msg("db: no session storage available")
		}
	})
}

// Returns the database driver
func GetInstance() DbDriver {
	return dbInstance
}

// Returns the session storage driver
func GetSessionStorage() SessionStorage {
	return dbSessionInstance
}
