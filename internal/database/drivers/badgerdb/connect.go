package driver_badgerdb

import (
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

const (
	valueLogGCInterval = 5 * time.Minute
	gcInterval         = 1 * time.Hour
	garbageMaxAge      = 3 * 24 * time.Hour
)

type BadgerDbDriver struct {
	path       string
	connection *badger.DB
}

func New(path string) *BadgerDbDriver {
	return &BadgerDbDriver{path: path}
}

func (db *BadgerDbDriver) Connect() error {
	log.Debug().Msg("db: connecting to BadgerDB")

	options := badger.DefaultOptions(db.path)
	options.Logger = badgerdbLogger()
	options.IndexCacheSize = 100 << 20 // 100MB

	var err error
	db.connection, err = badger.Open(options)
	if err != nil {
		return err
	}

	// Start the value log garbage collector
	go func() {
		ticker := time.NewTicker(valueLogGCInterval)
		defer ticker.Stop()
		for range ticker.C {
		again:
			log.Debug().Msg("db: running value log GC")
			err := db.connection.RunValueLogGC(0.5)
			if err == nil {
				goto again
			}
		}
	}()

	// Start a go routine to clear deleted items from the database
	go func() {
		intervalTimer := time.NewTicker(gcInterval)
		defer intervalTimer.Stop()

		for range intervalTimer.C {
			log.Debug().Msg("db: running garbage collector")

			before := time.Now().UTC().Add(-garbageMaxAge)

			users, err := db.GetUsers()
			if err != nil {
				log.Error().Err(err).Msg("db: failed to get users")
			} else {
				for _, user := range users {
					if user.IsDeleted && user.UpdatedAt.Before(before) {
						if err := db.DeleteUser(user); err != nil {
							log.Error().Err(err).Str("user_id", user.Id).Msg("db: failed to delete user")
						}
					}
				}
			}

			for _, user := range users {
				folders, err := db.GetFoldersForUser(user.Id)
				if err != nil {
					log.Error().Err(err).Msg("db: failed to get folders")
					continue
				}
				for _, folder := range folders {
					if folder.IsDeleted && folder.UpdatedAt.Before(before) {
						if err := db.DeleteFolder(folder); err != nil {
							log.Error().Err(err).Str("folder_id", folder.Id).Msg("db: failed to delete folder")
						}
					}
				}
			}
		}
	}()

	return nil
}
