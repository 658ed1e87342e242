package driver_badgerdb

import (
	"errors"
	"fmt"

	"github.com/EluvK/ai-sketch/internal/database/model"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

func (db *BadgerDbDriver) SaveDailyStatistic(stat *model.DailyStatistic) error {
	return db.connection.Update(func(txn *badger.Txn) error {
		data, err := msgpack.Marshal(stat)
		if err != nil {
			return err
		}

		return txn.Set([]byte(fmt.Sprintf("DailyStatistics:%s:%s", stat.Type, stat.Date)), data)
	})
}

func (db *BadgerDbDriver) GetDailyStatistic(date string, statType string) (*model.DailyStatistic, error) {
	var stat = &model.DailyStatistic{}

	err := db.connection.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fmt.Sprintf("DailyStatistics:%s:%s", statType, date)))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, stat)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return stat, nil
}

func (db *BadgerDbDriver) GetDailyStatistics(statType string) ([]*model.DailyStatistic, error) {
	var stats []*model.DailyStatistic

	err := db.connection.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("DailyStatistics:%s:", statType))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var stat = &model.DailyStatistic{}

			err := item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, stat)
			})
			if err != nil {
				return err
			}

			stats = append(stats, stat)
		}

		return nil
	})

	return stats, err
}
