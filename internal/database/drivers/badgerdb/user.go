package driver_badgerdb

import (
	"errors"
	"fmt"
	"time"

	"github.com/EluvK/ai-sketch/internal/database/model"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

func (db *BadgerDbDriver) SaveUser(user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	return db.connection.Update(func(txn *badger.Txn) error {
		data, err := msgpack.Marshal(user)
		if err != nil {
			return err
		}

		if err = txn.Set([]byte(fmt.Sprintf("Users:%s", user.Id)), data); err != nil {
			return err
		}

		return txn.Set([]byte(fmt.Sprintf("UsersByPhone:%s", user.Phone)), []byte(user.Id))
	})
}

func (db *BadgerDbDriver) DeleteUser(user *model.User) error {
	return db.connection.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(fmt.Sprintf("Users:%s", user.Id))); err != nil {
			return err
		}

		return txn.Delete([]byte(fmt.Sprintf("UsersByPhone:%s", user.Phone)))
	})
}

func (db *BadgerDbDriver) GetUser(id string) (*model.User, error) {
	var user = &model.User{}

	err := db.connection.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fmt.Sprintf("Users:%s", id)))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, user)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (db *BadgerDbDriver) GetUserByPhone(phone string) (*model.User, error) {
	var userId string

	err := db.connection.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fmt.Sprintf("UsersByPhone:%s", phone)))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			userId = string(val)
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return db.GetUser(userId)
}

func (db *BadgerDbDriver) GetUsers() ([]*model.User, error) {
	var users []*model.User

	err := db.connection.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("Users:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var user = &model.User{}

			err := item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, user)
			})
			if err != nil {
				return err
			}

			users = append(users, user)
		}

		return nil
	})

	return users, err
}

func (db *BadgerDbDriver) HasUsers() (bool, error) {
	users, err := db.GetUsers()
	if err != nil {
		return false, err
	}
	return len(users) > 0, nil
}
