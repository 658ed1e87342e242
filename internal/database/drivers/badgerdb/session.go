package driver_badgerdb

import (
	"errors"
	"fmt"
	"time"

	"github.com/EluvK/ai-sketch/internal/database/model"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

func (db *BadgerDbDriver) SaveSession(session *model.Session) error {
	return db.connection.Update(func(txn *badger.Txn) error {
		data, err := msgpack.Marshal(session)
		if err != nil {
			return err
		}

		ttl := time.Until(session.ExpiresAfter)
		if ttl <= 0 {
			return fmt.Errorf("session already expired")
		}

		e := badger.NewEntry([]byte(fmt.Sprintf("Sessions:%s", session.Id)), data).WithTTL(ttl)
		if err = txn.SetEntry(e); err != nil {
			return err
		}

		e = badger.NewEntry([]byte(fmt.Sprintf("SessionsByUserId:%s:%s", session.UserId, session.Id)), []byte(session.Id)).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

func (db *BadgerDbDriver) DeleteSession(session *model.Session) error {
	return db.connection.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(fmt.Sprintf("Sessions:%s", session.Id))); err != nil {
			return err
		}

		return txn.Delete([]byte(fmt.Sprintf("SessionsByUserId:%s:%s", session.UserId, session.Id)))
	})
}

func (db *BadgerDbDriver) GetSession(id string) (*model.Session, error) {
	var session = &model.Session{}

	err := db.connection.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fmt.Sprintf("Sessions:%s", id)))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, session)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (db *BadgerDbDriver) GetSessionsForUser(userId string) ([]*model.Session, error) {
	var sessions []*model.Session

	err := db.connection.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("SessionsByUserId:%s:", userId))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var sessionId string
			err := item.Value(func(val []byte) error {
				sessionId = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			session, err := db.GetSession(sessionId)
			if err != nil {
				return err
			}

			sessions = append(sessions, session)
		}

		return nil
	})

	return sessions, err
}
