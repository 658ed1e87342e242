package driver_badgerdb

import (
	"errors"
	"fmt"
	"time"

	"github.com/EluvK/ai-sketch/internal/database/model"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

func (db *BadgerDbDriver) SaveFolder(folder *model.Folder) error {
	folder.UpdatedAt = time.Now().UTC()

	return db.connection.Update(func(txn *badger.Txn) error {
		data, err := msgpack.Marshal(folder)
		if err != nil {
			return err
		}

		if err = txn.Set([]byte(fmt.Sprintf("Folders:%s", folder.Id)), data); err != nil {
			return err
		}

		return txn.Set([]byte(fmt.Sprintf("FoldersByUserId:%s:%s", folder.UserId, folder.Id)), []byte(folder.Id))
	})
}

func (db *BadgerDbDriver) DeleteFolder(folder *model.Folder) error {
	return db.connection.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(fmt.Sprintf("Folders:%s", folder.Id))); err != nil {
			return err
		}

		return txn.Delete([]byte(fmt.Sprintf("FoldersByUserId:%s:%s", folder.UserId, folder.Id)))
	})
}

func (db *BadgerDbDriver) GetFolder(id string) (*model.Folder, error) {
	var folder = &model.Folder{}

	err := db.connection.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fmt.Sprintf("Folders:%s", id)))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, folder)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return folder, nil
}

func (db *BadgerDbDriver) GetFoldersForUser(userId string) ([]*model.Folder, error) {
	var folders []*model.Folder

	err := db.connection.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("FoldersByUserId:%s:", userId))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var folderId string
			err := item.Value(func(val []byte) error {
				folderId = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			folder, err := db.GetFolder(folderId)
			if err != nil {
				return err
			}

			folders = append(folders, folder)
		}

		return nil
	})

	return folders, err
}
