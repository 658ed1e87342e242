package driver_memory

import (
	"sort"
	"sync"
	"time"

	"github.com/EluvK/ai-sketch/internal/database/model"

	"github.com/rs/zerolog/log"
)

// MemoryDbDriver keeps all records in process memory. Used for development
// and as the fallback when no persistent store is configured.
type MemoryDbDriver struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	folders  map[string]*model.Folder
	sessions map[string]*model.Session
	stats    map[string]*model.DailyStatistic
}

func New() *MemoryDbDriver {
	return &MemoryDbDriver{}
}

func (db *MemoryDbDriver) Connect() error {
	log.Debug().Msg("db: using in-memory storage")

	db.users = make(map[string]*model.User)
	db.folders = make(map[string]*model.Folder)
	db.sessions = make(map[string]*model.Session)
	db.stats = make(map[string]*model.DailyStatistic)
	return nil
}

func (db *MemoryDbDriver) SaveUser(user *model.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	user.UpdatedAt = time.Now().UTC()
	clone := *user
	db.users[user.Id] = &clone
	return nil
}

func (db *MemoryDbDriver) DeleteUser(user *model.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.users, user.Id)
	return nil
}

func (db *MemoryDbDriver) GetUser(id string) (*model.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	user, ok := db.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (db *MemoryDbDriver) GetUserByPhone(phone string) (*model.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, user := range db.users {
		if user.Phone == phone {
			clone := *user
			return &clone, nil
		}
	}
	return nil, model.ErrNotFound
}

func (db *MemoryDbDriver) GetUsers() ([]*model.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	users := make([]*model.User, 0, len(db.users))
	for _, user := range db.users {
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Id < users[j].Id })
	return users, nil
}

func (db *MemoryDbDriver) HasUsers() (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.users) > 0, nil
}

func (db *MemoryDbDriver) SaveFolder(folder *model.Folder) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	folder.UpdatedAt = time.Now().UTC()
	clone := *folder
	db.folders[folder.Id] = &clone
	return nil
}

func (db *MemoryDbDriver) DeleteFolder(folder *model.Folder) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.folders, folder.Id)
	return nil
}

func (db *MemoryDbDriver) GetFolder(id string) (*model.Folder, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	folder, ok := db.folders[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	clone := *folder
	return &clone, nil
}

func (db *MemoryDbDriver) GetFoldersForUser(userId string) ([]*model.Folder, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var folders []*model.Folder
	for _, folder := range db.folders {
		if folder.UserId == userId {
			clone := *folder
			folders = append(folders, &clone)
		}
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Id < folders[j].Id })
	return folders, nil
}

func (db *MemoryDbDriver) SaveSession(session *model.Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	clone := *session
	db.sessions[session.Id] = &clone
	return nil
}

func (db *MemoryDbDriver) DeleteSession(session *model.Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.sessions, session.Id)
	return nil
}

func (db *MemoryDbDriver) GetSession(id string) (*model.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	session, ok := db.sessions[id]
	if !ok || session.Expired() {
		return nil, model.ErrNotFound
	}
	clone := *session
	return &clone, nil
}

func (db *MemoryDbDriver) GetSessionsForUser(userId string) ([]*model.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var sessions []*model.Session
	for _, session := range db.sessions {
		if session.UserId == userId && !session.Expired() {
			clone := *session
			sessions = append(sessions, &clone)
		}
	}
	return sessions, nil
}

func (db *MemoryDbDriver) SaveDailyStatistic(stat *model.DailyStatistic) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	clone := *stat
	db.stats[stat.Type+":"+stat.Date] = &clone
	return nil
}

func (db *MemoryDbDriver) GetDailyStatistic(date string, statType string) (*model.DailyStatistic, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	stat, ok := db.stats[statType+":"+date]
	if !ok {
		return nil, model.ErrNotFound
	}
	clone := *stat
	return &clone, nil
}

func (db *MemoryDbDriver) GetDailyStatistics(statType string) ([]*model.DailyStatistic, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var stats []*model.DailyStatistic
	for _, stat := range db.stats {
		if stat.Type == statType {
			clone := *stat
			stats = append(stats, &clone)
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}
