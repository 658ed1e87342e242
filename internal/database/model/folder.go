package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type FolderType string

const (
	// FolderTypeSystem folders are created for every new user and cannot
	// be renamed or deleted.
	FolderTypeSystem FolderType = "system"
	FolderTypeUser   FolderType = "user"
)

// Folder object, a node in a user's conversation tree. A folder with an
// empty ParentId sits at the root.
type Folder struct {
	Id          string     `json:"folder_id" msgpack:"folder_id"`
	ParentId    string     `json:"parent_id" msgpack:"parent_id"`
	UserId      string     `json:"user_id" msgpack:"user_id"`
	Name        string     `json:"name" msgpack:"name"`
	Description string     `json:"description" msgpack:"description"`
	Type        FolderType `json:"type" msgpack:"type"`
	IsDeleted   bool       `json:"is_deleted" msgpack:"is_deleted"`
	UpdatedAt   time.Time  `json:"updated_at" msgpack:"updated_at"`
	CreatedAt   time.Time  `json:"created_at" msgpack:"created_at"`
}

func NewFolder(userId string, parentId string, name string, description string, folderType FolderType) *Folder {
	id, err := uuid.NewV7()
	if err != nil {
		log.Fatal().Err(err).Msg("model: failed to generate folder id")
	}

	return &Folder{
		Id:          id.String(),
		ParentId:    parentId,
		UserId:      userId,
		Name:        name,
		Description: description,
		Type:        folderType,
		UpdatedAt:   time.Now().UTC(),
		CreatedAt:   time.Now().UTC(),
	}
}
