package api

import (
	"errors"
	"net/http"

	"github.com/EluvK/ai-sketch/internal/database"
	"github.com/EluvK/ai-sketch/internal/database/model"
	"github.com/EluvK/ai-sketch/internal/middleware"
	"github.com/EluvK/ai-sketch/internal/util/rest"
	"github.com/EluvK/ai-sketch/internal/util/validate"
)

type FolderRequest struct {
	ParentId    string `json:"parent_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type FolderResponse struct {
	FolderId    string           `json:"folder_id"`
	ParentId    string           `json:"parent_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Type        model.FolderType `json:"type"`
}

func folderResponse(folder *model.Folder) FolderResponse {
	return FolderResponse{
		FolderId:    folder.Id,
		ParentId:    folder.ParentId,
		Name:        folder.Name,
		Description: folder.Description,
		Type:        folder.Type,
	}
}

// loadOwnedFolder fetches the folder from the path and checks it belongs to
// the authenticated user.
func loadOwnedFolder(w http.ResponseWriter, r *http.Request) *model.Folder {
	user := middleware.UserFromContext(r.Context())

	folderId := r.PathValue("folder_id")
	if !validate.UUID(folderId) {
		writeError(http.StatusBadRequest, w, r, "Invalid folder id")
		return nil
	}

	folder, err := database.GetInstance().GetFolder(folderId)
	if errors.Is(err, database.ErrNotFound) || (err == nil && (folder.UserId != user.Id || folder.IsDeleted)) {
		writeError(http.StatusNotFound, w, r, "Folder not found")
		return nil
	}
	if err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return nil
	}
	return folder
}

func (svc *Service) HandleGetFolders(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	folders, err := database.GetInstance().GetFoldersForUser(user.Id)
	if err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}

	response := make([]FolderResponse, 0, len(folders))
	for _, folder := range folders {
		if folder.IsDeleted {
			continue
		}
		response = append(response, folderResponse(folder))
	}

	rest.WriteResponse(http.StatusOK, w, r, response)
}

func (svc *Service) HandleCreateFolder(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	request := FolderRequest{}
	if err := rest.DecodeRequestBody(w, r, &request); err != nil {
		return
	}

	if !validate.Required(request.Name) || !validate.MaxLength(request.Name, 64) {
		writeError(http.StatusBadRequest, w, r, "Invalid folder name")
		return
	}

	db := database.GetInstance()

	if request.ParentId != "" {
		parent, err := db.GetFolder(request.ParentId)
		if err != nil || parent.UserId != user.Id || parent.IsDeleted {
			writeError(http.StatusBadRequest, w, r, "Parent folder not found")
			return
		}
	}

	folder := model.NewFolder(user.Id, request.ParentId, request.Name, request.Description, model.FolderTypeUser)
	if err := db.SaveFolder(folder); err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}

	rest.WriteResponse(http.StatusCreated, w, r, folderResponse(folder))
}

func (svc *Service) HandleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	folder := loadOwnedFolder(w, r)
	if folder == nil {
		return
	}

	if folder.Type == model.FolderTypeSystem {
		writeError(http.StatusForbidden, w, r, "System folders cannot be modified")
		return
	}

	request := FolderRequest{}
	if err := rest.DecodeRequestBody(w, r, &request); err != nil {
		return
	}

	if request.Name != "" {
		if !validate.MaxLength(request.Name, 64) {
			writeError(http.StatusBadRequest, w, r, "Invalid folder name")
			return
		}
		folder.Name = request.Name
	}
	folder.Description = request.Description

	if err := database.GetInstance().SaveFolder(folder); err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}

	rest.WriteResponse(http.StatusOK, w, r, folderResponse(folder))
}

func (svc *Service) HandleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	folder := loadOwnedFolder(w, r)
	if folder == nil {
		return
	}

	if folder.Type == model.FolderTypeSystem {
		writeError(http.StatusForbidden, w, r, "System folders cannot be deleted")
		return
	}

	folder.IsDeleted = true
	if err := database.GetInstance().SaveFolder(folder); err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}

	rest.WriteResponse(http.StatusOK, w, r, struct{}{})
}
