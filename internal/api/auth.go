package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/EluvK/ai-sketch/internal/database"
	"github.com/EluvK/ai-sketch/internal/database/model"
	"github.com/EluvK/ai-sketch/internal/middleware"
	"github.com/EluvK/ai-sketch/internal/util/jwt"
	"github.com/EluvK/ai-sketch/internal/util/rest"
	"github.com/EluvK/ai-sketch/internal/util/validate"

	"github.com/rs/zerolog/log"
)

type RegisterRequest struct {
	Phone    string `json:"phone"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserId string `json:"user_id"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	UserId      string `json:"user_id"`
}

func (svc *Service) HandleRegister(w http.ResponseWriter, r *http.Request) {
	request := RegisterRequest{}
	if err := rest.DecodeRequestBody(w, r, &request); err != nil {
		return
	}

	if !validate.Phone(request.Phone) {
		writeError(http.StatusBadRequest, w, r, "Invalid phone number")
		return
	}
	if !validate.Username(request.Username) {
		writeError(http.StatusBadRequest, w, r, "Invalid username")
		return
	}
	if !validate.Password(request.Password) {
		writeError(http.StatusBadRequest, w, r, "Password must be at least 8 characters")
		return
	}

	db := database.GetInstance()
	if _, err := db.GetUserByPhone(request.Phone); err == nil {
		writeError(http.StatusConflict, w, r, "Phone number already registered")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}

	user := model.NewUser(request.Phone, request.Username, request.Password)
	if err := db.SaveUser(user); err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}

	// Every account starts with a root conversations folder.
	root := model.NewFolder(user.Id, "", "Conversations", "", model.FolderTypeSystem)
	if err := db.SaveFolder(root); err != nil {
		log.Error().Err(err).Str("user_id", user.Id).Msg("api: failed to create root folder")
	}

	log.Info().Str("user_id", user.Id).Msg("api: user registered")

	rest.WriteResponse(http.StatusCreated, w, r, RegisterResponse{UserId: user.Id})
}

func (svc *Service) HandleLogin(w http.ResponseWriter, r *http.Request) {
	request := LoginRequest{}
	if err := rest.DecodeRequestBody(w, r, &request); err != nil {
		return
	}

	db := database.GetInstance()
	user, err := db.GetUserByPhone(request.Phone)
	if err != nil || !user.Active || user.IsDeleted || !user.CheckPassword(request.Password) {
		writeError(http.StatusUnauthorized, w, r, "Invalid phone number or password")
		return
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := db.SaveUser(user); err != nil {
		log.Error().Err(err).Msg("api: failed to record login time")
	}

	if err := svc.issueTokens(w, r, user.Id); err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}
}

func (svc *Service) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(model.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		writeError(http.StatusUnauthorized, w, r, "No refresh token")
		return
	}

	store := database.GetSessionStorage()
	session, err := store.GetSession(cookie.Value)
	if err != nil || session.Expired() {
		writeError(http.StatusUnauthorized, w, r, "Refresh token is not valid")
		return
	}

	// Rotate the session on every refresh.
	if err := store.DeleteSession(session); err != nil {
		log.Error().Err(err).Msg("api: failed to delete rotated session")
	}

	if err := svc.issueTokens(w, r, session.UserId); err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}
}

func (svc *Service) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(model.RefreshTokenCookie); err == nil && cookie.Value != "" {
		store := database.GetSessionStorage()
		if session, err := store.GetSession(cookie.Value); err == nil {
			store.DeleteSession(session)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     model.RefreshTokenCookie,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	user := middleware.UserFromContext(r.Context())
	log.Info().Str("user_id", user.Id).Msg("api: user logged out")

	rest.WriteResponse(http.StatusOK, w, r, struct{}{})
}

// issueTokens creates a fresh refresh session, sets its cookie and writes
// the access token response.
func (svc *Service) issueTokens(w http.ResponseWriter, r *http.Request, userId string) error {
	session := model.NewSession(r, userId)
	if err := database.GetSessionStorage().SaveSession(session); err != nil {
		return err
	}

	accessToken, err := jwt.GenerateAccessToken(svc.cfg.JWT.AccessSecret, userId, svc.cfg.JWT.AccessTTL)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     model.RefreshTokenCookie,
		Value:    session.Id,
		Path:     "/api/auth",
		Expires:  session.ExpiresAfter,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	return rest.WriteResponse(http.StatusOK, w, r, LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(svc.cfg.JWT.AccessTTL.Seconds()),
		UserId:      userId,
	})
}
