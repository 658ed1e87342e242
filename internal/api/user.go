package api

import (
	"net/http"
	"time"

	"github.com/EluvK/ai-sketch/internal/database"
	"github.com/EluvK/ai-sketch/internal/middleware"
	"github.com/EluvK/ai-sketch/internal/util/rest"
	"github.com/EluvK/ai-sketch/internal/util/validate"
)

type UserResponse struct {
	UserId      string     `json:"user_id"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (svc *Service) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	rest.WriteResponse(http.StatusOK, w, r, UserResponse{
		UserId:      user.Id,
		Phone:       user.Phone,
		Email:       user.Email,
		Username:    user.Username,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	})
}

func (svc *Service) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	request := UpdateUserRequest{}
	if err := rest.DecodeRequestBody(w, r, &request); err != nil {
		return
	}

	if request.Username != "" {
		if !validate.Username(request.Username) {
			writeError(http.StatusBadRequest, w, r, "Invalid username")
			return
		}
		user.Username = request.Username
	}
	if request.Email != "" {
		if !validate.Email(request.Email) {
			writeError(http.StatusBadRequest, w, r, "Invalid email address")
			return
		}
		user.Email = request.Email
	}
	if request.Password != "" {
		if !validate.Password(request.Password) {
			writeError(http.StatusBadRequest, w, r, "Password must be at least 8 characters")
			return
		}
		user.SetPassword(request.Password)
	}

	if err := database.GetInstance().SaveUser(user); err != nil {
		writeError(http.StatusInternalServerError, w, r, err.Error())
		return
	}

	rest.WriteResponse(http.StatusOK, w, r, struct{}{})
}
