package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/service"
)

type UpdateUserRequest struct {
	FullName       *string                 `json:"fullName" validate:"omitempty,min=1,max=255"`
	Faculty        *string                 `json:"faculty" validate:"omitempty,min=1,max=255"`
	ClassYear      *string                 `json:"classYear" validate:"omitempty,numeric,len=2"`
	Phone          *string                 `json:"phone" validate:"omitempty,min=1,max=20"`
	Email          *string                 `json:"email" validate:"omitempty,email,max=255"`
	SocialProfiles *[]SocialProfileRequest `json:"socialProfiles" validate:"omitempty,dive"`
}

type PhotoResponse struct {
	ProfilePhotoURL string `json:"profilePhotoUrl"`
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	fields := repository.UpdateUserFields{
		FullName:  req.FullName,
		Faculty:   req.Faculty,
		ClassYear: req.ClassYear,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	if req.SocialProfiles != nil {
		profiles := toSocialProfiles(*req.SocialProfiles)
		fields.SocialProfiles = &profiles
	}

	err := h.UserService.UpdateUser(r.Context(), service.UpdateUserRequest{
		UserID:      mux.Vars(r)["id"],
		RequesterID: requester,
		Fields:      fields,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, MessageResponse{Message: "profile updated"}, http.StatusOK)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterID(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), mux.Vars(r)["id"], requester); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, MessageResponse{Message: "user deleted"}, http.StatusOK)
}

func (h *Handlers) UploadProfilePhoto(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterID(w, r)
	if !ok {
		return
	}

	userID := mux.Vars(r)["id"]
	if userID != requester {
		writeServiceError(w, r, models.ErrForbidden)
		return
	}

	upload, file, ok := h.readImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.UserService.UpdateProfilePhoto(r.Context(), userID, requester, upload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, PhotoResponse{ProfilePhotoURL: url}, http.StatusOK)
}
