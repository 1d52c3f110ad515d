package handlers

import (
	"encoding/json"
	"net/http"

	"lostfound/internal/models"
	"lostfound/internal/service"
)

type SocialProfileRequest struct {
	Platform   string `json:"platform" validate:"required,oneof=Facebook Instagram LINE 'Twitter / X' Discord Other"`
	ProfileURL string `json:"profileUrl" validate:"required,url,max=255"`
}

type RegisterRequest struct {
	FullName        string                 `json:"fullName" validate:"required,max=255"`
	Faculty         string                 `json:"faculty" validate:"required,max=255"`
	ClassYear       string                 `json:"classYear" validate:"required,numeric,len=2"`
	Phone           string                 `json:"phone" validate:"required,max=20"`
	Email           string                 `json:"email" validate:"required,email,max=255"`
	Password        string                 `json:"password" validate:"required,min=6"`
	ConfirmPassword string                 `json:"confirmPassword" validate:"required"`
	SocialProfiles  []SocialProfileRequest `json:"socialProfiles" validate:"dive"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

func toSocialProfiles(in []SocialProfileRequest) []models.SocialProfile {
	out := make([]models.SocialProfile, 0, len(in))
	for _, sp := range in {
		out = append(out, models.SocialProfile{Platform: sp.Platform, ProfileURL: sp.ProfileURL})
	}
	return out
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.AuthService.Register(r.Context(), service.RegisterRequest{
		FullName:        req.FullName,
		Faculty:         req.Faculty,
		ClassYear:       req.ClassYear,
		Phone:           req.Phone,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		SocialProfiles:  toSocialProfiles(req.SocialProfiles),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, user, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, AuthResponse{AccessToken: token, User: user}, http.StatusOK)
}
