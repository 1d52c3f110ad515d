package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"lostfound/internal/models"
	"lostfound/internal/service"
)

type CreatePostRequest struct {
	ItemName    string   `json:"itemName" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=2000"`
	Status      string   `json:"status" validate:"required,oneof=lost found"`
	Place       string   `json:"place" validate:"required,max=100"`
	Images      []string `json:"images" validate:"max=10,dive,required,url,max=512"`
}

type UpdatePostRequest struct {
	ItemName    *string `json:"itemName" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Status      *string `json:"status"`
	Place       *string `json:"place" validate:"omitempty,min=1,max=100"`
}

type CreatePostResponse struct {
	PostID    string    `json:"postId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type PostsResponse struct {
	Posts []models.PostView `json:"posts"`
	Total int               `json:"total"`
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), service.CreatePostRequest{
		UserID:      userID,
		ItemName:    req.ItemName,
		Description: req.Description,
		Status:      req.Status,
		Place:       req.Place,
		Images:      req.Images,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, CreatePostResponse{
		PostID:    post.PostID,
		Status:    post.Status.String(),
		CreatedAt: post.CreatedAt,
		ExpiresAt: post.ExpiresAt,
	}, http.StatusCreated)
}

func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	posts, err := h.PostService.ListPosts(r.Context(), service.ListPostsRequest{
		Status: strings.ToLower(strings.TrimSpace(query.Get("status"))),
		Search: strings.TrimSpace(query.Get("search")),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, PostsResponse{Posts: posts, Total: len(posts)}, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, post, http.StatusOK)
}

func (h *Handlers) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListUserPosts(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, PostsResponse{Posts: posts, Total: len(posts)}, http.StatusOK)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	err := h.PostService.UpdatePost(r.Context(), service.UpdatePostRequest{
		PostID:      mux.Vars(r)["id"],
		RequesterID: userID,
		ItemName:    req.ItemName,
		Description: req.Description,
		Status:      req.Status,
		Place:       req.Place,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, MessageResponse{Message: "post updated"}, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	if err := h.PostService.DeletePost(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, MessageResponse{Message: "post deleted"}, http.StatusOK)
}
