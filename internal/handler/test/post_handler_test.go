package test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lostfound/internal/lifecycle"
	"lostfound/internal/models"
	"lostfound/internal/service"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestCreatePostHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		userID         string
		mockSetup      func(*MockPostService)
		expectedStatus int
	}{
		{
			name:   "creates a lost post",
			body:   `{"itemName":"Wallet","status":"lost","place":"Library","images":["http://img/1.jpg"]}`,
			userID: "u1",
			mockSetup: func(s *MockPostService) {
				s.On("CreatePost", mock.Anything, service.CreatePostRequest{
					UserID:   "u1",
					ItemName: "Wallet",
					Status:   "lost",
					Place:    "Library",
					Images:   []string{"http://img/1.jpg"},
				}).Return(&models.Post{
					PostID:    "p1",
					Status:    lifecycle.Lost,
					CreatedAt: t0,
					ExpiresAt: t0.Add(30 * 24 * time.Hour),
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "anonymous",
			body:           `{"itemName":"Wallet","status":"lost","place":"Library"}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "terminal status rejected by validation",
			body:           `{"itemName":"Wallet","status":"returned","place":"Library"}`,
			userID:         "u1",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing item name",
			body:           `{"status":"found","place":"Library"}`,
			userID:         "u1",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "broken json",
			body:           `{"itemName":`,
			userID:         "u1",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			if tt.mockSetup != nil {
				tt.mockSetup(env.posts)
			}

			rr := env.do(newRequest(http.MethodPost, "/api/posts", tt.body, tt.userID))
			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedStatus == http.StatusCreated {
				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "p1", resp["postId"])
				assert.Equal(t, "2025-03-31T09:00:00Z", resp["expiresAt"])
			} else {
				env.posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
			}
			env.posts.AssertExpectations(t)
		})
	}
}

func TestListPostsHandler(t *testing.T) {
	env := newTestEnv()
	env.posts.On("ListPosts", mock.Anything, service.ListPostsRequest{Status: "found", Search: "umbrella"}).
		Return([]models.PostView{{Post: models.Post{PostID: "p1", Status: lifecycle.Found}}}, nil)

	rr := env.do(newRequest(http.MethodGet, "/api/posts?status=Found&search=+umbrella+", "", ""))
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Posts []map[string]interface{} `json:"posts"`
		Total int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "p1", resp.Posts[0]["postId"])
}

func TestListPostsHandler_InvalidStatus(t *testing.T) {
	env := newTestEnv()
	env.posts.On("ListPosts", mock.Anything, service.ListPostsRequest{Status: "stolen"}).
		Return(nil, models.ErrInvalidStatus)

	rr := env.do(newRequest(http.MethodGet, "/api/posts?status=stolen", "", ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetPostHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"found", nil, http.StatusOK},
		{"missing", models.ErrNotFound, http.StatusNotFound},
		{"database down", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			if tt.err != nil {
				env.posts.On("GetPost", mock.Anything, "p1").Return(nil, tt.err)
			} else {
				env.posts.On("GetPost", mock.Anything, "p1").Return(&models.PostView{Post: models.Post{PostID: "p1"}}, nil)
			}

			rr := env.do(newRequest(http.MethodGet, "/api/posts/p1", "", ""))
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestUpdatePostHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		userID         string
		serviceErr     error
		callsService   bool
		expectedStatus int
	}{
		{"owner marks returned", `{"status":"returned"}`, "u1", nil, true, http.StatusOK},
		{"not the owner", `{"place":"Gym"}`, "u2", models.ErrForbidden, true, http.StatusForbidden},
		{"empty body", `{}`, "u1", models.ErrNoFieldsToUpdate, true, http.StatusBadRequest},
		{"bad status", `{"status":"gone"}`, "u1", models.ErrInvalidStatus, true, http.StatusBadRequest},
		{"missing post", `{"place":"Gym"}`, "u1", models.ErrNotFound, true, http.StatusNotFound},
		{"empty item name", `{"itemName":""}`, "u1", nil, false, http.StatusBadRequest},
		{"anonymous", `{"place":"Gym"}`, "", nil, false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			if tt.callsService {
				env.posts.On("UpdatePost", mock.Anything, mock.MatchedBy(func(req service.UpdatePostRequest) bool {
					return req.PostID == "p1" && req.RequesterID == tt.userID
				})).Return(tt.serviceErr)
			}

			rr := env.do(newRequest(http.MethodPut, "/api/posts/p1", tt.body, tt.userID))
			assert.Equal(t, tt.expectedStatus, rr.Code)

			if !tt.callsService {
				env.posts.AssertNotCalled(t, "UpdatePost", mock.Anything, mock.Anything)
			}
			env.posts.AssertExpectations(t)
		})
	}
}

func TestDeletePostHandler(t *testing.T) {
	env := newTestEnv()
	env.posts.On("DeletePost", mock.Anything, "p1", "u1").Return(nil)
	env.posts.On("DeletePost", mock.Anything, "p1", "u2").Return(models.ErrForbidden)

	assert.Equal(t, http.StatusOK, env.do(newRequest(http.MethodDelete, "/api/posts/p1", "", "u1")).Code)
	assert.Equal(t, http.StatusForbidden, env.do(newRequest(http.MethodDelete, "/api/posts/p1", "", "u2")).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(newRequest(http.MethodDelete, "/api/posts/p1", "", "")).Code)
}

func TestListUserPostsHandler(t *testing.T) {
	env := newTestEnv()
	env.posts.On("ListUserPosts", mock.Anything, "u1").Return([]models.PostView{
		{Post: models.Post{PostID: "a", Status: lifecycle.Lost}},
		{Post: models.Post{PostID: "b", Status: lifecycle.Expired}},
	}, nil)

	rr := env.do(newRequest(http.MethodGet, "/api/users/u1/posts", "", ""))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"expired"`)

	env.posts.On("ListUserPosts", mock.Anything, "ghost").Return(nil, models.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, env.do(newRequest(http.MethodGet, "/api/users/ghost/posts", "", "")).Code)
}
