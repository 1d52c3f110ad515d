package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lostfound/internal/clock"
	"lostfound/internal/lifecycle"
	"lostfound/internal/models"
	"lostfound/internal/repository"
)

type CreatePostRequest struct {
	UserID      string
	ItemName    string
	Description string
	Status      string
	Place       string
	Images      []string
}

type UpdatePostRequest struct {
	PostID      string
	RequesterID string
	ItemName    *string
	Description *string
	Status      *string
	Place       *string
}

type ListPostsRequest struct {
	Status string
	Search string
}

type PostService interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.PostView, error)
	ListPosts(ctx context.Context, req ListPostsRequest) ([]models.PostView, error)
	ListUserPosts(ctx context.Context, userID string) ([]models.PostView, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) error
	DeletePost(ctx context.Context, postID, requesterID string) error
}

type postService struct {
	postRepo  repository.PostRepository
	imageRepo repository.ImageRepository
	userRepo  repository.UserRepository
	clock     clock.Clock
}

func NewPostService(postRepo repository.PostRepository, imageRepo repository.ImageRepository,
	userRepo repository.UserRepository, clk clock.Clock) PostService {
	return &postService{
		postRepo:  postRepo,
		imageRepo: imageRepo,
		userRepo:  userRepo,
		clock:     clk,
	}
}

// CreatePost fixes created_at to the current time and derives the deadline from it.
func (p *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	status, err := lifecycle.ParseStatus(req.Status)
	if err != nil || !status.IsCreatable() {
		return nil, fmt.Errorf("new posts must be lost or found, got %q: %w", req.Status, models.ErrInvalidStatus)
	}

	now := p.clock.Now()
	post := &models.Post{
		UserID:      req.UserID,
		ItemName:    strings.TrimSpace(req.ItemName),
		Description: req.Description,
		Place:       strings.TrimSpace(req.Place),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   lifecycle.ExpiresAt(now),
	}

	if err := p.postRepo.Create(ctx, post, req.Images); err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.PostView, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	images, err := p.imageRepo.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	socials, err := p.userRepo.GetSocialProfiles(ctx, post.UserID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.ImageURL)
	}

	view := buildView(*post, urls, p.clock.Now())
	view.Owner.SocialProfiles = socials

	return &view, nil
}

// ListPosts returns only posts that are active at the current time, newest first.
func (p *postService) ListPosts(ctx context.Context, req ListPostsRequest) ([]models.PostView, error) {
	var filter repository.ListFilter

	if req.Status != "" {
		status, err := lifecycle.ParseStatus(req.Status)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, models.ErrInvalidStatus)
		}
		if !status.IsActive() {
			return []models.PostView{}, nil
		}
		filter.Status = status
	}
	filter.Search = req.Search

	now := p.clock.Now()
	posts, err := p.postRepo.ListActive(ctx, filter, now)
	if err != nil {
		return nil, err
	}

	views, err := p.buildViews(ctx, posts, now)
	if err != nil {
		return nil, err
	}

	// the public listing only shows who posted; contact details are on the detail page
	active := views[:0]
	for _, v := range views {
		if v.Status.IsActive() {
			v.Owner.Phone, v.Owner.Email = "", ""
			active = append(active, v)
		}
	}

	return active, nil
}

// ListUserPosts returns every post of the user, active ones first. An unknown
// user is ErrNotFound rather than an empty list.
func (p *postService) ListUserPosts(ctx context.Context, userID string) ([]models.PostView, error) {
	now := p.clock.Now()

	posts, err := p.postRepo.ListByUser(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	if len(posts) == 0 {
		if _, err := p.userRepo.GetUserByID(ctx, userID); err != nil {
			return nil, err
		}
	}

	return p.buildViews(ctx, posts, now)
}

func (p *postService) UpdatePost(ctx context.Context, req UpdatePostRequest) error {
	fields := repository.UpdatePostFields{
		ItemName:    req.ItemName,
		Description: req.Description,
		Place:       req.Place,
	}

	if req.Status != nil {
		status, err := lifecycle.ParseStatus(*req.Status)
		if err != nil {
			return fmt.Errorf("%v: %w", err, models.ErrInvalidStatus)
		}
		fields.Status = &status
	}

	if fields.Empty() {
		return models.ErrNoFieldsToUpdate
	}

	existing, err := p.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return err
	}

	if existing.UserID != req.RequesterID {
		return fmt.Errorf("post %s belongs to another user: %w", req.PostID, models.ErrForbidden)
	}

	if fields.Status != nil && !lifecycle.CanTransition(existing.Status, *fields.Status) {
		return fmt.Errorf("cannot move post from %s to %s: %w", existing.Status, *fields.Status, models.ErrInvalidStatus)
	}

	return p.postRepo.Update(ctx, req.PostID, fields, p.clock.Now())
}

func (p *postService) DeletePost(ctx context.Context, postID, requesterID string) error {
	existing, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if existing.UserID != requesterID {
		return fmt.Errorf("post %s belongs to another user: %w", postID, models.ErrForbidden)
	}

	return p.postRepo.Delete(ctx, postID)
}

func (p *postService) buildViews(ctx context.Context, posts []models.PostWithOwner, now time.Time) ([]models.PostView, error) {
	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.PostID)
	}

	images, err := p.imageRepo.GetURLsByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, buildView(post, images[post.PostID], now))
	}

	return views, nil
}

// buildView presents a stored post as of now: status is the effective status
// and active posts carry their expiration countdown.
func buildView(post models.PostWithOwner, images []string, now time.Time) models.PostView {
	if images == nil {
		images = []string{}
	}

	view := models.PostView{
		Post:         post.Post,
		StoredStatus: post.Status,
		Images:       images,
		Owner:        post.OwnerSummary,
	}
	view.Status = lifecycle.Effective(post.Status, post.ExpiresAt, now)

	if view.Status.IsActive() {
		days, soon := lifecycle.Countdown(post.ExpiresAt, now)
		view.DaysUntilExpiration = &days
		view.IsExpiringSoon = &soon
	}

	return view
}
