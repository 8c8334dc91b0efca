package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/logger"
	"rocksolid/climbing-trainer/internal/repository"
	"rocksolid/climbing-trainer/internal/storage"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("validation failed")
)

// TutorialMediaURLExpiry bounds presigned tutorial media URLs.
const TutorialMediaURLExpiry = time.Hour

// mediaExtensions lists the accepted tutorial media types.
var mediaExtensions = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
}

// ExerciseInput is a catalog entry as submitted by an admin or the seed file.
type ExerciseInput struct {
	Name        string       `json:"name" yaml:"name"`
	Difficulty  string       `json:"difficulty" yaml:"difficulty"`
	Category    string       `json:"category" yaml:"category"`
	Description string       `json:"description" yaml:"description"`
	Sets        domain.Count `json:"sets" yaml:"sets"`
	Reps        domain.Count `json:"reps" yaml:"reps"`
	Tutorial    string       `json:"tutorial,omitempty" yaml:"tutorial,omitempty"`
}

// Tutorial is the instruction text of an exercise plus an optional media link.
type Tutorial struct {
	Name     string `json:"name"`
	Text     string `json:"tutorial"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

// MediaUpload is a presigned PUT target for tutorial media.
type MediaUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExerciseService interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	GetTutorial(ctx context.Context, name string) (*Tutorial, error)
	UpsertExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	SetTutorial(ctx context.Context, name, text string) error
	CreateMediaUploadURL(ctx context.Context, name, contentType string) (*MediaUpload, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	if fileStorage == nil {
		fileStorage = storage.Disabled()
	}
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return exercises, nil
}

// GetTutorial looks the exercise up by exact name. A media URL is only attached when media
// was uploaded and storage is configured.
func (s *exerciseService) GetTutorial(ctx context.Context, name string) (*Tutorial, error) {
	ex, err := s.exerciseRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	t := &Tutorial{Name: ex.Name, Text: ex.Tutorial}
	if ex.TutorialMediaKey != "" {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, ex.TutorialMediaKey, TutorialMediaURLExpiry)
		if err != nil {
			logger.Warn("Tutorial media unavailable", "exercise", ex.Name, "error", err)
		} else {
			t.MediaURL = url
		}
	}
	return t, nil
}

// UpsertExercise inserts the entry or replaces the catalog fields of the entry with the same name.
func (s *exerciseService) UpsertExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if strings.TrimSpace(in.Difficulty) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, fmt.Errorf("%w: difficulty and category are required for %q", ErrValidationFailed, name)
	}

	exercise := &domain.Exercise{
		Name:        name,
		Difficulty:  in.Difficulty,
		Category:    in.Category,
		Description: in.Description,
		Sets:        in.Sets,
		Reps:        in.Reps,
		Tutorial:    in.Tutorial,
	}
	if err := s.exerciseRepo.Upsert(ctx, exercise); err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByName(ctx, name)
}

func (s *exerciseService) SetTutorial(ctx context.Context, name, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: tutorial text is required", ErrValidationFailed)
	}
	err := s.exerciseRepo.SetTutorial(ctx, name, text)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}

// CreateMediaUploadURL points the exercise at a fresh object key and returns a presigned PUT
// for it. Previously uploaded media is deleted best-effort.
func (s *exerciseService) CreateMediaUploadURL(ctx context.Context, name, contentType string) (*MediaUpload, error) {
	ext, ok := mediaExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrValidationFailed, contentType)
	}

	ex, err := s.exerciseRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("tutorials/%s/%s%s", ex.ID.Hex(), uuid.NewString(), ext)
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, strings.ToLower(contentType), storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	if err := s.exerciseRepo.SetTutorialMedia(ctx, ex.Name, key); err != nil {
		return nil, err
	}

	if ex.TutorialMediaKey != "" {
		if err := s.fileStorage.DeleteObject(ctx, ex.TutorialMediaKey); err != nil {
			logger.Warn("Failed to delete replaced tutorial media", "key", ex.TutorialMediaKey, "error", err)
		}
	}

	return &MediaUpload{
		UploadURL: url,
		ObjectKey: key,
		ExpiresAt: time.Now().Add(storage.DefaultPresignedURLExpiry).UTC(),
	}, nil
}
