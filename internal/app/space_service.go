package app

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/render"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/storage"
)

type SpaceStore interface {
	Create(space *model.Space) error
	GetByID(id uint) (*model.Space, error)
	ListByOwnerToken(token string) ([]model.Space, error)
	AppendFilepaths(id uint, paths []string) (*model.Space, bool, error)
}

// FileStore allocates storage paths and resolves persisted references back to
// disk. The concrete implementation lives in internal/storage; tests inject a
// temp-dir instance.
type FileStore interface {
	Save(ownerToken, originalName string, r io.Reader) (storage.SavedFile, error)
	Resolve(ref string) (string, error)
}

// ExtractPublisher enqueues background text extraction for a stored upload.
type ExtractPublisher interface {
	Publish(ctx context.Context, job model.ExtractJob) error
}

// DocumentStore reads the extraction results the background worker persists.
type DocumentStore interface {
	ListBySpaceID(spaceID uint) ([]model.Document, error)
}

// ViewCache holds rendered space payloads between reads. All calls are
// best-effort; a cache failure never fails the request.
type ViewCache interface {
	Get(ctx context.Context, spaceID uint) (*render.SpaceView, bool, error)
	Set(ctx context.Context, spaceID uint, view render.SpaceView) error
	Invalidate(ctx context.Context, spaceID uint) error
}

// Upload is one incoming file: the client-supplied name (treated as opaque,
// never a path) and its payload.
type Upload struct {
	Name    string
	Content io.Reader
}

type CreateSpaceInput struct {
	Name        string
	Description string
	TaskType    string
	Files       []Upload
}

type SpaceService struct {
	spaces    SpaceStore
	sessions  SessionStore
	files     FileStore
	publisher ExtractPublisher
	views     ViewCache
	docs      DocumentStore
}

func NewSpaceService(
	spaces SpaceStore,
	sessions SessionStore,
	files FileStore,
	publisher ExtractPublisher,
	views ViewCache,
	docs DocumentStore,
) *SpaceService {
	return &SpaceService{
		spaces:    spaces,
		sessions:  sessions,
		files:     files,
		publisher: publisher,
		views:     views,
		docs:      docs,
	}
}

// Create stores the uploaded files under the owner's token directory, creates
// the Space with status ready, and links it onto the owning session's space
// list. The first PDF upload becomes the space's resume reference.
func (s *SpaceService) Create(ctx context.Context, ident Identity, input CreateSpaceInput) (*model.Space, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	taskType := strings.TrimSpace(input.TaskType)
	if name == "" || description == "" || taskType == "" || len(input.Files) == 0 {
		return nil, ErrInvalidInput
	}

	saved, err := s.storeFiles(ident.Token, input.Files)
	if err != nil {
		return nil, err
	}

	space := &model.Space{
		OwnerToken:  ident.Token,
		Name:        name,
		Description: description,
		TaskType:    taskType,
		Filepaths:   logicalPaths(saved),
		Status:      model.SpaceStatusReady,
		ResumePath:  firstResumePath(saved),
	}
	if err := s.spaces.Create(space); err != nil {
		return nil, err
	}
	if err := s.sessions.AppendSpaceID(ident.Token, space.ID); err != nil {
		return nil, err
	}

	s.enqueueExtraction(ctx, space.ID, ident.Token, saved)
	return space, nil
}

func (s *SpaceService) List(ident Identity) ([]model.Space, error) {
	return s.spaces.ListByOwnerToken(ident.Token)
}

// Upload appends files to an existing space. The processing check and the
// filepath append happen in one locked store transaction, so a space flipping
// to processing mid-request cannot lose or gain files.
func (s *SpaceService) Upload(ctx context.Context, ident Identity, spaceID uint, files []Upload) (*model.Space, error) {
	if len(files) == 0 {
		return nil, ErrInvalidInput
	}

	space, err := s.spaces.GetByID(spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, ErrSpaceNotFound
	}
	if space.OwnerToken != ident.Token {
		return nil, ErrNotOwner
	}
	if space.Status == model.SpaceStatusProcessing {
		return nil, ErrSpaceProcessing
	}

	saved, err := s.storeFiles(ident.Token, files)
	if err != nil {
		return nil, err
	}

	updated, appended, err := s.spaces.AppendFilepaths(spaceID, logicalPaths(saved))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrSpaceNotFound
	}
	if !appended {
		return nil, ErrSpaceProcessing
	}

	if s.views != nil {
		if err := s.views.Invalidate(ctx, spaceID); err != nil {
			log.Printf("invalidate space view %d failed: %v", spaceID, err)
		}
	}
	s.enqueueExtraction(ctx, spaceID, ident.Token, saved)
	return updated, nil
}

// GetDetails returns the space with its markdown fields rendered to sanitized
// HTML. Ownership is checked by strict token equality before anything else
// leaves the store.
func (s *SpaceService) GetDetails(ctx context.Context, ident Identity, spaceID uint) (*render.SpaceView, error) {
	space, err := s.spaces.GetByID(spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, ErrSpaceNotFound
	}
	if space.OwnerToken != ident.Token {
		return nil, ErrNotOwner
	}

	if s.views != nil {
		if cached, hit, cacheErr := s.views.Get(ctx, spaceID); cacheErr == nil && hit {
			return cached, nil
		}
	}

	view := render.Space(*space)
	if s.views != nil {
		_ = s.views.Set(ctx, spaceID, view)
	}
	return &view, nil
}

// ListDocuments returns the extraction results for a space. The list lags the
// uploads by however long the worker takes; an empty list on a fresh space is
// normal, not an error.
func (s *SpaceService) ListDocuments(ident Identity, spaceID uint) ([]model.Document, error) {
	space, err := s.spaces.GetByID(spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, ErrSpaceNotFound
	}
	if space.OwnerToken != ident.Token {
		return nil, ErrNotOwner
	}
	return s.docs.ListBySpaceID(spaceID)
}

// ResumeFile is a handle for streaming a stored resume back to its owner.
type ResumeFile struct {
	Path     string
	Filename string
}

// ResumeDownload resolves the space's resume reference to an absolute path
// under the upload root. A reference that canonicalizes outside the root is
// an authorization failure, not a missing file, so the response does not
// reveal whether anything exists out there.
func (s *SpaceService) ResumeDownload(ident Identity, spaceID uint) (*ResumeFile, error) {
	space, err := s.spaces.GetByID(spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, ErrSpaceNotFound
	}
	if space.OwnerToken != ident.Token {
		return nil, ErrNotOwner
	}
	if space.ResumePath == "" {
		return nil, ErrFileNotFound
	}

	abs, err := s.files.Resolve(space.ResumePath)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEscapesRoot):
			return nil, ErrPathEscape
		case errors.Is(err, storage.ErrNotExist):
			return nil, ErrFileNotFound
		default:
			return nil, err
		}
	}

	return &ResumeFile{
		Path:     abs,
		Filename: storage.DownloadName(space.ResumePath),
	}, nil
}

func (s *SpaceService) storeFiles(ownerToken string, files []Upload) ([]storage.SavedFile, error) {
	saved := make([]storage.SavedFile, 0, len(files))
	for _, f := range files {
		sf, err := s.files.Save(ownerToken, f.Name, f.Content)
		if err != nil {
			return nil, err
		}
		saved = append(saved, sf)
	}
	return saved, nil
}

// enqueueExtraction is background enrichment; a broker hiccup is logged and
// never fails the upload that triggered it.
func (s *SpaceService) enqueueExtraction(ctx context.Context, spaceID uint, ownerToken string, saved []storage.SavedFile) {
	if s.publisher == nil {
		return
	}
	for _, sf := range saved {
		job := model.ExtractJob{
			SpaceID:      spaceID,
			OwnerToken:   ownerToken,
			Path:         sf.LogicalPath,
			OriginalName: sf.OriginalName,
		}
		if err := s.publisher.Publish(ctx, job); err != nil {
			log.Printf("enqueue extract job for space %d failed: %v", spaceID, err)
		}
	}
}

func logicalPaths(saved []storage.SavedFile) []string {
	paths := make([]string, len(saved))
	for i, sf := range saved {
		paths[i] = sf.LogicalPath
	}
	return paths
}

func firstResumePath(saved []storage.SavedFile) string {
	for _, sf := range saved {
		if strings.EqualFold(filepath.Ext(sf.OriginalName), ".pdf") {
			return sf.LogicalPath
		}
	}
	return ""
}
