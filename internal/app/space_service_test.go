package app

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/storage"
)

type fakeSpaceStore struct {
	mu     sync.Mutex
	nextID uint
	spaces map[uint]*model.Space
}

func newFakeSpaceStore() *fakeSpaceStore {
	return &fakeSpaceStore{spaces: make(map[uint]*model.Space)}
}

func (f *fakeSpaceStore) Create(space *model.Space) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	space.ID = f.nextID
	copied := *space
	f.spaces[space.ID] = &copied
	return nil
}

func (f *fakeSpaceStore) GetByID(id uint) (*model.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	space, ok := f.spaces[id]
	if !ok {
		return nil, nil
	}
	copied := *space
	return &copied, nil
}

func (f *fakeSpaceStore) ListByOwnerToken(token string) ([]model.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Space
	for _, space := range f.spaces {
		if space.OwnerToken == token {
			out = append(out, *space)
		}
	}
	return out, nil
}

func (f *fakeSpaceStore) AppendFilepaths(id uint, paths []string) (*model.Space, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	space, ok := f.spaces[id]
	if !ok {
		return nil, false, nil
	}
	if space.Status == model.SpaceStatusProcessing {
		copied := *space
		return &copied, false, nil
	}
	space.Filepaths = append(space.Filepaths, paths...)
	copied := *space
	return &copied, true, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []model.ExtractJob
}

func (f *fakePublisher) Publish(_ context.Context, job model.ExtractJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeDocStore struct {
	mu   sync.Mutex
	docs []model.Document
}

func (f *fakeDocStore) ListBySpaceID(spaceID uint) ([]model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Document
	for _, d := range f.docs {
		if d.SpaceID == spaceID {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestSpaceService(t *testing.T) (*SpaceService, *fakeSpaceStore, *fakeSessionStore, *fakePublisher) {
	t.Helper()
	local, err := storage.NewLocal(filepath.Join(t.TempDir(), "uploads"), "")
	require.NoError(t, err)

	spaces := newFakeSpaceStore()
	sessions := newFakeSessionStore()
	publisher := &fakePublisher{}
	svc := NewSpaceService(spaces, sessions, local, publisher, nil, &fakeDocStore{})
	return svc, spaces, sessions, publisher
}

func uploads(names ...string) []Upload {
	out := make([]Upload, len(names))
	for i, name := range names {
		out[i] = Upload{Name: name, Content: strings.NewReader("content of " + name)}
	}
	return out
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _, _, _ := newTestSpaceService(t)
	ident := Identity{Token: "0123abcd", Name: "Alice"}

	cases := []CreateSpaceInput{
		{Description: "d", TaskType: "SDE", Files: uploads("r.pdf")},
		{Name: "Backend", TaskType: "SDE", Files: uploads("r.pdf")},
		{Name: "Backend", Description: "d", Files: uploads("r.pdf")},
		{Name: "Backend", Description: "d", TaskType: "SDE"},
	}
	for i, input := range cases {
		_, err := svc.Create(context.Background(), ident, input)
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}
}

func TestCreateSpace(t *testing.T) {
	svc, _, sessions, publisher := newTestSpaceService(t)
	require.NoError(t, sessions.Create(&model.Session{Token: "0123abcd", Name: "Alice"}))
	ident := Identity{Token: "0123abcd", Name: "Alice"}

	space, err := svc.Create(context.Background(), ident, CreateSpaceInput{
		Name:        "Backend",
		Description: "prep for backend interviews",
		TaskType:    "SDE",
		Files:       uploads("r.pdf", "notes.txt"),
	})
	require.NoError(t, err)

	assert.NotZero(t, space.ID)
	assert.Equal(t, "0123abcd", space.OwnerToken)
	assert.Equal(t, model.SpaceStatusReady, space.Status)
	require.Len(t, space.Filepaths, 2)
	for _, p := range space.Filepaths {
		assert.True(t, strings.HasPrefix(p, "SeerAI/0123abcd/"), "filepath %q", p)
	}
	assert.True(t, strings.HasSuffix(space.Filepaths[0], "-r.pdf"))
	assert.Equal(t, space.Filepaths[0], space.ResumePath, "first pdf becomes the resume reference")

	session, err := sessions.GetByToken("0123abcd")
	require.NoError(t, err)
	assert.Equal(t, []uint{space.ID}, session.SpaceIDs)

	assert.Len(t, publisher.jobs, 2)
	assert.Equal(t, space.ID, publisher.jobs[0].SpaceID)
}

func TestUploadErrors(t *testing.T) {
	svc, spaces, _, _ := newTestSpaceService(t)
	ident := Identity{Token: "0123abcd"}

	_, err := svc.Upload(context.Background(), ident, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(context.Background(), ident, 42, uploads("a.txt"))
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	require.NoError(t, spaces.Create(&model.Space{OwnerToken: "feedbeef", Status: model.SpaceStatusReady}))
	_, err = svc.Upload(context.Background(), ident, 1, uploads("a.txt"))
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestUploadWhileProcessingLeavesFilepathsUnchanged(t *testing.T) {
	svc, spaces, _, _ := newTestSpaceService(t)
	ident := Identity{Token: "0123abcd"}

	require.NoError(t, spaces.Create(&model.Space{
		OwnerToken: "0123abcd",
		Status:     model.SpaceStatusProcessing,
		Filepaths:  []string{"SeerAI/0123abcd/1-r.pdf"},
	}))

	_, err := svc.Upload(context.Background(), ident, 1, uploads("more.txt"))
	assert.ErrorIs(t, err, ErrSpaceProcessing)

	space, err := spaces.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"SeerAI/0123abcd/1-r.pdf"}, space.Filepaths)
}

func TestConcurrentUploadsLoseNothing(t *testing.T) {
	svc, spaces, sessions, _ := newTestSpaceService(t)
	require.NoError(t, sessions.Create(&model.Session{Token: "0123abcd"}))
	ident := Identity{Token: "0123abcd"}

	space, err := svc.Create(context.Background(), ident, CreateSpaceInput{
		Name:        "Backend",
		Description: "d",
		TaskType:    "SDE",
		Files:       uploads("r.pdf"),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.Upload(context.Background(), ident, space.ID, uploads("a.txt", "b.txt", "c.txt"))
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Upload(context.Background(), ident, space.ID, uploads("d.txt", "e.txt"))
		assert.NoError(t, err)
	}()
	wg.Wait()

	final, err := spaces.GetByID(space.ID)
	require.NoError(t, err)
	assert.Len(t, final.Filepaths, 1+3+2)
}

func TestGetDetailsAuthorization(t *testing.T) {
	svc, spaces, _, _ := newTestSpaceService(t)

	_, err := svc.GetDetails(context.Background(), Identity{Token: "0123abcd"}, 42)
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	require.NoError(t, spaces.Create(&model.Space{
		OwnerToken:     "0123abcd",
		Status:         model.SpaceStatusReady,
		JobDescription: "secret **details**",
	}))

	_, err = svc.GetDetails(context.Background(), Identity{Token: "feedbeef"}, 1)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.NotContains(t, err.Error(), "secret")
}

func TestGetDetailsRendersAndPreservesSource(t *testing.T) {
	svc, spaces, _, _ := newTestSpaceService(t)
	ident := Identity{Token: "0123abcd"}

	require.NoError(t, spaces.Create(&model.Space{
		OwnerToken:      "0123abcd",
		Status:          model.SpaceStatusReady,
		JobDescription:  "We need **Go** engineers <script>alert(1)</script>",
		PurifiedSummary: "A fine candidate",
	}))

	view, err := svc.GetDetails(context.Background(), ident, 1)
	require.NoError(t, err)
	assert.Contains(t, view.JobDescriptionHTML, "<strong>Go</strong>")
	assert.NotContains(t, view.JobDescriptionHTML, "<script")
	assert.Equal(t, "We need **Go** engineers <script>alert(1)</script>", view.Space.JobDescription)

	again, err := svc.GetDetails(context.Background(), ident, 1)
	require.NoError(t, err)
	assert.Equal(t, view.JobDescriptionHTML, again.JobDescriptionHTML)
}

func TestListDocuments(t *testing.T) {
	local, err := storage.NewLocal(filepath.Join(t.TempDir(), "uploads"), "")
	require.NoError(t, err)
	spaces := newFakeSpaceStore()
	docs := &fakeDocStore{docs: []model.Document{
		{SpaceID: 1, OwnerToken: "0123abcd", Path: "SeerAI/0123abcd/1-r.pdf", Status: model.DocumentStatusExtracted, Text: "extracted text"},
		{SpaceID: 2, OwnerToken: "0123abcd", Path: "SeerAI/0123abcd/2-other.pdf", Status: model.DocumentStatusExtracted},
	}}
	svc := NewSpaceService(spaces, newFakeSessionStore(), local, nil, nil, docs)
	ident := Identity{Token: "0123abcd"}

	_, err = svc.ListDocuments(ident, 42)
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	require.NoError(t, spaces.Create(&model.Space{OwnerToken: "0123abcd", Status: model.SpaceStatusReady}))

	_, err = svc.ListDocuments(Identity{Token: "feedbeef"}, 1)
	assert.ErrorIs(t, err, ErrNotOwner)

	listed, err := svc.ListDocuments(ident, 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "extracted text", listed[0].Text)
}

func TestResumeDownload(t *testing.T) {
	local, err := storage.NewLocal(filepath.Join(t.TempDir(), "uploads"), "")
	require.NoError(t, err)
	spaces := newFakeSpaceStore()
	svc := NewSpaceService(spaces, newFakeSessionStore(), local, nil, nil, &fakeDocStore{})
	ident := Identity{Token: "0123abcd"}

	saved, err := local.Save("0123abcd", "r.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)

	require.NoError(t, spaces.Create(&model.Space{
		OwnerToken: "0123abcd",
		Status:     model.SpaceStatusReady,
		ResumePath: saved.LogicalPath,
	}))

	resume, err := svc.ResumeDownload(ident, 1)
	require.NoError(t, err)
	assert.Equal(t, "r.pdf", resume.Filename)
	assert.True(t, strings.HasPrefix(resume.Path, local.Root()))
}

func TestResumeDownloadErrors(t *testing.T) {
	local, err := storage.NewLocal(filepath.Join(t.TempDir(), "uploads"), "")
	require.NoError(t, err)
	spaces := newFakeSpaceStore()
	svc := NewSpaceService(spaces, newFakeSessionStore(), local, nil, nil, &fakeDocStore{})
	ident := Identity{Token: "0123abcd"}

	_, err = svc.ResumeDownload(ident, 42)
	assert.ErrorIs(t, err, ErrSpaceNotFound)

	require.NoError(t, spaces.Create(&model.Space{OwnerToken: "feedbeef", ResumePath: "SeerAI/feedbeef/1-r.pdf"}))
	_, err = svc.ResumeDownload(ident, 1)
	assert.ErrorIs(t, err, ErrNotOwner)

	// Traversal in the stored reference is an authorization failure, never a
	// not-found, and never yields a path outside the root.
	require.NoError(t, spaces.Create(&model.Space{
		OwnerToken: "0123abcd",
		ResumePath: "SeerAI/0123abcd/../../../etc/passwd",
	}))
	_, err = svc.ResumeDownload(ident, 2)
	assert.ErrorIs(t, err, ErrPathEscape)

	require.NoError(t, spaces.Create(&model.Space{
		OwnerToken: "0123abcd",
		ResumePath: "SeerAI/0123abcd/1700000000-gone.pdf",
	}))
	_, err = svc.ResumeDownload(ident, 3)
	assert.ErrorIs(t, err, ErrFileNotFound)

	require.NoError(t, spaces.Create(&model.Space{OwnerToken: "0123abcd"}))
	_, err = svc.ResumeDownload(ident, 4)
	assert.ErrorIs(t, err, ErrFileNotFound)
}
