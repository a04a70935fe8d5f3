// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package banner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velmoras/lectoria/internal/platform/apperr"
	"github.com/velmoras/lectoria/internal/platform/storage"
)

// # Test Doubles

type fakeRepository struct {
	banners map[string]*Banner
	order   []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{banners: make(map[string]*Banner)}
}

func (repo *fakeRepository) ListActive(_ context.Context) ([]Banner, error) {
	var active []Banner
	for _, id := range repo.order {
		if banner := repo.banners[id]; banner.IsActive {
			active = append(active, *banner)
		}
	}
	return active, nil
}

func (repo *fakeRepository) ListAll(_ context.Context) ([]Banner, error) {
	var all []Banner
	for _, id := range repo.order {
		all = append(all, *repo.banners[id])
	}
	return all, nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*Banner, error) {
	banner, found := repo.banners[id]
	if !found {
		return nil, apperr.NotFound("Banner")
	}
	copied := *banner
	return &copied, nil
}

func (repo *fakeRepository) Create(_ context.Context, banner *Banner) error {
	banner.Position = len(repo.order) + 1
	stored := *banner
	repo.banners[banner.ID] = &stored
	repo.order = append(repo.order, banner.ID)
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, banner *Banner) error {
	if _, found := repo.banners[banner.ID]; !found {
		return apperr.NotFound("Banner")
	}
	stored := *banner
	repo.banners[banner.ID] = &stored
	return nil
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	if _, found := repo.banners[id]; !found {
		return apperr.NotFound("Banner")
	}
	delete(repo.banners, id)
	for index, orderedID := range repo.order {
		if orderedID == id {
			repo.order = append(repo.order[:index], repo.order[index+1:]...)
			break
		}
	}
	return nil
}

func (repo *fakeRepository) Reorder(_ context.Context, ids []string) error {
	repo.order = ids
	for index, id := range ids {
		if banner, found := repo.banners[id]; found {
			banner.Position = index + 1
		}
	}
	return nil
}

type fakeBlobStore struct {
	uploads map[string][]byte
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (store *fakeBlobStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	content, _ := io.ReadAll(reader)
	store.uploads[key] = content
	return nil
}

func (store *fakeBlobStore) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (store *fakeBlobStore) Delete(_ context.Context, key string) error {
	store.deleted = append(store.deleted, key)
	return nil
}

func (store *fakeBlobStore) Exists(_ context.Context, key string) (bool, error) {
	_, found := store.uploads[key]
	return found, nil
}

func (store *fakeBlobStore) PublicURL(key string) string { return "https://cdn.test/" + key }

func (store *fakeBlobStore) Enabled() bool { return true }

// # Tests

func TestCreate_UploadsImage(t *testing.T) {
	repo := newFakeRepository()
	blobs := newFakeBlobStore()
	service := NewService(repo, blobs, slog.Default())

	banner, err := service.Create(context.Background(), Input{
		Title:         "Promo de verano",
		IsActive:      true,
		Image:         []byte("png-bytes"),
		ImageFilename: "promo.png",
	})

	require.NoError(t, err)
	assert.Contains(t, banner.ImageURL, "banners/"+banner.ID+".png")
	assert.Len(t, blobs.uploads, 1)
	assert.Equal(t, 1, banner.Position)
}

func TestCreate_AcceptsExternalImageURL(t *testing.T) {
	service := NewService(newFakeRepository(), newFakeBlobStore(), slog.Default())

	banner, err := service.Create(context.Background(), Input{
		Title:    "Externo",
		ImageURL: "https://example.com/slide.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/slide.jpg", banner.ImageURL)
}

func TestCreate_RequiresImage(t *testing.T) {
	service := NewService(newFakeRepository(), newFakeBlobStore(), slog.Default())

	_, err := service.Create(context.Background(), Input{Title: "Sin imagen"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestCreate_RejectsDisabledStorageForUploads(t *testing.T) {
	service := NewService(newFakeRepository(), storage.NewDisabled(), slog.Default())

	_, err := service.Create(context.Background(), Input{
		Title:         "Promo",
		Image:         []byte("bytes"),
		ImageFilename: "promo.jpg",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNPROCESSABLE", ae.Code)
}

func TestDelete_RemovesManagedImage(t *testing.T) {
	repo := newFakeRepository()
	blobs := newFakeBlobStore()
	service := NewService(repo, blobs, slog.Default())

	banner, err := service.Create(context.Background(), Input{
		Title:         "Temporal",
		Image:         []byte("bytes"),
		ImageFilename: "slide.webp",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), banner.ID))

	assert.Empty(t, repo.banners)
	require.Len(t, blobs.deleted, 1)
	assert.Equal(t, "banners/"+banner.ID+".webp", blobs.deleted[0])
}

func TestDelete_LeavesExternalImagesAlone(t *testing.T) {
	repo := newFakeRepository()
	blobs := newFakeBlobStore()
	service := NewService(repo, blobs, slog.Default())

	banner, err := service.Create(context.Background(), Input{
		Title:    "Externo",
		ImageURL: "https://example.com/slide.jpg",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), banner.ID))
	assert.Empty(t, blobs.deleted)
}

func TestReorder_RewritesPositions(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, newFakeBlobStore(), slog.Default())

	first, err := service.Create(context.Background(), Input{Title: "Uno", ImageURL: "https://x/1.jpg"})
	require.NoError(t, err)
	second, err := service.Create(context.Background(), Input{Title: "Dos", ImageURL: "https://x/2.jpg"})
	require.NoError(t, err)

	require.NoError(t, service.Reorder(context.Background(), []string{second.ID, first.ID}))

	all, err := service.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Dos", all[0].Title)
	assert.Equal(t, 1, all[0].Position)
	assert.Equal(t, "Uno", all[1].Title)
}

func TestReorder_ValidatesIDs(t *testing.T) {
	service := NewService(newFakeRepository(), newFakeBlobStore(), slog.Default())

	err := service.Reorder(context.Background(), []string{"not-a-uuid"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestListActive_FiltersInactive(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo, newFakeBlobStore(), slog.Default())

	_, err := service.Create(context.Background(), Input{Title: "Activo", IsActive: true, ImageURL: "https://x/1.jpg"})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), Input{Title: "Oculto", IsActive: false, ImageURL: "https://x/2.jpg"})
	require.NoError(t, err)

	active, err := service.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Activo", active[0].Title)
}
