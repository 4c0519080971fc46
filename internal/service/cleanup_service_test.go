package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voltride-motors/dealership-api/pkg/jobs"
)

type sweepStorageStub struct {
	stale   []string
	listErr error
	deleted []string
}

func (s *sweepStorageStub) ListOlderThan(ttl time.Duration) ([]string, error) {
	return s.stale, s.listErr
}

func (s *sweepStorageStub) Delete(filename string) error {
	s.deleted = append(s.deleted, filename)
	return nil
}

func (s *sweepStorageStub) PublicURL(filename string) string {
	return "/static/" + filename
}

type pathListerStub struct {
	paths []string
	err   error
}

func (p *pathListerStub) ListImagePaths(ctx context.Context) ([]string, error) {
	return p.paths, p.err
}

func TestCleanupSweepRemovesOnlyOrphans(t *testing.T) {
	storage := &sweepStorageStub{stale: []string{
		"listings/kept_by_url.jpg",
		"listings/kept_by_path.jpg",
		"listings/orphan.jpg",
	}}
	sources := []ImagePathLister{
		&pathListerStub{paths: []string{"/static/listings/kept_by_url.jpg"}},
		&pathListerStub{paths: []string{"listings/kept_by_path.jpg"}},
	}
	svc := NewCleanupService(storage, sources, nil, CleanupConfig{})

	require.NoError(t, svc.handleSweep(context.Background(), jobs.Job{}))
	require.Equal(t, []string{"listings/orphan.jpg"}, storage.deleted)
}

func TestCleanupSweepAbortsWhenSourceFails(t *testing.T) {
	storage := &sweepStorageStub{stale: []string{"listings/orphan.jpg"}}
	sources := []ImagePathLister{
		&pathListerStub{err: errors.New("db down")},
	}
	svc := NewCleanupService(storage, sources, nil, CleanupConfig{})

	require.Error(t, svc.handleSweep(context.Background(), jobs.Job{}))
	require.Empty(t, storage.deleted)
}

func TestCleanupSweepNoStaleFiles(t *testing.T) {
	storage := &sweepStorageStub{}
	svc := NewCleanupService(storage, nil, nil, CleanupConfig{})

	require.NoError(t, svc.handleSweep(context.Background(), jobs.Job{}))
	require.Empty(t, storage.deleted)
}
