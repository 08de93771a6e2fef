package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
)

type fakeAPI struct {
	objects map[string][]byte
	putErr  error
}

func newFakeAPI() *fakeAPI { return &fakeAPI{objects: map[string][]byte{}} }

func (f *fakeAPI) BucketExists(context.Context, string) (bool, error) { return true, nil }

func (f *fakeAPI) MakeBucket(context.Context, string, miniogo.MakeBucketOptions) error {
	return nil
}

func (f *fakeAPI) PutObject(_ context.Context, _, objectName string, reader io.Reader, _ int64,
	_ miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	if f.putErr != nil {
		return miniogo.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return miniogo.UploadInfo{}, err
	}
	f.objects[objectName] = data
	return miniogo.UploadInfo{Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeAPI) GetObject(context.Context, string, string, miniogo.GetObjectOptions) (*miniogo.Object, error) {
	return nil, errors.New("not implemented")
}

func TestStoreImage(t *testing.T) {
	api := newFakeAPI()
	store := NewArtifactStore(NewClientWithAPI(api, "pharmalens-artifacts", logging.NewNopLogger()), nil)

	key, err := store.StoreImage(context.Background(), "req-123", "2d", []byte("png2d"))
	require.NoError(t, err)
	assert.Equal(t, "analysis/req-123/2d.png", key)
	assert.Equal(t, []byte("png2d"), api.objects[key])
}

func TestStoreImage_EmptyData(t *testing.T) {
	store := NewArtifactStore(NewClientWithAPI(newFakeAPI(), "b", logging.NewNopLogger()), nil)

	_, err := store.StoreImage(context.Background(), "req-123", "2d", nil)
	require.Error(t, err)
}

func TestStoreImage_PutFailure(t *testing.T) {
	api := newFakeAPI()
	api.putErr = errors.New("access denied")
	store := NewArtifactStore(NewClientWithAPI(api, "b", logging.NewNopLogger()), nil)

	_, err := store.StoreImage(context.Background(), "req-123", "3d", []byte("png"))
	require.Error(t, err)
}
