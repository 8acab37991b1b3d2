package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/config"
	"hireflow/internal/logging"
)

func testSpaces(t *testing.T) *Spaces {
	t.Helper()
	s, err := NewSpaces(config.SpacesConfig{
		AccessKeyID:     "AKIDEXAMPLE",
		AccessKeySecret: "secret",
		Region:          "blr1",
		BucketName:      "hireflow-test",
		UploadURLTTL:    10 * time.Minute,
	}, logging.NewMultiLogger())
	require.NoError(t, err)
	return s
}

func TestNewSpacesRequiresCredentials(t *testing.T) {
	_, err := NewSpaces(config.SpacesConfig{BucketName: "b"}, logging.NewMultiLogger())
	assert.Error(t, err)
}

func TestPresignUpload(t *testing.T) {
	s := testSpaces(t)

	upload, err := s.PresignUpload(context.Background(), "application/pdf")
	require.NoError(t, err)
	assert.True(t, ValidKey(upload.Key))
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), upload.ExpiresAt, time.Minute)

	u, err := url.Parse(upload.URL)
	require.NoError(t, err)
	assert.Equal(t, "hireflow-test.blr1.digitaloceanspaces.com", u.Host)
	assert.Equal(t, "/"+upload.Key, u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
}

func TestPresignUploadKeysAreUnique(t *testing.T) {
	s := testSpaces(t)

	a, err := s.PresignUpload(context.Background(), "")
	require.NoError(t, err)
	b, err := s.PresignUpload(context.Background(), "")
	require.NoError(t, err)
	assert.NotEqual(t, a.Key, b.Key)
}

func TestPresignUploadRejectsNonDocuments(t *testing.T) {
	s := testSpaces(t)

	_, err := s.PresignUpload(context.Background(), "image/png")
	assert.ErrorIs(t, err, ErrContentType)

	_, err = s.PresignUpload(context.Background(), "Application/PDF; charset=binary")
	assert.NoError(t, err)
}

func TestPresignUploadReportsSignedContentType(t *testing.T) {
	s := testSpaces(t)

	upload, err := s.PresignUpload(context.Background(), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", upload.ContentType)

	u, err := url.Parse(upload.URL)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("X-Amz-SignedHeaders"), "content-type")

	upload, err = s.PresignUpload(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, upload.ContentType)
}

func TestPresignDownload(t *testing.T) {
	s := testSpaces(t)

	upload, err := s.PresignUpload(context.Background(), "")
	require.NoError(t, err)

	link, err := s.PresignDownload(context.Background(), upload.Key)
	require.NoError(t, err)
	assert.True(t, strings.Contains(link, upload.Key))

	_, err = s.PresignDownload(context.Background(), "../secrets")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestDisabled(t *testing.T) {
	var store ObjectStore = Disabled{}

	_, err := store.PresignUpload(context.Background(), "")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = store.PresignDownload(context.Background(), KeyPrefix+"x")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, store.Healthy(context.Background()), ErrDisabled)
}
