package s3_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/object-storage/s3"
	"github.com/exb-museum/exb-admin/pkg/testutils"
)

func newClient(t *testing.T) *s3.S3 {
	env := testutils.RequireEnv(t,
		"TEST_EXB_S3_ENDPOINT",
		"TEST_EXB_S3_BUCKET",
		"TEST_EXB_S3_ACCESS_KEY",
		"TEST_EXB_S3_SECRET_KEY",
	)
	return s3.NewS3Client(
		env["TEST_EXB_S3_ENDPOINT"],
		testutils.GetEnvOrDefault("TEST_EXB_S3_REGION", "us-east-1"),
		env["TEST_EXB_S3_BUCKET"],
		env["TEST_EXB_S3_ACCESS_KEY"],
		env["TEST_EXB_S3_SECRET_KEY"],
		s3.WithPathStyle(testutils.GetEnvOrDefault("TEST_EXB_S3_PATH_STYLE", "true") == "true"),
	)
}

func Test_UploadGetDelete(t *testing.T) {
	cli := newClient(t)
	ctx := context.Background()

	key := fmt.Sprintf("/museum/media/test/%d.txt", time.Now().UnixNano())
	require.NoError(t, cli.Upload(ctx, key, "text/plain", bytes.NewReader([]byte("hello museum"))))

	res, err := cli.GetObject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "hello museum", string(res.File))

	url, err := cli.GenGetObjectPreSignURL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	require.NoError(t, cli.Delete(ctx, key))
}
