//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/cloo-solutions/classmate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Client_PublishAndFetch(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewS3Container(ctx, t)

	client, err := NewS3Client(ctx, S3ClientConfig{
		Endpoint:        store.Endpoint,
		Region:          "us-east-1",
		AccessKeyID:     store.AccessKey,
		SecretAccessKey: store.SecretKey,
		Bucket:          "classmate-knowledge",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	require.NoError(t, client.EnsureBucket(ctx))

	doc := []byte(`{"school": {"principal": "Mrs Naidoo"}}`)
	require.NoError(t, client.PutObject(ctx, "knowledge.json", "application/json", doc))

	meta, err := client.HeadObject(ctx, "knowledge.json")
	require.NoError(t, err)
	assert.Equal(t, int64(len(doc)), meta.ContentLength)

	src, err := Open("s3://classmate-knowledge/knowledge.json", OpenOptions{S3: client})
	require.NoError(t, err)
	got, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}
