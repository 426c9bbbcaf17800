package blobstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"Key":"images/photo-1"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "images", "service-key", slogt.New(t))
	path, err := c.Upload(context.Background(), "photo-1", []byte("binary image data"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "images/photo-1", path)
	assert.Equal(t, "/storage/v1/object/images/photo-1", gotPath)
	assert.Equal(t, "image/png", gotContentType)
	assert.Equal(t, []byte("binary image data"), gotBody)
}

func TestUpload_DefaultsContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		io.WriteString(w, `{"Key":"images/x"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "images", "", slogt.New(t))
	_, err := c.Upload(context.Background(), "x", []byte{1}, "")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", gotContentType)
}

func TestUpload_RejectedByService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"message":"bucket policy violation"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "images", "key", slogt.New(t))
	_, err := c.Upload(context.Background(), "x", []byte{1}, "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUploadRejected)
}

func TestUpload_InputValidation(t *testing.T) {
	c := NewHTTPClient("http://unused.test", "images", "key", slogt.New(t))

	_, err := c.Upload(context.Background(), "", []byte{1}, "image/png")
	assert.ErrorContains(t, err, "name")

	_, err = c.Upload(context.Background(), "x", nil, "image/png")
	assert.ErrorContains(t, err, "data")

	huge := bytes.Repeat([]byte{0}, maxUploadSize+1)
	_, err = c.Upload(context.Background(), "x", huge, "image/png")
	assert.ErrorContains(t, err, "exceeds maximum")
}

func TestUpload_MissingKeyInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "images", "key", slogt.New(t))
	_, err := c.Upload(context.Background(), "x", []byte{1}, "image/png")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "key"))
}
