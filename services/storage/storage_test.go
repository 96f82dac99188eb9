package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvault/client-sdk-go/utils"
)

const testCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func newPinServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{JWT: "test-jwt", APIURL: server.URL, GatewayURL: "https://gw.example/ipfs"})
}

func TestUpload(t *testing.T) {
	var gotAuth, gotBody, gotMeta, gotName string
	c := newPinServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pinFilePath, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotBody = string(data)
		gotName = header.Filename
		gotMeta = r.FormValue("pinataMetadata")

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"IpfsHash": testCID, "PinSize": len(data)})
	})

	var lastProgress utils.FileProgress
	content := "title deed for 12 Main St"
	cid, err := c.Upload(context.Background(), "deed.txt", strings.NewReader(content),
		WithPinName("12 Main St"),
		WithProgress(int64(len(content)), func(p utils.FileProgress) { lastProgress = p }),
	)
	require.NoError(t, err)

	assert.Equal(t, testCID, cid)
	assert.Equal(t, "Bearer test-jwt", gotAuth)
	assert.Equal(t, content, gotBody)
	assert.Equal(t, "deed.txt", gotName)
	assert.JSONEq(t, `{"name":"12 Main St"}`, gotMeta)
	assert.Equal(t, 100, lastProgress.Percentage)
}

func TestUpload_FailingEndpoint(t *testing.T) {
	var calls atomic.Int32
	c := newPinServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"reason":"INVALID_CREDENTIALS"}}`))
	})

	cid, err := c.Upload(context.Background(), "deed.txt", strings.NewReader("data"))
	require.Error(t, err)
	assert.Empty(t, cid)

	var uploadErr *UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, http.StatusUnauthorized, uploadErr.StatusCode)
	assert.Contains(t, uploadErr.Body, "INVALID_CREDENTIALS")
	assert.Equal(t, int32(1), calls.Load(), "uploads are not retried")
}

func TestUpload_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewClient(Config{JWT: "jwt", APIURL: url})
	_, err := c.Upload(context.Background(), "a.bin", strings.NewReader("x"))
	require.Error(t, err)
	var uploadErr *UploadError
	assert.False(t, errors.As(err, &uploadErr))
}

func TestUpload_MissingHash(t *testing.T) {
	c := newPinServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := c.Upload(context.Background(), "a.bin", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestUploadFile(t *testing.T) {
	var gotMeta string
	c := newPinServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotMeta = r.FormValue("pinataMetadata")
		_, _ = w.Write([]byte(`{"IpfsHash":"` + testCID + `"}`))
	})

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8, 0xff}, 0o600))

	cid, err := c.UploadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, testCID, cid)
	assert.JSONEq(t, `{"name":"photo.jpg"}`, gotMeta)

	_, err = c.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	c := NewClient(Config{GatewayURL: "https://gw.example/ipfs/"})
	hexCID := utils.EncodeUTF8Hex(testCID)

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"cid", testCID, c.GatewayURL(testCID), true},
		{"cid with 0x", "0x" + testCID, c.GatewayURL(testCID), true},
		{"hex encoded cid", hexCID, c.GatewayURL(testCID), true},
		{"hex without prefix", strings.TrimPrefix(hexCID, "0x"), c.GatewayURL(testCID), true},
		{"malformed hex", "0xzz12", "", false},
		{"empty", "", "", false},
		{"bare prefix", "0x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ResolveURL(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveURL_Idempotent(t *testing.T) {
	c := NewClient(Config{})
	first, ok := c.ResolveURL(testCID)
	require.True(t, ok)
	assert.Equal(t, DefaultGatewayURL+testCID, first)

	again, ok := c.ResolveURL(strings.TrimPrefix(first, DefaultGatewayURL))
	require.True(t, ok)
	assert.Equal(t, first, again)
}

func TestNewClient_GatewaySlash(t *testing.T) {
	c := NewClient(Config{GatewayURL: "https://gw.example/ipfs"})
	assert.Equal(t, "https://gw.example/ipfs/"+testCID, c.GatewayURL(testCID))
}
