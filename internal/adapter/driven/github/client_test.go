package github_test

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	ghAdapter "github.com/ericfisherdev/myfoliopanel/internal/adapter/driven/github"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContents emulates the subset of the GitHub contents API used by the
// adapter, including SHA checks on update.
type fakeContents struct {
	mu        sync.Mutex
	files     map[string]fakeFile // keyed by owner/repo/path
	authSeen  []string
	revisions int
}

type fakeFile struct {
	content []byte
	sha     string
}

type putBody struct {
	Message string  `json:"message"`
	Content string  `json:"content"`
	SHA     *string `json:"sha,omitempty"`
}

func newFakeContents() *fakeContents {
	return &fakeContents{files: make(map[string]fakeFile)}
}

func (f *fakeContents) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{path...}", f.get)
	mux.HandleFunc("PUT /repos/{owner}/{repo}/contents/{path...}", f.put)
	return mux
}

func (f *fakeContents) key(r *http.Request) string {
	return r.PathValue("owner") + "/" + r.PathValue("repo") + "/" + r.PathValue("path")
}

// externalWrite replaces a file as if another client had pushed it.
func (f *fakeContents) externalWrite(key string, content []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store(key, content)
}

// store must be called with mu held.
func (f *fakeContents) store(key string, content []byte) string {
	f.revisions++
	sum := sha1.Sum(append([]byte(fmt.Sprintf("%d:", f.revisions)), content...))
	sha := hex.EncodeToString(sum[:])
	f.files[key] = fakeFile{content: content, sha: sha}
	return sha
}

func (f *fakeContents) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))

	file, ok := f.files[f.key(r)]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":     "file",
		"path":     r.PathValue("path"),
		"encoding": "base64",
		"content":  wrapBase64(base64.StdEncoding.EncodeToString(file.content)),
		"sha":      file.sha,
	})
}

func (f *fakeContents) put(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))

	var body putBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	content, err := base64.StdEncoding.DecodeString(body.Content)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "content is not valid Base64"})
		return
	}

	key := f.key(r)
	existing, exists := f.files[key]
	switch {
	case exists && body.SHA == nil:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid request.\n\n\"sha\" wasn't supplied."})
		return
	case exists && *body.SHA != existing.sha:
		writeJSON(w, http.StatusConflict, map[string]string{
			"message": fmt.Sprintf("%s does not match %s", r.PathValue("path"), *body.SHA),
		})
		return
	}

	sha := f.store(key, content)
	status := http.StatusOK
	if !exists {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"content": map[string]any{"path": r.PathValue("path"), "sha": sha},
		"commit":  map[string]any{"sha": "commit-" + sha, "message": body.Message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// wrapBase64 breaks encoded content into 60-character lines like GitHub does.
func wrapBase64(s string) string {
	var b strings.Builder
	for len(s) > 60 {
		b.WriteString(s[:60])
		b.WriteByte('\n')
		s = s[60:]
	}
	b.WriteString(s)
	return b.String()
}

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *ghAdapter.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/", "test-token")
	require.NoError(t, err)

	return client
}

const dataPath = "public/data.json"

func TestGetFile_NotFound(t *testing.T) {
	fake := newFakeContents()
	client := newTestClient(t, fake.handler())

	file, err := client.GetFile(context.Background(), "owner", "repo", dataPath)

	require.NoError(t, err)
	assert.Nil(t, file)
	assert.Equal(t, []string{"Bearer test-token"}, fake.authSeen)
}

func TestGetFile_DecodesContent(t *testing.T) {
	fake := newFakeContents()
	payload := []byte(strings.Repeat(`{"hero":{"name":"Ada"}}`, 10))
	sha := fake.externalWrite("owner/repo/"+dataPath, payload)
	client := newTestClient(t, fake.handler())

	file, err := client.GetFile(context.Background(), "owner", "repo", dataPath)

	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, payload, file.Content)
	assert.Equal(t, sha, file.SHA)
}

func TestGetFile_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	client := newTestClient(t, handler)

	file, err := client.GetFile(context.Background(), "owner", "repo", dataPath)

	require.Error(t, err)
	assert.Nil(t, file)
	assert.Contains(t, err.Error(), "owner/repo")
}

func TestGetFile_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	})
	client := newTestClient(t, handler)

	_, err := client.GetFile(context.Background(), "owner", "repo", dataPath)

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrStaleRevision)
}

func TestPutFile_FirstWriteThenFetch(t *testing.T) {
	fake := newFakeContents()
	client := newTestClient(t, fake.handler())
	ctx := context.Background()
	payload := []byte(`{"theme":{}}`)

	sha, err := client.PutFile(ctx, "owner", "repo", dataPath, driven.FileWrite{
		Content: payload,
		Message: "Update portfolio data",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sha)

	file, err := client.GetFile(ctx, "owner", "repo", dataPath)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, payload, file.Content)
	assert.Equal(t, sha, file.SHA)
}

func TestPutFile_UpdateWithCurrentSHA(t *testing.T) {
	fake := newFakeContents()
	client := newTestClient(t, fake.handler())
	ctx := context.Background()

	first, err := client.PutFile(ctx, "owner", "repo", dataPath, driven.FileWrite{Content: []byte(`1`), Message: "one"})
	require.NoError(t, err)

	second, err := client.PutFile(ctx, "owner", "repo", dataPath, driven.FileWrite{Content: []byte(`2`), Message: "two", SHA: first})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestPutFile_StaleSHARejected(t *testing.T) {
	fake := newFakeContents()
	client := newTestClient(t, fake.handler())
	ctx := context.Background()

	first, err := client.PutFile(ctx, "owner", "repo", dataPath, driven.FileWrite{Content: []byte(`1`), Message: "one"})
	require.NoError(t, err)

	_, err = client.PutFile(ctx, "owner", "repo", dataPath, driven.FileWrite{Content: []byte(`2`), Message: "two", SHA: first})
	require.NoError(t, err)

	// Reusing the first token after another write must be rejected.
	_, err = client.PutFile(ctx, "owner", "repo", dataPath, driven.FileWrite{Content: []byte(`3`), Message: "three", SHA: first})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStaleRevision)

	file, err := client.GetFile(ctx, "owner", "repo", dataPath)
	require.NoError(t, err)
	assert.Equal(t, []byte(`2`), file.Content)
}

func TestPutFile_MissingSHAOnExistingFileRejected(t *testing.T) {
	fake := newFakeContents()
	fake.externalWrite("owner/repo/"+dataPath, []byte(`external`))
	client := newTestClient(t, fake.handler())

	_, err := client.PutFile(context.Background(), "owner", "repo", dataPath, driven.FileWrite{Content: []byte(`mine`), Message: "m"})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStaleRevision)
}

func TestPutFile_OtherErrorsAreNotStale(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Resource not accessible by personal access token"})
	})
	client := newTestClient(t, handler)

	_, err := client.PutFile(context.Background(), "owner", "repo", dataPath, driven.FileWrite{Content: []byte(`x`), Message: "m"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrStaleRevision)
}

func TestPutFile_SendsBase64AndMessage(t *testing.T) {
	var got putBody
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/owner/repo/contents/"+dataPath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, map[string]any{"content": map[string]any{"sha": "abc"}})
	})
	client := newTestClient(t, handler)

	sha, err := client.PutFile(context.Background(), "owner", "repo", dataPath, driven.FileWrite{
		Content: []byte(`{"a":1}`),
		Message: "Update portfolio data",
	})

	require.NoError(t, err)
	assert.Equal(t, "abc", sha)
	assert.Equal(t, "Update portfolio data", got.Message)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)), got.Content)
	assert.Nil(t, got.SHA)
}

func TestNewClient_EnterpriseURL(t *testing.T) {
	_, err := ghAdapter.NewClient("token", "https://ghe.example.com/api/v3/")
	require.NoError(t, err)

	_, err = ghAdapter.NewClient("token", "")
	require.NoError(t, err)
}

func TestNewClient_RevalidatesCachedContent(t *testing.T) {
	var (
		mu          sync.Mutex
		content     = []byte(`{"v":1}`)
		etag        = `"v1"`
		conditional int
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v3/repos/{owner}/{repo}/contents/{path...}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		w.Header().Set("Cache-Control", "private, max-age=60")
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			conditional++
			w.WriteHeader(http.StatusNotModified)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"type":     "file",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString(content),
			"sha":      etag,
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClient("token", server.URL+"/api/v3/")
	require.NoError(t, err)
	ctx := context.Background()

	first, err := client.GetFile(ctx, "owner", "repo", dataPath)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := client.GetFile(ctx, "owner", "repo", dataPath)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.SHA, second.SHA)

	mu.Lock()
	assert.Equal(t, 1, conditional, "cached response should be revalidated")
	content = []byte(`{"v":2}`)
	etag = `"v2"`
	mu.Unlock()

	third, err := client.GetFile(ctx, "owner", "repo", dataPath)
	require.NoError(t, err)
	require.NotNil(t, third)
	assert.JSONEq(t, `{"v":2}`, string(third.Content))
}
