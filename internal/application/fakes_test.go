package application_test

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/myfoliopanel/internal/application"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/port/driven"
)

var (
	_ driven.KVStore      = (*memKV)(nil)
	_ driven.ContentStore = (*fakeContent)(nil)
	_ driven.SeedSource   = (*fakeSeed)(nil)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memKV is an in-memory KVStore with injectable failures.
type memKV struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	setErr  error
	delErr  error
	sets    int
}

func newMemKV() *memKV {
	return &memKV{entries: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = value
	m.sets++
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.entries, key)
	return nil
}

func (m *memKV) raw(key model.StoreKey) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[string(key)]
	return v, ok
}

func (m *memKV) put(key model.StoreKey, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[string(key)] = value
}

// fakeContent is an in-memory ContentStore that enforces revision tokens the
// way the contents API does.
type fakeContent struct {
	mu        sync.Mutex
	files     map[string]driven.RemoteFile
	revisions int
	getErr    error
	putErr    error
	writes    []driven.FileWrite

	// onGet runs at the start of every GetFile, outside the lock.
	onGet func()
	// beforePut runs after the caller read the revision and before the write
	// is checked, to simulate a concurrent writer.
	beforePut func()
}

func newFakeContent() *fakeContent {
	return &fakeContent{files: make(map[string]driven.RemoteFile)}
}

func fileKey(owner, repo, path string) string {
	return owner + "/" + repo + "/" + path
}

func (f *fakeContent) GetFile(_ context.Context, owner, repo, path string) (*driven.RemoteFile, error) {
	if f.onGet != nil {
		f.onGet()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	file, ok := f.files[fileKey(owner, repo, path)]
	if !ok {
		return nil, nil
	}
	return &driven.RemoteFile{Content: append([]byte(nil), file.Content...), SHA: file.SHA}, nil
}

func (f *fakeContent) PutFile(_ context.Context, owner, repo, path string, req driven.FileWrite) (string, error) {
	if f.beforePut != nil {
		f.beforePut()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, req)
	if f.putErr != nil {
		return "", f.putErr
	}

	key := fileKey(owner, repo, path)
	if existing, ok := f.files[key]; ok && existing.SHA != req.SHA {
		return "", fmt.Errorf("%w: %s does not match %s", model.ErrStaleRevision, path, req.SHA)
	}
	return f.write(key, req.Content), nil
}

// externalWrite stores content as if another client had pushed it.
func (f *fakeContent) externalWrite(owner, repo, path string, content []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(fileKey(owner, repo, path), content)
}

// write must be called with mu held.
func (f *fakeContent) write(key string, content []byte) string {
	f.revisions++
	sum := sha1.Sum(append([]byte(fmt.Sprintf("%d:", f.revisions)), content...))
	sha := hex.EncodeToString(sum[:])
	f.files[key] = driven.RemoteFile{Content: append([]byte(nil), content...), SHA: sha}
	return sha
}

func (f *fakeContent) content(owner, repo, path string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[fileKey(owner, repo, path)]
	return file.Content, ok
}

// fakeSeed is a SeedSource returning a fixed document.
type fakeSeed struct {
	raw   []byte
	err   error
	calls int
}

func (s *fakeSeed) FetchSeed(context.Context) ([]byte, error) {
	s.calls++
	return s.raw, s.err
}

func newStore(kv driven.KVStore) *application.LocalStore {
	return application.NewLocalStore(kv, discardLogger())
}

func newBox() *application.SecretBox {
	return application.NewSecretBox(application.NewStaticKeyProvider(""))
}

// readyManager returns an initialized manager over kv.
func readyManager(ctx context.Context, kv *memKV) (*application.PortfolioManager, error) {
	m := application.NewPortfolioManager(newStore(kv), nil, discardLogger())
	if err := m.Init(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func testGitHubConfig() model.GitHubConfig {
	return model.GitHubConfig{Token: "ghp_test", Owner: "ada", Repo: "portfolio"}
}
