package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"studio/media"
	"studio/storage"
	"studio/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	alice = "user_alice"
	bob   = "user_bob"
)

type fakeProber struct {
	mu      sync.Mutex
	result  media.Result
	err     error
	sources []string
}

func (f *fakeProber) Inspect(_ context.Context, source string) (media.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	return f.result, f.err
}

func (f *fakeProber) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sources...)
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	prober *fakeProber
	tokens map[string]string
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	testutil.SetupConfig(t)
	db := testutil.SetupDatabase(t)

	previousStore := storage.Files
	storage.Files = storage.NewUploadThing("http://127.0.0.1:1", "", "https://utfs.io")
	prober := &fakeProber{result: media.Result{
		Streams: []media.Stream{{Index: 0, CodecName: "h264", CodecType: "video"}},
		Format:  media.Format{Duration: "42.5"},
	}}
	previousProber := media.DefaultProber
	media.DefaultProber = prober
	t.Cleanup(func() {
		storage.Files = previousStore
		media.DefaultProber = previousProber
	})

	return &testEnv{
		app:    NewApp(),
		db:     db,
		prober: prober,
		tokens: map[string]string{
			alice: testutil.Token(t, alice),
			bob:   testutil.Token(t, bob),
		},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a JSON request as user (no token when user is "").
func (e *testEnv) do(t *testing.T, user, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[user])
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return resp.StatusCode, env
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out), "data: %s", env.Data)
}
