package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/studio-cli/internal/api"
	"github.com/gravitrone/studio-cli/internal/imagecache"
	"github.com/gravitrone/studio-cli/internal/logging"
	"github.com/gravitrone/studio-cli/internal/studio"
)

// studioServer is an in-memory media server speaking the studio routes.
type studioServer struct {
	mu         sync.Mutex
	studios    map[string]api.Studio
	nextID     int
	requests   []string
	updates    []map[string]any
	creates    []map[string]any
	imageHits  int
	bypassHits int
	failDelete bool
	failLoad   bool
	image      []byte
}

func newStudioServer(t *testing.T, seed ...api.Studio) (*studioServer, *httptest.Server) {
	t.Helper()
	s := &studioServer{studios: map[string]api.Studio{}, nextID: 42}
	for _, st := range seed {
		s.studios[st.ID] = st
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	s.image = buf.Bytes()

	srv := httptest.NewServer(s.handler(t))
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *studioServer) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
}

func (s *studioServer) requestLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *studioServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	writeData := func(w http.ResponseWriter, v any) {
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": v}))
	}
	writeErr := func(w http.ResponseWriter, status int, code, message string) {
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"code": code, "message": message}}))
	}

	mux.HandleFunc("GET /api/studios", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.mu.Lock()
		items := make([]api.Studio, 0, len(s.studios))
		for _, st := range s.studios {
			items = append(items, st)
		}
		s.mu.Unlock()
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
		writeData(w, items)
	})
	mux.HandleFunc("GET /api/studios/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.mu.Lock()
		st, ok := s.studios[r.PathValue("id")]
		fail := s.failLoad
		s.mu.Unlock()
		switch {
		case fail:
			writeErr(w, http.StatusInternalServerError, "INTERNAL", "database unavailable")
		case !ok:
			writeErr(w, http.StatusNotFound, "NOT_FOUND", "studio not found")
		default:
			writeData(w, st)
		}
	})
	mux.HandleFunc("POST /api/studios", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		s.mu.Lock()
		id := fmt.Sprint(s.nextID)
		s.nextID++
		st := api.Studio{ID: id, Name: fmt.Sprint(body["name"])}
		if v, ok := body["url"].(string); ok {
			st.URL = v
		}
		if _, ok := body["image"]; ok {
			st.ImagePath = "/studio/" + id + "/image"
		}
		s.studios[id] = st
		s.creates = append(s.creates, body)
		s.mu.Unlock()
		writeData(w, st)
	})
	mux.HandleFunc("PUT /api/studios/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		s.mu.Lock()
		st, ok := s.studios[r.PathValue("id")]
		if ok {
			if v, set := body["name"].(string); set {
				st.Name = v
			}
			if v, set := body["url"].(string); set {
				st.URL = v
			}
			if _, set := body["image"]; set {
				st.ImagePath = "/studio/" + st.ID + "/image"
			}
			s.studios[st.ID] = st
		}
		s.updates = append(s.updates, body)
		s.mu.Unlock()
		if !ok {
			writeErr(w, http.StatusNotFound, "NOT_FOUND", "studio not found")
			return
		}
		writeData(w, st)
	})
	mux.HandleFunc("POST /api/studios/destroy", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		var body api.StudioDestroyInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		s.mu.Lock()
		fail := s.failDelete
		if !fail {
			delete(s.studios, body.ID)
		}
		s.mu.Unlock()
		if fail {
			writeErr(w, http.StatusConflict, "CONFLICT", "studio has scenes")
			return
		}
		writeData(w, true)
	})
	mux.HandleFunc("POST /api/metadata/auto_tag", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeData(w, api.JobStarted{JobID: "job-1"})
	})
	mux.HandleFunc("GET /studio/{id}/image", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		s.mu.Lock()
		s.imageHits++
		if r.Header.Get("Cache-Control") == "no-cache" {
			s.bypassHits++
		}
		data := s.image
		s.mu.Unlock()
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	})
	return mux
}

func testDeps(t *testing.T, srv *httptest.Server, opts studio.Options) Deps {
	t.Helper()
	client := api.NewClient(srv.URL, "stu_testkey")
	images, err := imagecache.New(client, imagecache.DefaultSize)
	require.NoError(t, err)
	logger := logging.NewNop()
	return Deps{
		Client:     client,
		Dispatcher: studio.NewDispatcher(client, images, opts, logger),
		Images:     images,
		Logger:     logger,
	}
}

// runCmd executes cmd and any commands it batches. Commands that wait on a
// timer (toast expiry, cursor blink) are abandoned.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}

// settle feeds every message produced by cmd back into the app until the
// queue drains. Spinner ticks are dropped so the loop ends.
func settle(t *testing.T, app App, cmd tea.Cmd) App {
	t.Helper()
	queue := runCmd(cmd)
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 100, "message loop did not settle")
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		model, next := app.Update(msg)
		app = model.(App)
		queue = append(queue, runCmd(next)...)
	}
	return app
}

// press sends one key to the app and settles the result.
func press(t *testing.T, app App, msg tea.KeyMsg) App {
	t.Helper()
	model, cmd := app.Update(msg)
	return settle(t, model.(App), cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText delivers s as one burst of typed runes.
func typeText(t *testing.T, app App, s string) App {
	t.Helper()
	return press(t, app, runes(s))
}

// startApp builds an app on route and runs its initial commands.
func startApp(t *testing.T, deps Deps, route string) App {
	t.Helper()
	app := NewApp(deps, route)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app = model.(App)
	return settle(t, app, app.Init())
}
