package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"logistics-console/internal/config"
	"logistics-console/internal/logx"
	"logistics-console/internal/schedule"
	"logistics-console/internal/session"
)

type fakeBackend struct {
	expired atomic.Bool
	srv     *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Credenciales inválidas"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok","user":{"id":1,"username":"ana","role":"admin"}}`))
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if fb.expired.Load() || r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Token inválido o expirado"}`))
			return
		}
		_, _ = w.Write([]byte(`{"orders":[` +
			`{"id":1,"status":"En espera","origin_address":"Calle 1, Medellín, Antioquia","destination_address":"Calle 2, Cali, Valle del Cauca","package_type":"Caja","tracking_code":"TRK1","created_at":"2026-03-01T10:00:00Z"},` +
			`{"id":2,"status":"Entregado","origin_address":"Calle 3, Bogotá, Cundinamarca","destination_address":"Calle 4, Cali, Valle del Cauca","package_type":"Sobre","tracking_code":"TRK2","created_at":"2026-03-02T10:00:00Z"}]}`))
	})
	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		APIURL:         apiURL,
		Port:           8080,
		SessionPath:    "unused",
		RequestTimeout: 2 * time.Second,
		RefreshDelay:   time.Millisecond,
		Geo:            config.Geo{DatasetURL: apiURL + "/geo.json", CacheTTL: time.Minute},
		Pprof:          config.Pprof{Addr: "127.0.0.1:0"},
		Log:            config.Log{Format: "text", Level: "info"},
	}
}

func buildTestContainer(t *testing.T, cfg *config.Config, store session.Storage) *dig.Container {
	t.Helper()
	c, err := NewContainerBuilder(cfg).
		WithStorage(store).
		WithRegisterer(prometheus.NewRegistry()).
		WithScheduler(&schedule.Manual{}).
		WithLogger(logx.Nop()).
		Build(context.Background())
	require.NoError(t, err)
	return c
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}

func TestContainerBuilder_NilConfig(t *testing.T) {
	t.Parallel()

	_, err := NewContainerBuilder(nil).Build(context.Background())
	require.Error(t, err)
}

func TestContainerBuilder_MustBuildReportsFailure(t *testing.T) {
	t.Parallel()

	var msg string
	NewContainerBuilder(nil).
		WithLogFatalf(func(format string, args ...interface{}) { msg = format }).
		MustBuild(context.Background())
	require.Contains(t, msg, "failed to build container")
}

type httpServersIn struct {
	dig.In

	Main  *http.Server
	Pprof *http.Server `name:"pprof_server" optional:"true"`
}

func TestRegisterHTTP_Servers(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)

	tests := []struct {
		name  string
		pprof bool
	}{
		{"pprof disabled", false},
		{"pprof enabled", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(fb.srv.URL)
			cfg.Pprof.Enabled = tt.pprof
			c := buildTestContainer(t, cfg, session.NewMemoryStorage())

			err := c.Invoke(func(in httpServersIn) {
				require.NotNil(t, in.Main)
				require.Equal(t, ":8080", in.Main.Addr)
				require.Greater(t, in.Main.ReadHeaderTimeout, time.Duration(0))
				require.Greater(t, in.Main.WriteTimeout, 30*time.Second)
				if tt.pprof {
					require.NotNil(t, in.Pprof)
					require.Equal(t, cfg.Pprof.Addr, in.Pprof.Addr)

					r := httptest.NewRequest(http.MethodGet, "/debug/workflows", nil)
					r.RemoteAddr = "127.0.0.1:40000"
					w := httptest.NewRecorder()
					in.Pprof.Handler.ServeHTTP(w, r)
					require.Equal(t, http.StatusOK, w.Code)
					require.JSONEq(t, `[]`, w.Body.String())

					r = httptest.NewRequest(http.MethodGet, "/debug/metrics", nil)
					r.RemoteAddr = "127.0.0.1:40000"
					w = httptest.NewRecorder()
					in.Pprof.Handler.ServeHTTP(w, r)
					require.Equal(t, http.StatusOK, w.Code)
					require.Contains(t, w.Body.String(), "rate_limit_exceeded_total")
				} else {
					require.Nil(t, in.Pprof)
				}
			})
			require.NoError(t, err)
		})
	}
}

func TestContainer_RestoresPersistedSession(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	store := session.NewMemoryStorage()
	require.NoError(t, store.Save(context.Background(), session.Snapshot{Token: "tok"}))

	console, err := ConsoleFrom(buildTestContainer(t, testConfig(fb.srv.URL), store))
	require.NoError(t, err)
	defer console.Close()

	token, ok := console.Session.Token()
	require.True(t, ok)
	require.Equal(t, "tok", token)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestContainer_DashboardSessionLifecycle(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	c := buildTestContainer(t, testConfig(fb.srv.URL), session.NewMemoryStorage())

	err := c.Invoke(func(h http.Handler, sess *session.Session) {
		rr := do(t, h, http.MethodGet, "/orders", "")
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = do(t, h, http.MethodPost, "/session/login", `{"username":"ana","password":"nope"}`)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.Contains(t, rr.Body.String(), "Credenciales inválidas")
		require.False(t, sess.Active())

		rr = do(t, h, http.MethodPost, "/session/login", `{"username":"ana","password":"secret"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), `"username":"ana"`)
		require.True(t, sess.Active())

		rr = do(t, h, http.MethodGet, "/orders?search=trk2", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var page struct {
			Items []struct {
				ID int64 `json:"id"`
			} `json:"items"`
			TotalItems int `json:"total_items"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
		require.Equal(t, 1, page.TotalItems)
		require.Equal(t, int64(2), page.Items[0].ID)

		fb.expired.Store(true)
		rr = do(t, h, http.MethodPost, "/orders/refresh", "")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.JSONEq(t, `{"error":"session expired","redirect":"/login"}`, rr.Body.String())
		require.False(t, sess.Active())

		rr = do(t, h, http.MethodGet, "/orders", "")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.JSONEq(t, `{"error":"authentication required","redirect":"/login"}`, rr.Body.String())
	})
	require.NoError(t, err)
}
