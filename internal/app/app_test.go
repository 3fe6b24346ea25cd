package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/goal-archive/internal/config"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(rankingsURL string) config.Config {
	return config.Config{
		AppEnv:                        config.EnvDev,
		ServiceName:                   "goal-archive-web",
		ServiceVersion:                "test",
		HTTPAddr:                      "127.0.0.1:0",
		CORSAllowedOrigins:            []string{"*"},
		ReadTimeout:                   time.Second,
		WriteTimeout:                  time.Second,
		RankingsBaseURL:               rankingsURL,
		RankingsTimeout:               time.Second,
		RankingsCircuitFailureCount:   5,
		RankingsCircuitOpenTimeout:    time.Second,
		RankingsCircuitHalfOpenMaxReq: 1,
		RankingsDefaultYear:           2024,
		RankingsFetchWorkers:          4,
		ViewIdleTTL:                   time.Minute,
		ViewSweepInterval:             time.Minute,
	}
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bdor/2024":
			_, _ = w.Write([]byte(`{"data":[
				{"rank":1,"player_name":"Rodri","nationality":"Spain","clubs":"Manchester City","year":2024},
				{"rank":2,"player_name":"Vinicius Junior","nationality":"Brazil","clubs":"Real Madrid","year":2024}
			]}`))
		default:
			_, _ = w.Write([]byte(`{"message":"No results found."}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestApp_ServesRankingsFromUpstream(t *testing.T) {
	upstream := newUpstream(t)
	a, err := New(testConfig(upstream.URL), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.shutdown() })

	handler := a.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/bdor/views", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/v1/bdor/views/vw_"), "unexpected location %q", location)

	var body struct {
		Data struct {
			Year      int  `json:"year"`
			IsLoading bool `json:"is_loading"`
			Rankings  []struct {
				Rank       int    `json:"rank"`
				PlayerName string `json:"player_name"`
			} `json:"rankings"`
		} `json:"data"`
	}
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, location, nil))
		if rec.Code != http.StatusOK {
			return false
		}
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			return false
		}
		return !body.Data.IsLoading
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 2024, body.Data.Year)
	require.Len(t, body.Data.Rankings, 2)
	assert.Equal(t, "Rodri", body.Data.Rankings[0].PlayerName)
	assert.Equal(t, 2, body.Data.Rankings[1].Rank)
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	upstream := newUpstream(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	cfg := testConfig(upstream.URL)
	cfg.HTTPAddr = addr
	a, err := New(cfg, logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}

func TestNew_RequiresAddr(t *testing.T) {
	cfg := testConfig("http://localhost:90")
	cfg.HTTPAddr = ""
	_, err := New(cfg, logging.NewNop())
	require.Error(t, err)
}
