package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molmatch/internal/config"
)

func TestNewServer_Defaults(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	s := NewServer(config.ServerConfig{Port: 18080, ReadTimeout: time.Second}, h, nil)

	assert.Equal(t, ":18080", s.srv.Addr)
	assert.Equal(t, 30*time.Second, s.shutdownTimeout)
	assert.Equal(t, time.Second, s.srv.ReadTimeout)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestServer_StartStop(t *testing.T) {
	s := NewServer(config.ServerConfig{Port: 0, ShutdownTimeout: time.Second}, http.NotFoundHandler(), nil)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

//Personal.AI order the ending
