package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/users-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	logger := zerolog.Nop()
	return &Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server:  config.ServerConfig{Port: "0", ReadTimeout: 5, WriteTimeout: 10, IdleTimeout: 60},
		},
		Logger: &logger,
	}
}

func TestStart_RequiresHTTPServer(t *testing.T) {
	assert.EqualError(t, newTestServer().Start(), "HTTP server not initialized")
}

func TestSetupHTTPServer(t *testing.T) {
	s := newTestServer()
	s.SetupHTTPServer(http.NotFoundHandler())

	require.NotNil(t, s.httpServer)
	assert.Equal(t, ":0", s.httpServer.Addr)
	assert.Equal(t, int64(5), int64(s.httpServer.ReadTimeout.Seconds()))
	assert.Equal(t, int64(60), int64(s.httpServer.IdleTimeout.Seconds()))
}

func TestShutdown_WithoutDependencies(t *testing.T) {
	assert.NoError(t, newTestServer().Shutdown(context.Background()))
}
