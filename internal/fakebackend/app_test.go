package fakebackend

import (
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/padho/internal/client/models"
	"github.com/dmitrijs2005/padho/internal/logging"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("PADHO_DEV_ADMIN_EMAIL", "root@example.org")

	cfg := LoadConfig([]string{"-a", "127.0.0.1:9001", "-x", "ignored"})

	assert.Equal(t, &Config{
		Addr:          "127.0.0.1:9001",
		AdminEmail:    "root@example.org",
		AdminPassword: "admin123",
		LogLevel:      "info",
	}, cfg)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestApp_SeedsAdminAndServesUntilCancelled(t *testing.T) {
	cfg := &Config{Addr: freeAddr(t), AdminEmail: "root@example.org", AdminPassword: "rootpw1"}
	app, err := NewApp(cfg, logging.Discard())
	require.NoError(t, err)

	u, _, err := app.service.Login("root@example.org", "rootpw1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Post("http://"+cfg.Addr+"/api/auth/login", "application/json",
			strings.NewReader(`{"email":"root@example.org","password":"rootpw1"}`))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}
