package platform_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/kyros/pkg/platformsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for platform API end-to-end tests.
 * This includes container setup, seeded reference data, and assertions.
 */

const (
	testImageName = "kyros-platform-test:latest"

	testSecret = "e2e-secret-key-that-is-at-least-32-bytes-long"
	testIssuer = "kyros-poc"

	// Seeded by the reference data migration.
	acmeID    = "8e1b3d5b-7c9a-4e2f-b1d3-a5c7e9f12345"
	betaID    = "2450a2f8-3b7e-4eab-9b4a-1f73d9a0b1c4"
	analystID = "f8d1e2c3-4b5a-6789-abcd-ef1234567890"
	adminID   = "a1b2c3d4-e5f6-7890-abcd-ef1234567890"
	viewerID  = "b2c3d4e5-f6a7-8901-bcde-f12345678901"

	analystEmail = "analyst@acme.com"
	adminEmail   = "admin@acme.com"
	viewerEmail  = "viewer@beta.com"
)

// TestMain builds the Docker image once before all tests and removes it
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Platform API Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Platform API Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/platform/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// relaxedLimits keeps the rate limiter out of the way of functional tests,
// which make many rapid requests from one address.
var relaxedLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupPlatformContainer starts the API with relaxed rate limits and returns
// an SDK client for it.
func setupPlatformContainer(t *testing.T) *platformsdk.Client {
	t.Helper()
	return startContainer(t, relaxedLimits)
}

// setupPlatformContainerWithEnv starts the API with extra environment on top
// of the defaults. Rate limits are left at their production values.
func setupPlatformContainerWithEnv(t *testing.T, extra map[string]string) *platformsdk.Client {
	t.Helper()
	return startContainer(t, extra)
}

func startContainer(t *testing.T, extra map[string]string) *platformsdk.Client {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"JWT_SECRET_KEY": testSecret,
		"JWT_ISSUER":     testIssuer,
		"DATABASE_PATH":  "/data/tenant_metadata.db",
		"ENV":            "test",
		"LOG_LEVEL":      "info",
		"LOG_FORMAT":     "json",
	}
	for k, v := range extra {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8000/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("8000/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8000")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return platformsdk.NewClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()))
}

// login performs a mock login and fails the test on error.
func login(t *testing.T, client *platformsdk.Client, email string) *platformsdk.Session {
	t.Helper()
	session, err := client.Login(t.Context(), email)
	require.NoError(t, err, "login as %s should succeed", email)
	return session
}

// exchange trades the session's user token for a tenant token.
func exchange(t *testing.T, session *platformsdk.Session, tenantID string) *platformsdk.TenantSession {
	t.Helper()
	ts, err := session.Exchange(t.Context(), tenantID)
	require.NoError(t, err, "exchange for %s should succeed", tenantID)
	return ts
}

// assertAPIError checks that err is an *APIError with the given status and code.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *platformsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %s", err)
	require.Equal(t, code, apiErr.Code, "unexpected code: %s", err)
	require.NotEmpty(t, apiErr.RequestID, "error body should carry a request ID")
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *platformsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
