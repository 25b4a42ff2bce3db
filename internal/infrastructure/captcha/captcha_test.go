package captcha_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/captcha"
	"github.com/stretchr/testify/require"
)

func siteverify(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "top-secret", r.PostForm.Get("secret"))
		require.Equal(t, "tok", r.PostForm.Get("response"))
		require.Equal(t, "10.0.0.1", r.PostForm.Get("remoteip"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPVerifier(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted token", func(t *testing.T) {
		srv := siteverify(t, `{"success":true}`, http.StatusOK)
		v := captcha.NewHTTPVerifier("top-secret", srv.URL, time.Second)
		require.NoError(t, v.Verify(ctx, "tok", "10.0.0.1"))
	})

	t.Run("rejected token", func(t *testing.T) {
		srv := siteverify(t, `{"success":false,"error-codes":["invalid-input-response"]}`, http.StatusOK)
		v := captcha.NewHTTPVerifier("top-secret", srv.URL, time.Second)
		require.ErrorIs(t, v.Verify(ctx, "tok", "10.0.0.1"), domain.ErrCaptchaFailed)
	})

	t.Run("provider failure is upstream", func(t *testing.T) {
		srv := siteverify(t, `oops`, http.StatusBadGateway)
		v := captcha.NewHTTPVerifier("top-secret", srv.URL, time.Second)
		require.ErrorIs(t, v.Verify(ctx, "tok", "10.0.0.1"), domain.ErrUpstream)
	})

	t.Run("empty token fails without a call", func(t *testing.T) {
		v := captcha.NewHTTPVerifier("top-secret", "http://127.0.0.1:1", time.Second)
		require.ErrorIs(t, v.Verify(ctx, "", ""), domain.ErrCaptchaFailed)
	})
}

func TestNewWithoutSecret(t *testing.T) {
	v := captcha.New("", "", time.Second)
	require.IsType(t, captcha.NoopVerifier{}, v)
	require.NoError(t, v.Verify(context.Background(), "", ""))
}
