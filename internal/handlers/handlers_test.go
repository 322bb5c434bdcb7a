package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"photoshare/internal/auth"
	"photoshare/internal/db"
	"photoshare/internal/logging"
	"photoshare/internal/metrics"
	"photoshare/internal/models"
	"photoshare/internal/services"
	"photoshare/internal/storage"
	"photoshare/internal/store"
	"photoshare/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	app     *fiber.App
	now     time.Time
	issuer  *auth.Issuer
	users   *services.UserService
	photos  *services.PhotoService
	session *Session
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateSQLite(ctx, conn))
	st := store.NewSQLiteStore(conn)

	files, err := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	env := &testEnv{now: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), metrics: metrics.New()}
	env.issuer = auth.NewIssuer([]byte("test-secret"), 15*time.Minute, auth.WithClock(func() time.Time { return env.now }))
	env.users = services.NewUserService(st, auth.NewPasswordHasher(bcrypt.MinCost), env.issuer)
	env.photos = services.NewPhotoService(st, files, logging.Nop())
	env.session = NewSession(env.issuer, env.metrics, logging.Nop())

	env.app = fiber.New(fiber.Config{
		Views:        views.New(),
		ViewsLayout:  views.Layout,
		ErrorHandler: ErrorHandler(logging.Nop()),
	})
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) register(t *testing.T, email, password string) *auth.Token {
	t.Helper()
	_, tok, err := e.users.Register(context.Background(), models.RegisterRequest{
		Name: "John", Email: email, Password: password, Contact: "0987654321",
	})
	require.NoError(t, err)
	return tok
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func withSession(req *http.Request, tok *auth.Token) *http.Request {
	req.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: tok.Raw})
	if tok.CSRF != "" {
		req.AddCookie(&http.Cookie{Name: auth.CSRFCookieName, Value: tok.CSRF})
	}
	return req
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("photo", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
