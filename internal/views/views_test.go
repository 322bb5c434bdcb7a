package views

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"photoshare/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, bind any) string {
	t.Helper()
	e := New()
	require.NoError(t, e.Load())

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, name, bind, Layout), name)
	return buf.String()
}

func TestEngine_RendersEmbeddedPagesInLayout(t *testing.T) {
	for _, name := range []string{"index", "login", "register", "upload", "error"} {
		out := render(t, name, fiber.Map{"Title": "T"})
		assert.Contains(t, out, "<title>T - Photoshare</title>", name)
		assert.Contains(t, out, "<main>", name)
	}
}

func TestEngine_UploadListsPhotos(t *testing.T) {
	activity := "hiking"
	out := render(t, "upload", fiber.Map{
		"LoggedIn":  true,
		"CSRFToken": "tok-123",
		"Photos": []models.Photo{{
			FriendName: "Jane", FriendContact: "555", PhotoPath: "/uploads/1_1.jpg",
			Activity: &activity, UploadDate: time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC),
		}},
	})

	assert.Contains(t, out, `value="tok-123"`)
	assert.Contains(t, out, `src="/uploads/1_1.jpg"`)
	assert.Contains(t, out, "Jane (555) - hiking, 2026-05-04 03:02")
	assert.Contains(t, out, "Log out")
}

func TestEngine_EscapesInput(t *testing.T) {
	out := render(t, "error", fiber.Map{"Message": "<script>x</script>"})
	assert.NotContains(t, out, "<script>x</script>")
}

func TestEngine_UnknownView(t *testing.T) {
	e := New()
	require.NoError(t, e.Load())
	assert.Error(t, e.Render(&bytes.Buffer{}, "missing", nil, Layout))
}

func TestEngine_BadTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html": {Data: []byte(`{{embed}}`)},
		"broken.html": {Data: []byte(`{{.Oops`)},
	}
	assert.Error(t, NewFS(fsys).Load())
}

func TestEngine_ThroughFiber(t *testing.T) {
	app := fiber.New(fiber.Config{Views: New(), ViewsLayout: Layout})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("login", fiber.Map{"Title": "Sign In", "Email": "a@b.c"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), "<title>Sign In - Photoshare</title>")
	assert.Contains(t, buf.String(), `value="a@b.c"`)
}
