package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/blogman/internal/model"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func TestNewRenderer_ParsesAllPages(t *testing.T) {
	r := newTestRenderer(t)

	for _, name := range []string{"home", "about", "register", "login", "new_post", "account"} {
		if _, ok := r.tmpl[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestRender_HomeWithPosts(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "home", Data{
		Title: "Home",
		Posts: []model.PostWithAuthor{
			{
				Post:            model.Post{ID: "post-1", Title: "First Post", Content: "<p>Hello world</p>"},
				AuthorFirstName: "Sam",
				AuthorLastName:  "Lee",
			},
		},
	})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "First Post") {
		t.Error("expected post title in output")
	}
	if !strings.Contains(body, "by Sam Lee") {
		t.Error("expected author byline in output")
	}
	// サニタイズ済み本文はHTMLとして描画される（エスケープされない）
	if !strings.Contains(body, "<p>Hello world</p>") {
		t.Error("expected sanitized content rendered as HTML")
	}
}

func TestRender_HomeWithoutPosts(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "home", Data{Title: "Home"})

	if !strings.Contains(rec.Body.String(), "No posts yet.") {
		t.Error("expected empty-state message")
	}
}

func TestRender_NavReflectsAuthState(t *testing.T) {
	r := newTestRenderer(t)

	// Anonymous
	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "home", Data{Title: "Home"})
	body := rec.Body.String()
	if !strings.Contains(body, `href="/login"`) || !strings.Contains(body, `href="/register"`) {
		t.Error("anonymous nav should link to login and register")
	}
	if strings.Contains(body, "Logout") {
		t.Error("anonymous nav should not show logout")
	}

	// 認証済み
	rec = httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "home", Data{
		Title: "Home",
		User:  &model.User{ID: "user-1", FirstName: "Sam", LastName: "Lee"},
	})
	body = rec.Body.String()
	if !strings.Contains(body, "Logout") {
		t.Error("authenticated nav should show logout")
	}
	if !strings.Contains(body, "Sam Lee") {
		t.Error("authenticated nav should show the display name")
	}
	if strings.Contains(body, `href="/login"`) {
		t.Error("authenticated nav should not link to login")
	}
}

func TestRender_EscapesUserProvidedTitle(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "home", Data{
		Title: "Home",
		Posts: []model.PostWithAuthor{
			{Post: model.Post{Title: `<script>alert('xss')</script>`, Content: "safe"}},
		},
	})

	body := rec.Body.String()
	// タイトルはsanitized関数を通らないため自動エスケープされる
	if strings.Contains(body, "<script>alert") {
		t.Error("post title must be HTML-escaped")
	}
}

func TestRender_LoginFormCarriesNext(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "login", Data{Title: "Login", Next: "/post"})

	if !strings.Contains(rec.Body.String(), `action="/login?next=/post"`) {
		t.Errorf("login form should preserve the next parameter, got %s", rec.Body.String())
	}
}

func TestRender_CSRFTokenEmbeddedInForms(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "register", Data{Title: "Register", CSRFToken: "token-abc"})

	if !strings.Contains(rec.Body.String(), `name="csrf_token" value="token-abc"`) {
		t.Error("expected CSRF hidden field in form")
	}
}

func TestRender_FieldErrorsDisplayed(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "register", Data{
		Title:  "Register",
		Form:   map[string]string{"email": "bad-input"},
		Errors: map[string]string{"Email": "must be a valid email address"},
	})

	body := rec.Body.String()
	if !strings.Contains(body, "must be a valid email address") {
		t.Error("expected field error message in output")
	}
	if !strings.Contains(body, `value="bad-input"`) {
		t.Error("expected form value to be repopulated")
	}
}

func TestRender_UnknownTemplate_Returns500(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "nonexistent", Data{})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestStaticHandler_ServesStylesheet(t *testing.T) {
	handler := StaticHandler()

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "body") {
		t.Error("expected CSS content")
	}
}
