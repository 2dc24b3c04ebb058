package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/session"
	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

type stubGateway struct {
	profile     Profile
	updates     []Update
	passwords   [][2]string
	passwordErr error
	uploaded    []*upload.File
}

func (g *stubGateway) Profile(context.Context, string) (Profile, error) { return g.profile, nil }

func (g *stubGateway) UpdateProfile(_ context.Context, _ string, u Update) (Profile, error) {
	g.updates = append(g.updates, u)
	p := g.profile
	p.BusinessName = u.BusinessName
	p.GSTNumber = u.GSTNumber
	return p, nil
}

func (g *stubGateway) ChangePassword(_ context.Context, _ string, current, next string) error {
	g.passwords = append(g.passwords, [2]string{current, next})
	return g.passwordErr
}

func (g *stubGateway) UploadDocuments(_ context.Context, _ string, files []*upload.File) error {
	g.uploaded = append(g.uploaded, files...)
	return nil
}

func makeApp(t *testing.T) (*fiber.App, *stubGateway) {
	t.Helper()
	repo := session.NewInMemoryRepository()
	_ = session.PutToken(context.Background(), repo, "s1", session.KeyUserToken, "tok")
	gw := &stubGateway{profile: Profile{ID: "u1", BusinessName: "Acme Pharma", Email: "acme@pharma.in", Role: "wholesaler"}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Session-ID"); v != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"session_id": v}})
		}
		return c.Next()
	})
	NewHandler(NewService(gw), repo).RegisterProtectedRoutes(app)
	return app, gw
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "s1")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out := map[string]any{}
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res.StatusCode, out
}

func TestProfile_GetAndUpdate(t *testing.T) {
	app, gw := makeApp(t)

	code, body := do(t, app, "GET", "/api/v1/profile", "")
	if code != fiber.StatusOK || body["businessName"] != "Acme Pharma" {
		t.Fatalf("unexpected profile %d %v", code, body)
	}

	code, body = do(t, app, "PUT", "/api/v1/profile", `{"businessName":"Acme Health","phone":"9876543210","gstNumber":"27abcde1234f1z5"}`)
	if code != fiber.StatusOK || body["gstNumber"] != "27ABCDE1234F1Z5" {
		t.Fatalf("unexpected update %d %v", code, body)
	}
	if len(gw.updates) != 1 {
		t.Fatalf("expected one backend update, got %d", len(gw.updates))
	}

	code, body = do(t, app, "PUT", "/api/v1/profile", `{"businessName":"","phone":"123"}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	errs, _ := body["errors"].(map[string]any)
	if errs["businessName"] == nil || errs["phone"] == nil {
		t.Fatalf("expected businessName and phone errors, got %v", body)
	}
}

func TestProfile_ChangePassword(t *testing.T) {
	app, gw := makeApp(t)

	code, _ := do(t, app, "PUT", "/api/v1/profile/password", `{"currentPassword":"old","newPassword":"abc","confirmPassword":"abd"}`)
	if code != fiber.StatusBadRequest || len(gw.passwords) != 0 {
		t.Fatalf("expected local rejection, got %d", code)
	}

	code, _ = do(t, app, "PUT", "/api/v1/profile/password", `{"currentPassword":"old","newPassword":"secret1","confirmPassword":"secret1"}`)
	if code != fiber.StatusOK || gw.passwords[0] != [2]string{"old", "secret1"} {
		t.Fatalf("expected password change, got %d %v", code, gw.passwords)
	}

	gw.passwordErr = &apierr.Error{Status: 401, Message: "Current password is incorrect"}
	code, body := do(t, app, "PUT", "/api/v1/profile/password", `{"currentPassword":"bad","newPassword":"secret1","confirmPassword":"secret1"}`)
	if code != fiber.StatusUnauthorized || body["message"] != "Current password is incorrect" {
		t.Fatalf("expected backend message to pass through, got %d %v", code, body)
	}
}

func TestProfile_UploadDocuments(t *testing.T) {
	app, gw := makeApp(t)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, _ := w.CreateFormFile(FieldGSTCertificate, "gst.pdf")
	_, _ = part.Write([]byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"))
	_ = w.Close()

	req := httptest.NewRequest("POST", "/api/v1/profile/documents", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Session-ID", "s1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if len(gw.uploaded) != 1 || gw.uploaded[0].Field != FieldGSTCertificate || gw.uploaded[0].ContentType != "application/pdf" {
		t.Fatalf("unexpected uploaded files %+v", gw.uploaded)
	}

	empty := &bytes.Buffer{}
	w2 := multipart.NewWriter(empty)
	_ = w2.WriteField("note", "nothing attached")
	_ = w2.Close()
	req = httptest.NewRequest("POST", "/api/v1/profile/documents", empty)
	req.Header.Set("Content-Type", w2.FormDataContentType())
	req.Header.Set("X-Session-ID", "s1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without documents, got %d", res.StatusCode)
	}
}
