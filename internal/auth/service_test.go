package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/session"
	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

var secret = []byte("test-secret")

type stubGateway struct {
	loginErr   error
	otps       []string
	registered []Registration
	roles      map[string]string
	documents  []*upload.File
	resets     map[string]string
	verified   []string
}

func newStub() *stubGateway {
	return &stubGateway{roles: map[string]string{}, resets: map[string]string{}}
}

func (g *stubGateway) Login(_ context.Context, phone, password string) (LoginResult, error) {
	if g.loginErr != nil {
		return LoginResult{}, g.loginErr
	}
	return LoginResult{Token: "backend-" + phone, User: User{ID: "u1", Role: "retailer"}}, nil
}

func (g *stubGateway) SendOTP(_ context.Context, email string, purpose Purpose) error {
	g.otps = append(g.otps, email+"/"+string(purpose))
	return nil
}

func (g *stubGateway) VerifyOTP(_ context.Context, email, otp string, purpose Purpose) error {
	if otp != "123456" {
		return &apierr.Error{Status: 400, Message: "Invalid OTP"}
	}
	g.verified = append(g.verified, email+"/"+string(purpose))
	return nil
}

func (g *stubGateway) Register(_ context.Context, r Registration) (string, error) {
	g.registered = append(g.registered, r)
	return "u42", nil
}

func (g *stubGateway) ChooseRole(_ context.Context, userID, role string) error {
	g.roles[userID] = role
	return nil
}

func (g *stubGateway) UploadSignupDocuments(_ context.Context, _ string, files []*upload.File) error {
	g.documents = append(g.documents, files...)
	return nil
}

func (g *stubGateway) RequestPasswordReset(_ context.Context, email string) error {
	g.otps = append(g.otps, email+"/"+string(PurposePasswordReset))
	return nil
}

func (g *stubGateway) ResetPassword(_ context.Context, email, pw string) error {
	g.resets[email] = pw
	return nil
}

func basicInfo() BasicInfo {
	return BasicInfo{
		Name:         "Asha Rao",
		Phone:        "9876543210",
		Email:        " Asha@Example.com ",
		Password:     "secret1",
		BusinessName: "Rao Medicals",
		Address:      "12 MG Road, Pune",
	}
}

func sessionIDOf(t *testing.T, token string) string {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return secret, nil })
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	sid, _ := parsed.Claims.(jwt.MapClaims)["session_id"].(string)
	if sid == "" {
		t.Fatalf("token without session id")
	}
	return sid
}

func TestLogin_StoresBackendToken(t *testing.T) {
	repo := session.NewInMemoryRepository()
	s := NewService(newStub(), repo, secret, time.Hour)
	ctx := context.Background()

	out, err := s.Login(ctx, Credentials{Phone: "9876543210", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.Role != "retailer" || out.Redirect != "/retailer" {
		t.Fatalf("unexpected session %+v", out)
	}
	sid := sessionIDOf(t, out.Token)
	tok, err := session.Token(ctx, repo, sid, session.KeyUserToken)
	if err != nil || tok != "backend-9876543210" {
		t.Fatalf("expected stored backend token, got %q %v", tok, err)
	}

	if err := s.Logout(ctx, sid); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := repo.Get(ctx, sid, session.KeyUserToken); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected token removed after logout, got %v", err)
	}
}

func TestLogin_Errors(t *testing.T) {
	gw := newStub()
	s := NewService(gw, session.NewInMemoryRepository(), secret, time.Hour)
	ctx := context.Background()

	var ve ValidationError
	if _, err := s.Login(ctx, Credentials{Phone: "12345", Password: "pw"}); !errors.As(err, &ve) || ve["phone"] == "" {
		t.Fatalf("expected phone validation error, got %v", err)
	}

	gw.loginErr = &apierr.Error{Status: 401, Message: "Invalid credentials"}
	if _, err := s.Login(ctx, Credentials{Phone: "9876543210", Password: "pw"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	gw.loginErr = apierr.ErrUnavailable
	if _, err := s.Login(ctx, Credentials{Phone: "9876543210", Password: "pw"}); !errors.Is(err, apierr.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable to pass through, got %v", err)
	}
}

func TestSignupWizard(t *testing.T) {
	gw := newStub()
	repo := session.NewInMemoryRepository()
	s := NewService(gw, repo, secret, time.Hour)
	ctx := context.Background()

	started, d, err := s.StartSignup(ctx, basicInfo())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if d.Step != StepEmailVerification || d.Info.Password != "" {
		t.Fatalf("unexpected draft view %+v", d)
	}
	if len(gw.otps) != 1 || gw.otps[0] != "asha@example.com/signup" {
		t.Fatalf("expected signup otp mail, got %v", gw.otps)
	}
	sid := sessionIDOf(t, started.Token)

	if _, err := s.ChooseRole(ctx, sid, "retailer"); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep before otp, got %v", err)
	}
	var raw map[string]any
	if err := session.GetJSON(ctx, repo, sid, session.KeySignup, &raw); err != nil {
		t.Fatalf("stored draft: %v", err)
	}
	if info, _ := raw["info"].(map[string]any); info["password"] != "" {
		t.Fatalf("password must not be stored with the draft, got %v", raw)
	}

	var ve ValidationError
	if _, err := s.VerifySignupOTP(ctx, sid, "12ab", "secret1"); !errors.As(err, &ve) || ve["otp"] == "" {
		t.Fatalf("expected otp validation error, got %v", err)
	}
	if _, err := s.VerifySignupOTP(ctx, sid, "654321", ""); !errors.As(err, &ve) || ve["password"] == "" {
		t.Fatalf("expected password validation error, got %v", err)
	}

	d, err = s.VerifySignupOTP(ctx, sid, "654321", "secret1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if d.Step != StepRoleSelection || d.UserID != "u42" {
		t.Fatalf("unexpected draft %+v", d)
	}
	if gw.registered[0].Password != "secret1" || gw.registered[0].OTP != "654321" {
		t.Fatalf("registration missing draft data: %+v", gw.registered[0])
	}
	stored, _ := s.Draft(ctx, sid)
	if stored.Info.Password != "" {
		t.Fatalf("password kept in session after registration")
	}

	if _, err := s.ChooseRole(ctx, sid, "admin"); !errors.As(err, &ve) {
		t.Fatalf("expected role validation error, got %v", err)
	}
	if d, err = s.ChooseRole(ctx, sid, "distributor"); err != nil || d.Step != StepDocumentUpload {
		t.Fatalf("choose role: %+v %v", d, err)
	}
	if gw.roles["u42"] != "distributor" {
		t.Fatalf("role not forwarded: %v", gw.roles)
	}

	license := &upload.File{Field: DocDrugLicense, Content: []byte("%PDF-1.4")}
	if _, err := s.UploadDocuments(ctx, sid, map[string]*upload.File{DocDrugLicense: license}); !errors.As(err, &ve) || ve[DocGSTCertificate] == "" {
		t.Fatalf("expected gst certificate required, got %v", err)
	}
	gst := &upload.File{Field: DocGSTCertificate, Content: []byte("%PDF-1.4")}
	d, err = s.UploadDocuments(ctx, sid, map[string]*upload.File{DocGSTCertificate: gst, DocDrugLicense: license, DocPAN: nil})
	if err != nil || d.Step != StepComplete {
		t.Fatalf("upload: %+v %v", d, err)
	}
	if len(gw.documents) != 2 || gw.documents[0] != gst || gw.documents[1] != license {
		t.Fatalf("unexpected forwarded documents %v", gw.documents)
	}
	if _, err := s.Draft(ctx, sid); !errors.Is(err, ErrNoSignup) {
		t.Fatalf("expected draft removed, got %v", err)
	}
}

func TestStartSignup_Validation(t *testing.T) {
	gw := newStub()
	s := NewService(gw, session.NewInMemoryRepository(), secret, time.Hour)

	info := basicInfo()
	info.Phone = "98765"
	info.Password = "abc"
	info.Address = "  "
	_, _, err := s.StartSignup(context.Background(), info)
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"phone", "password", "address"} {
		if ve[f] == "" {
			t.Errorf("expected %s error in %v", f, ve)
		}
	}
	if len(gw.otps) != 0 {
		t.Fatalf("otp sent for invalid info")
	}
}

func TestPasswordReset(t *testing.T) {
	gw := newStub()
	s := NewService(gw, session.NewInMemoryRepository(), secret, time.Hour)
	ctx := context.Background()

	if err := s.ForgotPassword(ctx, "Asha@Example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if err := s.VerifyResetOTP(ctx, "asha@example.com", "000000"); err == nil {
		t.Fatalf("expected backend rejection of wrong otp")
	}
	if err := s.VerifyResetOTP(ctx, "asha@example.com", "123456"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if gw.verified[0] != "asha@example.com/password_reset" {
		t.Fatalf("unexpected verification %v", gw.verified)
	}

	var ve ValidationError
	err := s.ResetPassword(ctx, PasswordReset{Email: "asha@example.com", NewPassword: "newpass", ConfirmPassword: "other"})
	if !errors.As(err, &ve) || ve["confirmPassword"] == "" {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	if err := s.ResetPassword(ctx, PasswordReset{Email: "asha@example.com", NewPassword: "newpass", ConfirmPassword: "newpass"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if gw.resets["asha@example.com"] != "newpass" {
		t.Fatalf("reset not forwarded: %v", gw.resets)
	}
}
