package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/dashboard"
	"github.com/wichananm65/pharmachain-portal/internal/session"
	"github.com/wichananm65/pharmachain-portal/internal/upload"
	"github.com/wichananm65/pharmachain-portal/internal/validate"
)

type Service struct {
	gw     Gateway
	repo   session.Repository
	secret []byte
	ttl    time.Duration
}

func NewService(gw Gateway, repo session.Repository, secret []byte, ttl time.Duration) *Service {
	return &Service{gw: gw, repo: repo, secret: secret, ttl: ttl}
}

// Session is what a successful login or signup start hands to the browser.
type Session struct {
	Token    string `json:"token"`
	Role     string `json:"role,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Login authenticates against the backend and opens a new portal session
// holding the backend token.
func (s *Service) Login(ctx context.Context, cred Credentials) (Session, error) {
	cred.Phone = strings.TrimSpace(cred.Phone)
	if err := cred.Validate(); err != nil {
		return Session{}, err
	}
	res, err := s.gw.Login(ctx, cred.Phone, cred.Password)
	if err != nil {
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, apierr.Message(err))
		}
		return Session{}, err
	}

	sid := session.NewID()
	if err := session.PutToken(ctx, s.repo, sid, session.KeyUserToken, res.Token); err != nil {
		return Session{}, fmt.Errorf("store backend token: %w", err)
	}
	tok, err := session.NewToken(s.secret, session.Claims{SessionID: sid, UserID: res.User.ID, Role: res.User.Role}, s.ttl)
	if err != nil {
		return Session{}, err
	}
	out := Session{Token: tok, Role: res.User.Role}
	if _, err := dashboard.ParseRole(res.User.Role); err == nil {
		out.Redirect = "/" + res.User.Role
	}
	return out, nil
}

// Logout drops every key the session holds.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID, session.AllKeys...)
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validate.Email(email) {
		return ValidationError{"email": "Valid email is required"}
	}
	return s.gw.RequestPasswordReset(ctx, email)
}

func (s *Service) VerifyResetOTP(ctx context.Context, email, otp string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validate.OTP(otp) {
		return ValidationError{"otp": "Please enter a valid 6-digit OTP"}
	}
	return s.gw.VerifyOTP(ctx, email, otp, PurposePasswordReset)
}

func (s *Service) ResetPassword(ctx context.Context, p PasswordReset) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := p.Validate(); err != nil {
		return err
	}
	return s.gw.ResetPassword(ctx, p.Email, p.NewPassword)
}

// StartSignup validates basic info, mails the signup OTP and opens a
// session whose only state is the draft.
func (s *Service) StartSignup(ctx context.Context, info BasicInfo) (Session, Draft, error) {
	info.normalize()
	if err := info.Validate(); err != nil {
		return Session{}, Draft{}, err
	}
	if err := s.gw.SendOTP(ctx, info.Email, PurposeSignup); err != nil {
		return Session{}, Draft{}, err
	}
	sid := session.NewID()
	d := Draft{Step: StepEmailVerification, Info: info}
	d.Info.Password = ""
	if err := session.PutJSON(ctx, s.repo, sid, session.KeySignup, d); err != nil {
		return Session{}, Draft{}, err
	}
	tok, err := session.NewToken(s.secret, session.Claims{SessionID: sid}, s.ttl)
	if err != nil {
		return Session{}, Draft{}, err
	}
	return Session{Token: tok}, d.View(), nil
}

func (s *Service) Draft(ctx context.Context, sessionID string) (Draft, error) {
	var d Draft
	err := session.GetJSON(ctx, s.repo, sessionID, session.KeySignup, &d)
	if errors.Is(err, session.ErrNotFound) {
		return Draft{}, ErrNoSignup
	}
	return d, err
}

func (s *Service) save(ctx context.Context, sessionID string, d Draft) (Draft, error) {
	if err := session.PutJSON(ctx, s.repo, sessionID, session.KeySignup, d); err != nil {
		return Draft{}, err
	}
	return d.View(), nil
}

func (s *Service) ResendSignupOTP(ctx context.Context, sessionID string) error {
	d, err := s.Draft(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := d.expect(StepEmailVerification); err != nil {
		return err
	}
	return s.gw.SendOTP(ctx, d.Info.Email, PurposeSignup)
}

// VerifySignupOTP registers the account with the draft, otp and password.
// The draft never stores the password, so the browser sends it again here.
func (s *Service) VerifySignupOTP(ctx context.Context, sessionID, otp, password string) (Draft, error) {
	d, err := s.Draft(ctx, sessionID)
	if err != nil {
		return Draft{}, err
	}
	if err := d.expect(StepEmailVerification); err != nil {
		return Draft{}, err
	}
	errs := ValidationError{}
	if !validate.OTP(otp) {
		errs["otp"] = "Please enter a valid 6-digit OTP"
	}
	if !validate.Password(password) {
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) > 0 {
		return Draft{}, errs
	}
	reg := Registration{BasicInfo: d.Info, OTP: otp}
	reg.Password = password
	userID, err := s.gw.Register(ctx, reg)
	if err != nil {
		return Draft{}, err
	}
	d.UserID = userID
	d.Step = StepRoleSelection
	return s.save(ctx, sessionID, d)
}

func (s *Service) ChooseRole(ctx context.Context, sessionID, role string) (Draft, error) {
	d, err := s.Draft(ctx, sessionID)
	if err != nil {
		return Draft{}, err
	}
	if err := d.expect(StepRoleSelection); err != nil {
		return Draft{}, err
	}
	r, err := dashboard.ParseRole(role)
	if err != nil {
		return Draft{}, ValidationError{"role": "Please select a valid role"}
	}
	if err := s.gw.ChooseRole(ctx, d.UserID, string(r)); err != nil {
		return Draft{}, err
	}
	d.Role = string(r)
	d.Step = StepDocumentUpload
	return s.save(ctx, sessionID, d)
}

// UploadDocuments finishes the wizard. The draft is removed once the
// backend accepts the files.
func (s *Service) UploadDocuments(ctx context.Context, sessionID string, files map[string]*upload.File) (Draft, error) {
	d, err := s.Draft(ctx, sessionID)
	if err != nil {
		return Draft{}, err
	}
	if err := d.expect(StepDocumentUpload); err != nil {
		return Draft{}, err
	}
	if files[DocGSTCertificate] == nil {
		return Draft{}, ValidationError{DocGSTCertificate: "GST Certificate is required"}
	}
	list := make([]*upload.File, 0, len(files))
	for _, field := range signupDocuments {
		if f := files[field]; f != nil {
			list = append(list, f)
		}
	}
	if err := s.gw.UploadSignupDocuments(ctx, d.UserID, list); err != nil {
		return Draft{}, err
	}
	if err := s.repo.Delete(ctx, sessionID, session.KeySignup); err != nil {
		return Draft{}, err
	}
	d.Step = StepComplete
	return d.View(), nil
}
