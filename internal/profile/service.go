package profile

import (
	"context"
	"fmt"

	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

// Document form fields accepted by the backend.
const (
	FieldGSTCertificate = "gstCertificate"
	FieldDrugLicense    = "drugLicense"
)

type Gateway interface {
	Profile(ctx context.Context, token string) (Profile, error)
	UpdateProfile(ctx context.Context, token string, u Update) (Profile, error)
	ChangePassword(ctx context.Context, token string, current, next string) error
	UploadDocuments(ctx context.Context, token string, files []*upload.File) error
}

type Service struct {
	gw Gateway
}

func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

func (s *Service) Get(ctx context.Context, token string) (Profile, error) {
	return s.gw.Profile(ctx, token)
}

func (s *Service) Update(ctx context.Context, token string, u Update) (Profile, error) {
	if err := u.Validate(); err != nil {
		return Profile{}, err
	}
	return s.gw.UpdateProfile(ctx, token, u)
}

func (s *Service) ChangePassword(ctx context.Context, token string, p PasswordChange) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.gw.ChangePassword(ctx, token, p.CurrentPassword, p.NewPassword)
}

// UploadDocuments forwards whichever verification documents were sent;
// at least one is required.
func (s *Service) UploadDocuments(ctx context.Context, token string, files ...*upload.File) error {
	present := make([]*upload.File, 0, len(files))
	for _, f := range files {
		if f != nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return fmt.Errorf("%s or %s: %w", FieldGSTCertificate, FieldDrugLicense, upload.ErrMissing)
	}
	return s.gw.UploadDocuments(ctx, token, present)
}
