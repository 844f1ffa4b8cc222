package services

import (
	"context"
	"strings"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
	applog "github.com/TheJazzDev/orits-fashion/internal/log"
	"github.com/TheJazzDev/orits-fashion/internal/repos"
	"github.com/TheJazzDev/orits-fashion/internal/validate"
)

type ContactService struct {
	Repo *repos.ContactRepo

	// Mail is optional; without it messages are only stored.
	Mail       Notifier
	AdminEmail string
	SiteURL    string
}

func NewContactService(repo *repos.ContactRepo) *ContactService {
	return &ContactService{Repo: repo}
}

func (s *ContactService) List(ctx context.Context, unreadOnly bool) ([]domain.ContactMessage, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, unreadOnly)
}

func (s *ContactService) Get(ctx context.Context, id string) (domain.ContactMessage, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.ContactMessage{}, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *ContactService) CountUnread(ctx context.Context) (int, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return 0, err
	}
	return s.Repo.CountUnread(ctx)
}

// Submit stores a customer message and then notifies the shop and the
// customer. Notification failures are logged only.
func (s *ContactService) Submit(ctx context.Context, in domain.ContactInput) (domain.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	in.Phone = validate.Optional(in.Phone)
	in.Subject = validate.Optional(in.Subject)
	if err := validate.Struct(in); err != nil {
		return domain.ContactMessage{}, err
	}
	m := domain.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.Repo.Create(ctx, &m); err != nil {
		return domain.ContactMessage{}, err
	}
	s.notify(ctx, m)
	return m, nil
}

// SetRead flips the read flag. The id comes from the path or the body.
func (s *ContactService) SetRead(ctx context.Context, p domain.ContactPatch) (domain.ContactMessage, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return domain.ContactMessage{}, err
	}
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return domain.ContactMessage{}, domain.Invalid("id", "id is required")
	}
	if !p.Read.Set || p.Read.Null {
		return domain.ContactMessage{}, domain.Invalid("read", "read is required")
	}
	return s.Repo.SetRead(ctx, p.ID, p.Read.Value)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invalid("id", "id is required")
	}
	return s.Repo.Delete(ctx, id)
}

func (s *ContactService) notify(ctx context.Context, m domain.ContactMessage) {
	if s.Mail == nil {
		return
	}
	if s.AdminEmail != "" {
		msg, err := adminNotice(m, s.AdminEmail)
		if err == nil {
			err = s.Mail.Send(ctx, msg)
		}
		if err != nil {
			applog.Event("warn", "contact.notify.admin.fail", err, map[string]any{"message_id": m.ID})
		}
	}
	msg, err := customerConfirmation(m, s.SiteURL)
	if err == nil {
		err = s.Mail.Send(ctx, msg)
	}
	if err != nil {
		applog.Event("warn", "contact.notify.customer.fail", err, map[string]any{"message_id": m.ID})
	}
}
