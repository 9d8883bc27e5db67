package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"userdesk/internal/models"
	"userdesk/internal/repositories"
)

type DescriptionService interface {
	Submit(ctx context.Context, req models.DescriptionRequest) (*models.Description, error)
	List(ctx context.Context, limit, offset int) ([]*models.Description, error)
}

type descriptionService struct {
	repo   repositories.DescriptionRepository
	alerts AdminAlerter
}

func NewDescriptionService(repo repositories.DescriptionRepository, alerts AdminAlerter) DescriptionService {
	if alerts == nil {
		alerts = NewNoopAlerter()
	}
	return &descriptionService{repo: repo, alerts: alerts}
}

func (s *descriptionService) Submit(ctx context.Context, req models.DescriptionRequest) (*models.Description, error) {
	d := &models.Description{
		Name:        strings.TrimSpace(req.Name),
		Email:       NormalizeEmail(req.Email),
		Description: strings.TrimSpace(req.Description),
		IsChecked:   req.IsChecked,
	}
	if d.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validateEmail(d.Email); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	log.Printf("[description][submit] ok: id=%d email=%q", d.ID, d.Email)

	text := fmt.Sprintf("<b>New description</b>\n%s &lt;%s&gt;\nchecked: %v",
		html.EscapeString(d.Name), html.EscapeString(d.Email), d.IsChecked)
	if err := s.alerts.Alert(text); err != nil {
		log.Printf("[description][submit] warning: admin alert failed: %v", err)
	}
	return d, nil
}

func (s *descriptionService) List(ctx context.Context, limit, offset int) ([]*models.Description, error) {
	return s.repo.List(ctx, limit, offset)
}
