package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"userdesk/internal/authz"
	"userdesk/internal/models"
	"userdesk/internal/pdf"
	"userdesk/internal/repositories"
)

type AdminService interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	SetRole(ctx context.Context, id int64, role string) (*models.User, error)
	SetStatus(ctx context.Context, id int64, status string) (*models.User, error)
	UsersReport(ctx context.Context) ([]byte, error)
}

type adminService struct {
	users  repositories.UserRepository
	report pdf.Generator
}

func NewAdminService(users repositories.UserRepository, report pdf.Generator) AdminService {
	return &adminService{users: users, report: report}
}

func (s *adminService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *adminService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *adminService) SetRole(ctx context.Context, id int64, role string) (*models.User, error) {
	if !authz.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	log.Printf("[admin] user_id=%d role=%s", id, role)
	return s.users.GetByID(ctx, id)
}

func (s *adminService) SetStatus(ctx context.Context, id int64, status string) (*models.User, error) {
	if !authz.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if err := s.users.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	log.Printf("[admin] user_id=%d status=%s", id, status)
	return s.users.GetByID(ctx, id)
}

// reportLimit caps the export; larger lists should be paged through the API.
const reportLimit = 10000

func (s *adminService) UsersReport(ctx context.Context) ([]byte, error) {
	users, err := s.users.List(ctx, reportLimit, 0)
	if err != nil {
		return nil, err
	}
	return s.report.UsersReport(users, time.Now())
}
