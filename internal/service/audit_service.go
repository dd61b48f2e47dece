package service

import (
	"context"

	"backend/internal/apierror"
	"backend/internal/model"
	"backend/internal/repository"
)

// AuditService exposes the audit trail, read-only.
type AuditService interface {
	List(ctx context.Context, skip, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService returns a new instance of AuditService
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) List(ctx context.Context, skip, limit int) ([]model.AuditLog, int64, error) {
	logs, total, err := s.auditRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, apierror.Wrap(apierror.Internal, "error al listar la bitácora", err)
	}
	return logs, total, nil
}
