package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Authorizer interface {
	Require(ctx context.Context) (models.Operator, error)
}

type ContactInput struct {
	Name    string `json:"name" validate:"min=2"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"min=3"`
	Message string `json:"message" validate:"min=10"`
}

type ContactService struct {
	log      *slog.Logger
	guard    Authorizer
	repo     repository.ContactRepository
	validate *validator.Validate
}

func NewContactService(log *slog.Logger, guard Authorizer, repo repository.ContactRepository) *ContactService {
	return &ContactService{
		log:      log,
		guard:    guard,
		repo:     repo,
		validate: validator.New(),
	}
}

// Submit сохраняет сообщение с сайта. Аутентификация не нужна.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (models.ContactSubmission, error) {
	const op = "services.ContactService.Submit"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	if err := s.check(in); err != nil {
		return models.ContactSubmission{}, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(slog.String("op", op), slog.String("subject", in.Subject))

	saved, err := s.repo.SaveSubmission(ctx, models.ContactSubmission{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		log.Error("failed to save submission", sl.Err(err))
		return models.ContactSubmission{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("contact submission received", slog.String("id", saved.ID.String()))
	return saved, nil
}

// ListSubmissions - входящие, новые сверху.
func (s *ContactService) ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	const op = "services.ContactService.ListSubmissions"

	if _, err := s.guard.Require(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	list, err := s.repo.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *ContactService) MarkRead(ctx context.Context, id uuid.UUID) error {
	const op = "services.ContactService.MarkRead"

	if _, err := s.guard.Require(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.MarkSubmissionRead(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *ContactService) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	const op = "services.ContactService.DeleteSubmission"

	if _, err := s.guard.Require(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.DeleteSubmission(ctx, id); err != nil {
		s.log.Error("failed to delete submission", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("submission deleted", slog.String("op", op), slog.String("id", id.String()))
	return nil
}

func (s *ContactService) check(in ContactInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &errs.ValidationError{}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "min":
			out.Add(field, "at least "+fe.Param()+" characters")
		case "email":
			out.Add(field, "invalid email address")
		default:
			out.Add(field, "required")
		}
	}
	return out
}
