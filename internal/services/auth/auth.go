package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/lib/jwt"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperatorExists     = errors.New("operator already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

const minPasswordLen = 8

type Auth struct {
	log        *slog.Logger
	operators  repository.OperatorRepository
	tokens     repository.TokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(
	log *slog.Logger,
	operators repository.OperatorRepository,
	tokens repository.TokenRepository,
	secret string,
	accessTTL, refreshTTL time.Duration,
) *Auth {
	return &Auth{
		log:        log,
		operators:  operators,
		tokens:     tokens,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RegisterOperator создаёт учётную запись оператора. Используется командой `operator create`.
func (a *Auth) RegisterOperator(ctx context.Context, email, name, password string) (uuid.UUID, error) {
	const op = "auth.RegisterOperator"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("register operator")

	verr := &errs.ValidationError{}
	if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "Ungültige E-Mail-Adresse")
	}
	if len(password) < minPasswordLen {
		verr.Add("password", fmt.Sprintf("Mindestens %d Zeichen", minPasswordLen))
	}
	if verr.HasErrors() {
		return uuid.Nil, fmt.Errorf("%s: %w", op, verr)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.operators.SaveOperator(ctx, models.Operator{
		Email:        strings.TrimSpace(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: passHash,
	})
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			log.Warn("operator already exists", sl.Err(err))

			return uuid.Nil, fmt.Errorf("%s: %w: %w", op, ErrOperatorExists, err)
		}

		log.Error("failed to save operator", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("operator registered", slog.String("operator_id", id.String()))

	return id, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (models.TokenPair, models.Operator, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("username", email),
	)

	log.Info("attempting to login operator")

	operator, err := a.operators.OperatorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			log.Warn("operator not found", sl.Err(err))

			return models.TokenPair{}, models.Operator{}, fmt.Errorf("%s: %w: %w", op, errs.ErrUnauthenticated, ErrInvalidCredentials)
		}
		log.Error("failed to get operator", sl.Err(err))

		return models.TokenPair{}, models.Operator{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(operator.PasswordHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return models.TokenPair{}, models.Operator{}, fmt.Errorf("%s: %w: %w", op, errs.ErrUnauthenticated, ErrInvalidCredentials)
	}

	pair, err := a.issue(ctx, operator)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.TokenPair{}, models.Operator{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.operators.UpdateLastLogin(ctx, operator.ID, time.Now().UTC()); err != nil {
		// вход не блокируем
		log.Warn("failed to update last login", sl.Err(err))
	}

	log.Info("operator logged in successfully")

	return pair, operator, nil
}

// Refresh обменивает refresh-токен на новую пару. Старый токен отзывается.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	const op = "auth.Refresh"

	log := a.log.With(slog.String("op", op))

	claims, err := jwt.ParseToken(refreshToken, jwt.KindRefresh, a.secret)
	if err != nil {
		log.Info("invalid refresh token", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w: %w", op, errs.ErrUnauthenticated, ErrInvalidToken)
	}

	exists, err := a.tokens.GetRefreshToken(ctx, claims.OperatorID, refreshToken)
	if err != nil {
		log.Error("failed to check refresh token", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		log.Warn("refresh token revoked or unknown", slog.String("operator_id", claims.OperatorID))

		return models.TokenPair{}, fmt.Errorf("%s: %w: %w", op, errs.ErrUnauthenticated, ErrInvalidToken)
	}

	if err := a.tokens.DeleteRefreshToken(ctx, claims.OperatorID, refreshToken); err != nil {
		log.Error("failed to revoke refresh token", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	operator, err := a.operators.OperatorByID(ctx, uuid.MustParse(claims.OperatorID))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return models.TokenPair{}, fmt.Errorf("%s: %w: %w", op, errs.ErrUnauthenticated, ErrInvalidToken)
		}
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := a.issue(ctx, operator)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// Logout отзывает refresh-токен. Неизвестный или просроченный токен не считается ошибкой.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	const op = "auth.Logout"

	claims, err := jwt.ParseToken(refreshToken, jwt.KindRefresh, a.secret)
	if err != nil {
		return nil
	}

	if err := a.tokens.DeleteRefreshToken(ctx, claims.OperatorID, refreshToken); err != nil {
		a.log.Error("failed to revoke refresh token", slog.String("op", op), sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// LogoutAll отзывает все refresh-токены оператора.
func (a *Auth) LogoutAll(ctx context.Context, operatorID uuid.UUID) error {
	const op = "auth.LogoutAll"

	if err := a.tokens.DeleteAllOperatorTokens(ctx, operatorID.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Authenticate проверяет access-токен и возвращает оператора.
func (a *Auth) Authenticate(ctx context.Context, accessToken string) (models.Operator, error) {
	const op = "auth.Authenticate"

	claims, err := jwt.ParseToken(accessToken, jwt.KindAccess, a.secret)
	if err != nil {
		return models.Operator{}, fmt.Errorf("%s: %w: %w", op, errs.ErrUnauthenticated, ErrInvalidToken)
	}

	return a.OperatorByID(ctx, uuid.MustParse(claims.OperatorID))
}

// OperatorByID загружает оператора для сессии. Удалённый оператор не аутентифицирован.
func (a *Auth) OperatorByID(ctx context.Context, id uuid.UUID) (models.Operator, error) {
	const op = "auth.OperatorByID"

	operator, err := a.operators.OperatorByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return models.Operator{}, fmt.Errorf("%s: %w", op, errs.ErrUnauthenticated)
		}
		return models.Operator{}, fmt.Errorf("%s: %w", op, err)
	}

	return operator, nil
}

func (a *Auth) issue(ctx context.Context, operator models.Operator) (models.TokenPair, error) {
	accessToken, err := jwt.NewToken(operator, jwt.KindAccess, a.secret, a.accessTTL)
	if err != nil {
		return models.TokenPair{}, err
	}

	refreshToken, err := jwt.NewToken(operator, jwt.KindRefresh, a.secret, a.refreshTTL)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err := a.tokens.SaveRefreshToken(ctx, operator.ID.String(), refreshToken, a.refreshTTL); err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{
		OperatorID:   operator.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
