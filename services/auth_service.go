package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"easyhora-backend/apperror"
	"easyhora-backend/logger"
	"easyhora-backend/models"
	"easyhora-backend/repository"
	"easyhora-backend/utils"

	"github.com/google/uuid"
)

const minPasswordLength = 8

type RegisterInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
	SalonName    string `json:"salonName" binding:"required"`
	SalonAddress string `json:"salonAddress"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // email or phone
	Password   string `json:"password" binding:"required"`
}

// Session is a signed-in owner with its salon.
type Session struct {
	Token string        `json:"token"`
	User  *models.User  `json:"user"`
	Salon *models.Salon `json:"salon"`
}

// AuthService registers salon owners and signs them in.
type AuthService struct {
	store     *repository.Store
	tokens    *utils.TokenManager
	trialDays int
	log       *logger.Logger
	now       func() time.Time
}

func NewAuthService(store *repository.Store, tokens *utils.TokenManager, trialDays int, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Default()
	}
	if trialDays <= 0 {
		trialDays = 7
	}
	return &AuthService{
		store:     store,
		tokens:    tokens,
		trialDays: trialDays,
		log:       log.WithComponent("auth"),
		now:       time.Now,
	}
}

func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Register creates the salon, its owner on a trial plan, the owner's profile
// and the default reminder template in one transaction.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.SalonName = strings.TrimSpace(in.SalonName)
	if in.Name == "" || in.Email == "" || in.SalonName == "" {
		return nil, apperror.NewValidation("name, email and salon name are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperror.NewValidation(fmt.Sprintf("password must have at least %d characters", minPasswordLength))
	}
	if in.Phone != "" && !utils.ValidatePhone(in.Phone) {
		return nil, apperror.NewValidation("invalid phone number").WithDetail("phone", in.Phone)
	}

	var user *models.User
	var salon *models.Salon
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		exists, err := tx.Users().Exists(ctx, in.Email, in.Phone)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewConflict("email or phone already registered")
		}

		slug, err := uniqueSlug(ctx, tx, in.SalonName)
		if err != nil {
			return err
		}
		salon = &models.Salon{
			Name:         in.SalonName,
			Address:      strings.TrimSpace(in.SalonAddress),
			Phone:        in.Phone,
			PublicSlug:   slug,
			OpeningHours: models.DefaultOpeningHours(),
		}
		if err := tx.CreateSalon(ctx, salon); err != nil {
			return err
		}

		trialEnd := s.now().AddDate(0, 0, s.trialDays)
		user = &models.User{
			SalonID:  salon.ID,
			Name:     in.Name,
			Email:    in.Email,
			Phone:    in.Phone,
			Password: in.Password, // hashed in BeforeCreate
			Plan:     models.PlanTrial,
			TrialEnd: &trialEnd,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Profiles().Create(ctx, &models.Profile{UserID: user.ID, Email: user.Email}); err != nil {
			return err
		}
		return tx.ForSalon(salon.ID).Reminders.CreateTemplate(ctx, &models.ReminderTemplate{
			Type:     models.ReminderTypeAppointment,
			Message:  models.DefaultReminderMessage,
			IsActive: true,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("salon registered", "salon_id", salon.ID, "user_id", user.ID, "slug", salon.PublicSlug)
	return s.session(user, salon)
}

// uniqueSlug derives the public link from the salon name, adding a numeric
// suffix while the slug is taken.
func uniqueSlug(ctx context.Context, tx *repository.Store, name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "salao"
	}
	candidate := base
	for i := 2; i <= 50; i++ {
		taken, err := tx.SlugTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + uuid.NewString()[:8], nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	user, err := s.store.Users().FindByIdentifier(ctx, in.Identifier)
	if apperror.IsCode(err, apperror.CodeNotFound) {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(in.Password) {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := s.store.Users().TouchLogin(ctx, user.ID, s.now()); err != nil {
		s.log.Warnw("failed to record last login", "user_id", user.ID, "error", err)
	}

	salon, err := s.store.ForSalon(user.SalonID).Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.session(user, salon)
}

// Me returns the signed-in owner and salon.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, *models.Salon, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if apperror.IsCode(err, apperror.CodeNotFound) {
		return nil, nil, apperror.NewUnauthorized("user not found")
	}
	if err != nil {
		return nil, nil, err
	}
	salon, err := s.store.ForSalon(user.SalonID).Settings.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	return user, salon, nil
}

func (s *AuthService) session(user *models.User, salon *models.Salon) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.ID.String(), salon.ID.String())
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generate token: %w", err))
	}
	return &Session{Token: token, User: user, Salon: salon}, nil
}
