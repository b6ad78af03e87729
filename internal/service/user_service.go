package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
)

type userStore interface {
	FindUser(volunteerID string) (models.User, bool)
	AddUser(ctx context.Context, user models.User) bool
	UpdateUser(ctx context.Context, volunteerID string, mutate func(*models.User)) (models.User, bool)
}

type centerDirectory interface {
	List(cityCode string) []models.Center
}

var (
	errMissingCityCode = appErrors.Clone(appErrors.ErrValidation, "Volunteer ID must contain MDA or NGP")
	errInvalidCityCode = appErrors.Clone(appErrors.ErrForbidden, "Invalid City Code.")
)

// RegisterRequest creates a volunteer account.
type RegisterRequest struct {
	VolunteerID string `json:"volunteerId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// LoginRequest carries plaintext credentials.
type LoginRequest struct {
	VolunteerID string `json:"volunteerId" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// UpdateUserRequest changes the name and/or the password; nil fields are kept.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=1"`
}

// LoginResult is returned on successful authentication with the centers the volunteer may pick.
type LoginResult struct {
	User     models.UserProfile `json:"user"`
	CityCode string             `json:"cityCode"`
	Centers  []models.Center    `json:"centers"`
}

// UserService manages volunteer accounts. Credentials are compared in plain text.
type UserService struct {
	store     userStore
	centers   centerDirectory
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the user service.
func NewUserService(store userStore, centers centerDirectory, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{store: store, centers: centers, validator: validate, logger: logger}
}

// Register creates an account. IDs are upper-cased and must carry a known city code.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.UserProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "All fields are required.")
	}
	id := normalizeVolunteerID(req.VolunteerID)
	if _, ok := models.CityCodeFromVolunteerID(id); !ok {
		return nil, errMissingCityCode
	}
	user := models.User{VolunteerID: id, Name: strings.TrimSpace(req.Name), Password: req.Password}
	if !s.store.AddUser(ctx, user) {
		return nil, appErrors.ErrAlreadyRegistered
	}
	s.logger.Info("volunteer registered", zap.String("volunteer_id", id))
	profile := user.Profile()
	return &profile, nil
}

// Authenticate checks the password and returns the centers of the volunteer's city.
func (s *UserService) Authenticate(_ context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	id := normalizeVolunteerID(req.VolunteerID)
	user, ok := s.store.FindUser(id)
	if !ok || user.Password != req.Password {
		s.logger.Info("login rejected", zap.String("volunteer_id", id))
		return nil, appErrors.ErrInvalidCredentials
	}
	city, ok := models.CityCodeFromVolunteerID(id)
	if !ok {
		return nil, errInvalidCityCode
	}
	return &LoginResult{User: user.Profile(), CityCode: city, Centers: s.centers.List(city)}, nil
}

// Update applies a partial change to an existing account.
func (s *UserService) Update(ctx context.Context, volunteerID string, req UpdateUserRequest) (*models.UserProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "name and password must not be empty")
	}
	user, ok := s.store.UpdateUser(ctx, normalizeVolunteerID(volunteerID), func(u *models.User) {
		if req.Name != nil {
			u.Name = strings.TrimSpace(*req.Name)
		}
		if req.Password != nil {
			u.Password = *req.Password
		}
	})
	if !ok {
		return nil, appErrors.ErrUserNotFound
	}
	profile := user.Profile()
	return &profile, nil
}

func normalizeVolunteerID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
