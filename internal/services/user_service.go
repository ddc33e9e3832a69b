package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/logger"
	"kaihelper/internal/models"
)

const verificationCodeTTL = 24 * time.Hour

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// Register creates a new user after validation and password hashing.
func (s *userService) Register(username, email, fullName, password, confirmPassword string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username, email, and password are required")
	}
	if password != confirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}

	if err := s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: username,
		Email:    strings.ToLower(email),
		FullName: fullName,
		Password: string(hashedPassword),
		IsActive: true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Verification code issuance is best effort; delivery is out of scope.
	if err := s.issueVerificationCode(user.ID); err != nil {
		logger.Get().Warnw("failed to issue verification code", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// Login verifies a username or email plus password pair.
func (s *userService) Login(usernameOrEmail, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("(username = ? OR email = ?) AND is_active = ?",
		usernameOrEmail, strings.ToLower(usernameOrEmail), true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// GetProfile retrieves a user by ID.
func (s *userService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// issueVerificationCode stores a random 6-digit code for the user.
func (s *userService) issueVerificationCode(userID uint) error {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return err
	}

	code := &models.EmailVerificationCode{
		UserID:    userID,
		Code:      fmt.Sprintf("%06d", n.Int64()),
		ExpiresAt: time.Now().Add(verificationCodeTTL),
	}
	return s.db.Create(code).Error
}
