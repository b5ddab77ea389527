package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"todo-tracker/backend/internal/models"
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ProfileUpdate changes only the supplied fields. An empty image clears it.
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// AccountDeletedHook runs after an account and its tasks are gone.
type AccountDeletedHook func(ctx context.Context, userID uuid.UUID)

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type UserServiceImpl struct {
	db        *gorm.DB
	hasher    *PasswordHasher
	onDeleted []AccountDeletedHook

	// compared against when the email is unknown so both login failures cost a bcrypt round
	dummyHash string
}

func NewUserService(db *gorm.DB, hasher *PasswordHasher, hooks ...AccountDeletedHook) *UserServiceImpl {
	dummy, _ := hasher.Hash("not-a-real-password")
	return &UserServiceImpl{
		db:        db,
		hasher:    hasher,
		onDeleted: hooks,
		dummyHash: dummy,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := models.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	switch {
	case email == "":
		return nil, missingField("email")
	case in.Password == "":
		return nil, missingField("password")
	case name == "":
		return nil, missingField("name")
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("find user by email", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    email,
		Password: hashed,
		Name:     name,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, storeError("create user", err)
	}

	return &user, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.hasher.Verify(s.dummyHash, password)
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, storeError("find user by email", err)
	}

	if !s.hasher.Verify(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, storeError("find user", err, "user_id", userID.String())
	}
	return &user, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, validationError("name", "must not be empty")
		}
		updates["name"] = name
	}
	if upd.Image != nil {
		if image := strings.TrimSpace(*upd.Image); image == "" {
			updates["image"] = nil
		} else {
			updates["image"] = image
		}
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			return nil, storeError("update profile", result.Error, "user_id", userID.String())
		}
		if result.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}

	return s.GetProfile(ctx, userID)
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return missingField("currentPassword")
	}
	if newPassword == "" {
		return missingField("newPassword")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(user.Password, currentPassword) {
		return ErrInvalidCredentials
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", hashed).Error
	if err != nil {
		return storeError("update password", err, "user_id", userID.String())
	}
	return nil
}

// DeleteAccount removes the user and every task they own in one transaction.
func (s *UserServiceImpl) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Task{}).Error; err != nil {
			return storeError("delete user tasks", err, "user_id", userID.String())
		}

		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return storeError("delete user", result.Error, "user_id", userID.String())
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, hook := range s.onDeleted {
		hook(ctx, userID)
	}
	return nil
}
