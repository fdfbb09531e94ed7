package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.UserRepository {
	return &userRepository{db: db}
}

func (m userModel) toDomain() user.User {
	return user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         user.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Create implements user.UserRepository.
func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	if newUser.ID == "" {
		id, err := newID()
		if err != nil {
			return user.User{}, err
		}
		newUser.ID = id
	}

	m := userModel{
		ID:           newUser.ID,
		Name:         newUser.Name,
		Email:        newUser.Email,
		PasswordHash: newUser.PasswordHash,
		Role:         string(newUser.Role),
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return m.toDomain(), nil
}

// GetByID implements user.UserRepository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, cond string, arg interface{}) (user.User, error) {
	var m userModel
	if err := conn(ctx, r.db).Where(cond, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return m.toDomain(), nil
}

// List implements user.UserRepository.
func (r *userRepository) List(ctx context.Context, role user.Role) ([]user.User, error) {
	q := conn(ctx, r.db).Order("name ASC").Order("email ASC")
	if role != "" {
		q = q.Where("role = ?", string(role))
	}

	var models []userModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, 0, len(models))
	for _, m := range models {
		users = append(users, m.toDomain())
	}
	return users, nil
}

// Update implements user.UserRepository.
func (r *userRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	res := conn(ctx, r.db).Model(&userModel{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"name":          u.Name,
		"email":         u.Email,
		"role":          string(u.Role),
		"password_hash": u.PasswordHash,
		"updated_at":    time.Now().UTC(),
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return user.User{}, user.ErrUserNotFound
	}
	return r.GetByID(ctx, u.ID)
}

// UpdatePassword implements user.UserRepository.
func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res := conn(ctx, r.db).Model(&userModel{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
