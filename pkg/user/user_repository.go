package user

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		RegisterUser(ctx context.Context, user *entities.User) (*entities.User, error)
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		CheckEmail(ctx context.Context, email string) (bool, error)
		CheckUsername(ctx context.Context, username string) (bool, error)
		GetUsers(ctx context.Context, page domain.PageRequest) ([]entities.User, int64, error)
		GetSubscriptions(ctx context.Context, userID uuid.UUID, page domain.PageRequest) ([]entities.User, int64, error)
		GetLatestRecipes(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]entities.Recipe, error)
		CountRecipes(ctx context.Context, authorID uuid.UUID) (int64, error)
		UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
		DeleteUser(ctx context.Context, id uuid.UUID) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) RegisterUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CheckEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CheckUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) GetUsers(ctx context.Context, page domain.PageRequest) ([]entities.User, int64, error) {
	var users []entities.User
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.User{})
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("username asc").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (r *userRepository) GetSubscriptions(ctx context.Context, userID uuid.UUID, page domain.PageRequest) ([]entities.User, int64, error) {
	var users []entities.User
	var count int64

	followed := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Select("author_id").
		Where("user_id = ?", userID)

	query := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("users.id IN (?)", followed)
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("users.username asc").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// GetLatestRecipes returns up to limit newest recipes of every author in
// one query. A limit below one returns all of them.
func (r *userRepository) GetLatestRecipes(ctx context.Context, authorIDs []uuid.UUID, limit int) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	if len(authorIDs) == 0 {
		return recipes, nil
	}

	if limit < 1 {
		err := r.db.WithContext(ctx).
			Where("author_id IN ?", authorIDs).
			Order("pub_date desc").
			Find(&recipes).Error
		return recipes, err
	}

	ranked := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("recipes.*, ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY pub_date DESC) AS rn").
		Where("author_id IN ?", authorIDs)

	err := r.db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Where("rn <= ?", limit).
		Order("pub_date desc").
		Find(&recipes).Error
	return recipes, err
}

func (r *userRepository) CountRecipes(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}

// DeleteUser removes the user together with their favorites, cart and
// follows. Authors of recipes are protected by the foreign key.
func (r *userRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.User{})
	if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
		return domain.ErrUserHasRecipes
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
