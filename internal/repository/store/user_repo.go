package store

import (
	"context"

	"GreenArmy/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

// Create 邮箱唯一，冲突时返回 gorm.ErrDuplicatedKey
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return gorm.ErrDuplicatedKey
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

// NamesByIDs 一次 IN 查询取用户名
func (r *UserRepository) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []struct {
		ID   string
		Name string
	}
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id, name").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		names[u.ID] = u.Name
	}
	return names, nil
}
