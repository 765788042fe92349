package repository

import (
	"errors"

	repo "storeadmin/internal/repository"

	"gorm.io/gorm"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// gormのnot foundをrepo.ErrNotFoundに揃える
func mapNotFound(err error) error {
	if isNotFound(err) {
		return repo.ErrNotFound
	}
	return err
}

// 更新系の共通チェック
func affectedOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
