package repository

import (
	"context"
	"errors"

	"github.com/EnrikeM/Miro/internal/authz"
	"github.com/EnrikeM/Miro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create создает доску вместе с членством создателя в одной транзакции.
// Доска без единого членства не должна быть видна никому и никогда.
func (r *BoardRepository) Create(ctx context.Context, name string, creatorID uuid.UUID) (*model.Board, error) {
	board := model.Board{
		ID:   uuid.New(),
		Name: name,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&board).Error; err != nil {
			return err
		}
		membership := model.Membership{
			BoardID: board.ID,
			UserID:  creatorID,
			Role:    model.RoleCreator,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// ListForUser возвращает членства пользователя вместе с досками.
// Роль на каждой доске берется из соответствующего членства.
func (r *BoardRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership

	err := r.db.WithContext(ctx).
		Preload("Board").
		Where("user_id = ?", userID).
		Find(&memberships).Error

	return memberships, err
}

// GetWithRole возвращает доску и роль пользователя на ней.
// Несуществующая доска — ErrBoardNotFound; существующая без членства — ErrNotMember.
// Порядок проверок важен: отсутствие доступа не должно маскировать отсутствие доски.
func (r *BoardRepository) GetWithRole(ctx context.Context, boardID, userID uuid.UUID) (*model.Board, model.Role, error) {
	var board model.Board
	var role model.Role

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", boardID).First(&board).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBoardNotFound
			}
			return err
		}

		var err error
		role, err = roleInTx(tx, boardID, userID)
		if err != nil {
			return err
		}
		return authz.CheckMembership(role)
	})
	if err != nil {
		return nil, model.RoleNone, err
	}
	return &board, role, nil
}

// Rename меняет имя доски. Требуется роль editor или выше.
// Возвращает обновленную доску и роль вызывающего.
func (r *BoardRepository) Rename(ctx context.Context, boardID, userID uuid.UUID, newName string) (*model.Board, model.Role, error) {
	var board model.Board
	var role model.Role

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", boardID).First(&board).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBoardNotFound
			}
			return err
		}

		var err error
		role, err = roleInTx(tx, boardID, userID)
		if err != nil {
			return err
		}
		if err := authz.CheckEditOrAbove(role); err != nil {
			return err
		}

		return tx.Model(&board).Update("name", newName).Error
	})
	if err != nil {
		return nil, model.RoleNone, err
	}
	return &board, role, nil
}

// Delete удаляет доску вместе со всеми членствами и стикерами.
// Разрешено только создателю. Каскад выполняется явно в той же транзакции,
// чтобы не зависеть от настроек внешних ключей в схеме.
func (r *BoardRepository) Delete(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board model.Board
		if err := tx.Where("id = ?", boardID).First(&board).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBoardNotFound
			}
			return err
		}

		role, err := roleInTx(tx, boardID, userID)
		if err != nil {
			return err
		}
		if err := authz.CheckCreator(role); err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", boardID).Delete(&model.Sticker{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", boardID).Delete(&model.Board{}).Error
	})
}
