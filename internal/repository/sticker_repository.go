package repository

import (
	"context"
	"errors"

	"github.com/EnrikeM/Miro/internal/authz"
	"github.com/EnrikeM/Miro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StickerRepository struct {
	db *gorm.DB
}

func NewStickerRepository(db *gorm.DB) *StickerRepository {
	return &StickerRepository{db: db}
}

// StickerInput is the full mutable tuple of a sticker. Update replaces it
// atomically, there is no partial field merge.
type StickerInput struct {
	X      int
	Y      int
	Width  int
	Height int
	Text   string
	Color  string
}

// Create добавляет стикер на доску. Требуется роль editor или выше.
func (r *StickerRepository) Create(ctx context.Context, boardID, userID uuid.UUID, input StickerInput) (*model.Sticker, error) {
	sticker := model.Sticker{
		ID:      uuid.New(),
		BoardID: boardID,
		X:       input.X,
		Y:       input.Y,
		Width:   input.Width,
		Height:  input.Height,
		Text:    input.Text,
		Color:   input.Color,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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
		if err := authz.CheckEditOrAbove(role); err != nil {
			return err
		}

		return tx.Create(&sticker).Error
	})
	if err != nil {
		return nil, err
	}
	return &sticker, nil
}

// GetByID возвращает стикер. Сначала проверяется существование стикера,
// затем членство на его доске.
func (r *StickerRepository) GetByID(ctx context.Context, stickerID, userID uuid.UUID) (*model.Sticker, error) {
	var sticker model.Sticker

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", stickerID).First(&sticker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStickerNotFound
			}
			return err
		}

		role, err := roleInTx(tx, sticker.BoardID, userID)
		if err != nil {
			return err
		}
		return authz.CheckMembership(role)
	})
	if err != nil {
		return nil, err
	}
	return &sticker, nil
}

// Update заменяет геометрию, текст и цвет стикера целиком.
func (r *StickerRepository) Update(ctx context.Context, stickerID, userID uuid.UUID, input StickerInput) (*model.Sticker, error) {
	var sticker model.Sticker

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", stickerID).First(&sticker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStickerNotFound
			}
			return err
		}

		role, err := roleInTx(tx, sticker.BoardID, userID)
		if err != nil {
			return err
		}
		if err := authz.CheckEditOrAbove(role); err != nil {
			return err
		}

		sticker.X = input.X
		sticker.Y = input.Y
		sticker.Width = input.Width
		sticker.Height = input.Height
		sticker.Text = input.Text
		sticker.Color = input.Color

		return tx.Model(&model.Sticker{}).
			Where("id = ?", stickerID).
			Updates(map[string]interface{}{
				"x":      input.X,
				"y":      input.Y,
				"width":  input.Width,
				"height": input.Height,
				"text":   input.Text,
				"color":  input.Color,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &sticker, nil
}

// Delete удаляет стикер. Как и в случае обновления, нужна роль editor или выше.
func (r *StickerRepository) Delete(ctx context.Context, stickerID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sticker model.Sticker
		if err := tx.Where("id = ?", stickerID).First(&sticker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStickerNotFound
			}
			return err
		}

		role, err := roleInTx(tx, sticker.BoardID, userID)
		if err != nil {
			return err
		}
		if err := authz.CheckEditOrAbove(role); err != nil {
			return err
		}

		return tx.Where("id = ?", stickerID).Delete(&model.Sticker{}).Error
	})
}

// ListByBoard возвращает стикеры доски. Если у пользователя нет доступа,
// возвращается пустой список, а не ошибка: жесткую проверку доступа дает
// GetWithRole у досок.
func (r *StickerRepository) ListByBoard(ctx context.Context, boardID, userID uuid.UUID) ([]model.Sticker, error) {
	stickers := []model.Sticker{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := roleInTx(tx, boardID, userID)
		if err != nil {
			return err
		}
		if authz.CheckMembership(role) != nil {
			return nil
		}

		return tx.Where("board_id = ?", boardID).Find(&stickers).Error
	})
	if err != nil {
		return nil, err
	}
	return stickers, nil
}
