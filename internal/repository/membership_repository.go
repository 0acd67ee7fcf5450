package repository

import (
	"context"
	"errors"

	"github.com/EnrikeM/Miro/internal/authz"
	"github.com/EnrikeM/Miro/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// roleInTx читает роль пользователя на доске внутри текущей транзакции.
// Отсутствие записи — это RoleNone, а не ошибка. Строка членства — единственный
// источник истины о правах, поэтому читать её нужно в той же транзакции,
// что и зависящая от неё мутация.
func roleInTx(tx *gorm.DB, boardID, userID uuid.UUID) (model.Role, error) {
	var membership model.Membership

	err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RoleNone, nil
	}
	if err != nil {
		return model.RoleNone, err
	}
	return membership.Role, nil
}

// boardExistsInTx проверяет существование доски до любых проверок ролей.
// Несуществующая доска — not found для любого вызывающего; отсутствие прав
// не должно маскировать отсутствие доски.
func boardExistsInTx(tx *gorm.DB, boardID uuid.UUID) error {
	var board model.Board

	err := tx.Where("id = ?", boardID).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBoardNotFound
	}
	return err
}

// Нарушение уникального ключа: код 23505 в postgres. Параллельное повторное
// приглашение может пройти проверку отсутствия и упереться в составной ключ
// memberships.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GetRole возвращает роль пользователя на доске (RoleNone, если доступа нет).
func (r *MembershipRepository) GetRole(ctx context.Context, boardID, userID uuid.UUID) (model.Role, error) {
	return roleInTx(r.db.WithContext(ctx), boardID, userID)
}

// ListMembers возвращает всех участников доски. Просматривать список может любой
// участник; при requireOwner только создатель.
func (r *MembershipRepository) ListMembers(ctx context.Context, boardID, requesterID uuid.UUID, requireOwner bool) ([]model.Membership, error) {
	var memberships []model.Membership

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := boardExistsInTx(tx, boardID); err != nil {
			return err
		}

		role, err := roleInTx(tx, boardID, requesterID)
		if err != nil {
			return err
		}
		if requireOwner {
			err = authz.CheckCreator(role)
		} else {
			err = authz.CheckMembership(role)
		}
		if err != nil {
			return err
		}

		return tx.Preload("User").Where("board_id = ?", boardID).Find(&memberships).Error
	})
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// Invite добавляет пользователя на доску. Приглашать может только создатель.
// Повторное приглашение — ErrMemberExists, роль не обновляется (это не upsert).
func (r *MembershipRepository) Invite(ctx context.Context, boardID, inviterID, inviteeID uuid.UUID, role model.Role) (*model.Membership, error) {
	if !role.Assignable() {
		return nil, ErrRoleNotAssignable
	}

	membership := model.Membership{
		BoardID: boardID,
		UserID:  inviteeID,
		Role:    role,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := boardExistsInTx(tx, boardID); err != nil {
			return err
		}

		inviterRole, err := roleInTx(tx, boardID, inviterID)
		if err != nil {
			return err
		}
		if err := authz.CheckCreator(inviterRole); err != nil {
			return err
		}

		existing, err := roleInTx(tx, boardID, inviteeID)
		if err != nil {
			return err
		}
		if existing != model.RoleNone {
			return ErrMemberExists
		}

		if err := tx.Create(&membership).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrMemberExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// UpdateRole меняет роль участника. Доступно только создателю; новая роль —
// editor или viewer. Строка создателя неприкосновенна: попытка сменить роль
// создателя (в том числе свою собственную) отклоняется.
func (r *MembershipRepository) UpdateRole(ctx context.Context, boardID, ownerID, targetUserID uuid.UUID, newRole model.Role) (*model.Membership, error) {
	if !newRole.Assignable() {
		return nil, ErrRoleNotAssignable
	}

	var membership model.Membership

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := boardExistsInTx(tx, boardID); err != nil {
			return err
		}

		ownerRole, err := roleInTx(tx, boardID, ownerID)
		if err != nil {
			return err
		}
		if err := authz.CheckCreator(ownerRole); err != nil {
			return err
		}

		err = tx.Where("board_id = ? AND user_id = ?", boardID, targetUserID).First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return err
		}

		if membership.Role == model.RoleCreator {
			return authz.ErrInsufficientRole
		}

		membership.Role = newRole
		return tx.Model(&model.Membership{}).
			Where("board_id = ? AND user_id = ?", boardID, targetUserID).
			Update("role", newRole).Error
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Remove удаляет участника с доски. Доступно только создателю; создателя
// удалить нельзя, пока существует доска.
func (r *MembershipRepository) Remove(ctx context.Context, boardID, removerID, targetUserID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := boardExistsInTx(tx, boardID); err != nil {
			return err
		}

		removerRole, err := roleInTx(tx, boardID, removerID)
		if err != nil {
			return err
		}
		if err := authz.CheckCreator(removerRole); err != nil {
			return err
		}

		targetRole, err := roleInTx(tx, boardID, targetUserID)
		if err != nil {
			return err
		}
		if targetRole == model.RoleCreator {
			return authz.ErrInsufficientRole
		}
		if targetRole == model.RoleNone {
			return ErrMemberNotFound
		}

		return tx.Where("board_id = ? AND user_id = ?", boardID, targetUserID).
			Delete(&model.Membership{}).Error
	})
}
