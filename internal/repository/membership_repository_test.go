package repository_test

import (
	"context"
	"testing"

	"github.com/EnrikeM/Miro/internal/authz"
	"github.com/EnrikeM/Miro/internal/model"
	"github.com/EnrikeM/Miro/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func expectBoardLookup(mock sqlmock.Sqlmock, boardID uuid.UUID) {
	mock.ExpectQuery(`SELECT .* FROM "boards" WHERE id = .* LIMIT 1`).
		WithArgs(boardID.String()).
		WillReturnRows(boardRows(boardID, "Sprint"))
}

func expectBoardMissing(mock sqlmock.Sqlmock, boardID uuid.UUID) {
	mock.ExpectQuery(`SELECT .* FROM "boards" WHERE id = .* LIMIT 1`).
		WithArgs(boardID.String()).
		WillReturnError(gorm.ErrRecordNotFound)
}

func expectRoleLookup(mock sqlmock.Sqlmock, boardID, userID uuid.UUID, role model.Role) {
	q := mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE board_id = .* AND user_id = .* LIMIT 1`).
		WithArgs(boardID.String(), userID.String())
	if role == model.RoleNone {
		q.WillReturnError(gorm.ErrRecordNotFound)
	} else {
		q.WillReturnRows(membershipRows(boardID, userID, role))
	}
}

func TestMembershipRepository_GetRole(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE board_id = .* AND user_id = .* LIMIT 1`).
		WithArgs(boardID.String(), userID.String()).
		WillReturnRows(membershipRows(boardID, userID, model.RoleEditor))

	// Act
	role, err := membershipRepo.GetRole(context.Background(), boardID, userID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.RoleEditor, role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_GetRole_Absent(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE board_id = .* AND user_id = .* LIMIT 1`).
		WithArgs(boardID.String(), userID.String()).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	role, err := membershipRepo.GetRole(context.Background(), boardID, userID)

	// Assert: отсутствие записи — это RoleNone, а не ошибка
	assert.NoError(t, err)
	assert.Equal(t, model.RoleNone, role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Invite_Success(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()
	inviteeID := uuid.New()

	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	expectRoleLookup(mock, boardID, inviteeID, model.RoleNone)
	mock.ExpectExec(`INSERT INTO "memberships"`).
		WithArgs(boardID.String(), inviteeID.String(), string(model.RoleEditor), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	membership, err := membershipRepo.Invite(context.Background(), boardID, ownerID, inviteeID, model.RoleEditor)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, membership)
	assert.Equal(t, model.RoleEditor, membership.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Invite_BoardNotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()
	inviteeID := uuid.New()

	// Несуществующая доска — not found, а не forbidden: роли даже не читаются
	mock.ExpectBegin()
	expectBoardMissing(mock, boardID)
	mock.ExpectRollback()

	// Act
	membership, err := membershipRepo.Invite(context.Background(), boardID, ownerID, inviteeID, model.RoleViewer)

	// Assert
	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
	assert.Nil(t, membership)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Invite_Conflict(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()
	inviteeID := uuid.New()

	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	expectRoleLookup(mock, boardID, inviteeID, model.RoleViewer)
	mock.ExpectRollback()

	// Act
	membership, err := membershipRepo.Invite(context.Background(), boardID, ownerID, inviteeID, model.RoleEditor)

	// Assert: повторное приглашение — конфликт, существующая роль не трогается
	assert.ErrorIs(t, err, repository.ErrMemberExists)
	assert.Nil(t, membership)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Invite_ConcurrentDuplicate(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()
	inviteeID := uuid.New()

	// Параллельное приглашение прошло проверку отсутствия, но вставка
	// упирается в составной ключ — исход тот же, что у последовательного
	// повтора: конфликт, а не внутренняя ошибка
	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	expectRoleLookup(mock, boardID, inviteeID, model.RoleNone)
	mock.ExpectExec(`INSERT INTO "memberships"`).
		WithArgs(boardID.String(), inviteeID.String(), string(model.RoleViewer), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "memberships_pkey"})
	mock.ExpectRollback()

	// Act
	membership, err := membershipRepo.Invite(context.Background(), boardID, ownerID, inviteeID, model.RoleViewer)

	// Assert
	assert.ErrorIs(t, err, repository.ErrMemberExists)
	assert.Nil(t, membership)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Invite_EditorCannotInvite(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	editorID := uuid.New()
	inviteeID := uuid.New()

	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, editorID, model.RoleEditor)
	mock.ExpectRollback()

	// Act
	_, err := membershipRepo.Invite(context.Background(), boardID, editorID, inviteeID, model.RoleViewer)

	// Assert: приглашать может только создатель
	assert.ErrorIs(t, err, authz.ErrInsufficientRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Invite_CreatorRoleRejected(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	// Act: роль creator выдать нельзя — до базы запрос не доходит
	_, err := membershipRepo.Invite(context.Background(), uuid.New(), uuid.New(), uuid.New(), model.RoleCreator)

	// Assert
	assert.ErrorIs(t, err, repository.ErrRoleNotAssignable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_UpdateRole_Success(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()
	targetID := uuid.New()

	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	expectRoleLookup(mock, boardID, targetID, model.RoleEditor)
	mock.ExpectExec(`UPDATE "memberships" SET "role"=`).
		WithArgs(string(model.RoleViewer), boardID.String(), targetID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	membership, err := membershipRepo.UpdateRole(context.Background(), boardID, ownerID, targetID, model.RoleViewer)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.RoleViewer, membership.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_UpdateRole_BoardNotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()

	mock.ExpectBegin()
	expectBoardMissing(mock, boardID)
	mock.ExpectRollback()

	// Act
	_, err := membershipRepo.UpdateRole(context.Background(), boardID, uuid.New(), uuid.New(), model.RoleEditor)

	// Assert
	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_UpdateRole_TargetNotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()
	targetID := uuid.New()

	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	expectRoleLookup(mock, boardID, targetID, model.RoleNone)
	mock.ExpectRollback()

	// Act
	_, err := membershipRepo.UpdateRole(context.Background(), boardID, ownerID, targetID, model.RoleViewer)

	// Assert
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_UpdateRole_CreatorImmutable(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()

	// Создатель пытается понизить сам себя — строка создателя неприкосновенна
	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	mock.ExpectRollback()

	// Act
	_, err := membershipRepo.UpdateRole(context.Background(), boardID, ownerID, ownerID, model.RoleViewer)

	// Assert
	assert.ErrorIs(t, err, authz.ErrInsufficientRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_UpdateRole_CreatorRoleRejected(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	// Act: через update роль creator не выдается — запрос в базу не уходит
	_, err := membershipRepo.UpdateRole(context.Background(), uuid.New(), uuid.New(), uuid.New(), model.RoleCreator)

	// Assert
	assert.ErrorIs(t, err, repository.ErrRoleNotAssignable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Remove_Success(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()
	targetID := uuid.New()

	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	expectRoleLookup(mock, boardID, targetID, model.RoleViewer)
	mock.ExpectExec(`DELETE FROM "memberships" WHERE board_id = `).
		WithArgs(boardID.String(), targetID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := membershipRepo.Remove(context.Background(), boardID, ownerID, targetID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Remove_BoardNotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()

	mock.ExpectBegin()
	expectBoardMissing(mock, boardID)
	mock.ExpectRollback()

	// Act
	err := membershipRepo.Remove(context.Background(), boardID, uuid.New(), uuid.New())

	// Assert
	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Remove_CreatorForbidden(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()

	// Создатель пытается удалить сам себя с доски
	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	mock.ExpectRollback()

	// Act
	err := membershipRepo.Remove(context.Background(), boardID, ownerID, ownerID)

	// Assert
	assert.ErrorIs(t, err, authz.ErrInsufficientRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Remove_TargetNotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	ownerID := uuid.New()
	targetID := uuid.New()

	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, ownerID, model.RoleCreator)
	expectRoleLookup(mock, boardID, targetID, model.RoleNone)
	mock.ExpectRollback()

	// Act
	err := membershipRepo.Remove(context.Background(), boardID, ownerID, targetID)

	// Assert
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_ListMembers_BoardNotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()

	mock.ExpectBegin()
	expectBoardMissing(mock, boardID)
	mock.ExpectRollback()

	// Act
	members, err := membershipRepo.ListMembers(context.Background(), boardID, uuid.New(), false)

	// Assert
	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
	assert.Nil(t, members)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_ListMembers_NotMember(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	strangerID := uuid.New()

	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, strangerID, model.RoleNone)
	mock.ExpectRollback()

	// Act
	members, err := membershipRepo.ListMembers(context.Background(), boardID, strangerID, false)

	// Assert
	assert.ErrorIs(t, err, authz.ErrNotMember)
	assert.Nil(t, members)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_ListMembers_RequireOwner(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	editorID := uuid.New()

	mock.ExpectBegin()
	expectBoardLookup(mock, boardID)
	expectRoleLookup(mock, boardID, editorID, model.RoleEditor)
	mock.ExpectRollback()

	// Act
	members, err := membershipRepo.ListMembers(context.Background(), boardID, editorID, true)

	// Assert: с requireOwner список доступен только создателю
	assert.ErrorIs(t, err, authz.ErrInsufficientRole)
	assert.Nil(t, members)
	assert.NoError(t, mock.ExpectationsWereMet())
}
