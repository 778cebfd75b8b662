package implementation

import (
	"context"
	"errors"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/mapper"
	"chatshare-be/internal/model"
	"chatshare-be/internal/repository/contract"
	"chatshare-be/internal/repository/scope"
	"chatshare-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CollaborationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CollaborationMapper
}

func NewCollaborationRepository(db *gorm.DB) contract.CollaborationRepository {
	return &CollaborationRepositoryImpl{
		db:     db,
		mapper: mapper.NewCollaborationMapper(),
	}
}

func (r *CollaborationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CollaborationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Collaboration, error) {
	var m model.Collaboration
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CollaborationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Collaboration, error) {
	var models []*model.Collaboration
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CollaborationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Collaboration{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CollaborationRepositoryImpl) InsertIfAbsent(ctx context.Context, collab *entity.Collaboration) (bool, error) {
	m := r.mapper.ToModel(collab)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "collaborator_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	*collab = *r.mapper.ToEntity(m)
	return true, nil
}

func (r *CollaborationRepositoryImpl) UpdateAccessLevel(ctx context.Context, chatId, collaboratorId uuid.UUID, level entity.AccessLevel) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Collaboration{}).
		Where("chat_id = ? AND collaborator_id = ? AND access_level <> ?", chatId, collaboratorId, string(level)).
		Update("access_level", string(level))
	return res.RowsAffected > 0, res.Error
}

func (r *CollaborationRepositoryImpl) Approve(ctx context.Context, chatId, collaboratorId uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Collaboration{}).
		Where("chat_id = ? AND collaborator_id = ? AND is_approved = ?", chatId, collaboratorId, false).
		Update("is_approved", true)
	return res.RowsAffected > 0, res.Error
}

func (r *CollaborationRepositoryImpl) DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if len(specs) == 0 {
		return 0, errors.New("refusing to delete collaborations without a filter")
	}
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	res := query.Delete(&model.Collaboration{})
	return res.RowsAffected, res.Error
}

func (r *CollaborationRepositoryImpl) FindPendingInvitations(ctx context.Context, collaboratorId uuid.UUID) ([]*entity.PendingInvitation, error) {
	var rows []*model.PendingInvitationRow
	err := r.db.WithContext(ctx).
		Table("collaborations").
		Select("chats.id AS chat_id, chats.title AS title, users.id AS owner_id, users.username AS owner_username, users.email AS owner_email, collaborations.added_at AS added_at").
		Joins("JOIN chats ON chats.id = collaborations.chat_id").
		Joins("JOIN users ON users.id = chats.user_id").
		Where("collaborations.collaborator_id = ? AND collaborations.is_approved = ?", collaboratorId, false).
		Scopes(scope.ExcludeSoftDelete("chats")).
		Order("collaborations.added_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.PendingInvitation, 0, len(rows))
	for _, row := range rows {
		result = append(result, r.mapper.PendingToEntity(row))
	}
	return result, nil
}
