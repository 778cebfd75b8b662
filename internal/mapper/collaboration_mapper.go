package mapper

import (
	"chatshare-be/internal/entity"
	"chatshare-be/internal/model"
)

type CollaborationMapper struct{}

func NewCollaborationMapper() *CollaborationMapper {
	return &CollaborationMapper{}
}

func (m *CollaborationMapper) ToEntity(c *model.Collaboration) *entity.Collaboration {
	if c == nil {
		return nil
	}
	return &entity.Collaboration{
		Id:             c.Id,
		ChatId:         c.ChatId,
		CollaboratorId: c.CollaboratorId,
		AddedById:      c.AddedById,
		AccessLevel:    entity.AccessLevel(c.AccessLevel),
		IsApproved:     c.IsApproved,
		AddedAt:        c.AddedAt,
	}
}

func (m *CollaborationMapper) ToModel(c *entity.Collaboration) *model.Collaboration {
	if c == nil {
		return nil
	}
	return &model.Collaboration{
		Id:             c.Id,
		ChatId:         c.ChatId,
		CollaboratorId: c.CollaboratorId,
		AddedById:      c.AddedById,
		AccessLevel:    string(c.AccessLevel),
		IsApproved:     c.IsApproved,
		AddedAt:        c.AddedAt,
	}
}

func (m *CollaborationMapper) ToEntities(rows []*model.Collaboration) []*entity.Collaboration {
	entities := make([]*entity.Collaboration, len(rows))
	for i, c := range rows {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CollaborationMapper) PendingToEntity(r *model.PendingInvitationRow) *entity.PendingInvitation {
	return &entity.PendingInvitation{
		ChatId:        r.ChatId,
		Title:         r.Title,
		OwnerId:       r.OwnerId,
		OwnerUsername: r.OwnerUsername,
		OwnerEmail:    r.OwnerEmail,
		AddedAt:       r.AddedAt,
	}
}
