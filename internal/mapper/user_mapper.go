package mapper

import (
	"chatshare-be/internal/entity"
	"chatshare-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

func (m *UserMapper) ProfileToEntity(p *model.UserProfile) *entity.UserProfile {
	if p == nil {
		return nil
	}
	return &entity.UserProfile{
		UserId:           p.UserId,
		IsPremium:        p.IsPremium,
		PremiumExpiry:    p.PremiumExpiry,
		AudioMinutesUsed: p.AudioMinutesUsed,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (m *UserMapper) ProfileToModel(p *entity.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}
	return &model.UserProfile{
		UserId:           p.UserId,
		IsPremium:        p.IsPremium,
		PremiumExpiry:    p.PremiumExpiry,
		AudioMinutesUsed: p.AudioMinutesUsed,
		UpdatedAt:        p.UpdatedAt,
	}
}
