package mapper

import (
	"chatshare-be/internal/entity"
	"chatshare-be/internal/model"

	"gorm.io/datatypes"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.UserPayment) *entity.UserPayment {
	if p == nil {
		return nil
	}
	return &entity.UserPayment{
		Id:          p.Id,
		UserId:      p.UserId,
		Reference:   p.Reference,
		Amount:      p.Amount,
		Status:      entity.PaymentStatus(p.Status),
		SnapToken:   p.SnapToken,
		RedirectURL: p.RedirectURL,
		RawResponse: []byte(p.RawResponse),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *PaymentMapper) ToModel(p *entity.UserPayment) *model.UserPayment {
	if p == nil {
		return nil
	}
	var raw datatypes.JSON
	if len(p.RawResponse) > 0 {
		raw = datatypes.JSON(p.RawResponse)
	}
	return &model.UserPayment{
		Id:          p.Id,
		UserId:      p.UserId,
		Reference:   p.Reference,
		Amount:      p.Amount,
		Status:      string(p.Status),
		SnapToken:   p.SnapToken,
		RedirectURL: p.RedirectURL,
		RawResponse: raw,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
