package implementation

import (
	"context"
	"errors"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/mapper"
	"chatshare-be/internal/model"
	"chatshare-be/internal/repository/contract"
	"chatshare-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentMapper(),
	}
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, payment *entity.UserPayment) error {
	m := r.mapper.ToModel(payment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*payment = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaymentRepositoryImpl) Update(ctx context.Context, payment *entity.UserPayment) error {
	m := r.mapper.ToModel(payment)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*payment = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserPayment, error) {
	var m model.UserPayment
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) Transition(ctx context.Context, reference string, status entity.PaymentStatus, raw []byte) (bool, error) {
	updates := map[string]interface{}{"status": string(status)}
	if len(raw) > 0 {
		updates["raw_response"] = datatypes.JSON(raw)
	}
	res := r.db.WithContext(ctx).Model(&model.UserPayment{}).
		Where("reference = ? AND status <> ?", reference, string(entity.PaymentStatusSuccess)).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}
