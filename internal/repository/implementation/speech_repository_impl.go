package implementation

import (
	"context"
	"errors"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/mapper"
	"chatshare-be/internal/model"
	"chatshare-be/internal/repository/contract"
	"chatshare-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SpeechRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SpeechMapper
}

func NewSpeechRepository(db *gorm.DB) contract.SpeechRepository {
	return &SpeechRepositoryImpl{
		db:     db,
		mapper: mapper.NewSpeechMapper(),
	}
}

func (r *SpeechRepositoryImpl) Create(ctx context.Context, tts *entity.TextToSpeech) error {
	m := r.mapper.ToModel(tts)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tts = *r.mapper.ToEntity(m)
	return nil
}

func (r *SpeechRepositoryImpl) Update(ctx context.Context, tts *entity.TextToSpeech) error {
	m := r.mapper.ToModel(tts)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*tts = *r.mapper.ToEntity(m)
	return nil
}

func (r *SpeechRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TextToSpeech, error) {
	var m model.TextToSpeech
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
