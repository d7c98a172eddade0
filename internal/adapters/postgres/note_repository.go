package postgres

import (
	"context"

	"github.com/viralforge/secure-notes/internal/domain"
	"github.com/viralforge/secure-notes/internal/ports"
	"gorm.io/gorm"
)

type noteRepository struct {
	db *gorm.DB
}

func (r *noteRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]domain.Note, error) {
	var rows []noteModel
	if err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Note, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainNote(row))
	}
	return result, nil
}

func (r *noteRepository) Create(ctx context.Context, params ports.NoteCreateParams) (domain.Note, error) {
	rec := noteModel{
		Owner:     params.Owner,
		Heading:   params.Heading,
		Content:   params.Content,
		CreatedAt: params.CreatedAtUTC,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Note{}, err
	}
	return toDomainNote(rec), nil
}

// Update folds the ownership check into the predicate so a foreign note and a
// missing note are indistinguishable to the caller.
func (r *noteRepository) Update(ctx context.Context, owner string, id int64, heading, content string) error {
	res := r.db.WithContext(ctx).
		Model(&noteModel{}).
		Where("id = ?", id).
		Where("owner = ?", owner).
		Updates(map[string]any{
			"heading": heading,
			"content": content,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, owner string, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("owner = ?", owner).
		Delete(&noteModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
