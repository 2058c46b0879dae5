package repository

import (
	"context"
	"errors"

	"memoria/internal/models"

	"gorm.io/gorm"
)

// ReportFilter narrows report listings. Empty fields mean "all".
type ReportFilter struct {
	Status       string
	ReportedType string
	Limit        int
	Offset       int
}

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	Create(ctx context.Context, tx *gorm.DB, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	HasPending(ctx context.Context, tx *gorm.DB, reporterID uint, reportedType models.ReportedType, reportedID uint) (bool, error)
	List(ctx context.Context, filter ReportFilter) ([]models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	PendingCount(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, tx *gorm.DB, report *models.Report) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("ReviewedBy").
		First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

func (r *reportRepository) HasPending(ctx context.Context, tx *gorm.DB, reporterID uint, reportedType models.ReportedType, reportedID uint) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Report{}).
		Where("reporter_id = ? AND reported_type = ? AND reported_id = ? AND status = ?",
			reporterID, reportedType, reportedID, models.ReportStatusPending).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, error) {
	q := r.db.WithContext(ctx).Preload("Reporter").Preload("ReviewedBy")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ReportedType != "" {
		q = q.Where("reported_type = ?", filter.ReportedType)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var reports []models.Report
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&reports).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) Update(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Save(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("status = ?", models.ReportStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
