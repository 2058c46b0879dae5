package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"memoria/internal/models"
	"memoria/internal/observability"
	"memoria/internal/repository"

	"gorm.io/gorm"
)

// Report review actions.
const (
	ReviewActionResolve = "resolve"
	ReviewActionDismiss = "dismiss"
)

const reportPreviewLen = 100

// CreateReportInput carries the fields for submitting a report.
type CreateReportInput struct {
	ReportedType string `json:"reported_type"`
	ReportedID   uint   `json:"reported_id"`
	Reason       string `json:"reason"`
	Description  string `json:"description"`
}

// ReviewReportInput carries an admin's review decision.
type ReviewReportInput struct {
	Action     string `json:"action"`
	AdminNotes string `json:"admin_notes"`
}

// ReportService handles report submission, listing, and review. Targets are
// referenced by a (type, id) tag pair and resolved against the matching
// table on read.
type ReportService struct {
	db              *gorm.DB
	reportRepo      repository.ReportRepository
	userRepo        repository.UserRepository
	notificationSvc *NotificationService
	isAdmin         func(ctx context.Context, userID uint) (bool, error)
}

// NewReportService returns a new ReportService.
func NewReportService(
	db *gorm.DB,
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	notificationSvc *NotificationService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ReportService {
	return &ReportService{
		db:              db,
		reportRepo:      reportRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		isAdmin:         isAdmin,
	}
}

// resolveTarget looks up the reported entity. A nil result with a nil error
// never happens; missing targets return a not-found error.
func (s *ReportService) resolveTarget(ctx context.Context, reportedType models.ReportedType, id uint) (any, error) {
	db := s.db.WithContext(ctx)

	var (
		target any
		err    error
	)
	switch reportedType {
	case models.ReportedTypePost:
		var post models.CommunityPost
		err = db.First(&post, id).Error
		target = &post
	case models.ReportedTypeContent:
		var content models.Content
		err = db.First(&content, id).Error
		target = &content
	case models.ReportedTypeUser:
		var user models.User
		err = db.First(&user, id).Error
		target = &user
	case models.ReportedTypeComment:
		var comment models.CommunityPostComment
		err = db.First(&comment, id).Error
		target = &comment
	case models.ReportedTypeCommunity:
		var community models.Community
		err = db.First(&community, id).Error
		target = &community
	default:
		return nil, models.NewValidationError("Invalid reported type")
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(reportedType.Label(), id)
		}
		return nil, models.NewInternalError(err)
	}
	return target, nil
}

// Create submits a report and fans out a notification to every admin in the
// same transaction. A reporter can hold at most one pending report per
// target.
func (s *ReportService) Create(ctx context.Context, reporterID uint, input CreateReportInput) (*models.Report, error) {
	reportedType := models.ReportedType(input.ReportedType)
	if !reportedType.Valid() {
		return nil, models.NewValidationError("Invalid reported type")
	}
	if !models.ValidReportReason(input.Reason) {
		return nil, models.NewValidationError("Invalid report reason")
	}

	reporter, err := s.userRepo.GetByID(ctx, reporterID)
	if err != nil {
		return nil, err
	}

	if _, err := s.resolveTarget(ctx, reportedType, input.ReportedID); err != nil {
		return nil, err
	}

	report := &models.Report{
		ReporterID:   reporterID,
		ReportedType: reportedType,
		ReportedID:   input.ReportedID,
		Reason:       input.Reason,
		Description:  strings.TrimSpace(input.Description),
		Status:       models.ReportStatusPending,
	}

	preview := report.Description
	if utf8.RuneCountInString(preview) > reportPreviewLen {
		preview = string([]rune(preview)[:reportPreviewLen]) + "..."
	}
	message := fmt.Sprintf("%s reported %s #%d for %s",
		reporter.Name, strings.ToLower(reportedType.Label()), input.ReportedID,
		models.ReportReasonLabel(input.Reason))
	if preview != "" {
		message += ": " + preview
	}

	// the dedupe check runs in the same transaction as the insert so two
	// concurrent submissions cannot both pass it
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending, err := s.reportRepo.HasPending(ctx, tx, reporterID, reportedType, input.ReportedID)
		if err != nil {
			return err
		}
		if pending {
			return models.NewDuplicateError("You already have a pending report for this item")
		}
		if err := s.reportRepo.Create(ctx, tx, report); err != nil {
			return err
		}
		return s.notificationSvc.FanOutToAdmins(ctx, tx,
			models.NotificationTypeReport,
			fmt.Sprintf("New report: %s", reportedType.Label()),
			message,
			fmt.Sprintf("/admin/reports/%d", report.ID),
		)
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, models.NewInternalError(err)
	}

	observability.ReportsSubmitted.WithLabelValues(string(reportedType)).Inc()
	return report, nil
}

// List returns reports matching the status and type filters, with each
// report's target resolved for display. "all" and "" both mean no filter.
// Missing targets leave ReportedItem nil rather than failing the listing.
func (s *ReportService) List(ctx context.Context, actorID uint, status, reportedType string, limit, offset int) ([]models.Report, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	filter := repository.ReportFilter{Limit: limit, Offset: offset}
	if status != "" && status != "all" {
		filter.Status = status
	}
	if reportedType != "" && reportedType != "all" {
		filter.ReportedType = reportedType
	}

	reports, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range reports {
		target, err := s.resolveTarget(ctx, reports[i].ReportedType, reports[i].ReportedID)
		if err != nil {
			continue
		}
		reports[i].ReportedItem = target
	}
	return reports, nil
}

// Get returns a single report with its target resolved.
func (s *ReportService) Get(ctx context.Context, actorID, reportID uint) (*models.Report, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if target, err := s.resolveTarget(ctx, report.ReportedType, report.ReportedID); err == nil {
		report.ReportedItem = target
	}
	return report, nil
}

// PendingCount returns the number of reports awaiting review.
func (s *ReportService) PendingCount(ctx context.Context, actorID uint) (int64, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return 0, err
	}
	return s.reportRepo.PendingCount(ctx)
}

// Review resolves or dismisses a pending report, recording the reviewer,
// the review time, and optional notes. Reviewed reports cannot be reviewed
// again.
func (s *ReportService) Review(ctx context.Context, actorID, reportID uint, input ReviewReportInput) (*models.Report, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	var status string
	switch input.Action {
	case ReviewActionResolve:
		status = models.ReportStatusResolved
	case ReviewActionDismiss:
		status = models.ReportStatusDismissed
	default:
		return nil, models.NewValidationError("Action must be resolve or dismiss")
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusPending {
		return nil, models.NewStateConflictError("This report has already been reviewed")
	}

	now := time.Now()
	report.Status = status
	report.ReviewedByID = &actorID
	report.ReviewedAt = &now
	report.AdminNotes = strings.TrimSpace(input.AdminNotes)
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	observability.ReportsReviewed.WithLabelValues(status).Inc()
	return report, nil
}

func (s *ReportService) requireAdmin(ctx context.Context, actorID uint) error {
	ok, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewForbiddenError("Access denied")
	}
	return nil
}
