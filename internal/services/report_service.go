package services

import (
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dong279/mumu-express/internal/models"
	"github.com/dong279/mumu-express/internal/repositories"
)

var (
	ErrInvalidReportTarget = errors.New("reported_type must be user, community or comment")
	ErrInvalidReportReason = errors.New("invalid report reason")
	ErrAlreadyReported     = errors.New("already reported")
	ErrReportTargetMissing = errors.New("reported content not found")
)

type ReportService interface {
	Create(report *models.Report) error
	ListMine(reporterID, limit, offset int) ([]*models.Report, error)
}

type reportService struct {
	repo    repositories.ReportRepository
	users   repositories.UserRepository
	posts   repositories.CommunityRepository
	bot     *tgbotapi.BotAPI
	opsChat int64
}

// NewReportService — bot может быть nil, тогда алерты просто не шлются.
func NewReportService(repo repositories.ReportRepository, users repositories.UserRepository, posts repositories.CommunityRepository, bot *tgbotapi.BotAPI, opsChat int64) ReportService {
	return &reportService{repo: repo, users: users, posts: posts, bot: bot, opsChat: opsChat}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (s *reportService) Create(report *models.Report) error {
	if !contains(models.ReportedTypes, report.ReportedType) {
		return ErrInvalidReportTarget
	}
	if !contains(models.ReportReasons, report.Reason) {
		return ErrInvalidReportReason
	}

	exists, err := s.targetExists(report.ReportedType, report.ReportedID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrReportTargetMissing
	}

	dup, err := s.repo.AlreadyReported(report.ReporterID, report.ReportedType, report.ReportedID)
	if err != nil {
		return err
	}
	if dup {
		return ErrAlreadyReported
	}

	if err := s.repo.Create(report); err != nil {
		if repositories.IsUniqueViolation(err) {
			return ErrAlreadyReported
		}
		return err
	}

	s.alertOps(report)
	return nil
}

func (s *reportService) targetExists(reportedType string, reportedID int64) (bool, error) {
	switch reportedType {
	case "user":
		user, err := s.users.GetByID(int(reportedID))
		if err != nil {
			return false, err
		}
		return user != nil, nil
	case "community":
		return s.posts.PostExists(reportedID)
	default:
		// комментарии модерация смотрит руками, наличие не проверяем
		return true, nil
	}
}

// alertOps — best-effort сообщение в операционный чат.
func (s *reportService) alertOps(report *models.Report) {
	if s.bot == nil || s.opsChat == 0 {
		return
	}
	text := fmt.Sprintf("New report #%d\ntype: %s id: %d\nreason: %s\n%s",
		report.ReportID, report.ReportedType, report.ReportedID, report.Reason, report.Description)
	if _, err := s.bot.Send(tgbotapi.NewMessage(s.opsChat, text)); err != nil {
		log.Printf("[report][alert] telegram send failed: %v", err)
	}
}

func (s *reportService) ListMine(reporterID, limit, offset int) ([]*models.Report, error) {
	return s.repo.ListByReporter(reporterID, clampPageSize(limit), offset)
}
