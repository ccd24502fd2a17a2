package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/biter777/countries"
	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/logging"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/repomanager"
)

// CaseService manages adverse-event reports. Only the reporter of a case
// may delete it.
type CaseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewCaseService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *CaseService {
	return &CaseService{db: db, repomanager: m, log: log}
}

// Create stores a new case reported by reporterID. Country may be given
// as an ISO code or an English name and is stored as ISO alpha-2.
func (s *CaseService) Create(ctx context.Context, reporterID string, in models.CaseInput) (*models.Case, error) {
	if blank(in.Title, in.Description, in.ReportedByName) {
		return nil, common.NewError(common.ErrValidation, common.MsgCaseFieldsRequired)
	}

	country, err := normalizeCountry(in.Country)
	if err != nil {
		return nil, err
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	c, err := s.repomanager.Cases(s.db).Create(ctx, &models.Case{
		ReportedByID:   reporterID,
		ReportedByName: strings.TrimSpace(in.ReportedByName),
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Tags:           tags,
		Country:        country,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating case: %w", err)
	}

	s.log.Info(ctx, "case created", "case_id", c.ID, "reporter_id", reporterID)
	return c, nil
}

func (s *CaseService) List(ctx context.Context) ([]*models.Case, error) {
	return s.repomanager.Cases(s.db).List(ctx)
}

func (s *CaseService) ListByReporter(ctx context.Context, userID string) ([]*models.Case, error) {
	return s.repomanager.Cases(s.db).ListByReporter(ctx, userID)
}

// SearchByTag returns cases carrying tag, or every case when tag is empty.
func (s *CaseService) SearchByTag(ctx context.Context, tag string) ([]*models.Case, error) {
	if tag == "" {
		return s.List(ctx)
	}
	return s.repomanager.Cases(s.db).SearchByTag(ctx, tag)
}

func (s *CaseService) Get(ctx context.Context, id string) (*models.Case, error) {
	if id == "" {
		return nil, common.NewError(common.ErrValidation, common.MsgCaseIDRequired)
	}

	c, err := s.repomanager.Cases(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, common.MsgCaseNotFound)
		}
		return nil, fmt.Errorf("error searching case: %w", err)
	}
	return c, nil
}

// Update changes title and/or description and returns the updated case.
func (s *CaseService) Update(ctx context.Context, id string, upd models.CaseUpdate) (*models.Case, error) {
	if id == "" {
		return nil, common.NewError(common.ErrValidation, common.MsgCaseIDRequired)
	}

	c, err := s.repomanager.Cases(s.db).Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, common.MsgCaseNotFound)
		}
		return nil, fmt.Errorf("error updating case: %w", err)
	}
	return c, nil
}

// Delete removes case id on behalf of requesterID and returns the number
// of deleted cases.
func (s *CaseService) Delete(ctx context.Context, id, requesterID string) (int64, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if c.ReportedByID != requesterID {
		return 0, common.NewError(common.ErrAuthorization, common.MsgOnlyReporterCanDelete)
	}

	n, err := s.repomanager.Cases(s.db).Delete(ctx, id, requesterID)
	if err != nil {
		return 0, fmt.Errorf("error deleting case: %w", err)
	}

	s.log.Info(ctx, "case deleted", "case_id", id, "deleted", n)
	return n, nil
}

func normalizeCountry(country string) (string, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return "", nil
	}

	code := countries.ByName(country)
	if code == countries.Unknown {
		return "", common.NewError(common.ErrValidation, common.MsgInvalidCountry)
	}
	return code.Alpha2(), nil
}
