package forms

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"floorwatch/api/floor"
	"floorwatch/models"
	"floorwatch/segment"
)

// HeaderStore edits the target headers of one dashboard filter.
type HeaderStore struct {
	API    floor.FloorAPI
	Filter models.DashboardFilter
}

func (s HeaderStore) List(ctx context.Context) ([]models.Header, error) {
	return s.API.ListHeaders(ctx, s.Filter)
}

func (s HeaderStore) Create(ctx context.Context, h models.Header) (*models.Header, error) {
	return s.API.CreateHeader(ctx, h)
}

func (s HeaderStore) Update(ctx context.Context, id string, h models.Header) (*models.Header, error) {
	return s.API.UpdateHeader(ctx, id, h)
}

func (s HeaderStore) Delete(ctx context.Context, id string) error {
	return s.API.DeleteHeader(ctx, id)
}

// InspectionStore edits the hourly inspections matching Query.
type InspectionStore struct {
	API   floor.FloorAPI
	Query models.InspectionQuery
}

func (s InspectionStore) List(ctx context.Context) ([]models.Inspection, error) {
	return s.API.ListInspections(ctx, s.Query)
}

func (s InspectionStore) Create(ctx context.Context, in models.Inspection) (*models.Inspection, error) {
	return s.API.CreateInspection(ctx, in)
}

func (s InspectionStore) Update(ctx context.Context, id string, in models.Inspection) (*models.Inspection, error) {
	return s.API.UpdateInspection(ctx, id, in)
}

func (s InspectionStore) Delete(ctx context.Context, id string) error {
	return s.API.DeleteInspection(ctx, id)
}

// StyleMediaStore edits the style media of one dashboard filter.
type StyleMediaStore struct {
	API    floor.FloorAPI
	Filter models.DashboardFilter
}

func (s StyleMediaStore) List(ctx context.Context) ([]models.StyleMedia, error) {
	return s.API.ListStyleMedia(ctx, s.Filter)
}

func (s StyleMediaStore) Create(ctx context.Context, doc models.StyleMedia) (*models.StyleMedia, error) {
	return s.API.CreateStyleMedia(ctx, doc)
}

func (s StyleMediaStore) Update(ctx context.Context, id string, doc models.StyleMedia) (*models.StyleMedia, error) {
	return s.API.UpdateStyleMedia(ctx, id, doc)
}

func (s StyleMediaStore) Delete(ctx context.Context, id string) error {
	return s.API.DeleteStyleMedia(ctx, id)
}

// MediaLinksStore edits one user's media links. There is at most one row
// and it cannot be deleted.
type MediaLinksStore struct {
	API    floor.FloorAPI
	UserID string
}

func (s MediaLinksStore) List(ctx context.Context) ([]models.MediaLinks, error) {
	links, err := s.API.GetMediaLinks(ctx, s.UserID)
	if err != nil || links == nil {
		return nil, err
	}
	return []models.MediaLinks{*links}, nil
}

func (s MediaLinksStore) Create(ctx context.Context, links models.MediaLinks) (*models.MediaLinks, error) {
	links.ID = ""
	links.UserID = s.UserID
	return s.API.SaveMediaLinks(ctx, links)
}

func (s MediaLinksStore) Update(ctx context.Context, id string, links models.MediaLinks) (*models.MediaLinks, error) {
	links.ID = id
	links.UserID = s.UserID
	return s.API.SaveMediaLinks(ctx, links)
}

func (s MediaLinksStore) Delete(ctx context.Context, id string) error {
	return ErrUnsupported
}

// DuplicateInspectionError blocks a second inspection for the same hour,
// line and building.
type DuplicateInspectionError struct {
	Hour, Line, Building string
}

func (e *DuplicateInspectionError) Error() string {
	return fmt.Sprintf("An entry for %s on %s (%s) already exists. Edit the existing entry instead.", e.Hour, e.Line, e.Building)
}

// hourIndex is the row's hour number, read from the label ("2nd Hour")
// when no index was stored.
func hourIndex(in models.Inspection) (int, bool) {
	if in.HourIndex > 0 {
		return int(in.HourIndex.Float()), true
	}
	return segment.LineNumber(in.HourLabel)
}

// sameHour compares labels when both rows carry one and hour numbers
// otherwise.
func sameHour(a, b models.Inspection) bool {
	if strings.TrimSpace(a.HourLabel) != "" && strings.TrimSpace(b.HourLabel) != "" {
		return segment.Normalize(a.HourLabel) == segment.Normalize(b.HourLabel)
	}
	ai, aok := hourIndex(a)
	bi, bok := hourIndex(b)
	return aok && bok && ai == bi
}

// InspectionDuplicateGuard rejects draft when a loaded row other than the
// one being edited has the same hour, line and building.
func InspectionDuplicateGuard(draft models.Inspection, rows []models.Inspection, editingID string) error {
	line := segment.Normalize(draft.Line)
	building := segment.Normalize(draft.Building)
	for _, r := range rows {
		if editingID != "" && r.ID == editingID {
			continue
		}
		if sameHour(draft, r) && segment.Normalize(r.Line) == line && segment.Normalize(r.Building) == building {
			return &DuplicateInspectionError{Hour: draft.HourLabel, Line: draft.Line, Building: draft.Building}
		}
	}
	return nil
}

// NewHeaderForm builds the production input form for filter.
func NewHeaderForm(api floor.FloorAPI, filter models.DashboardFilter, notices *Notices, logger *zap.Logger) *Form[models.Header] {
	return NewForm[models.Header]("header", HeaderStore{API: api, Filter: filter}, notices, logger)
}

// NewInspectionForm builds the defect entry form with the duplicate guard.
// Rows are reloaded right before each create.
func NewInspectionForm(api floor.FloorAPI, q models.InspectionQuery, notices *Notices, logger *zap.Logger) *Form[models.Inspection] {
	return NewForm[models.Inspection]("inspection", InspectionStore{API: api, Query: q}, notices, logger,
		WithGuard[models.Inspection](InspectionDuplicateGuard),
		WithReloadBeforeCreate[models.Inspection](),
	)
}

func NewStyleMediaForm(api floor.FloorAPI, filter models.DashboardFilter, notices *Notices, logger *zap.Logger) *Form[models.StyleMedia] {
	return NewForm[models.StyleMedia]("style media", StyleMediaStore{API: api, Filter: filter}, notices, logger)
}

func NewMediaLinksForm(api floor.FloorAPI, userID string, notices *Notices, logger *zap.Logger) *Form[models.MediaLinks] {
	return NewForm[models.MediaLinks]("media links", MediaLinksStore{API: api, UserID: userID}, notices, logger)
}
