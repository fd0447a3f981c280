package floor

import (
	"context"

	"floorwatch/models"
)

// FloorAPI defines the interface for interacting with the floor backend.
type FloorAPI interface {
	GetDashboard(ctx context.Context, filter models.DashboardFilter) ([]models.Segment, error)

	ListHeaders(ctx context.Context, filter models.DashboardFilter) ([]models.Header, error)
	CreateHeader(ctx context.Context, h models.Header) (*models.Header, error)
	UpdateHeader(ctx context.Context, id string, h models.Header) (*models.Header, error)
	DeleteHeader(ctx context.Context, id string) error

	ListStyleMedia(ctx context.Context, filter models.DashboardFilter) ([]models.StyleMedia, error)
	CreateStyleMedia(ctx context.Context, m models.StyleMedia) (*models.StyleMedia, error)
	UpdateStyleMedia(ctx context.Context, id string, m models.StyleMedia) (*models.StyleMedia, error)
	DeleteStyleMedia(ctx context.Context, id string) error

	GetStyleWip(ctx context.Context, q models.WipQuery) (*models.WipSnapshot, error)
	ListHourlyProductions(ctx context.Context, q models.VarianceQuery) ([]models.VarianceRecord, error)

	ListInspections(ctx context.Context, q models.InspectionQuery) ([]models.Inspection, error)
	CreateInspection(ctx context.Context, in models.Inspection) (*models.Inspection, error)
	UpdateInspection(ctx context.Context, id string, in models.Inspection) (*models.Inspection, error)
	DeleteInspection(ctx context.Context, id string) error

	GetFloorCompare(ctx context.Context, q models.CompareQuery) (*models.FloorCompareResponse, error)
	GetFloorSummary(ctx context.Context, q models.SummaryQuery) (*models.FloorSummaryResponse, error)

	GetMediaLinks(ctx context.Context, userID string) (*models.MediaLinks, error)
	SaveMediaLinks(ctx context.Context, links models.MediaLinks) (*models.MediaLinks, error)
}
