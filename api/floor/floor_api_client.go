package floor

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"floorwatch/api"
	"floorwatch/models"
)

const (
	DashboardPath         = "/api/floor-dashboard"
	HeaderPath            = "/api/target-setter-header"
	StyleMediaPath        = "/api/style-media"
	StyleWipPath          = "/api/style-wip"
	HourlyProductionsPath = "/api/hourly-productions"
	HourlyInspectionsPath = "/api/hourly-inspections"
	FloorComparePath      = "/api/floor-compare"
	FloorSummaryPath      = "/api/floor-summary"
	MediaLinksPath        = "/api/media-links"
)

// errUnsuccessful is returned when a 2xx envelope says success=false.
var errUnsuccessful = errors.New("request was not successful")

// FloorApiClient embeds the common HTTPClient
type FloorApiClient struct {
	*api.HTTPClient
}

// NewFloorApiClient creates a new instance of FloorApiClient
func NewFloorApiClient(httpClient *api.HTTPClient) *FloorApiClient {
	return &FloorApiClient{HTTPClient: httpClient}
}

func checkEnvelope(success bool, message string) error {
	if success {
		return nil
	}
	if message != "" {
		return &api.Error{StatusCode: http.StatusOK, Status: "200 OK", Message: message}
	}
	return errUnsuccessful
}

func getData[T any](ctx context.Context, c *FloorApiClient, path string, query url.Values) (T, error) {
	var envelope models.Envelope[T]
	if err := c.Request(ctx, http.MethodGet, path, query, nil, &envelope); err != nil {
		var zero T
		return zero, err
	}
	if err := checkEnvelope(envelope.Success, envelope.Message); err != nil {
		var zero T
		return zero, err
	}
	return envelope.Data, nil
}

func writeData[T any](ctx context.Context, c *FloorApiClient, method, path string, body any) (*T, error) {
	var envelope models.Envelope[T]
	if err := c.Request(ctx, method, path, nil, body, &envelope); err != nil {
		return nil, err
	}
	if err := checkEnvelope(envelope.Success, firstNonEmpty(envelope.Message, envelope.Error)); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *FloorApiClient) remove(ctx context.Context, path string) error {
	return c.Request(ctx, http.MethodDelete, path, nil, nil, nil)
}

// GetDashboard returns the segments for a filter. Both the "lines" and the
// legacy "data" envelope are accepted.
func (c *FloorApiClient) GetDashboard(ctx context.Context, filter models.DashboardFilter) ([]models.Segment, error) {
	var response models.DashboardResponse
	if err := c.Request(ctx, http.MethodGet, DashboardPath, filter.ToValues(), nil, &response); err != nil {
		return nil, err
	}
	if err := checkEnvelope(response.Success, response.Message); err != nil {
		return nil, err
	}
	return response.Segments(), nil
}

func (c *FloorApiClient) ListHeaders(ctx context.Context, filter models.DashboardFilter) ([]models.Header, error) {
	return getData[[]models.Header](ctx, c, HeaderPath, filter.HeaderValues())
}

func (c *FloorApiClient) CreateHeader(ctx context.Context, h models.Header) (*models.Header, error) {
	return writeData[models.Header](ctx, c, http.MethodPost, HeaderPath, h)
}

func (c *FloorApiClient) UpdateHeader(ctx context.Context, id string, h models.Header) (*models.Header, error) {
	return writeData[models.Header](ctx, c, http.MethodPatch, HeaderPath+"/"+url.PathEscape(id), h)
}

func (c *FloorApiClient) DeleteHeader(ctx context.Context, id string) error {
	return c.remove(ctx, HeaderPath+"/"+url.PathEscape(id))
}

func (c *FloorApiClient) ListStyleMedia(ctx context.Context, filter models.DashboardFilter) ([]models.StyleMedia, error) {
	return getData[[]models.StyleMedia](ctx, c, StyleMediaPath, filter.StyleMediaValues())
}

func (c *FloorApiClient) CreateStyleMedia(ctx context.Context, m models.StyleMedia) (*models.StyleMedia, error) {
	return writeData[models.StyleMedia](ctx, c, http.MethodPost, StyleMediaPath, m)
}

func (c *FloorApiClient) UpdateStyleMedia(ctx context.Context, id string, m models.StyleMedia) (*models.StyleMedia, error) {
	return writeData[models.StyleMedia](ctx, c, http.MethodPut, StyleMediaPath+"/"+url.PathEscape(id), m)
}

func (c *FloorApiClient) DeleteStyleMedia(ctx context.Context, id string) error {
	return c.remove(ctx, StyleMediaPath+"/"+url.PathEscape(id))
}

func (c *FloorApiClient) GetStyleWip(ctx context.Context, q models.WipQuery) (*models.WipSnapshot, error) {
	wip, err := getData[models.WipSnapshot](ctx, c, StyleWipPath, q.ToValues())
	if err != nil {
		return nil, err
	}
	return &wip, nil
}

func (c *FloorApiClient) ListHourlyProductions(ctx context.Context, q models.VarianceQuery) ([]models.VarianceRecord, error) {
	return getData[[]models.VarianceRecord](ctx, c, HourlyProductionsPath, q.ToValues())
}

func (c *FloorApiClient) ListInspections(ctx context.Context, q models.InspectionQuery) ([]models.Inspection, error) {
	return getData[[]models.Inspection](ctx, c, HourlyInspectionsPath, q.ToValues())
}

func (c *FloorApiClient) CreateInspection(ctx context.Context, in models.Inspection) (*models.Inspection, error) {
	return writeData[models.Inspection](ctx, c, http.MethodPost, HourlyInspectionsPath, in)
}

func (c *FloorApiClient) UpdateInspection(ctx context.Context, id string, in models.Inspection) (*models.Inspection, error) {
	return writeData[models.Inspection](ctx, c, http.MethodPatch, HourlyInspectionsPath+"/"+url.PathEscape(id), in)
}

func (c *FloorApiClient) DeleteInspection(ctx context.Context, id string) error {
	return c.remove(ctx, HourlyInspectionsPath+"/"+url.PathEscape(id))
}

func (c *FloorApiClient) GetFloorCompare(ctx context.Context, q models.CompareQuery) (*models.FloorCompareResponse, error) {
	var response models.FloorCompareResponse
	if err := c.Request(ctx, http.MethodGet, FloorComparePath, q.ToValues(), nil, &response); err != nil {
		return nil, err
	}
	if err := checkEnvelope(response.Success, response.Message); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *FloorApiClient) GetFloorSummary(ctx context.Context, q models.SummaryQuery) (*models.FloorSummaryResponse, error) {
	var response models.FloorSummaryResponse
	if err := c.Request(ctx, http.MethodGet, FloorSummaryPath, q.ToValues(), nil, &response); err != nil {
		return nil, err
	}
	if err := checkEnvelope(response.Success, response.Message); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetMediaLinks returns the user's links, or nil when none were saved yet.
// The endpoint answers { data } without a success flag.
func (c *FloorApiClient) GetMediaLinks(ctx context.Context, userID string) (*models.MediaLinks, error) {
	var response struct {
		Data *models.MediaLinks `json:"data"`
	}
	if err := c.Request(ctx, http.MethodGet, MediaLinksPath, url.Values{"userId": {userID}}, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// SaveMediaLinks creates the user's links, or patches them when they already
// have an id.
func (c *FloorApiClient) SaveMediaLinks(ctx context.Context, links models.MediaLinks) (*models.MediaLinks, error) {
	method := http.MethodPost
	if links.ID != "" {
		method = http.MethodPatch
	}
	var response struct {
		Data models.MediaLinks `json:"data"`
	}
	if err := c.Request(ctx, method, MediaLinksPath, nil, links, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}
