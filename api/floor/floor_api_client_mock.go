package floor

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"floorwatch/api"
	"floorwatch/models"
	"floorwatch/segment"
	"floorwatch/util"
)

// Operation names reported to BeforeCall and CallCount.
const (
	OpDashboard       = "GetDashboard"
	OpListHeaders     = "ListHeaders"
	OpListStyleMedia  = "ListStyleMedia"
	OpStyleWip        = "GetStyleWip"
	OpHourlyProd      = "ListHourlyProductions"
	OpListInspections = "ListInspections"
	OpCreateHeader    = "CreateHeader"
	OpUpdateHeader    = "UpdateHeader"
	OpDeleteHeader    = "DeleteHeader"
	OpCreateInspect   = "CreateInspection"
	OpUpdateInspect   = "UpdateInspection"
	OpDeleteInspect   = "DeleteInspection"
	OpCreateMedia     = "CreateStyleMedia"
	OpUpdateMedia     = "UpdateStyleMedia"
	OpDeleteMedia     = "DeleteStyleMedia"
	OpFloorCompare    = "GetFloorCompare"
	OpFloorSummary    = "GetFloorSummary"
	OpGetMediaLinks   = "GetMediaLinks"
	OpSaveMediaLinks  = "SaveMediaLinks"
)

// FloorApiClientMock is an in-memory floor backend. It backs the mock
// environment and the tests.
type FloorApiClientMock struct {
	mu sync.Mutex

	Segments    []models.Segment
	Headers     []models.Header
	StyleMedia  []models.StyleMedia
	Wip         map[string]models.WipSnapshot // by segment key
	Variance    map[string][]models.VarianceRecord
	Inspections []models.Inspection
	Compare     *models.FloorCompareResponse
	Summary     *models.FloorSummaryResponse
	MediaLinks  map[string]models.MediaLinks // by user id

	// BeforeCall runs before every operation; a non-nil error is returned
	// to the caller. It may block and should honour ctx.
	BeforeCall func(ctx context.Context, op string) error

	calls map[string]int
	now   func() time.Time
}

// NewFloorApiClientMock creates an empty mock backend.
func NewFloorApiClientMock() *FloorApiClientMock {
	return &FloorApiClientMock{
		Wip:        make(map[string]models.WipSnapshot),
		Variance:   make(map[string][]models.VarianceRecord),
		MediaLinks: make(map[string]models.MediaLinks),
		calls:      make(map[string]int),
		now:        time.Now,
	}
}

// NewFloorApiClientMockFromFile seeds a mock backend from a JSON fixture.
func NewFloorApiClientMockFromFile(path string) (*FloorApiClientMock, error) {
	fixture, err := util.ReadFloorFixtureFromJSON(path)
	if err != nil {
		return nil, err
	}
	m := NewFloorApiClientMock()
	m.Segments = fixture.Segments
	m.Headers = fixture.Headers
	m.StyleMedia = fixture.StyleMedia
	m.Inspections = fixture.Inspections
	for k, v := range fixture.Wip {
		m.Wip[k] = v
	}
	for k, v := range fixture.Variance {
		m.Variance[k] = v
	}
	return m, nil
}

// VarianceKeyForLine is the Variance map key used when a query has no
// header id.
func VarianceKeyForLine(building, line, date string) string {
	return segment.MakeSegmentKey(building, line, date)
}

// CallCount returns how many times op was invoked.
func (m *FloorApiClientMock) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *FloorApiClientMock) enter(ctx context.Context, op string) error {
	m.mu.Lock()
	m.calls[op]++
	hook := m.BeforeCall
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, op); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func notFound() error {
	return &api.Error{StatusCode: http.StatusNotFound, Status: "404 Not Found", Message: "Not found"}
}

func (m *FloorApiClientMock) GetDashboard(ctx context.Context, filter models.DashboardFilter) ([]models.Segment, error) {
	if err := m.enter(ctx, OpDashboard); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Segment, 0, len(m.Segments))
	for _, s := range m.Segments {
		if filter.Line != "" && segment.Normalize(s.Line) != segment.Normalize(filter.Line) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *FloorApiClientMock) ListHeaders(ctx context.Context, filter models.DashboardFilter) ([]models.Header, error) {
	if err := m.enter(ctx, OpListHeaders); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Header, 0, len(m.Headers))
	for _, h := range m.Headers {
		if filter.Line != "" && segment.Normalize(h.Line) != segment.Normalize(filter.Line) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (m *FloorApiClientMock) CreateHeader(ctx context.Context, h models.Header) (*models.Header, error) {
	if err := m.enter(ctx, OpCreateHeader); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h.ID = uuid.NewString()
	h.CreatedAt = m.now()
	m.Headers = append(m.Headers, h)
	return &h, nil
}

func (m *FloorApiClientMock) UpdateHeader(ctx context.Context, id string, h models.Header) (*models.Header, error) {
	if err := m.enter(ctx, OpUpdateHeader); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Headers {
		if m.Headers[i].ID == id {
			h.ID = id
			h.CreatedAt = m.Headers[i].CreatedAt
			h.UpdatedAt = m.now()
			m.Headers[i] = h
			return &h, nil
		}
	}
	return nil, notFound()
}

func (m *FloorApiClientMock) DeleteHeader(ctx context.Context, id string) error {
	if err := m.enter(ctx, OpDeleteHeader); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Headers {
		if m.Headers[i].ID == id {
			m.Headers = append(m.Headers[:i], m.Headers[i+1:]...)
			return nil
		}
	}
	return notFound()
}

func (m *FloorApiClientMock) ListStyleMedia(ctx context.Context, filter models.DashboardFilter) ([]models.StyleMedia, error) {
	if err := m.enter(ctx, OpListStyleMedia); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.StyleMedia(nil), m.StyleMedia...), nil
}

func (m *FloorApiClientMock) CreateStyleMedia(ctx context.Context, doc models.StyleMedia) (*models.StyleMedia, error) {
	if err := m.enter(ctx, OpCreateMedia); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.ID = uuid.NewString()
	doc.CreatedAt = m.now()
	m.StyleMedia = append(m.StyleMedia, doc)
	return &doc, nil
}

func (m *FloorApiClientMock) UpdateStyleMedia(ctx context.Context, id string, doc models.StyleMedia) (*models.StyleMedia, error) {
	if err := m.enter(ctx, OpUpdateMedia); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.StyleMedia {
		if m.StyleMedia[i].ID == id {
			doc.ID = id
			doc.UpdatedAt = m.now()
			m.StyleMedia[i] = doc
			return &doc, nil
		}
	}
	return nil, notFound()
}

func (m *FloorApiClientMock) DeleteStyleMedia(ctx context.Context, id string) error {
	if err := m.enter(ctx, OpDeleteMedia); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.StyleMedia {
		if m.StyleMedia[i].ID == id {
			m.StyleMedia = append(m.StyleMedia[:i], m.StyleMedia[i+1:]...)
			return nil
		}
	}
	return notFound()
}

func (m *FloorApiClientMock) GetStyleWip(ctx context.Context, q models.WipQuery) (*models.WipSnapshot, error) {
	if err := m.enter(ctx, OpStyleWip); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wip, ok := m.Wip[segment.MakeSegmentKey(q.Line, q.Buyer, q.Style)]
	if !ok {
		return &models.WipSnapshot{}, nil
	}
	return &wip, nil
}

func (m *FloorApiClientMock) ListHourlyProductions(ctx context.Context, q models.VarianceQuery) ([]models.VarianceRecord, error) {
	if err := m.enter(ctx, OpHourlyProd); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := q.HeaderID
	if key == "" {
		key = VarianceKeyForLine(q.AssignedBuilding, q.Line, q.Date)
	}
	return append([]models.VarianceRecord(nil), m.Variance[key]...), nil
}

func (m *FloorApiClientMock) ListInspections(ctx context.Context, q models.InspectionQuery) ([]models.Inspection, error) {
	if err := m.enter(ctx, OpListInspections); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Inspection, 0, len(m.Inspections))
	for _, in := range m.Inspections {
		if q.Date != "" && in.Date != q.Date {
			continue
		}
		if q.Building != "" && segment.Normalize(in.Building) != segment.Normalize(q.Building) {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func (m *FloorApiClientMock) CreateInspection(ctx context.Context, in models.Inspection) (*models.Inspection, error) {
	if err := m.enter(ctx, OpCreateInspect); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	in.ID = uuid.NewString()
	in.CreatedAt = m.now()
	m.Inspections = append(m.Inspections, in)
	return &in, nil
}

func (m *FloorApiClientMock) UpdateInspection(ctx context.Context, id string, in models.Inspection) (*models.Inspection, error) {
	if err := m.enter(ctx, OpUpdateInspect); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Inspections {
		if m.Inspections[i].ID == id {
			in.ID = id
			in.CreatedAt = m.Inspections[i].CreatedAt
			in.UpdatedAt = m.now()
			m.Inspections[i] = in
			return &in, nil
		}
	}
	return nil, notFound()
}

func (m *FloorApiClientMock) DeleteInspection(ctx context.Context, id string) error {
	if err := m.enter(ctx, OpDeleteInspect); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Inspections {
		if m.Inspections[i].ID == id {
			m.Inspections = append(m.Inspections[:i], m.Inspections[i+1:]...)
			return nil
		}
	}
	return notFound()
}

func (m *FloorApiClientMock) GetFloorCompare(ctx context.Context, q models.CompareQuery) (*models.FloorCompareResponse, error) {
	if err := m.enter(ctx, OpFloorCompare); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Compare == nil {
		return &models.FloorCompareResponse{Success: true}, nil
	}
	c := *m.Compare
	return &c, nil
}

func (m *FloorApiClientMock) GetFloorSummary(ctx context.Context, q models.SummaryQuery) (*models.FloorSummaryResponse, error) {
	if err := m.enter(ctx, OpFloorSummary); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Summary == nil {
		return &models.FloorSummaryResponse{Success: true}, nil
	}
	s := *m.Summary
	return &s, nil
}

func (m *FloorApiClientMock) GetMediaLinks(ctx context.Context, userID string) (*models.MediaLinks, error) {
	if err := m.enter(ctx, OpGetMediaLinks); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	links, ok := m.MediaLinks[userID]
	if !ok {
		return nil, nil
	}
	return &links, nil
}

func (m *FloorApiClientMock) SaveMediaLinks(ctx context.Context, links models.MediaLinks) (*models.MediaLinks, error) {
	if err := m.enter(ctx, OpSaveMediaLinks); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if links.ID == "" {
		links.ID = uuid.NewString()
	}
	links.UpdatedAt = m.now()
	m.MediaLinks[links.UserID] = links
	return &links, nil
}
