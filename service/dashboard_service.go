package services

import (
	"fmt"

	"go.uber.org/zap"

	"floorwatch/config"
	"floorwatch/dao/redis"
	"floorwatch/metrics"
	"floorwatch/models"
	"floorwatch/segment"
)

// DashboardRow is one segment merged with its header, style media and WIP
// snapshot plus the metrics derived from its raw counts.
type DashboardRow struct {
	Key               string              `json:"key"`
	Segment           models.Segment      `json:"segment"`
	ColorModel        string              `json:"colorModel,omitempty"`
	Header            *models.Header      `json:"header,omitempty"`
	Media             *models.StyleMedia  `json:"media,omitempty"`
	Wip               *models.WipSnapshot `json:"wip,omitempty"`
	PlanPercent       float64             `json:"planPercent"`
	RFTPercent        float64             `json:"rftPercent"`
	DHUPercent        float64             `json:"dhuPercent"`
	DefectRatePercent float64             `json:"defectRatePercent"`
	HourlyTarget      float64             `json:"hourlyTarget"`
	Display           map[string]string   `json:"display"`
}

// Banner is a persistent per-source failure message.
type Banner struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// DashboardState is everything a dashboard view renders.
type DashboardState struct {
	View      string                 `json:"view"`
	Filter    models.DashboardFilter `json:"filter"`
	Loaded    bool                   `json:"loaded"`
	Rows      []DashboardRow         `json:"rows"`
	Summary   metrics.Summary        `json:"summary"`
	Banners   []Banner               `json:"banners,omitempty"`
	Displayed string                 `json:"displayed,omitempty"`
	Variance  []models.VariancePoint `json:"variance,omitempty"`
}

// DashboardService serves merged dashboard state from the poller caches.
type DashboardService struct {
	dao      *redis.RedisDashboardDAO
	registry *PollerRegistry
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(dao *redis.RedisDashboardDAO, registry *PollerRegistry, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		dao:      dao,
		registry: registry,
		logger:   logger.Named("DashboardService"),
	}
}

// Poller returns the running poller for view and filter, starting it on
// first use.
func (s *DashboardService) Poller(view config.ViewConfig, filter models.DashboardFilter) *DashboardPoller {
	return s.registry.Get(view, filter)
}

// Retarget switches the view's poller from one filter to another and
// returns the state for the new filter.
func (s *DashboardService) Retarget(view config.ViewConfig, from, to models.DashboardFilter) (*DashboardState, error) {
	p := s.registry.Retarget(view, from, to)
	return s.Snapshot(view.Name, to, p.Displayed())
}

// State returns the current state of view for filter. The first call for a
// view and filter starts its poller, so the state may not be loaded yet.
func (s *DashboardService) State(view config.ViewConfig, filter models.DashboardFilter) (*DashboardState, error) {
	p := s.registry.Get(view, filter)
	return s.Snapshot(view.Name, filter, p.Displayed())
}

// Snapshot merges whatever is cached for filter. displayed selects the
// segment whose variance series is included.
func (s *DashboardService) Snapshot(view string, filter models.DashboardFilter, displayed string) (*DashboardState, error) {
	key := filter.Key()

	segments, loaded, err := s.dao.GetSegments(key)
	if err != nil {
		return nil, err
	}
	headers, err := s.dao.GetHeaders(key)
	if err != nil {
		return nil, err
	}
	media, err := s.dao.GetStyleMedia(key)
	if err != nil {
		return nil, err
	}
	wip, err := s.dao.GetAllWip(key)
	if err != nil {
		return nil, err
	}
	statuses, err := s.dao.GetStatuses(key)
	if err != nil {
		return nil, err
	}

	segment.SortSegments(segments)
	state := &DashboardState{
		View:      view,
		Filter:    filter,
		Loaded:    loaded,
		Rows:      MergeRows(filter, segments, headers, media, wip),
		Summary:   metrics.Summarize(segments),
		Displayed: displayed,
	}
	for _, source := range allSources {
		if st, ok := statuses[source]; ok && st.Error != "" {
			state.Banners = append(state.Banners, Banner{Source: source, Message: st.Error})
		}
	}

	if displayed != "" {
		points, _, err := s.dao.GetVariance(key, displayed)
		if err != nil {
			return nil, err
		}
		state.Variance = points
	}
	return state, nil
}

// Variance returns the cached variance series of one segment.
func (s *DashboardService) Variance(filter models.DashboardFilter, segmentKey string) ([]models.VariancePoint, error) {
	points, found, err := s.dao.GetVariance(filter.Key(), segmentKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no variance cached for %q", segmentKey)
	}
	return points, nil
}

// MergeRows joins each segment with its header, style media and WIP
// snapshot. Missing lookups leave the row's pointer nil.
func MergeRows(
	filter models.DashboardFilter,
	segments []models.Segment,
	headers map[string]models.Header,
	media map[string]models.StyleMedia,
	wip map[string]models.WipSnapshot,
) []DashboardRow {
	rows := make([]DashboardRow, 0, len(segments))
	for _, seg := range segments {
		key := segment.KeyOf(seg)
		row := DashboardRow{Key: key, Segment: seg, ColorModel: seg.ColorModel}

		if h, ok := headers[key]; ok {
			h := h
			row.Header = &h
			if h.ColorModel != "" {
				row.ColorModel = h.ColorModel
			}
			row.HourlyTarget = headerHourlyTarget(h)
		}

		mediaKey := segment.MakeStyleMediaKey(filter.Factory, filter.Building, seg.Buyer, seg.Style, row.ColorModel)
		if m, ok := media[mediaKey]; ok {
			m := m
			row.Media = &m
		}
		if w, ok := wip[key]; ok {
			w := w
			row.Wip = &w
		}

		production := metrics.ProductionOf(seg.Production)
		quality := metrics.QualityOf(seg.Quality)
		row.PlanPercent = production.Plan()
		row.RFTPercent = quality.RFT()
		row.DHUPercent = quality.DHU()
		row.DefectRatePercent = quality.DefectRate()
		row.Display = displayFields(row, production)

		rows = append(rows, row)
	}
	return rows
}

func displayFields(row DashboardRow, production metrics.ProductionTotals) map[string]string {
	d := map[string]string{
		"target":            metrics.FormatNumber(production.Target, 0),
		"achieved":          metrics.FormatNumber(production.Achieved, 0),
		"variance":          metrics.FormatNumber(production.Variance, 0),
		"planPercent":       metrics.FormatNumber(row.PlanPercent, 2),
		"rftPercent":        metrics.FormatNumber(row.RFTPercent, 2),
		"dhuPercent":        metrics.FormatNumber(row.DHUPercent, 2),
		"defectRatePercent": metrics.FormatNumber(row.DefectRatePercent, 2),
		"avgEffPercent":     metrics.FormatNumber(metrics.ClampPercent(row.Segment.Production.AvgEffPercent.Float()), 2),
		"hourlyTarget":      "-",
		"wip":               "-",
	}
	d["efficiency"] = "-"
	if h := row.Header; h != nil {
		d["hourlyTarget"] = metrics.FormatNumber(row.HourlyTarget, 0)
		minutes := row.Segment.Production.CurrentHour.Float() * 60
		if minutes > 0 {
			eff := metrics.EfficiencyPercent(production.Achieved, h.SMV.Float(), h.ManpowerPresent.Float(), minutes)
			d["efficiency"] = metrics.FormatNumber(eff, 2)
		}
	}
	if row.Wip != nil {
		d["wip"] = metrics.FormatNumber(row.Wip.WIP.Float(), 0)
	}
	return d
}
