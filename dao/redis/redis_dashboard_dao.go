package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"floorwatch/db"
	"floorwatch/models"
)

const (
	SEGMENTS_KEY_FORMAT_V1    = "segments_v1:%s"
	HEADERS_KEY_FORMAT_V1     = "headers_v1:%s"
	STYLE_MEDIA_KEY_FORMAT_V1 = "style_media_v1:%s"
	WIP_KEY_FORMAT_V1         = "wip_v1:%s"
	VARIANCE_KEY_FORMAT_V1    = "variance_v1:%s"
	STATUS_KEY_FORMAT_V1      = "status_v1:%s"
)

// SourceStatus records the outcome of the last fetch of one poll source.
// A non-empty Error is shown as a banner until the next success clears it.
type SourceStatus struct {
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RedisDashboardDAO caches poller results in Redis, one set of keys per
// dashboard filter.
type RedisDashboardDAO struct {
	client db.RedisClient
	ttl    time.Duration
}

// NewRedisDashboardDAO initializes a RedisDashboardDAO. Every key written
// expires after ttl; zero keeps keys forever.
func NewRedisDashboardDAO(client db.RedisClient, ttl time.Duration) *RedisDashboardDAO {
	return &RedisDashboardDAO{client: client, ttl: ttl}
}

func encodeHash[T any](entries map[string]T) (map[string]string, error) {
	out := make(map[string]string, len(entries))
	for k, v := range entries {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", k, err)
		}
		out[k] = string(data)
	}
	return out, nil
}

func decodeHash[T any](raw map[string]string) (map[string]T, error) {
	out := make(map[string]T, len(raw))
	for k, v := range raw {
		var entry T
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", k, err)
		}
		out[k] = entry
	}
	return out, nil
}

// SetSegments fully replaces the segment list for a filter.
func (dao *RedisDashboardDAO) SetSegments(filterKey string, segments []models.Segment) error {
	data, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("failed to marshal segments for %s: %w", filterKey, err)
	}
	if err := dao.client.Set(fmt.Sprintf(SEGMENTS_KEY_FORMAT_V1, filterKey), string(data), dao.ttl); err != nil {
		return fmt.Errorf("failed to set segments in redis: %w", err)
	}
	return nil
}

// GetSegments returns the cached segments and whether any were cached.
func (dao *RedisDashboardDAO) GetSegments(filterKey string) ([]models.Segment, bool, error) {
	str, err := dao.client.Get(fmt.Sprintf(SEGMENTS_KEY_FORMAT_V1, filterKey))
	if errors.Is(err, db.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get segments from redis: %w", err)
	}
	var segments []models.Segment
	if err := json.Unmarshal([]byte(str), &segments); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal segments JSON: %w", err)
	}
	return segments, true, nil
}

// SetHeaders replaces the segment-key to header map for a filter.
func (dao *RedisDashboardDAO) SetHeaders(filterKey string, headers map[string]models.Header) error {
	fields, err := encodeHash(headers)
	if err != nil {
		return err
	}
	return dao.client.ReplaceHash(fmt.Sprintf(HEADERS_KEY_FORMAT_V1, filterKey), fields, dao.ttl)
}

func (dao *RedisDashboardDAO) GetHeaders(filterKey string) (map[string]models.Header, error) {
	raw, err := dao.client.HGetAll(fmt.Sprintf(HEADERS_KEY_FORMAT_V1, filterKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get headers from redis: %w", err)
	}
	return decodeHash[models.Header](raw)
}

// SetStyleMedia replaces the style-media-key to doc map for a filter.
func (dao *RedisDashboardDAO) SetStyleMedia(filterKey string, docs map[string]models.StyleMedia) error {
	fields, err := encodeHash(docs)
	if err != nil {
		return err
	}
	return dao.client.ReplaceHash(fmt.Sprintf(STYLE_MEDIA_KEY_FORMAT_V1, filterKey), fields, dao.ttl)
}

func (dao *RedisDashboardDAO) GetStyleMedia(filterKey string) (map[string]models.StyleMedia, error) {
	raw, err := dao.client.HGetAll(fmt.Sprintf(STYLE_MEDIA_KEY_FORMAT_V1, filterKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get style media from redis: %w", err)
	}
	return decodeHash[models.StyleMedia](raw)
}

// SetWip caches one segment's WIP snapshot. Other segments are untouched.
func (dao *RedisDashboardDAO) SetWip(filterKey, segmentKey string, wip models.WipSnapshot) error {
	data, err := json.Marshal(wip)
	if err != nil {
		return fmt.Errorf("failed to marshal wip for %s: %w", segmentKey, err)
	}
	key := fmt.Sprintf(WIP_KEY_FORMAT_V1, filterKey)
	if err := dao.client.HSet(key, segmentKey, string(data)); err != nil {
		return fmt.Errorf("failed to set wip in redis: %w", err)
	}
	if dao.ttl > 0 {
		return dao.client.Expire(key, dao.ttl)
	}
	return nil
}

// GetWip returns one cached snapshot and whether it was cached.
func (dao *RedisDashboardDAO) GetWip(filterKey, segmentKey string) (*models.WipSnapshot, bool, error) {
	str, err := dao.client.HGet(fmt.Sprintf(WIP_KEY_FORMAT_V1, filterKey), segmentKey)
	if errors.Is(err, db.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get wip from redis: %w", err)
	}
	var wip models.WipSnapshot
	if err := json.Unmarshal([]byte(str), &wip); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal wip JSON: %w", err)
	}
	return &wip, true, nil
}

func (dao *RedisDashboardDAO) GetAllWip(filterKey string) (map[string]models.WipSnapshot, error) {
	raw, err := dao.client.HGetAll(fmt.Sprintf(WIP_KEY_FORMAT_V1, filterKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get wip from redis: %w", err)
	}
	return decodeHash[models.WipSnapshot](raw)
}

// SetVariance caches the hourly variance series of one segment.
func (dao *RedisDashboardDAO) SetVariance(filterKey, segmentKey string, points []models.VariancePoint) error {
	data, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to marshal variance for %s: %w", segmentKey, err)
	}
	key := fmt.Sprintf(VARIANCE_KEY_FORMAT_V1, filterKey)
	if err := dao.client.HSet(key, segmentKey, string(data)); err != nil {
		return fmt.Errorf("failed to set variance in redis: %w", err)
	}
	if dao.ttl > 0 {
		return dao.client.Expire(key, dao.ttl)
	}
	return nil
}

func (dao *RedisDashboardDAO) GetVariance(filterKey, segmentKey string) ([]models.VariancePoint, bool, error) {
	str, err := dao.client.HGet(fmt.Sprintf(VARIANCE_KEY_FORMAT_V1, filterKey), segmentKey)
	if errors.Is(err, db.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get variance from redis: %w", err)
	}
	var points []models.VariancePoint
	if err := json.Unmarshal([]byte(str), &points); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal variance JSON: %w", err)
	}
	return points, true, nil
}

// SetStatus records the last outcome of a source for a filter.
func (dao *RedisDashboardDAO) SetStatus(filterKey, source string, status SourceStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	key := fmt.Sprintf(STATUS_KEY_FORMAT_V1, filterKey)
	if err := dao.client.HSet(key, source, string(data)); err != nil {
		return fmt.Errorf("failed to set status in redis: %w", err)
	}
	if dao.ttl > 0 {
		return dao.client.Expire(key, dao.ttl)
	}
	return nil
}

func (dao *RedisDashboardDAO) GetStatuses(filterKey string) (map[string]SourceStatus, error) {
	raw, err := dao.client.HGetAll(fmt.Sprintf(STATUS_KEY_FORMAT_V1, filterKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get statuses from redis: %w", err)
	}
	return decodeHash[SourceStatus](raw)
}

// DeleteFilter drops every cache key of a filter.
func (dao *RedisDashboardDAO) DeleteFilter(filterKey string) error {
	keys := []string{
		fmt.Sprintf(SEGMENTS_KEY_FORMAT_V1, filterKey),
		fmt.Sprintf(HEADERS_KEY_FORMAT_V1, filterKey),
		fmt.Sprintf(STYLE_MEDIA_KEY_FORMAT_V1, filterKey),
		fmt.Sprintf(WIP_KEY_FORMAT_V1, filterKey),
		fmt.Sprintf(VARIANCE_KEY_FORMAT_V1, filterKey),
		fmt.Sprintf(STATUS_KEY_FORMAT_V1, filterKey),
	}
	if err := dao.client.Del(keys...); err != nil {
		return fmt.Errorf("failed to delete cache for %s: %w", filterKey, err)
	}
	return nil
}

// ListCachedFilterKeys returns the filters that currently have segments
// cached.
func (dao *RedisDashboardDAO) ListCachedFilterKeys() ([]string, error) {
	prefix := fmt.Sprintf(SEGMENTS_KEY_FORMAT_V1, "")
	keys, err := dao.client.Keys(prefix + "*")
	if err != nil {
		return nil, fmt.Errorf("failed to list segment keys: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k[len(prefix):])
	}
	return out, nil
}
