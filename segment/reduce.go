package segment

import "floorwatch/models"

// ReduceHeaders indexes headers by segment key. Duplicate keys keep the
// latest record.
func ReduceHeaders(headers []models.Header) map[string]models.Header {
	out := make(map[string]models.Header, len(headers))
	for _, h := range headers {
		key := MakeSegmentKey(h.Line, h.Buyer, h.Style)
		if prev, ok := out[key]; ok {
			out[key] = PickLatest(prev, h)
			continue
		}
		out[key] = h
	}
	return out
}

// ReduceStyleMedia indexes media by style media key, first seen wins.
func ReduceStyleMedia(docs []models.StyleMedia) map[string]models.StyleMedia {
	out := make(map[string]models.StyleMedia, len(docs))
	for _, d := range docs {
		key := MakeStyleMediaKey(d.Factory, d.AssignedBuilding, d.Buyer, d.Style, d.ColorModel)
		if _, ok := out[key]; ok {
			continue
		}
		out[key] = d
	}
	return out
}

// KeyOf returns the segment key of a dashboard segment.
func KeyOf(s models.Segment) string {
	return MakeSegmentKey(s.Line, s.Buyer, s.Style)
}
