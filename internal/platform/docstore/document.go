package docstore

import "time"

// Document is a decoded backend document. The backend is schema-less from the
// application's point of view, so fields are read defensively with defaults.
type Document struct {
	ID     string
	Fields map[string]any
}

// Has reports whether the field is present.
func (d Document) Has(key string) bool {
	_, ok := d.Fields[key]
	return ok
}

// String returns the field as a string, or "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d.Fields[key].(string)
	return s
}

// Millis returns the field as unix milliseconds, coercing the numeric and
// time representations different backends produce. Returns 0 when absent.
func (d Document) Millis(key string) int64 {
	switch v := d.Fields[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case time.Time:
		return v.UnixMilli()
	default:
		return 0
	}
}

// Time returns the field as a time.Time, or the zero time when absent.
func (d Document) Time(key string) time.Time {
	ms := d.Millis(key)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
