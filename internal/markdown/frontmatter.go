package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// ErrDateMissing is returned when a post has no usable date.
var ErrDateMissing = errors.New("front matter: date is required")

// ErrDateInvalid is returned when the date value cannot be read as a point
// in time.
var ErrDateInvalid = errors.New("front matter: date is invalid")

// FrontMatter is the metadata block that precedes a post body.
type FrontMatter struct {
	Title   string
	Summary string
	Date    time.Time
	Extra   map[string]any
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title"`
	Summary string         `yaml:"summary"`
	Date    any            `yaml:"date"`
	Extra   map[string]any `yaml:",inline"`
}

// ParseFrontMatter splits source into metadata and the markdown body. The
// date must be present; it is normally a unix timestamp in seconds, but
// RFC 3339 and YYYY-MM-DD strings are accepted too.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var env frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse front matter: %w", err)
	}

	date, err := parseDate(env.Date)
	if err != nil {
		return FrontMatter{}, nil, err
	}

	meta := FrontMatter{
		Title:   strings.TrimSpace(env.Title),
		Summary: strings.TrimSpace(env.Summary),
		Date:    date,
		Extra:   maps.Clone(env.Extra),
	}
	if meta.Extra == nil {
		meta.Extra = map[string]any{}
	}
	return meta, body, nil
}

func parseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, ErrDateMissing
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case uint64:
		if v > math.MaxInt64 {
			return time.Time{}, fmt.Errorf("%w: %d", ErrDateInvalid, v)
		}
		return time.Unix(int64(v), 0).UTC(), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, fmt.Errorf("%w: %v", ErrDateInvalid, v)
		}
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	case time.Time:
		return v.UTC(), nil
	case string:
		return parseDateString(v)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrDateInvalid, value)
	}
}

func parseDateString(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrDateMissing
	}
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateInvalid, value)
}
