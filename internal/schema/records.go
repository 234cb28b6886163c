package schema

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// Record is a validated, typed entity
type Record interface {
	// RecordID returns the stored identity of the record
	RecordID() string
}

// Renderable is implemented by records that carry rendered HTML content
type Renderable interface {
	RenderedHTML() string
}

// RenderedText is a rendered HTML string
type RenderedText struct {
	Rendered string `json:"rendered"`
}

// ProtectedText is rendered HTML that may be password protected
type ProtectedText struct {
	Rendered  string `json:"rendered"`
	Protected bool   `json:"protected"`
}

// Post is an entry of the posts collection
type Post struct {
	ID            int64              `json:"id"`
	Date          time.Time          `json:"date"`
	DateGMT       time.Time          `json:"date_gmt"`
	GUID          RenderedText       `json:"guid"`
	Modified      time.Time          `json:"modified"`
	ModifiedGMT   time.Time          `json:"modified_gmt"`
	Slug          string             `json:"slug"`
	Status        string             `json:"status"`
	Type          string             `json:"type"`
	Link          string             `json:"link"`
	Title         RenderedText       `json:"title"`
	Content       ProtectedText      `json:"content"`
	Excerpt       ProtectedText      `json:"excerpt"`
	Author        domain.Reference   `json:"author"`
	FeaturedMedia *domain.Reference  `json:"featured_media,omitempty"`
	CommentStatus string             `json:"comment_status"`
	PingStatus    string             `json:"ping_status"`
	Sticky        bool               `json:"sticky"`
	Template      string             `json:"template"`
	Format        string             `json:"format"`
	Meta          any                `json:"meta"`
	Categories    []domain.Reference `json:"categories"`
	Tags          []domain.Reference `json:"tags"`
}

func (p *Post) RecordID() string     { return strconv.FormatInt(p.ID, 10) }
func (p *Post) RenderedHTML() string { return p.Content.Rendered }

// Page is an entry of the pages collection
type Page struct {
	ID            int64             `json:"id"`
	Date          time.Time         `json:"date"`
	DateGMT       time.Time         `json:"date_gmt"`
	GUID          RenderedText      `json:"guid"`
	Modified      time.Time         `json:"modified"`
	ModifiedGMT   time.Time         `json:"modified_gmt"`
	Slug          string            `json:"slug"`
	Status        string            `json:"status"`
	Type          string            `json:"type"`
	Link          string            `json:"link"`
	Title         RenderedText      `json:"title"`
	Content       ProtectedText     `json:"content"`
	Excerpt       ProtectedText     `json:"excerpt"`
	Author        domain.Reference  `json:"author"`
	FeaturedMedia *domain.Reference `json:"featured_media,omitempty"`
	Parent        *domain.Reference `json:"parent,omitempty"`
	MenuOrder     int64             `json:"menu_order"`
	CommentStatus string            `json:"comment_status"`
	PingStatus    string            `json:"ping_status"`
	Template      string            `json:"template"`
	Meta          any               `json:"meta"`
}

func (p *Page) RecordID() string     { return strconv.FormatInt(p.ID, 10) }
func (p *Page) RenderedHTML() string { return p.Content.Rendered }

// Tag is an entry of the tags collection
type Tag struct {
	ID          int64  `json:"id"`
	Count       int64  `json:"count"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Taxonomy    string `json:"taxonomy"`
	Meta        any    `json:"meta"`
}

func (t *Tag) RecordID() string { return strconv.FormatInt(t.ID, 10) }

// Category is a tag that may have a parent category
type Category struct {
	Tag
	Parent *domain.Reference `json:"parent,omitempty"`
}

// Comment is an entry of the comments collection
type Comment struct {
	ID               int64             `json:"id"`
	Author           *domain.Reference `json:"author,omitempty"`
	AuthorName       string            `json:"author_name"`
	AuthorURL        string            `json:"author_url"`
	Content          RenderedText      `json:"content"`
	Date             time.Time         `json:"date"`
	DateGMT          time.Time         `json:"date_gmt"`
	Link             string            `json:"link"`
	Parent           *domain.Reference `json:"parent,omitempty"`
	Post             *domain.Reference `json:"post,omitempty"`
	Status           string            `json:"status"`
	Type             string            `json:"type"`
	AuthorAvatarURLs map[string]string `json:"author_avatar_urls"`
	Meta             any               `json:"meta"`
}

func (c *Comment) RecordID() string     { return strconv.FormatInt(c.ID, 10) }
func (c *Comment) RenderedHTML() string { return c.Content.Rendered }

// User is an entry of the users collection
type User struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Description string            `json:"description"`
	Link        string            `json:"link"`
	Slug        string            `json:"slug"`
	AvatarURLs  map[string]string `json:"avatar_urls"`
	Meta        any               `json:"meta"`
}

func (u *User) RecordID() string { return strconv.FormatInt(u.ID, 10) }

// MediaSize is one generated size of an image attachment
type MediaSize struct {
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	File      string   `json:"file"`
	Filesize  *float64 `json:"filesize,omitempty"`
	MimeType  string   `json:"mime_type"`
	SourceURL string   `json:"source_url"`
}

// MediaDetails holds the type specific attachment metadata. Pointer fields
// are nil when the matching variant did not carry them, so zero values that
// were present survive a round trip.
type MediaDetails struct {
	Filesize *float64             `json:"filesize,omitempty"`
	Sizes    map[string]MediaSize `json:"sizes,omitempty"`

	Width     *float64       `json:"width,omitempty"`
	Height    *float64       `json:"height,omitempty"`
	File      *string        `json:"file,omitempty"`
	ImageMeta map[string]any `json:"image_meta,omitempty"`

	Dataformat       *string  `json:"dataformat,omitempty"`
	Channels         *float64 `json:"channels,omitempty"`
	SampleRate       *float64 `json:"sample_rate,omitempty"`
	Bitrate          *float64 `json:"bitrate,omitempty"`
	Channelmode      *string  `json:"channelmode,omitempty"`
	BitrateMode      *string  `json:"bitrate_mode,omitempty"`
	Lossless         *bool    `json:"lossless,omitempty"`
	EncoderOptions   *string  `json:"encoder_options,omitempty"`
	CompressionRatio *float64 `json:"compression_ratio,omitempty"`
	Fileformat       *string  `json:"fileformat,omitempty"`
	MimeType         *string  `json:"mime_type,omitempty"`
	Length           *float64 `json:"length,omitempty"`
	LengthFormatted  *string  `json:"length_formatted,omitempty"`
	EncodedBy        *string  `json:"encoded_by,omitempty"`
	Title            *string  `json:"title,omitempty"`
	EncoderSettings  *string  `json:"encoder_settings,omitempty"`
	Artist           *string  `json:"artist,omitempty"`
	Album            *string  `json:"album,omitempty"`
}

// MarshalJSON keeps empty sizes and image_meta maps whenever their variant
// is present: filesize implies sizes, width implies image_meta.
func (d MediaDetails) MarshalJSON() ([]byte, error) {
	type details MediaDetails
	out := struct {
		details
		Sizes     *map[string]MediaSize `json:"sizes,omitempty"`
		ImageMeta *map[string]any       `json:"image_meta,omitempty"`
	}{details: details(d)}

	if d.Filesize != nil {
		sizes := d.Sizes
		if sizes == nil {
			sizes = map[string]MediaSize{}
		}
		out.Sizes = &sizes
	}
	if d.Width != nil {
		meta := d.ImageMeta
		if meta == nil {
			meta = map[string]any{}
		}
		out.ImageMeta = &meta
	}
	return json.Marshal(out)
}

// Media is an entry of the media collection
type Media struct {
	ID            int64             `json:"id"`
	Date          *time.Time        `json:"date"`
	DateGMT       *time.Time        `json:"date_gmt"`
	GUID          RenderedText      `json:"guid"`
	Link          string            `json:"link"`
	Modified      time.Time         `json:"modified"`
	ModifiedGMT   time.Time         `json:"modified_gmt"`
	Slug          string            `json:"slug"`
	Status        string            `json:"status"`
	Type          string            `json:"type"`
	Title         RenderedText      `json:"title"`
	Author        domain.Reference  `json:"author"`
	CommentStatus string            `json:"comment_status"`
	PingStatus    string            `json:"ping_status"`
	Meta          any               `json:"meta"`
	Template      string            `json:"template"`
	AltText       string            `json:"alt_text"`
	Caption       RenderedText      `json:"caption"`
	Description   RenderedText      `json:"description"`
	MediaType     string            `json:"media_type"`
	MimeType      string            `json:"mime_type"`
	MediaDetails  MediaDetails      `json:"media_details"`
	Post          *domain.Reference `json:"post,omitempty"`
	SourceURL     string            `json:"source_url"`
}

func (m *Media) RecordID() string { return strconv.FormatInt(m.ID, 10) }

// Status is an entry of the statuses collection
type Status struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Public       bool   `json:"public"`
	Queryable    bool   `json:"queryable"`
	Slug         string `json:"slug"`
	DateFloating *bool  `json:"date_floating,omitempty"`
}

func (s *Status) RecordID() string { return s.ID }

// Taxonomy is an entry of the taxonomies collection
type Taxonomy struct {
	ID            string   `json:"id"`
	Description   string   `json:"description"`
	Hierarchical  bool     `json:"hierarchical"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Types         []string `json:"types"`
	RestBase      string   `json:"rest_base"`
	RestNamespace string   `json:"rest_namespace"`
}

func (t *Taxonomy) RecordID() string { return t.ID }

// Type is an entry of the types collection
type Type struct {
	ID            string   `json:"id"`
	Description   string   `json:"description"`
	Hierarchical  bool     `json:"hierarchical"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	HasArchive    any      `json:"has_archive"`
	Taxonomies    []string `json:"taxonomies"`
	RestBase      string   `json:"rest_base"`
	RestNamespace string   `json:"rest_namespace"`
	Icon          *string  `json:"icon"`
}

func (t *Type) RecordID() string { return t.ID }

// ArchiveSlug returns the archive slug and whether the type has an archive
func (t *Type) ArchiveSlug() (string, bool) {
	switch v := t.HasArchive.(type) {
	case string:
		return v, true
	case bool:
		return "", v
	}
	return "", false
}

// SiteSettings is the singleton read from the API root
type SiteSettings struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	URL            string            `json:"url"`
	Home           string            `json:"home"`
	GMTOffset      float64           `json:"gmt_offset"`
	TimezoneString string            `json:"timezone_string"`
	SiteLogo       *domain.Reference `json:"site_logo,omitempty"`
	SiteIcon       *domain.Reference `json:"site_icon,omitempty"`
	SiteIconURL    string            `json:"site_icon_url,omitempty"`
}

func (s *SiteSettings) RecordID() string { return s.ID }

// Location returns the site's time zone, falling back to a fixed offset
func (s *SiteSettings) Location() *time.Location {
	if s.TimezoneString != "" {
		if loc, err := time.LoadLocation(s.TimezoneString); err == nil {
			return loc
		}
	}
	return time.FixedZone("", int(s.GMTOffset*3600))
}
