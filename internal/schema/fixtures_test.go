package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func rawJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

const postJSON = `{
	"id": 101,
	"date": "2024-03-01T10:30:00",
	"date_gmt": "2024-03-01T09:30:00",
	"guid": {"rendered": "https://example.com/?p=101"},
	"modified": "2024-03-02T08:00:00",
	"modified_gmt": "2024-03-02T07:00:00",
	"slug": "hello-world",
	"status": "publish",
	"type": "post",
	"link": "https://example.com/hello-world/",
	"title": {"rendered": "Hello <em>World</em>"},
	"content": {"rendered": "<p>Welcome.</p>", "protected": false},
	"excerpt": {"rendered": "<p>Welcome</p>", "protected": false},
	"author": 7,
	"featured_media": 0,
	"comment_status": "open",
	"ping_status": "closed",
	"sticky": false,
	"template": "",
	"format": "standard",
	"meta": [],
	"categories": [3, 4],
	"tags": [],
	"class_list": ["post-101"],
	"_links": {"self": [{"href": "https://example.com/wp-json/wp/v2/posts/101"}]}
}`

const pageJSON = `{
	"id": 12,
	"date": "2024-01-05T12:00:00",
	"date_gmt": "2024-01-05T12:00:00",
	"guid": {"rendered": "https://example.com/?page_id=12"},
	"modified": "2024-01-06T12:00:00",
	"modified_gmt": "2024-01-06T12:00:00",
	"slug": "lion",
	"status": "publish",
	"type": "page",
	"link": "https://example.com/big-cats/lion/",
	"title": {"rendered": "Lion"},
	"content": {"rendered": "<p>Roar</p>", "protected": false},
	"excerpt": {"rendered": "", "protected": false},
	"author": 1,
	"featured_media": 55,
	"parent": 11,
	"menu_order": 2,
	"comment_status": "closed",
	"ping_status": "closed",
	"template": "",
	"meta": {"footnotes": ""}
}`

const mediaJSON = `{
	"id": 55,
	"date": null,
	"date_gmt": null,
	"guid": {"rendered": "https://example.com/lion.jpg"},
	"link": "https://example.com/lion/",
	"modified": "2024-01-06T12:00:00",
	"modified_gmt": "2024-01-06T12:00:00",
	"slug": "lion-photo",
	"status": "inherit",
	"type": "attachment",
	"title": {"rendered": "Lion photo"},
	"author": 1,
	"comment_status": "open",
	"ping_status": "closed",
	"meta": [],
	"template": "",
	"alt_text": "A lion",
	"caption": {"rendered": ""},
	"description": {"rendered": ""},
	"media_type": "image",
	"mime_type": "image/jpeg",
	"media_details": {
		"filesize": 1024,
		"sizes": {
			"thumbnail": {"width": 150, "height": 150, "file": "lion-150x150.jpg", "mime_type": "image/jpeg", "source_url": "https://example.com/lion-150x150.jpg"}
		},
		"width": 800,
		"height": 600,
		"file": "2024/01/lion.jpg",
		"image_meta": {"camera": "", "iso": "0"}
	},
	"post": 12,
	"source_url": "https://example.com/lion.jpg"
}`

const settingsJSON = `{
	"name": "Example",
	"description": "Just another site",
	"url": "https://example.com",
	"home": "https://example.com",
	"gmt_offset": "2",
	"timezone_string": "Europe/Paris",
	"site_logo": 0,
	"site_icon": 55,
	"namespaces": ["wp/v2"]
}`
