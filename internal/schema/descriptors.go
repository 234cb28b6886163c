package schema

import (
	"github.com/quantmind-br/wploader-go/internal/domain"
)

var openClosed = []string{"open", "closed", ""}

var postStatuses = []string{"publish", "future", "draft", "pending", "private"}

var postFormats = []string{
	"standard", "aside", "chat", "gallery", "link",
	"image", "quote", "status", "video", "audio", "",
}

func rendered(name string) Field {
	return object(name, str("rendered"))
}

func protectedText(name string) Field {
	return object(name, str("rendered"), boolean("protected"))
}

// publishable holds the fields shared by posts and pages
func publishable() []Field {
	return []Field{
		integer("id"),
		date("date"),
		date("date_gmt"),
		rendered("guid"),
		date("modified"),
		date("modified_gmt"),
		str("slug"),
		str("type"),
		rendered("title"),
		protectedText("content"),
		protectedText("excerpt"),
		ref("author", domain.KindUser),
		ref("featured_media", domain.KindMedia).optional(),
		enum("comment_status", openClosed...),
		enum("ping_status", openClosed...),
		str("template"),
		meta(),
	}
}

// PostDescriptor describes wp/v2/posts
var PostDescriptor = &Descriptor{
	Kind: domain.KindPost,
	Object: Object{Fields: append(publishable(),
		str("status"),
		urlField("link"),
		boolean("sticky"),
		enum("format", postFormats...),
		refList("categories", domain.KindCategory),
		refList("tags", domain.KindTag),
	)},
}

// PageDescriptor describes wp/v2/pages
var PageDescriptor = &Descriptor{
	Kind: domain.KindPage,
	Object: Object{Fields: append(publishable(),
		enum("status", postStatuses...),
		str("link"),
		ref("parent", domain.KindPage).optional().notSelf(),
		integer("menu_order"),
	)},
}

func termFields() []Field {
	return []Field{
		integer("id"),
		integer("count"),
		str("description"),
		urlField("link"),
		str("name"),
		str("slug"),
		str("taxonomy"),
		meta(),
	}
}

// TagDescriptor describes wp/v2/tags
var TagDescriptor = &Descriptor{
	Kind:   domain.KindTag,
	Object: Object{Fields: termFields()},
}

// CategoryDescriptor describes wp/v2/categories
var CategoryDescriptor = &Descriptor{
	Kind: domain.KindCategory,
	Object: Object{Fields: append(termFields(),
		ref("parent", domain.KindCategory).optional().notSelf(),
	)},
}

// CommentDescriptor describes wp/v2/comments. The post reference cannot
// tell posts from pages by id alone and is recorded against posts.
var CommentDescriptor = &Descriptor{
	Kind: domain.KindComment,
	Object: Object{Fields: []Field{
		integer("id"),
		ref("author", domain.KindUser).optional(),
		str("author_name"),
		str("author_url"),
		rendered("content"),
		date("date"),
		date("date_gmt"),
		urlField("link"),
		ref("parent", domain.KindComment).optional().notSelf(),
		ref("post", domain.KindPost, domain.KindPage).optional(),
		str("status"),
		str("type"),
		record("author_avatar_urls", urlField("")),
		meta(),
	}},
}

// UserDescriptor describes wp/v2/users
var UserDescriptor = &Descriptor{
	Kind: domain.KindUser,
	Object: Object{Fields: []Field{
		integer("id"),
		str("name"),
		str("url"),
		str("description"),
		urlField("link"),
		str("slug"),
		record("avatar_urls", urlField("")),
		meta(),
	}},
}

var mediaSize = object("",
	num("width"),
	num("height"),
	str("file"),
	num("filesize").optional(),
	str("mime_type"),
	str("source_url"),
)

func mediaCommon() []Field {
	return []Field{
		num("filesize"),
		record("sizes", mediaSize),
	}
}

var imageDetails = []Field{
	num("width"),
	num("height"),
	str("file"),
	record("image_meta", anyField("")),
}

var audioDetails = []Field{
	str("dataformat"),
	num("channels"),
	num("sample_rate"),
	num("bitrate"),
	str("channelmode"),
	str("bitrate_mode"),
	boolean("lossless"),
	str("encoder_options"),
	num("compression_ratio"),
	str("fileformat"),
	str("mime_type"),
	num("length"),
	str("length_formatted"),
	str("encoded_by"),
	str("title"),
	str("encoder_settings"),
	str("artist"),
	str("album"),
}

// mediaDetails accepts image details, audio details, the shared size
// information alone, or nothing, in that order.
func mediaDetails() Field {
	return union("media_details",
		object("", append(mediaCommon(), imageDetails...)...),
		object("", append(mediaCommon(), audioDetails...)...),
		object("", mediaCommon()...),
		object(""),
	)
}

// MediaDescriptor describes wp/v2/media
var MediaDescriptor = &Descriptor{
	Kind: domain.KindMedia,
	Object: Object{Fields: []Field{
		integer("id"),
		date("date").nullable(),
		date("date_gmt").nullable(),
		rendered("guid"),
		urlField("link"),
		date("modified"),
		date("modified_gmt"),
		str("slug"),
		enum("status", append(append([]string{}, postStatuses...), "inherit")...),
		str("type"),
		rendered("title"),
		ref("author", domain.KindUser),
		enum("comment_status", openClosed...),
		enum("ping_status", openClosed...),
		meta(),
		str("template"),
		str("alt_text"),
		rendered("caption"),
		rendered("description"),
		enum("media_type", "image", "file"),
		str("mime_type"),
		mediaDetails(),
		ref("post", domain.KindPost).optional(),
		str("source_url"),
	}},
}

// StatusDescriptor describes wp/v2/statuses
var StatusDescriptor = &Descriptor{
	Kind: domain.KindStatus,
	Object: Object{Fields: []Field{
		str("id"),
		str("name"),
		boolean("public"),
		boolean("queryable"),
		str("slug"),
		boolean("date_floating").optional(),
	}},
}

// TaxonomyDescriptor describes wp/v2/taxonomies
var TaxonomyDescriptor = &Descriptor{
	Kind: domain.KindTaxonomy,
	Object: Object{Fields: []Field{
		str("id"),
		str("description"),
		boolean("hierarchical"),
		str("name"),
		str("slug"),
		list("types", str("")),
		str("rest_base"),
		str("rest_namespace").withDefault("wp/v2"),
	}},
}

// TypeDescriptor describes wp/v2/types
var TypeDescriptor = &Descriptor{
	Kind: domain.KindType,
	Object: Object{Fields: []Field{
		str("id"),
		str("description"),
		boolean("hierarchical"),
		str("name"),
		str("slug"),
		{Name: "has_archive", Type: TypeStringOrBool, Default: false, HasDefault: true},
		list("taxonomies", str("")),
		str("rest_base"),
		str("rest_namespace").withDefault("wp/v2"),
		str("icon").nullable().withDefault(nil),
	}},
}

// SiteSettingsDescriptor describes the settings object at the API root
var SiteSettingsDescriptor = &Descriptor{
	Kind: domain.KindSiteSettings,
	Object: Object{Fields: []Field{
		{Name: "id", Type: TypeLiteral, Enum: []string{domain.SettingsID}, Default: domain.SettingsID, HasDefault: true},
		str("name"),
		str("description"),
		str("url"),
		str("home"),
		{Name: "gmt_offset", Type: TypeCoercedNumber},
		str("timezone_string"),
		ref("site_logo", domain.KindMedia).optional(),
		ref("site_icon", domain.KindMedia).optional(),
		str("site_icon_url").optional(),
	}},
}
