package records

// SongSchema flattens the song member of /songs/{id}.
var SongSchema = Schema{
	{"song_id", "id"},
	{"song_name", "title"},
	{"title_with_featured", "title_with_featured"},
	{"full_title", "full_title"},
	{"song_lyrics_url", "url"},
	{"song_path", "path"},
	{"song_art_image_url", "song_art_image_url"},
	{"header_image_url", "header_image_url"},
	{"release_date", "release_date"},
	{"release_date_for_display", "release_date_for_display"},
	{"language", "language"},
	{"recording_location", "recording_location"},
	{"lyrics_state", "lyrics_state"},
	{"annotation_count", "annotation_count"},
	{"pyongs_count", "pyongs_count"},
	{"pageviews", "stats.pageviews"},
	{"hot", "stats.hot"},
	{"apple_music_id", "apple_music_id"},
	{"description", "description.plain"},
	{"artist_id", "primary_artist.id"},
	{"artist_name", "primary_artist.name"},
	{"artist_url", "primary_artist.url"},
	{"album_id", "album.id"},
	{"album_name", "album.name"},
	{"album_url", "album.url"},
}

// ArtistSchema flattens the artist member of /artists/{id}.
var ArtistSchema = Schema{
	{"artist_id", "id"},
	{"artist_name", "name"},
	{"artist_url", "url"},
	{"artist_image_url", "image_url"},
	{"artist_header_image_url", "header_image_url"},
	{"artist_followers_count", "followers_count"},
	{"artist_iq", "iq"},
	{"artist_is_verified", "is_verified"},
	{"artist_is_meme_verified", "is_meme_verified"},
	{"artist_description", "description.plain"},
	{"facebook_name", "facebook_name"},
	{"instagram_name", "instagram_name"},
	{"twitter_name", "twitter_name"},
}

// AnnotationSchema flattens the whole /annotations/{id} response, which carries the annotation
// and the referent it is attached to.
var AnnotationSchema = Schema{
	{"annotation_id", "annotation.id"},
	{"annotation_url", "annotation.url"},
	{"annotation_body", "annotation.body.plain"},
	{"annotation_state", "annotation.state"},
	{"votes_total", "annotation.votes_total"},
	{"verified", "annotation.verified"},
	{"pinned", "annotation.pinned"},
	{"comment_count", "annotation.comment_count"},
	{"author_id", "annotation.authors.0.user.id"},
	{"author_name", "annotation.authors.0.user.name"},
	{"referent_id", "referent.id"},
	{"fragment", "referent.fragment"},
	{"classification", "referent.classification"},
	{"annotatable_id", "referent.annotatable.id"},
	{"annotatable_type", "referent.annotatable.type"},
	{"annotatable_title", "referent.annotatable.title"},
	{"annotatable_url", "referent.annotatable.url"},
}

// ReferentSchema flattens one element of the referents list.
var ReferentSchema = Schema{
	{"referent_id", "id"},
	{"fragment", "fragment"},
	{"classification", "classification"},
	{"song_id", "song_id"},
	{"annotatable_type", "annotatable.type"},
	{"annotatable_title", "annotatable.title"},
	{"annotatable_url", "annotatable.url"},
	{"annotation_id", "annotations.0.id"},
	{"annotation_body", "annotations.0.body.plain"},
	{"votes_total", "annotations.0.votes_total"},
	{"verified", "annotations.0.verified"},
	{"annotator_id", "annotator_id"},
	{"annotator_login", "annotator_login"},
}

// ArtistSongSchema flattens one element of /artists/{id}/songs.
var ArtistSongSchema = Schema{
	{"song_id", "id"},
	{"song_name", "title"},
	{"full_title", "full_title"},
	{"song_lyrics_url", "url"},
	{"song_art_image_url", "song_art_image_url"},
	{"release_date_for_display", "release_date_for_display"},
	{"annotation_count", "annotation_count"},
	{"pageviews", "stats.pageviews"},
	{"lyrics_state", "lyrics_state"},
	{"artist_id", "primary_artist.id"},
	{"artist_name", "primary_artist.name"},
	{"artist_url", "primary_artist.url"},
}

// SearchHitSchema flattens one element of the search hits list.
var SearchHitSchema = Schema{
	{"hit_type", "type"},
	{"song_id", "result.id"},
	{"song_name", "result.title"},
	{"full_title", "result.full_title"},
	{"song_lyrics_url", "result.url"},
	{"song_art_image_url", "result.song_art_image_url"},
	{"release_date_for_display", "result.release_date_for_display"},
	{"annotation_count", "result.annotation_count"},
	{"pageviews", "result.stats.pageviews"},
	{"hot", "result.stats.hot"},
	{"artist_id", "result.primary_artist.id"},
	{"artist_name", "result.primary_artist.name"},
	{"artist_url", "result.primary_artist.url"},
	{"artist_is_verified", "result.primary_artist.is_verified"},
}

// WebPageSchema flattens the web_page member of /web_pages/lookup.
var WebPageSchema = Schema{
	{"web_page_id", "id"},
	{"title", "title"},
	{"normalized_url", "normalized_url"},
	{"share_url", "share_url"},
	{"domain", "domain"},
	{"annotation_count", "annotation_count"},
	{"api_path", "api_path"},
}

// SongMediaSchema flattens one element of a song's media list.
var SongMediaSchema = Schema{
	{"provider", "provider"},
	{"type", "type"},
	{"url", "url"},
	{"start", "start"},
	{"native_uri", "native_uri"},
}

// SongCreditSchema flattens one producer or writer artist of a song.
var SongCreditSchema = Schema{
	{"artist_id", "id"},
	{"artist_name", "name"},
	{"artist_url", "url"},
	{"artist_is_verified", "is_verified"},
}

// SongRelationshipSchema flattens one (relationship, song) pair. The input is
// built by pairing each relationship_type with each of its songs.
var SongRelationshipSchema = Schema{
	{"relationship_type", "relationship_type"},
	{"type", "type"},
	{"song_id", "song.id"},
	{"song_name", "song.title"},
	{"full_title", "song.full_title"},
	{"song_lyrics_url", "song.url"},
	{"artist_id", "song.primary_artist.id"},
	{"artist_name", "song.primary_artist.name"},
}

// AlbumSchema flattens the album member of a song.
var AlbumSchema = Schema{
	{"album_id", "id"},
	{"album_name", "name"},
	{"album_full_title", "full_title"},
	{"album_url", "url"},
	{"album_cover_art_url", "cover_art_url"},
	{"album_release_date", "release_date_for_display"},
	{"artist_id", "artist.id"},
	{"artist_name", "artist.name"},
}

// Schemas indexes every declared schema by record kind.
var Schemas = map[string]Schema{
	"song":              SongSchema,
	"artist":            ArtistSchema,
	"annotation":        AnnotationSchema,
	"referent":          ReferentSchema,
	"artist_song":       ArtistSongSchema,
	"search_hit":        SearchHitSchema,
	"web_page":          WebPageSchema,
	"song_media":        SongMediaSchema,
	"song_credit":       SongCreditSchema,
	"song_relationship": SongRelationshipSchema,
	"album":             AlbumSchema,
}
