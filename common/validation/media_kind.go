package validation

// Kind identifies a media family served by the gateway
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".m4a":  {},
	".ogg":  {},
	".oga":  {},
	".flac": {},
	".aac":  {},
	".opus": {},
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".m4v":  {},
	".webm": {},
	".mov":  {},
}

// AllowsExtension reports whether ext (lowercase, dot-prefixed) is
// servable for this media kind
func (k Kind) AllowsExtension(ext string) bool {
	switch k {
	case KindAudio:
		_, ok := audioExtensions[ext]
		return ok
	case KindVideo:
		_, ok := videoExtensions[ext]
		return ok
	default:
		return false
	}
}

// MIMEFamily returns the content-type prefix the backend store must
// report for objects of this kind. A stored object whose content type
// falls outside the family is treated as absent.
func (k Kind) MIMEFamily() string {
	switch k {
	case KindVideo:
		return "video/"
	default:
		return "audio/"
	}
}
