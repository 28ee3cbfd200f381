package mime

type MIME = string

const (
	OctetStream MIME = "application/octet-stream"
	Plain       MIME = "text/plain; charset=utf-8"
	HTML        MIME = "text/html; charset=utf-8"
	CSS         MIME = "text/css; charset=utf-8"
	JS          MIME = "text/javascript; charset=utf-8"
	XML         MIME = "text/xml; charset=utf-8"
	JSON        MIME = "application/json"
	YAML        MIME = "application/yaml"
	PDF         MIME = "application/pdf"
	ZIP         MIME = "application/zip"
	GZIP        MIME = "application/gzip"
	ZSTD        MIME = "application/zstd"
	WASM        MIME = "application/wasm"
	AVIF        MIME = "image/avif"
	GIF         MIME = "image/gif"
	JPEG        MIME = "image/jpeg"
	PNG         MIME = "image/png"
	SVG         MIME = "image/svg+xml"
	ICO         MIME = "image/vnd.microsoft.icon"
	WEBP        MIME = "image/webp"
	MP4         MIME = "video/mp4"
	WEBM        MIME = "video/webm"
	WOFF2       MIME = "font/woff2"
)
