package mime

var Extension = map[string]MIME{
	".avif":  AVIF,
	".css":   CSS,
	".gif":   GIF,
	".htm":   HTML,
	".html":  HTML,
	".ico":   ICO,
	".jpeg":  JPEG,
	".jpg":   JPEG,
	".js":    JS,
	".mjs":   JS,
	".json":  JSON,
	".mp4":   MP4,
	".pdf":   PDF,
	".png":   PNG,
	".svg":   SVG,
	".txt":   Plain,
	".wasm":  WASM,
	".webm":  WEBM,
	".webp":  WEBP,
	".woff2": WOFF2,
	".xml":   XML,
	".yaml":  YAML,
	".yml":   YAML,
	".gz":    GZIP,
	".zip":   ZIP,
	".zst":   ZSTD,
}

// maxExtLen is the length of the longest known extension, including the dot.
const maxExtLen = len(".woff2")

// ByPath guesses the MIME by the file extension, case-insensitively. Unknown
// extensions and paths without any are reported as OctetStream.
func ByPath(path string) MIME {
	dot := -1
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			dot = i
			break
		}
	}

	if dot == -1 || len(path)-dot > maxExtLen {
		return OctetStream
	}

	var lower [maxExtLen]byte
	ext := lower[:copy(lower[:], path[dot:])]
	for i, c := range ext {
		if c >= 'A' && c <= 'Z' {
			ext[i] = c | 0x20
		}
	}

	if m, ok := Extension[string(ext)]; ok {
		return m
	}

	return OctetStream
}
