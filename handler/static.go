package handler

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/mime"
	"github.com/indigo-web/flint/http/status"
)

// Static returns the file handler serving the request path from the root directory.
// Directories are served by their index file. Paths escaping the root are refused with
// 403 Forbidden, missing files result in 404 Not Found.
func Static(root, index string) http.Handler {
	return func(request *http.Request, response *http.Response) int {
		if !isSafe(request.Path) {
			response.Code = status.Forbidden
			return 0
		}

		name := filepath.Join(root, filepath.FromSlash(request.Path))
		file, info, err := open(name)
		if err == nil && info.IsDir() {
			_ = file.Close()
			name = filepath.Join(name, index)
			file, info, err = open(name)
		}

		if err != nil {
			response.Code = codeOf(err)
			return 0
		}

		if !info.Mode().IsRegular() {
			_ = file.Close()
			response.Code = status.Forbidden
			return 0
		}

		response.Code = status.OK
		response.ContentType = mime.ByPath(name)
		response.ServeFile(file, 0, info.Size())

		return int(info.Size())
	}
}

func open(name string) (*os.File, fs.FileInfo, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	return file, info, nil
}

func codeOf(err error) status.Code {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return status.NotFound
	}

	return status.Forbidden
}

// isSafe checks for path traversal, which is basically a double-dot segment. Backslashes
// separate segments too, as they do on Windows.
func isSafe(path string) bool {
	for len(path) > 0 {
		var segment string

		if slash := strings.IndexAny(path, `/\`); slash == -1 {
			segment, path = path, ""
		} else {
			segment, path = path[:slash], path[slash+1:]
		}

		if segment == ".." {
			return false
		}
	}

	return true
}
