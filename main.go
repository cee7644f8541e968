//go:build !server

// +build !server

package main

import (
	"embed"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"snapmark/internal/imageio"
)

// FileLoader serves local image files to the webview under the
// /snapmark-local-file/ prefix, restricted to the app's own directories.
type FileLoader struct {
	allowedPrefixes []string
}

// NewFileLoader creates a FileLoader that only serves from the given
// directory prefixes.
func NewFileLoader(allowed ...string) *FileLoader {
	return &FileLoader{allowedPrefixes: allowed}
}

func (f *FileLoader) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/snapmark-local-file/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	requestedPath := strings.TrimPrefix(r.URL.Path, "/snapmark-local-file")
	decodedPath, err := url.PathUnescape(requestedPath)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Resolve .. before the prefix check.
	decodedPath = filepath.Clean(decodedPath)

	allowed := false
	for _, prefix := range f.allowedPrefixes {
		if strings.HasPrefix(decodedPath, prefix) {
			allowed = true
			break
		}
	}
	if !allowed {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	if !imageio.IsImagePath(decodedPath) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	fileData, err := os.ReadFile(decodedPath)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", imageio.MIMEForPath(decodedPath))
	w.WriteHeader(http.StatusOK)
	w.Write(fileData)
}

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	app := NewApp()

	homeDir, _ := os.UserHomeDir()
	fileLoader := NewFileLoader(
		filepath.Join(homeDir, ".snapmark")+string(os.PathSeparator),
		filepath.Join(homeDir, "Pictures")+string(os.PathSeparator),
	)

	err := wails.Run(&options.App{
		Title:     "snapmark",
		Width:     1280,
		Height:    800,
		MinWidth:  960,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets:  assets,
			Handler: fileLoader,
		},
		BackgroundColour:         &options.RGBA{R: 0, G: 0, B: 0, A: 0},
		Frameless:                true,
		StartHidden:              false,
		EnableDefaultContextMenu: true,
		LogLevel:                 logger.DEBUG,
		LogLevelProduction:       logger.INFO,
		OnStartup:                app.startup,
		OnShutdown:               app.shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
				HideTitleBar:               false,
				FullSizeContent:            true,
			},
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
