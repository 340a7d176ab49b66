package static

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static/*
var StaticFS embed.FS

// FS returns the assets served under /static.
func FS() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		// the directory is embedded at compile time
		panic(fmt.Sprintf("static assets missing: %v", err))
	}
	return sub
}

// Stylesheet returns the stylesheet of the web interface.
func Stylesheet() ([]byte, error) {
	data, err := StaticFS.ReadFile("static/modhub.css")
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet from embedded files: %w", err)
	}
	return data, nil
}
