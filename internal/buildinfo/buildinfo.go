// Package buildinfo reports version metadata injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/usuarios/internal/buildinfo.buildVersion=v1.0.0 \
//	  -X github.com/dmitrijs2005/usuarios/internal/buildinfo.buildDate=$(date -u +%F) \
//	  -X github.com/dmitrijs2005/usuarios/internal/buildinfo.buildCommit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// PrintBuildData writes the version, date and commit lines to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
