// Package statsview serves runtime statistics of the process over HTTP.
//
//	After Start, graphs are at http://<addr>/debug/statsview and the pprof
//	handlers at http://<addr>/debug/pprof/
//
// Underlying functionality is provided by "github.com/go-echarts/statsview"
package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const DefaultAddress = "localhost:12600"

const path = "/debug/statsview"

// Viewer wraps a statsview manager bound to one address
type Viewer struct {
	addr string
	mgr  *statsview.ViewManager
}

// New configures the viewer. An empty addr uses DefaultAddress.
func New(addr string) *Viewer {
	if addr == "" {
		addr = DefaultAddress
	}
	viewer.SetConfiguration(viewer.WithAddr(addr))

	return &Viewer{
		addr: addr,
		mgr:  statsview.New(),
	}
}

// Start blocks serving the statistics, run it in its own goroutine
func (v *Viewer) Start() {
	v.mgr.Start()
}

func (v *Viewer) Stop() {
	v.mgr.Stop()
}

// URL of the graphs page
func (v *Viewer) URL() string {
	return "http://" + v.addr + path
}
