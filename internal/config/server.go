package config

import (
	"net/http"

	"github.com/rohmanhakim/ravencrawl/internal/fetch"
)

// ServerSource is the tagged union backing the Config boundary's
// "server" field: a crawl is served by exactly one of an in-process
// handler, a subprocess argv, or a caller-supplied resolver.
type ServerSource interface {
	isServerSource()
}

// HandlerServer binds an in-process http.Handler to an ephemeral port.
type HandlerServer struct {
	Handler http.Handler
}

func (HandlerServer) isServerSource() {}

// ProcessServer launches a subprocess and probes it for readiness.
type ProcessServer struct {
	Argv []string
	// OriginURL is the URL the subprocess is expected to serve once
	// ready.
	OriginURL string
}

func (ProcessServer) isServerSource() {}

// ResolverServer answers fetches directly via a callable, with no
// network involved.
type ResolverServer struct {
	Resolve fetch.Resolver
}

func (ResolverServer) isServerSource() {}
