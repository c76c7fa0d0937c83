package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "botimport_imports_started_total",
		Help: "Number of import pipelines dispatched.",
	})
	importsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "botimport_imports_succeeded_total",
		Help: "Number of import pipelines that created at least one bot.",
	})
	importsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "botimport_imports_failed_total",
		Help: "Number of import pipelines that failed for every bot.",
	})
	importsTimedOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "botimport_imports_timed_out_total",
		Help: "Number of import requests that hit the response deadline.",
	})
	resourcesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "botimport_resources_created_total",
		Help: "Number of resources created at the destination, by collection.",
	}, []string{"collection"})
)
