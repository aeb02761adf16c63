package services

import "github.com/prometheus/client_golang/prometheus"

var (
	citationsFormattedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kildeliste_citations_formatted_total",
			Help: "Total number of citations formatted, by citation style.",
		},
		[]string{"style"},
	)
	exportsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kildeliste_article_exports_total",
			Help: "Total number of article exports, by result.",
		},
		[]string{"result"},
	)
	markerWarningsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kildeliste_marker_warnings_total",
			Help: "Total number of citation marker warnings reported during bibliography assembly.",
		},
	)
)

func init() {
	prometheus.MustRegister(citationsFormattedCounter, exportsCounter, markerWarningsCounter)
}
