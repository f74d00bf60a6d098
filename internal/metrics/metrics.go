package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "paroikiapp_http_requests_total", Help: "HTTP requests by method and status"},
		[]string{"method", "status"},
	)
	RegistrationsViaLink = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "paroikiapp_link_registrations_total", Help: "Youths registered through registration links"},
	)
	RetentionDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "paroikiapp_retention_deleted_total", Help: "Documents removed by the retention sweep"},
	)
	DocumentUploads = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "paroikiapp_document_uploads_total", Help: "Documents uploaded through the ficha surface"},
	)
)

func Register() {
	prometheus.MustRegister(HTTPRequests, RegistrationsViaLink, RetentionDeleted, DocumentUploads)
}
