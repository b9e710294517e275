package metrics

import (
	"net/http"

	"github.com/jhunt/go-log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/macaba/mcweb/core/bus"
)

type Exporter struct {
	Namespace string
	PostCount int

	Username string
	Password string
	Realm    string

	bus      *bus.Bus
	registry *prometheus.Registry

	postsGauge     prometheus.Gauge
	filesGauge     prometheus.Gauge
	previewCounter prometheus.Counter
	deleteCounter  *prometheus.CounterVec
}

const (
	postsTotal    = "posts_total"
	filesTotal    = "files_total"
	previewsTotal = "previews_total"
	deletesTotal  = "delete_requests_total"
	busClients    = "event_clients"
)

func New(endpoint *Exporter) *Exporter {
	if endpoint == nil {
		endpoint = &Exporter{}
	}

	if endpoint.Username == "" {
		endpoint.Username = "prometheus"
	}
	if endpoint.Password == "" {
		endpoint.Password = "mcweb"
	}
	if endpoint.Realm == "" {
		endpoint.Realm = "mcweb Prometheus Exporter"
	}
	if endpoint.Namespace == "" {
		endpoint.Namespace = "mcweb"
	}

	endpoint.postsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: endpoint.Namespace,
			Name:      postsTotal,
			Help:      "How many posts exist across all boards",
		})

	endpoint.filesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: endpoint.Namespace,
			Name:      filesTotal,
			Help:      "How many attachments have been stored since startup, less those deleted",
		})

	endpoint.previewCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: endpoint.Namespace,
			Name:      previewsTotal,
			Help:      "How many markup previews have been rendered",
		})

	endpoint.deleteCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: endpoint.Namespace,
			Name:      deletesTotal,
			Help:      "How many posts were named in delete requests, by outcome",
		}, []string{"outcome"})

	/* each exporter gets its own registry, so that more than one
	   core can live in the same process (i.e. under test) */
	endpoint.registry = prometheus.NewRegistry()
	endpoint.registry.MustRegister(
		endpoint.postsGauge,
		endpoint.filesGauge,
		endpoint.previewCounter,
		endpoint.deleteCounter,
	)

	endpoint.postsGauge.Set(float64(endpoint.PostCount))
	return endpoint
}

func (e *Exporter) Inform(mbus *bus.Bus) {
	e.bus = mbus
	e.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: e.Namespace,
			Name:      busClients,
			Help:      "How many clients are listening for live board events",
		}, func() float64 {
			return float64(mbus.DumpState().Connections.Current)
		}))
}

func (e *Exporter) Handler() http.Handler {
	return BasicAuthenticator{
		username: e.Username,
		password: e.Password,
		realm:    e.Realm,
		handler:  promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}),
	}
}

func (e *Exporter) Previewed() {
	e.previewCounter.Inc()
}

// Deleted records the outcome of a single post named in a delete request.
func (e *Exporter) Deleted(outcome string, n int) {
	if n > 0 {
		e.deleteCounter.WithLabelValues(outcome).Add(float64(n))
	}
}

func (e *Exporter) createPostCount(raw interface{}) {
	e.postsGauge.Inc()
	if data, ok := raw.(map[string]interface{}); ok {
		if f, ok := data["file"].(string); ok && f != "" {
			e.filesGauge.Inc()
		}
	}
}

func (e *Exporter) deletePostCount(raw interface{}) {
	data, ok := raw.(map[string]interface{})
	if !ok {
		return
	}
	if n, ok := data["posts"].(float64); ok {
		e.postsGauge.Sub(n)
	}
	if n, ok := data["files"].(float64); ok {
		e.filesGauge.Sub(n)
	}
}

// Watch consumes events from the bus until it is unregistered.
func (e *Exporter) Watch(queues ...string) {
	ch, _, err := e.bus.Register(queues)
	if err != nil {
		log.Errorf("metrics exporter failed to register with the message bus: %s", err)
		return
	}

	for ev := range ch {
		switch ev.Event {
		case bus.CreatePostEvent:
			e.createPostCount(ev.Data)
		case bus.DeletePostEvent, bus.DeleteFileEvent:
			e.deletePostCount(ev.Data)
		default:
			log.Debugf("ignoring event of type `%s'", ev.Event)
		}
	}
}
