package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MongoLatency is the duration of Mongo queries.
	MongoLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_mongo_latency",
			Help: "Duration of Mongo queries",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// MongoTotalRequests is the total number of Mongo requests.
	MongoTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_mongo_total_requests",
			Help: "Total number of Mongo requests",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// SqlLatency is the duration of SQL queries.
	SqlLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_sql_latency",
			Help: "Duration of SQL queries",
		},
		[]string{"dal", "query", "table"},
	)

	// SqlTotalRequests is the total number of SQL requests.
	SqlTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_sql_total_requests",
			Help: "Total number of SQL requests",
		},
		[]string{"dal", "query", "table"},
	)
)

// ObserveMongo counts a Mongo request and returns a function that records its latency.
func ObserveMongo(dal, query, database, collection string) func() {
	MongoTotalRequests.WithLabelValues(dal, query, database, collection).Inc()
	t := prometheus.NewTimer(MongoLatency.WithLabelValues(dal, query, database, collection))
	return func() { t.ObserveDuration() }
}

// ObserveSql counts a SQL request and returns a function that records its latency.
func ObserveSql(dal, query, table string) func() {
	SqlTotalRequests.WithLabelValues(dal, query, table).Inc()
	t := prometheus.NewTimer(SqlLatency.WithLabelValues(dal, query, table))
	return func() { t.ObserveDuration() }
}
