/*
Package observability turns bridge hooks into logs and Prometheus metrics.

Both helpers return domain.Hooks, so they can be combined with Hooks.Merge and
passed to the store, the notifier and the template reactor:

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	hooks := observability.LoggingHooks(logger).Merge(metrics.Hooks())
*/
package observability
