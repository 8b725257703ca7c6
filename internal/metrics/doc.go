// Package metrics records the work and outcome of a simulation run as
// Prometheus gauges. The recorder owns a private registry, so runs never
// touch the global default registry, and writes it in the node-exporter
// textfile format.
package metrics
