/*
Package observability provides tools for monitoring the Tracer engine.

It turns lifecycle hooks into structured log lines and Prometheus metrics:
steps presented and resolved, rejected actions and completed runs with their score.
*/
package observability
