/*
Package observability provides tools for monitoring the calibration workflow.

It includes Prometheus metrics and structured-log auditing, both delivered as
domain.LifecycleHooks, plus Chain to fan one event out to several hook sets.
*/
package observability
