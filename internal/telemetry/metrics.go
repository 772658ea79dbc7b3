package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/ndrweb"
)

// Login results recorded on ndrweb.logins.total.
const (
	LoginSuccess     = "success"
	LoginFailure     = "failure"
	LoginRateLimited = "rate_limited"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Authentication metrics
	LoginsTotal     metric.Int64Counter
	LogoutsTotal    metric.Int64Counter
	SessionsCreated metric.Int64Counter

	// Authorization metrics
	ACLDeniedTotal metric.Int64Counter

	// Maintenance metrics
	SessionsExpiredDeleted metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// RecordLogin counts a login attempt by result.
func (m *Metrics) RecordLogin(ctx context.Context, result string) {
	m.LoginsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordACLDenied counts a rejected permission check.
func (m *Metrics) RecordACLDenied(ctx context.Context, permission string) {
	m.ACLDeniedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("permission", permission)))
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.LoginsTotal, _ = meter.Int64Counter(
		"ndrweb.logins.total",
		metric.WithDescription("Total number of login attempts by result"),
		metric.WithUnit("{attempt}"),
	)

	m.LogoutsTotal, _ = meter.Int64Counter(
		"ndrweb.logouts.total",
		metric.WithDescription("Total number of logouts"),
		metric.WithUnit("{logout}"),
	)

	m.SessionsCreated, _ = meter.Int64Counter(
		"ndrweb.sessions.created.total",
		metric.WithDescription("Total number of server-side sessions created"),
		metric.WithUnit("{session}"),
	)

	m.ACLDeniedTotal, _ = meter.Int64Counter(
		"ndrweb.acl.denied.total",
		metric.WithDescription("Total number of permission checks that were denied"),
		metric.WithUnit("{check}"),
	)

	m.SessionsExpiredDeleted, _ = meter.Int64Counter(
		"ndrweb.sessions.expired_deleted.total",
		metric.WithDescription("Total number of expired sessions removed by the cleanup job"),
		metric.WithUnit("{session}"),
	)

	return m
}
