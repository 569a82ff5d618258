package logging

import (
	"context"
)

const (
	DispatchIDKey  = "dispatch_id"
	EventIDKey     = "event_id"
	ServiceNameKey = "service_name"
)

func WithDispatchID(ctx context.Context, dispatchID string) context.Context {
	return context.WithValue(ctx, DispatchIDKey, dispatchID)
}

func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, EventIDKey, eventID)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, ServiceNameKey, serviceName)
}

func GetDispatchID(ctx context.Context) string {
	if dispatchID, ok := ctx.Value(DispatchIDKey).(string); ok {
		return dispatchID
	}
	return ""
}

func GetEventID(ctx context.Context) string {
	if eventID, ok := ctx.Value(EventIDKey).(string); ok {
		return eventID
	}
	return ""
}

func GetServiceName(ctx context.Context) string {
	if serviceName, ok := ctx.Value(ServiceNameKey).(string); ok {
		return serviceName
	}
	return ""
}

func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 6)

	if dispatchID := GetDispatchID(ctx); dispatchID != "" {
		fields = append(fields, "dispatch_id", dispatchID)
	}

	if eventID := GetEventID(ctx); eventID != "" {
		fields = append(fields, "event_id", eventID)
	}

	if serviceName := GetServiceName(ctx); serviceName != "" {
		fields = append(fields, "service_name", serviceName)
	}

	return fields
}
