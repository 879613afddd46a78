package service

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("github.com/Freeeeeet/agenda_bot/internal/service")
