package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/ThreeDotsLabs/watermill/message"
)

func Tracer() trace.Tracer {
	return otel.Tracer(ServiceName)
}

// ExtractMessageContext continues the trace carried in the message metadata.
func ExtractMessageContext(msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(msg.Context(), propagation.MapCarrier(msg.Metadata))
}
