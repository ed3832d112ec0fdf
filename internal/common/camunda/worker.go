// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	"estimation-workers/internal/common/observability"
)

// HandlerFunc is the job callback shape the Zeebe client expects.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Instrument wraps a job handler with a tracing span and coarse job
// metrics keyed by task type. Success/failure granularity stays inside
// the handlers, which see the outcome; this layer only observes that a
// job was picked up and how long handling took.
func Instrument(taskType string, tr *observability.Tracing, obs *observability.Observability, next HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		ctx, span := tr.StartSpan(context.Background(), taskType)
		span.SetAttributes(
			attribute.String("task_type", taskType),
			attribute.Int64("job_key", job.Key),
			attribute.Int64("process_instance_key", job.ProcessInstanceKey),
		)
		defer span.End()

		start := time.Now()
		next(client, job)

		obs.RecordJobProcessed(ctx, taskType)
		obs.RecordJobDuration(ctx, taskType, time.Since(start))
	}
}
