package service

import "context"

// Messenger delivers an outbound task payload to another agent and returns
// its raw text reply. The single suspend point of an assessment.
type Messenger interface {
	Send(ctx context.Context, payload string, endpoint string) (string, error)
}

// StatusReporter receives human-readable progress updates during an
// assessment. Implementations must tolerate being called after the client
// went away.
type StatusReporter interface {
	Update(message string)
}

// Metrics records assessment telemetry.
type Metrics interface {
	RecordAssessment(status, dataset string)
	RecordDiagnostic(check string)
	RecordPurpleLatency(task string, seconds float64)
	RecordRejected()
}
