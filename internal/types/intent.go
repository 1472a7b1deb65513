package types

import "google.golang.org/protobuf/types/known/structpb"

// IntentResult is the normalized outcome of one intent-detection call.
// Parameters carries the query-level structured parameters;
// ContextParameters carries the parameters of the most recent output
// context, used as a per-field fallback during tour-parameter extraction.
type IntentResult struct {
	FulfillmentText    string
	IntentName         string
	OutputContextNames []string
	Parameters         *structpb.Struct
	ContextParameters  *structpb.Struct
}
