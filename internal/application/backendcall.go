package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

// emptyBody is sent where the backend expects a JSON object but reads nothing
// from it.
var emptyBody = struct{}{}

// call sends req through the pipeline and decodes the envelope's data field
// into out when out is non-nil. Pipeline errors pass through wrapped so
// callers can still match them with errors.As.
func call(ctx context.Context, backend driven.Backend, op string, req driven.BackendRequest, out any) error {
	resp, err := backend.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if out == nil {
		return nil
	}
	if err := resp.Envelope().DecodeData(out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
