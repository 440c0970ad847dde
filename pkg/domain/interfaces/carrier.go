package interfaces

import (
	"context"

	"github.com/freightops/carrierwatch/pkg/domain/model"
)

// CarrierAPI looks up a carrier risk profile by MC/docket number.
// A nil record with nil error means the upstream returned no data for the
// number; that is a normal outcome, not an error.
type CarrierAPI interface {
	PreviewCarrier(ctx context.Context, docketNumber string) (*model.CarrierRecord, error)
}
