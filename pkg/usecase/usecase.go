package usecase

import (
	"github.com/freightops/carrierwatch/pkg/domain/interfaces"
)

// UseCases bundles the application use cases
type UseCases struct {
	Preview *PreviewUseCase
}

// Option configures UseCases
type Option func(*UseCases)

// WithNotifier enables ops channel notifications on unrecoverable auth
// failures.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.Preview.notifier = notifier
	}
}

// New creates the use cases from their collaborators
func New(api interfaces.CarrierAPI, refresher interfaces.TokenRefresher, responder interfaces.Responder, opts ...Option) *UseCases {
	uc := &UseCases{
		Preview: NewPreviewUseCase(api, refresher, responder),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
