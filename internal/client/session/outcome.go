package session

// OutcomeKind names the path a login attempt took.
type OutcomeKind string

const (
	// ProviderSuccess: identity provider login and backend token exchange
	// both succeeded.
	ProviderSuccess OutcomeKind = "providerSuccess"
	// ProviderFailureFallbackSuccess: the provider failed and the legacy
	// username/password login succeeded.
	ProviderFailureFallbackSuccess OutcomeKind = "providerFailureFallbackSuccess"
	// BothFailed: the provider and the legacy login failed. Err is the
	// provider's error.
	BothFailed OutcomeKind = "bothFailed"
	// ExchangeFailed: the provider accepted the credentials but the backend
	// refused the identity token. No fallback is attempted.
	ExchangeFailed OutcomeKind = "exchangeFailed"
	// PersistFailed: a login path succeeded but the credential could not be
	// stored, so no session was started.
	PersistFailed OutcomeKind = "persistFailed"
)

// ExchangeFailedMessage is reported for ExchangeFailed outcomes.
const ExchangeFailedMessage = "Login succeeded with identity provider but failed with backend"

// PersistFailedMessage is reported for PersistFailed outcomes.
const PersistFailedMessage = "Login succeeded but the session could not be saved"

// LoginOutcome is the result of Controller.Login.
type LoginOutcome struct {
	Kind OutcomeKind
	// Err is the error to show; nil on success.
	Err error
	// ProviderErr and FallbackErr keep both failures for logging.
	ProviderErr error
	FallbackErr error
}

// OK reports whether the login produced a session.
func (o LoginOutcome) OK() bool {
	return o.Kind == ProviderSuccess || o.Kind == ProviderFailureFallbackSuccess
}

// Message is the text to show the user; empty on success.
func (o LoginOutcome) Message() string {
	switch {
	case o.OK():
		return ""
	case o.Kind == ExchangeFailed:
		return ExchangeFailedMessage
	case o.Kind == PersistFailed:
		return PersistFailedMessage
	case o.Err != nil:
		return o.Err.Error()
	default:
		return "Login failed"
	}
}
