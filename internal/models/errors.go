package models

// RecoverableError is implemented by enriched errors that carry a stable
// error code, structured context, and a remediation hint. The store and
// dispatch packages both implement it; consumers that only log codes depend
// on this interface to avoid an import cycle.
type RecoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}
