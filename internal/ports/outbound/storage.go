package outbound

import "context"

// Keys the session uses in the CredentialStore
const (
	KeyUserToken = "user-token"
	KeyUserEmail = "user-email"
)

// CredentialStore is the device-local key-value store for session values.
// Values are stored as written; the session writes them JSON-serialized,
// so readers must expect quote-wrapped strings.
type CredentialStore interface {
	// Get returns "", false, nil when the key is absent
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
