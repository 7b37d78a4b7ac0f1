// Package identity bridges the client to an external identity provider.
//
// FirebaseBridge speaks the Firebase Auth REST API (identitytoolkit for
// sign-up and sign-in, securetoken for refresh). The bridge adds no logic of
// its own beyond translating provider failures into *ProviderError, which the
// session controller relies on when choosing between login paths.
package identity
