// Package identity maps a freshly recognized player name onto a stored
// player or a new one.
//
// Resolution order: an exact stored name wins outright, then the trust
// list, then any decision remembered from earlier in the session. Otherwise
// stored names are scanned most recently seen first for one whose similarity
// falls inside the configured band. A trusted match absorbs the candidate
// silently; an untrusted match is sent to the Reconciler and the matcher
// blocks until a human answers. No match yields a new identity.
package identity
