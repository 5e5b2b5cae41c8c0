// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

import (
	"errors"
	"strings"
)

// ActorKind tags an ActorKey.
type ActorKind int

const (
	// ActorUser is a registered customer identified by a catalog id.
	ActorUser ActorKind = iota + 1
	// ActorSession is an anonymous browsing session identified by an opaque token.
	ActorSession
)

// String returns the column-style name of the kind.
func (k ActorKind) String() string {
	switch k {
	case ActorUser:
		return "user"
	case ActorSession:
		return "session"
	default:
		return "unknown"
	}
}

// ActorKey identifies the actor being recommended to. Lookups dispatch on
// Kind; the ID is never inspected to guess which kind it is.
type ActorKey struct {
	Kind ActorKind
	ID   string
}

// UserActor returns a user key.
func UserActor(id string) ActorKey {
	return ActorKey{Kind: ActorUser, ID: id}
}

// SessionActor returns a session key.
func SessionActor(token string) ActorKey {
	return ActorKey{Kind: ActorSession, ID: token}
}

// IsZero reports whether the key is unset.
func (a ActorKey) IsZero() bool {
	return a.Kind == 0 || a.ID == ""
}

// String renders the key as "kind:id" for logging and map keys.
func (a ActorKey) String() string {
	return a.Kind.String() + ":" + a.ID
}

var errMalformedID = errors.New("malformed catalog id")

// ResolveActor turns the identifier fields of a request into an ActorKey.
//
// Resolution order:
//   - a well-formed userId (24 hex characters) wins
//   - otherwise a non-empty sessionId is used
//   - a malformed userId with no sessionId yields ResultParseFailure
//   - both empty yields ResultEmpty (anonymous request)
//
// Only the returned Outcome distinguishes the anonymous cases; in both the
// caller receives a nil key and should serve the request anonymously.
func ResolveActor(userID, sessionID string) (*ActorKey, Outcome) {
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)

	var parseErr error
	if userID != "" {
		if isCatalogID(userID) {
			key := UserActor(strings.ToLower(userID))
			return &key, Outcome{Kind: ResultOK}
		}
		parseErr = &Error{Kind: ErrValidation, Op: "resolve actor", Err: errMalformedID}
	}

	if sessionID != "" {
		key := SessionActor(sessionID)
		return &key, Outcome{Kind: ResultOK}
	}

	if parseErr != nil {
		return nil, Outcome{Kind: ResultParseFailure, Err: parseErr}
	}
	return nil, Outcome{Kind: ResultEmpty}
}
