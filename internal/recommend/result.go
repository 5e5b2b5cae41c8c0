// Mercator - Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package recommend

// ResultKind says how a ranking step ended.
type ResultKind int

const (
	// ResultOK means the step produced candidates.
	ResultOK ResultKind = iota
	// ResultEmpty means the step ran cleanly and had nothing to offer
	// (cold start, no purchasers, empty store).
	ResultEmpty
	// ResultParseFailure means an input identifier was malformed.
	ResultParseFailure
	// ResultQueryFailure means a store query failed and the step degraded.
	ResultQueryFailure
)

// String returns a metrics-friendly label.
func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultEmpty:
		return "empty"
	case ResultParseFailure:
		return "parse_failure"
	case ResultQueryFailure:
		return "query_failure"
	default:
		return "unknown"
	}
}

// Outcome is the explicit status of a ranking step. Err is set for the
// failure kinds and carries the classified cause.
type Outcome struct {
	Kind ResultKind
	Err  error
}

// Ranked is a ranking step's output together with its outcome.
type Ranked struct {
	ProductIDs []ProductID
	Outcome    Outcome
}

// OK builds a successful result, or an empty one when ids is empty.
func OK(ids []ProductID) Ranked {
	if len(ids) == 0 {
		return Ranked{ProductIDs: []ProductID{}, Outcome: Outcome{Kind: ResultEmpty}}
	}
	return Ranked{ProductIDs: ids, Outcome: Outcome{Kind: ResultOK}}
}

// Empty builds an empty result.
func Empty() Ranked {
	return Ranked{ProductIDs: []ProductID{}, Outcome: Outcome{Kind: ResultEmpty}}
}

// ParseFailure builds an empty result caused by a malformed identifier.
func ParseFailure(err error) Ranked {
	return Ranked{ProductIDs: []ProductID{}, Outcome: Outcome{Kind: ResultParseFailure, Err: err}}
}

// QueryFailure builds a result for a step whose store query failed. ids may
// hold a degraded substitute ranking.
func QueryFailure(op string, err error, ids []ProductID) Ranked {
	if ids == nil {
		ids = []ProductID{}
	}
	return Ranked{ProductIDs: ids, Outcome: Outcome{Kind: ResultQueryFailure, Err: DataUnavailable(op, err)}}
}
