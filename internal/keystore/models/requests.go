package models

import (
	"composite/pkg/composite/codec"
	dErrors "composite/pkg/domain-errors"
)

// PutEntryRequest is the body of PUT /v1/entries.
type PutEntryRequest struct {
	Key   codec.Document `json:"key"`
	Value codec.Document `json:"value"`
}

func (r *PutEntryRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if !r.Key.Present() {
		return dErrors.New(dErrors.CodeValidation, "key is required")
	}
	if !r.Value.Present() {
		return dErrors.New(dErrors.CodeValidation, "value is required")
	}
	return nil
}

// KeyRequest is the body of the entry lookup and remove endpoints.
type KeyRequest struct {
	Key codec.Document `json:"key"`
}

func (r *KeyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if !r.Key.Present() {
		return dErrors.New(dErrors.CodeValidation, "key is required")
	}
	return nil
}

// MemberRequest is the body of the set membership endpoints.
type MemberRequest struct {
	Member codec.Document `json:"member"`
}

func (r *MemberRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if !r.Member.Present() {
		return dErrors.New(dErrors.CodeValidation, "member is required")
	}
	return nil
}
