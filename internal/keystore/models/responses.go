package models

import (
	"time"

	"composite/pkg/composite/codec"
)

type PutEntryResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type EntryResponse struct {
	ID        string         `json:"id"`
	Key       codec.Document `json:"key"`
	Value     codec.Document `json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Count   int             `json:"count"`
}

type ClearResponse struct {
	Removed int `json:"removed"`
}

type AddMemberResponse struct {
	Added bool `json:"added"`
}

type ContainsResponse struct {
	Present bool `json:"present"`
}

type SetMembersResponse struct {
	Name    string           `json:"name"`
	Members []codec.Document `json:"members"`
	Count   int              `json:"count"`
}

// ToEntryResponse renders an entry for the API.
func ToEntryResponse(e *Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID.String(),
		Key:       codec.NewDocument(e.Key),
		Value:     codec.NewDocument(e.Value),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ToListEntriesResponse renders entries in the order given.
func ToListEntriesResponse(entries []*Entry) ListEntriesResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToEntryResponse(e))
	}
	return ListEntriesResponse{Entries: out, Count: len(out)}
}

// ToSetMembersResponse renders the members of a set.
func ToSetMembersResponse(name string, members []any) SetMembersResponse {
	out := make([]codec.Document, 0, len(members))
	for _, m := range members {
		out = append(out, codec.NewDocument(m))
	}
	return SetMembersResponse{Name: name, Members: out, Count: len(out)}
}
