package models

import "time"

// DocumentDescriptor holds the human-authored metadata of a resource.
// The destination service assigns a fresh, empty descriptor on creation,
// so archived descriptors have to be patched onto new resources explicitly.
type DocumentDescriptor struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedOn    time.Time `json:"createdOn,omitempty"`
	LastModified time.Time `json:"lastModified,omitempty"`
}

// PatchOperation names a descriptor patch operation.
type PatchOperation string

// PatchOperationSet replaces the stored descriptor with the supplied one.
const PatchOperationSet PatchOperation = "SET"

// PatchInstruction is the body of a descriptor patch request.
type PatchInstruction struct {
	Operation PatchOperation     `json:"operation"`
	Document  DocumentDescriptor `json:"document"`
}
