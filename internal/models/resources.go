package models

import "encoding/json"

// BotConfiguration is the top-level configuration resource. Its package
// list holds reference URIs to the packages the bot is composed of.
type BotConfiguration struct {
	Packages []string          `json:"packages"`
	Channels []json.RawMessage `json:"channels,omitempty"`
}

// PackageConfiguration is the mid-level configuration resource. Its
// extensions embed reference URIs to leaf resources; during import the
// package body is handled as opaque text until all embedded references
// have been rewritten, and only then deserialized for submission.
type PackageConfiguration struct {
	PackageExtensions []json.RawMessage `json:"packageExtensions"`
}

// DictionaryConfiguration is a leaf resource holding language words and
// phrases.
type DictionaryConfiguration struct {
	Language string          `json:"language,omitempty"`
	Words    json.RawMessage `json:"words,omitempty"`
	Phrases  json.RawMessage `json:"phrases,omitempty"`
}

// BehaviorConfiguration is a leaf resource holding behavior rule groups.
type BehaviorConfiguration struct {
	BehaviorGroups json.RawMessage `json:"behaviorGroups,omitempty"`
}

// OutputConfiguration is a leaf resource holding an output set.
type OutputConfiguration struct {
	Outputs json.RawMessage `json:"outputs,omitempty"`
}
