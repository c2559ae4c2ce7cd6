// Package provider implements a small generic provider framework for
// swappable backends.
//
// A Registry maps backend names to factories that build a provider from a
// loosely typed configuration map, and caches the instances it creates. The
// transcription package uses it to choose between the cloud and the
// self-hosted speech-to-text backends at runtime.
//
// # Usage
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("aws", awstranscribe.Factory)
//	p, err := reg.GetOrCreate("aws", map[string]any{"region": "eu-west-1"})
package provider
