// Package transcription defines the speech-to-text job model shared by the
// transcription backends and the runner that orchestrates them.
//
// Backends are asynchronous job services: a job is started for one media
// object, polled until it reaches a terminal status, and leaves a result
// document (the JSON shape produced by AWS Transcribe) in object storage.
// Synchronous engines implement the same interface by finishing the job
// inside StartJob.
//
// # Backends
//
//   - transcription/awstranscribe: Amazon Transcribe
//   - transcription/whisper: a faster-whisper HTTP sidecar
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory(awstranscribe.ProviderName, awstranscribe.Factory(store))
//	p, err := reg.GetOrCreate(awstranscribe.ProviderName, map[string]any{"region": "eu-west-1"})
//	job, err := p.StartJob(ctx, transcription.JobRequest{Name: "Aclip01", ...})
package transcription
