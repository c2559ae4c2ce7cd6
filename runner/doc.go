// Package runner drives a batch of transcription jobs end to end: upload a
// local folder of media, start one job per file, wait for the jobs to
// finish, and download the result documents.
//
// Runner is provider-agnostic. It talks to a transcription.Provider for
// jobs and to a storage.Storage for media and results, so the same flow
// runs against AWS (S3 + Transcribe) or a local whisper sidecar.
//
//	r, err := runner.New(cfg, store, provider, log)
//	n, err := r.UploadFolder(ctx, "./audio")
//	summary, err := r.TranscribeFolder(ctx)
//	paths, err := r.DownloadResults(ctx, "./results", summary.Completed)
package runner
