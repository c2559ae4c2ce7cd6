// Package httpclient is a small HTTP client used to talk to self-hosted
// speech sidecars. It adds retry, rate limiting and multipart encoding on
// top of net/http and reports failures as *errors.AppError values so the
// rest of the module can classify them uniformly.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Name:    "whisper",
//	    BaseURL: "http://localhost:9000",
//	    Timeout: 5 * time.Minute,
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/transcribe",
//	    Body: &httpclient.MultipartBody{
//	        Fields: map[string]string{"language": "en"},
//	        Files:  []httpclient.FileField{{FieldName: "audio", FileName: "a.wav", ContentType: "audio/wav", Data: audio}},
//	    },
//	})
package httpclient
