// Package session signs and sends requests to the claude.ai web API.
//
// # Overview
//
// A Transport carries one browser session key. It is sent on every request
// as the sessionKey cookie, together with a user agent and the headers the
// web app sends, so the API treats the calls like browser traffic.
//
//	t, err := session.New("sk-ant-sid01-...",
//	    session.WithUserAgent(ua),
//	)
//	body, err := t.Do(ctx, http.MethodGet, "/api/organizations", nil)
//
// # Streams
//
// Stream issues the request with Accept: text/event-stream and returns an
// EventStream. Events are read lazily, one per Next call:
//
//	stream, err := t.Stream(ctx, http.MethodPost, "/api/append_message", body)
//	defer stream.Close()
//	for {
//	    ev, err := stream.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
//
// # Errors
//
//   - *ConfigError (ErrConfiguration): bad session key or options, from New
//   - *RequestError (ErrRequestFailed): non-2xx status, with the body
//   - ErrAuthFailed: a *RequestError with status 401 or 403, the usual sign
//     of an expired session key
//   - *StreamError (ErrStream): dropped connection or broken event framing
//
// Requests are never retried.
package session
